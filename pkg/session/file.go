package session

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// Write serializes the graph as indented JSON to w.
func Write(g *model.Graph, w io.Writer) error {
	doc, err := FromGraph(g)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile saves the graph to a session file.
// The file is created with 0644 permissions.
func WriteFile(g *model.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes a session from r and rebuilds the graph.
func Read(r io.Reader) (*model.Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// ReadFile loads a session file and rebuilds the graph.
func ReadFile(path string) (*model.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
