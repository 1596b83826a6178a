// Package session serializes graph documents to and from JSON.
//
// A session captures everything needed to rebuild a graph: nodes with
// their properties and port declarations, the connection relation as a
// flat link list, and the view state. The format is designed for
// round-trip fidelity: save → load → save produces identical output.
//
// Loading is a non-undoable bulk operation. It mutates a fresh graph
// directly, bypassing the command machinery; hosts clear their undo
// history after a load.
package session

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// Document is the canonical serialization format for a graph session.
type Document struct {
	Nodes []NodeDoc `json:"nodes"`
	Links []LinkDoc `json:"links"`
	View  ViewDoc   `json:"view"`
}

// NodeDoc serializes one node with its properties and port declarations.
type NodeDoc struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	Pos        [2]float64     `json:"pos"`
	Properties map[string]any `json:"properties,omitempty"`
	Inputs     []PortDoc      `json:"inputs,omitempty"`
	Outputs    []PortDoc      `json:"outputs,omitempty"`
}

// PortDoc serializes a port declaration. Connections are not recorded
// here; they live in the document's link list.
type PortDoc struct {
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
}

// LinkDoc serializes one connection, always from an output port to an
// input port.
type LinkDoc struct {
	FromNode string `json:"from_node"`
	FromPort string `json:"from_port"`
	ToNode   string `json:"to_node"`
	ToPort   string `json:"to_port"`
}

// ViewDoc serializes graph view state.
type ViewDoc struct {
	PipeStyle string  `json:"pipe_style"`
	Zoom      float64 `json:"zoom"`
	Grid      bool    `json:"grid"`
}

// FromGraph converts a graph to its serialization format. Nodes are
// sorted by ID and each connection appears exactly once (walked from the
// output side), so output is deterministic.
func FromGraph(g *model.Graph) (Document, error) {
	doc := Document{
		View: ViewDoc{
			PipeStyle: g.PipeStyle().String(),
			Zoom:      g.Zoom(),
			Grid:      g.GridVisible(),
		},
	}

	for _, n := range g.Nodes() {
		nd := NodeDoc{
			ID:   n.ID,
			Name: n.Name,
			Pos:  [2]float64(n.Pos()),
		}
		for name, value := range n.Properties {
			if name == model.PropPos {
				continue
			}
			if nd.Properties == nil {
				nd.Properties = make(map[string]any)
			}
			nd.Properties[name] = value
		}
		for _, p := range n.Inputs {
			nd.Inputs = append(nd.Inputs, PortDoc{Name: p.Name, Visible: p.Visible})
		}
		for _, p := range n.Outputs {
			nd.Outputs = append(nd.Outputs, PortDoc{Name: p.Name, Visible: p.Visible})
			peers, err := g.ConnectedPorts(p)
			if err != nil {
				return Document{}, fmt.Errorf("node %s port %s: %w", n.ID, p.Name, err)
			}
			for _, peer := range peers {
				doc.Links = append(doc.Links, LinkDoc{
					FromNode: n.ID,
					FromPort: p.Name,
					ToNode:   peer.NodeID,
					ToPort:   peer.Name,
				})
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	slices.SortFunc(doc.Links, func(a, b LinkDoc) int {
		if c := strings.Compare(a.FromNode, b.FromNode); c != 0 {
			return c
		}
		if c := strings.Compare(a.FromPort, b.FromPort); c != 0 {
			return c
		}
		if c := strings.Compare(a.ToNode, b.ToNode); c != 0 {
			return c
		}
		return strings.Compare(a.ToPort, b.ToPort)
	})

	return doc, nil
}

// ToGraph rebuilds a graph from a document. This is a bulk import: the
// graph is populated through direct model mutation, not through
// commands, so nothing about the load lands in undo history.
func ToGraph(doc Document) (*model.Graph, error) {
	g := model.New()
	g.SetPipeStyle(parsePipeStyle(doc.View.PipeStyle))
	if doc.View.Zoom != 0 {
		g.SetZoom(doc.View.Zoom)
	}
	g.SetGridVisible(doc.View.Grid)

	for _, nd := range doc.Nodes {
		n := &model.Node{
			ID:         nd.ID,
			Name:       nd.Name,
			Properties: map[string]any{model.PropPos: model.Position(nd.Pos)},
		}
		for name, value := range nd.Properties {
			n.Properties[name] = value
		}
		for _, pd := range nd.Inputs {
			n.AddInput(pd.Name).Visible = pd.Visible
		}
		for _, pd := range nd.Outputs {
			n.AddOutput(pd.Name).Visible = pd.Visible
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", nd.ID, err)
		}
	}

	for _, l := range doc.Links {
		src, err := g.Port(l.FromNode, model.Out, l.FromPort)
		if err != nil {
			return nil, fmt.Errorf("link %s.%s→%s.%s: %w", l.FromNode, l.FromPort, l.ToNode, l.ToPort, err)
		}
		dst, err := g.Port(l.ToNode, model.In, l.ToPort)
		if err != nil {
			return nil, fmt.Errorf("link %s.%s→%s.%s: %w", l.FromNode, l.FromPort, l.ToNode, l.ToPort, err)
		}
		if err := g.Connect(src, dst); err != nil {
			return nil, fmt.Errorf("link %s.%s→%s.%s: %w", l.FromNode, l.FromPort, l.ToNode, l.ToPort, err)
		}
	}

	return g, nil
}

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *model.Graph) ([]byte, error) {
	doc, err := FromGraph(g)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// Unmarshal decodes JSON bytes into a graph.
func Unmarshal(data []byte) (*model.Graph, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

func parsePipeStyle(s string) model.PipeStyle {
	switch s {
	case "straight":
		return model.PipeStraight
	case "angled":
		return model.PipeAngled
	default:
		return model.PipeCurved
	}
}
