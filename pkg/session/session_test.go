package session

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// buildGraph creates a small two-node graph with one connection, a
// custom property, a hidden port, and non-default view state.
func buildGraph(t *testing.T) *model.Graph {
	t.Helper()
	g := model.New()

	a := &model.Node{ID: "a", Name: "Source", Properties: map[string]any{"gain": 0.5}}
	out := a.AddOutput("out")
	spare := a.AddOutput("spare")
	spare.Visible = false

	b := &model.Node{ID: "b", Name: "Sink", Properties: map[string]any{}}
	in := b.AddInput("in")

	if err := g.AddNode(a); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(b); err != nil {
		t.Fatalf("AddNode(b): %v", err)
	}
	if err := g.SetPosition("a", model.Position{10, 20}); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	g.SetPipeStyle(model.PipeAngled)
	g.SetZoom(1.5)
	g.SetGridVisible(true)
	return g
}

func TestRoundTrip(t *testing.T) {
	g := buildGraph(t)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	loaded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	a, ok := loaded.Node("a")
	if !ok {
		t.Fatal("node a missing after round trip")
	}
	if a.Name != "Source" {
		t.Errorf("Name = %q, want Source", a.Name)
	}
	if a.Pos() != (model.Position{10, 20}) {
		t.Errorf("Pos = %v, want 10,20", a.Pos())
	}
	if a.Properties["gain"] != 0.5 {
		t.Errorf("gain = %v, want 0.5", a.Properties["gain"])
	}
	spare, ok := a.Output("spare")
	if !ok || spare.Visible {
		t.Error("hidden port not restored as hidden")
	}

	out, ok := a.Output("out")
	if !ok || !out.ConnectedTo("b", "in") {
		t.Error("connection not restored on output side")
	}
	b, _ := loaded.Node("b")
	in, ok := b.Input("in")
	if !ok || !in.ConnectedTo("a", "out") {
		t.Error("connection not restored symmetrically")
	}

	if loaded.PipeStyle() != model.PipeAngled {
		t.Errorf("PipeStyle = %v, want angled", loaded.PipeStyle())
	}
	if loaded.Zoom() != 1.5 {
		t.Errorf("Zoom = %v, want 1.5", loaded.Zoom())
	}
	if !loaded.GridVisible() {
		t.Error("grid visibility lost")
	}
}

func TestSaveIsDeterministic(t *testing.T) {
	g := buildGraph(t)

	first, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	loaded, err := Unmarshal(first)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	second, err := Marshal(loaded)
	if err != nil {
		t.Fatalf("Marshal after load: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("save/load/save not stable:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestLinksRecordedOnce(t *testing.T) {
	g := buildGraph(t)

	doc, err := FromGraph(g)
	if err != nil {
		t.Fatalf("FromGraph: %v", err)
	}
	if len(doc.Links) != 1 {
		t.Fatalf("Links = %v, want exactly one", doc.Links)
	}
	l := doc.Links[0]
	if l.FromNode != "a" || l.FromPort != "out" || l.ToNode != "b" || l.ToPort != "in" {
		t.Errorf("link = %+v, want a.out -> b.in", l)
	}
}

func TestFileRoundTrip(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "session.json")

	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	loaded, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if loaded.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", loaded.NodeCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("ReadFile(missing) succeeded, want error")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotJSON", "{nope"},
		{"DuplicateNode", `{"nodes":[{"id":"a"},{"id":"a"}]}`},
		{"LinkUnknownNode", `{"nodes":[{"id":"a","outputs":[{"name":"out"}]}],"links":[{"from_node":"a","from_port":"out","to_node":"ghost","to_port":"in"}]}`},
		{"LinkUnknownPort", `{"nodes":[{"id":"a","outputs":[{"name":"out"}]},{"id":"b"}],"links":[{"from_node":"a","from_port":"out","to_node":"b","to_port":"in"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Unmarshal([]byte(tt.data)); err == nil {
				t.Error("Unmarshal succeeded, want error")
			}
		})
	}
}

func TestUnmarshalEmptyDocument(t *testing.T) {
	g, err := Unmarshal([]byte(`{}`))
	if err != nil {
		t.Fatalf("Unmarshal({}): %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", g.NodeCount())
	}
	// Absent view state falls back to defaults.
	if g.PipeStyle() != model.PipeCurved {
		t.Errorf("PipeStyle = %v, want curved default", g.PipeStyle())
	}
}

func TestParsePipeStyle(t *testing.T) {
	tests := []struct {
		in   string
		want model.PipeStyle
	}{
		{"curved", model.PipeCurved},
		{"straight", model.PipeStraight},
		{"angled", model.PipeAngled},
		{"", model.PipeCurved},
		{"bogus", model.PipeCurved},
	}
	for _, tt := range tests {
		if got := parsePipeStyle(tt.in); got != tt.want {
			t.Errorf("parsePipeStyle(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteEndsWithNewline(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(model.New(), &buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("encoded session missing trailing newline")
	}
}
