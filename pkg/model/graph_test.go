package model

import (
	"errors"
	"testing"
)

// buildPair creates a graph with two nodes: "a" with an output port
// "out", and "b" with an input port "in".
func buildPair(t *testing.T) (*Graph, *Port, *Port) {
	t.Helper()
	g := New()

	a := &Node{ID: "a", Name: "A", Properties: map[string]any{}}
	out := a.AddOutput("out")
	b := &Node{ID: "b", Name: "B", Properties: map[string]any{}}
	in := b.AddInput("in")

	if err := g.AddNode(a); err != nil {
		t.Fatalf("AddNode(a): %v", err)
	}
	if err := g.AddNode(b); err != nil {
		t.Fatalf("AddNode(b): %v", err)
	}
	return g, out, in
}

func TestAddNode(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{"Valid", &Node{ID: "x"}, nil},
		{"EmptyID", &Node{}, ErrInvalidNodeID},
		{"Duplicate", &Node{ID: "a"}, ErrDuplicateNodeID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := buildPair(t)
			err := g.AddNode(tt.node)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddNodeInitializesProperties(t *testing.T) {
	g := New()
	n := &Node{ID: "x"}
	if err := g.AddNode(n); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.Properties == nil {
		t.Fatal("Properties not initialized")
	}
	if n.Pos() != (Position{0, 0}) {
		t.Errorf("Pos() = %v, want origin", n.Pos())
	}
}

func TestRemoveNode(t *testing.T) {
	g, _, _ := buildPair(t)

	if err := g.RemoveNode("a"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if _, ok := g.Node("a"); ok {
		t.Error("node a still present after removal")
	}
	if err := g.RemoveNode("a"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("RemoveNode(missing) error = %v, want ErrUnknownNode", err)
	}
}

func TestConnectSymmetry(t *testing.T) {
	g, out, in := buildPair(t)

	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if !out.ConnectedTo("b", "in") {
		t.Error("output does not list input peer")
	}
	if !in.ConnectedTo("a", "out") {
		t.Error("input does not list output peer")
	}
}

func TestConnectIdempotent(t *testing.T) {
	g, out, in := buildPair(t)

	for range 3 {
		if err := g.Connect(out, in); err != nil {
			t.Fatalf("Connect: %v", err)
		}
	}

	if got := out.ConnectionCount(); got != 1 {
		t.Errorf("output connections = %d, want 1", got)
	}
	if got := in.ConnectionCount(); got != 1 {
		t.Errorf("input connections = %d, want 1", got)
	}
}

func TestConnectUnknownPeerNoMutation(t *testing.T) {
	g, out, _ := buildPair(t)

	stray := &Port{NodeID: "ghost", Name: "in", Direction: In, Connections: map[string][]string{}}
	if err := g.Connect(out, stray); !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("Connect(stray) error = %v, want ErrUnknownNode", err)
	}
	if got := out.ConnectionCount(); got != 0 {
		t.Errorf("output mutated on failed connect: %d connections", got)
	}
}

func TestDisconnect(t *testing.T) {
	g, out, in := buildPair(t)

	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Disconnect(out, in); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	if out.ConnectedTo("b", "in") || in.ConnectedTo("a", "out") {
		t.Error("connection survives disconnect")
	}

	// Exhausted peer keys are pruned by value, not left as stale empties.
	if _, ok := out.Connections["b"]; ok {
		t.Error("empty connection-set key not pruned on output")
	}
	if _, ok := in.Connections["a"]; ok {
		t.Error("empty connection-set key not pruned on input")
	}
}

func TestDisconnectAlreadyDisconnected(t *testing.T) {
	g, out, in := buildPair(t)

	// Never an error, no matter how often the pair is torn down.
	for range 2 {
		if err := g.Disconnect(out, in); err != nil {
			t.Fatalf("Disconnect: %v", err)
		}
	}
}

func TestDisconnectKeepsOtherConnections(t *testing.T) {
	g, out, in := buildPair(t)

	b, _ := g.Node("b")
	in2 := b.AddInput("in2")

	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Connect(out, in2); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Disconnect(out, in); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}

	if !out.ConnectedTo("b", "in2") {
		t.Error("unrelated connection removed")
	}
	if _, ok := out.Connections["b"]; !ok {
		t.Error("peer key pruned while names remain")
	}
}

func TestConnectedPorts(t *testing.T) {
	g, out, in := buildPair(t)

	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	peers, err := g.ConnectedPorts(out)
	if err != nil {
		t.Fatalf("ConnectedPorts: %v", err)
	}
	if len(peers) != 1 || peers[0] != in {
		t.Errorf("ConnectedPorts = %v, want [in]", peers)
	}
}

func TestConnectedPortsStalePeer(t *testing.T) {
	g, out, in := buildPair(t)

	if err := g.Connect(out, in); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.RemoveNode("b"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}

	if _, err := g.ConnectedPorts(out); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("ConnectedPorts with stale peer error = %v, want ErrUnknownNode", err)
	}
}

func TestProperties(t *testing.T) {
	g, _, _ := buildPair(t)

	if err := g.SetProperty("a", "color", "red"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	v, err := g.Property("a", "color")
	if err != nil {
		t.Fatalf("Property: %v", err)
	}
	if v != "red" {
		t.Errorf("Property = %v, want red", v)
	}

	if err := g.SetProperty("ghost", "color", "red"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("SetProperty(ghost) error = %v, want ErrUnknownNode", err)
	}
	if _, err := g.Property("ghost", "color"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Property(ghost) error = %v, want ErrUnknownNode", err)
	}
}

func TestPortLookup(t *testing.T) {
	g, _, _ := buildPair(t)

	if _, err := g.Port("a", Out, "out"); err != nil {
		t.Errorf("Port(a.out): %v", err)
	}
	if _, err := g.Port("a", In, "out"); !errors.Is(err, ErrUnknownPort) {
		t.Errorf("Port wrong direction error = %v, want ErrUnknownPort", err)
	}
	if _, err := g.Port("ghost", Out, "out"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Port unknown node error = %v, want ErrUnknownNode", err)
	}
}

func TestNewNode(t *testing.T) {
	n := NewNode("Blur")
	if n.ID == "" {
		t.Error("NewNode assigned empty ID")
	}
	if n.Name != "Blur" {
		t.Errorf("Name = %q, want Blur", n.Name)
	}
	if NewNode("Blur").ID == n.ID {
		t.Error("two nodes share an ID")
	}
}

func TestZoomClamped(t *testing.T) {
	g := New()
	g.SetZoom(10)
	if g.Zoom() != ZoomMax {
		t.Errorf("Zoom = %v, want clamped to %v", g.Zoom(), ZoomMax)
	}
	g.SetZoom(-10)
	if g.Zoom() != ZoomMin {
		t.Errorf("Zoom = %v, want clamped to %v", g.Zoom(), ZoomMin)
	}
}

func TestNodesSorted(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		if err := g.AddNode(&Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	nodes := g.Nodes()
	for i, want := range []string{"a", "b", "c"} {
		if nodes[i].ID != want {
			t.Errorf("Nodes()[%d] = %s, want %s", i, nodes[i].ID, want)
		}
	}
}
