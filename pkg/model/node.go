package model

import (
	"slices"

	"github.com/google/uuid"
)

// Direction distinguishes input ports from output ports.
type Direction int

const (
	// In marks a port that receives connections from upstream outputs.
	In Direction = iota
	// Out marks a port that feeds downstream inputs.
	Out
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// PropPos is the reserved property holding a node's position as two floats.
// It is present on every node from creation.
const PropPos = "pos"

// Position is an x/y coordinate pair in scene units.
type Position [2]float64

// Port is a directional attachment point on a node.
//
// A port belongs to exactly one node, identified by NodeID. Connections
// holds the peer side of the symmetric connection relation: peer node ID
// to the ordered list of peer port names currently connected to this port.
// Connections is mutated only through [Graph.Connect] and
// [Graph.Disconnect], which keep both endpoints in sync.
type Port struct {
	NodeID      string
	Name        string
	Direction   Direction
	Visible     bool
	Connections map[string][]string
}

// ConnectedTo reports whether this port lists the named peer port.
func (p *Port) ConnectedTo(nodeID, portName string) bool {
	return slices.Contains(p.Connections[nodeID], portName)
}

// ConnectionCount returns the total number of peer ports connected to p.
func (p *Port) ConnectionCount() int {
	total := 0
	for _, names := range p.Connections {
		total += len(names)
	}
	return total
}

// Node is a graph vertex owning named properties and ordered input and
// output ports. The ID is assigned at creation and never reused.
//
// The zero value is not usable; use [NewNode] or populate ID, Properties,
// and ports explicitly (as the session loader does).
type Node struct {
	ID         string
	Name       string
	Properties map[string]any
	Inputs     []*Port
	Outputs    []*Port
}

// NewNode creates a node with a fresh unique ID, the given display name,
// and the reserved pos property initialized to the origin.
func NewNode(name string) *Node {
	return &Node{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: map[string]any{PropPos: Position{0, 0}},
	}
}

// AddInput appends a new visible input port and returns it.
// Port names must be unique among a node's inputs; AddInput does not
// check this, callers building nodes are expected to pick distinct names.
func (n *Node) AddInput(name string) *Port {
	p := &Port{
		NodeID:      n.ID,
		Name:        name,
		Direction:   In,
		Visible:     true,
		Connections: map[string][]string{},
	}
	n.Inputs = append(n.Inputs, p)
	return p
}

// AddOutput appends a new visible output port and returns it.
func (n *Node) AddOutput(name string) *Port {
	p := &Port{
		NodeID:      n.ID,
		Name:        name,
		Direction:   Out,
		Visible:     true,
		Connections: map[string][]string{},
	}
	n.Outputs = append(n.Outputs, p)
	return p
}

// Input returns the input port with the given name.
func (n *Node) Input(name string) (*Port, bool) {
	return findPort(n.Inputs, name)
}

// Output returns the output port with the given name.
func (n *Node) Output(name string) (*Port, bool) {
	return findPort(n.Outputs, name)
}

// Port returns the port with the given direction and name.
func (n *Node) Port(dir Direction, name string) (*Port, bool) {
	if dir == In {
		return n.Input(name)
	}
	return n.Output(name)
}

// Pos returns the node's position from the reserved pos property.
// A node whose pos property was never set reports the origin.
func (n *Node) Pos() Position {
	if pos, ok := n.Properties[PropPos].(Position); ok {
		return pos
	}
	return Position{0, 0}
}

func findPort(ports []*Port, name string) (*Port, bool) {
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}
