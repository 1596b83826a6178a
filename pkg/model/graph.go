package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with
	// the same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an operation references a node ID
	// absent from the graph. This is a precondition violation: the caller
	// holds a reference built against a stale graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned when a port lookup names a port that does
	// not exist on its node.
	ErrUnknownPort = errors.New("unknown port")
)

// PipeStyle selects how connection pipes are drawn by a rendering host.
// The style is carried as graph view state and has no effect on the
// connection relation itself.
type PipeStyle int

const (
	PipeCurved PipeStyle = iota
	PipeStraight
	PipeAngled
)

// String returns the style name used in session files and DOT output.
func (s PipeStyle) String() string {
	switch s {
	case PipeStraight:
		return "straight"
	case PipeAngled:
		return "angled"
	default:
		return "curved"
	}
}

// Zoom limits carried over from the interactive viewer.
const (
	ZoomMin = -0.95
	ZoomMax = 2.0
)

// Graph is the single shared mutable structure holding all nodes and the
// connection relation, plus view state (pipe style, zoom, grid flag) that
// rendering hosts read but the core otherwise ignores.
//
// Graph is not safe for concurrent use. Undoable mutation goes through
// the command package; direct calls to the mutating methods here bypass
// undo history and are intended for non-undoable bulk operations such as
// session load.
type Graph struct {
	nodes map[string]*Node

	pipeStyle   PipeStyle
	zoom        float64
	gridVisible bool
}

// New creates an empty graph with default view state.
func New() *Graph {
	return &Graph{
		nodes:       make(map[string]*Node),
		pipeStyle:   PipeCurved,
		zoom:        1.0,
		gridVisible: true,
	}
}

// AddNode inserts a node into the graph.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the
// ID is already present. The node's property map is initialized if nil.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Properties == nil {
		n.Properties = map[string]any{PropPos: Position{0, 0}}
	}
	g.nodes[n.ID] = n
	return nil
}

// RemoveNode deletes the node from the graph's node mapping.
//
// RemoveNode does not touch the connection sets of peers; undoable node
// removal disconnects every port pair first (see the command package).
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	delete(g.nodes, id)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID for deterministic iteration.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// NodeOf resolves a port back to its owning node.
func (g *Graph) NodeOf(p *Port) (*Node, error) {
	n, ok := g.nodes[p.NodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, p.NodeID)
	}
	return n, nil
}

// Port looks up a port by node ID, direction, and name.
func (g *Graph) Port(nodeID string, dir Direction, name string) (*Port, error) {
	n, ok := g.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	p, ok := n.Port(dir, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s (%s)", ErrUnknownPort, nodeID, name, dir)
	}
	return p, nil
}

// SetProperty sets a named property on a node.
func (g *Graph) SetProperty(id, name string, value any) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Properties[name] = value
	return nil
}

// Property reads a named property from a node.
func (g *Graph) Property(id, name string) (any, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n.Properties[name], nil
}

// SetPosition updates the node's reserved pos property.
func (g *Graph) SetPosition(id string, pos Position) error {
	return g.SetProperty(id, PropPos, pos)
}

// InputPorts returns the node's input ports in declaration order.
func (g *Graph) InputPorts(id string) ([]*Port, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n.Inputs, nil
}

// OutputPorts returns the node's output ports in declaration order.
func (g *Graph) OutputPorts(id string) ([]*Port, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n.Outputs, nil
}

// Connect records the symmetric connection between two ports, appending
// each port's name to the other's connection set. Both owning nodes must
// exist in the graph; if either lookup fails no mutation occurs.
//
// Connecting an already-connected pair is a no-op, which keeps replayed
// connects (undo of a node removal, redo of a link) from duplicating
// entries.
func (g *Graph) Connect(a, b *Port) error {
	if _, ok := g.nodes[a.NodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, a.NodeID)
	}
	if _, ok := g.nodes[b.NodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, b.NodeID)
	}
	if a.ConnectedTo(b.NodeID, b.Name) && b.ConnectedTo(a.NodeID, a.Name) {
		return nil
	}
	appendConnection(a, b)
	appendConnection(b, a)
	return nil
}

// Disconnect removes the symmetric connection between two ports.
// Removing a name that is already absent is a no-op on that endpoint, so
// tearing down an already-disconnected pair never fails. A peer node ID
// whose name list becomes empty is pruned from the connection set.
func (g *Graph) Disconnect(a, b *Port) error {
	if _, ok := g.nodes[a.NodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, a.NodeID)
	}
	if _, ok := g.nodes[b.NodeID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, b.NodeID)
	}
	removeConnection(a, b)
	removeConnection(b, a)
	return nil
}

// ConnectedPorts resolves every peer entry in the port's connection set
// to a live port, in recorded order. A peer entry naming a node or port
// absent from the graph is a precondition violation and returns an error.
func (g *Graph) ConnectedPorts(p *Port) ([]*Port, error) {
	peerDir := In
	if p.Direction == In {
		peerDir = Out
	}
	var peers []*Port
	for _, peerID := range slices.Sorted(maps.Keys(p.Connections)) {
		for _, name := range p.Connections[peerID] {
			peer, err := g.Port(peerID, peerDir, name)
			if err != nil {
				return nil, err
			}
			peers = append(peers, peer)
		}
	}
	return peers, nil
}

// SetPortVisible sets the port's visibility flag.
func (g *Graph) SetPortVisible(p *Port, visible bool) {
	p.Visible = visible
}

// PipeStyle returns the current pipe drawing style.
func (g *Graph) PipeStyle() PipeStyle { return g.pipeStyle }

// SetPipeStyle updates the pipe drawing style.
func (g *Graph) SetPipeStyle(s PipeStyle) { g.pipeStyle = s }

// Zoom returns the current zoom level.
func (g *Graph) Zoom() float64 { return g.zoom }

// SetZoom sets the zoom level, clamped to [ZoomMin, ZoomMax].
func (g *Graph) SetZoom(z float64) {
	g.zoom = min(max(z, ZoomMin), ZoomMax)
}

// GridVisible reports whether the background grid is shown.
func (g *Graph) GridVisible() bool { return g.gridVisible }

// SetGridVisible toggles the background grid flag.
func (g *Graph) SetGridVisible(v bool) { g.gridVisible = v }

func appendConnection(p, peer *Port) {
	if !p.ConnectedTo(peer.NodeID, peer.Name) {
		p.Connections[peer.NodeID] = append(p.Connections[peer.NodeID], peer.Name)
	}
}

func removeConnection(p, peer *Port) {
	names, ok := p.Connections[peer.NodeID]
	if !ok {
		return
	}
	names = slices.DeleteFunc(names, func(s string) bool { return s == peer.Name })
	if len(names) == 0 {
		delete(p.Connections, peer.NodeID)
		return
	}
	p.Connections[peer.NodeID] = names
}
