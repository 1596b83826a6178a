package command

import (
	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// AddNode inserts a node into the graph. The optional position overrides
// the node's own recorded position for the initial render; when no
// position was supplied, undo remembers the node's position at that
// moment so a later redo still has a position to use.
type AddNode struct {
	graph *model.Graph
	sync  ViewSync
	node  *model.Node
	pos   *model.Position
}

// NewAddNode builds a node insertion. pos may be nil to use the node's
// own pos property.
func NewAddNode(g *model.Graph, sync ViewSync, node *model.Node, pos *model.Position) *AddNode {
	return &AddNode{graph: g, sync: sync, node: node, pos: pos}
}

// Execute inserts the node and notifies the view of where to render it.
func (c *AddNode) Execute() error {
	if err := c.graph.AddNode(c.node); err != nil {
		return err
	}
	pos := c.node.Pos()
	if c.pos != nil {
		pos = *c.pos
	}
	c.sync.NodeAdded(c.node, pos)
	return nil
}

// Undo removes the node again, capturing its current position first if
// none was supplied at construction.
func (c *AddNode) Undo() error {
	if c.pos == nil {
		pos := c.node.Pos()
		c.pos = &pos
	}
	if err := c.graph.RemoveNode(c.node.ID); err != nil {
		return err
	}
	c.sync.NodeRemoved(c.node)
	return nil
}

// Label returns "added node".
func (c *AddNode) Label() string { return "added node" }

// portLink is one captured connection of a removed node: a is a port on
// the removed node, b its peer. The snapshot is deep in the sense that
// the pair list is copied out of the live connection sets at
// construction, so later edits cannot retroactively change what undo
// restores.
type portLink struct {
	a, b *model.Port
}

// RemoveNode deletes a node together with all of its connections.
// Construction snapshots, for every input and output port, the full list
// of currently connected peer ports. Execute disconnects every captured
// pair (mutating both endpoints) before removing the node; Undo
// re-inserts the node and reconnects the pairs in the recorded order.
type RemoveNode struct {
	graph *model.Graph
	sync  ViewSync
	node  *model.Node
	links []portLink
}

// NewRemoveNode builds a node removal, snapshotting the node's current
// connections. Returns an error if a connection entry references a node
// or port no longer present in the graph.
func NewRemoveNode(g *model.Graph, sync ViewSync, node *model.Node) (*RemoveNode, error) {
	c := &RemoveNode{graph: g, sync: sync, node: node}
	for _, ports := range [][]*model.Port{node.Inputs, node.Outputs} {
		for _, p := range ports {
			peers, err := g.ConnectedPorts(p)
			if err != nil {
				return nil, err
			}
			for _, peer := range peers {
				c.links = append(c.links, portLink{a: p, b: peer})
			}
		}
	}
	return c, nil
}

// Execute disconnects every captured pair, then removes the node.
func (c *RemoveNode) Execute() error {
	for _, l := range c.links {
		if err := c.graph.Disconnect(l.a, l.b); err != nil {
			return err
		}
		c.sync.PortsDisconnected(l.a, l.b)
	}
	if err := c.graph.RemoveNode(c.node.ID); err != nil {
		return err
	}
	c.sync.NodeRemoved(c.node)
	return nil
}

// Undo re-inserts the node and restores every captured connection.
// Reconnection order matches the recorded order; since Connect is
// idempotent under the symmetry invariant, replays are safe.
func (c *RemoveNode) Undo() error {
	if err := c.graph.AddNode(c.node); err != nil {
		return err
	}
	c.sync.NodeAdded(c.node, c.node.Pos())
	for _, l := range c.links {
		if err := c.graph.Connect(l.a, l.b); err != nil {
			return err
		}
		c.sync.PortsConnected(l.a, l.b)
	}
	return nil
}

// Label returns "deleted node".
func (c *RemoveNode) Label() string { return "deleted node" }
