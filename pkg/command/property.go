package command

import (
	"fmt"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// SetProperty changes one named property on a node. The old value is
// captured by a snapshot read at construction time; if the old and new
// values are already equal the command is a complete no-op on both
// execute and undo.
type SetProperty struct {
	graph    *model.Graph
	sync     ViewSync
	node     *model.Node
	name     string
	oldValue any
	newValue any
}

// NewSetProperty builds a property change for the given node. The
// current property value is snapshotted immediately.
func NewSetProperty(g *model.Graph, sync ViewSync, node *model.Node, name string, value any) *SetProperty {
	return &SetProperty{
		graph:    g,
		sync:     sync,
		node:     node,
		name:     name,
		oldValue: node.Properties[name],
		newValue: value,
	}
}

// Execute sets the property to the new value.
func (c *SetProperty) Execute() error { return c.apply(c.newValue) }

// Undo restores the captured old value.
func (c *SetProperty) Undo() error { return c.apply(c.oldValue) }

// Label returns `property "node:name"`.
func (c *SetProperty) Label() string {
	return fmt.Sprintf("property %q", c.node.Name+":"+c.name)
}

func (c *SetProperty) apply(value any) error {
	if valuesEqual(c.oldValue, c.newValue) {
		return nil
	}
	if err := c.graph.SetProperty(c.node.ID, c.name, value); err != nil {
		return err
	}
	c.notify(value)
	return nil
}

// notify suppresses the PropertyChanged call when the originating widget
// already shows the target value, preventing a signal feedback loop when
// the notification source is itself a UI control.
func (c *SetProperty) notify(value any) {
	if mirror, ok := c.sync.(PropertyMirror); ok {
		if current, exists := mirror.MirroredValue(c.node.ID, c.name); exists && valuesEqual(current, value) {
			return
		}
	}
	c.sync.PropertyChanged(c.node, c.name, value)
}

// MoveNode repositions a node. Execute is a no-op when the new position
// equals the recorded previous position; Undo restores the previous
// position unconditionally, since undo must always return to the
// recorded prior state regardless of what happened since.
type MoveNode struct {
	graph   *model.Graph
	sync    ViewSync
	node    *model.Node
	pos     model.Position
	prevPos model.Position
}

// NewMoveNode builds a move from prevPos to pos.
func NewMoveNode(g *model.Graph, sync ViewSync, node *model.Node, pos, prevPos model.Position) *MoveNode {
	return &MoveNode{graph: g, sync: sync, node: node, pos: pos, prevPos: prevPos}
}

// Execute applies the new position unless it equals the previous one.
func (c *MoveNode) Execute() error {
	if c.pos == c.prevPos {
		return nil
	}
	if err := c.graph.SetPosition(c.node.ID, c.pos); err != nil {
		return err
	}
	c.sync.NodePositionChanged(c.node, c.pos)
	return nil
}

// Undo restores the previous position.
func (c *MoveNode) Undo() error {
	if err := c.graph.SetPosition(c.node.ID, c.prevPos); err != nil {
		return err
	}
	c.sync.NodePositionChanged(c.node, c.prevPos)
	return nil
}

// Label returns "moved node".
func (c *MoveNode) Label() string { return "moved node" }
