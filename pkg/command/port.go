package command

import (
	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// ConnectPorts connects a source port to a target port. Undo tears the
// connection down again; teardown is idempotent and never fails when the
// pair is already disconnected, since undo/redo sequences can revisit
// the same logical edge from different capture points.
type ConnectPorts struct {
	graph *model.Graph
	sync  ViewSync
	src   *model.Port
	dst   *model.Port
}

// NewConnectPorts builds a connection between src and dst.
func NewConnectPorts(g *model.Graph, sync ViewSync, src, dst *model.Port) *ConnectPorts {
	return &ConnectPorts{graph: g, sync: sync, src: src, dst: dst}
}

// Execute records the connection in both endpoints and notifies the view
// to draw the pipe.
func (c *ConnectPorts) Execute() error {
	if err := c.graph.Connect(c.src, c.dst); err != nil {
		return err
	}
	c.sync.PortsConnected(c.src, c.dst)
	return nil
}

// Undo removes the connection from both endpoints and notifies the view
// to erase the pipe.
func (c *ConnectPorts) Undo() error {
	if err := c.graph.Disconnect(c.src, c.dst); err != nil {
		return err
	}
	c.sync.PortsDisconnected(c.src, c.dst)
	return nil
}

// Label returns "connected ports".
func (c *ConnectPorts) Label() string { return "connected ports" }

// DisconnectPorts is the exact inverse of [ConnectPorts]: execute tears
// the connection down, undo restores it.
type DisconnectPorts struct {
	graph *model.Graph
	sync  ViewSync
	src   *model.Port
	dst   *model.Port
}

// NewDisconnectPorts builds a disconnection of src and dst.
func NewDisconnectPorts(g *model.Graph, sync ViewSync, src, dst *model.Port) *DisconnectPorts {
	return &DisconnectPorts{graph: g, sync: sync, src: src, dst: dst}
}

// Execute removes the connection from both endpoints.
func (c *DisconnectPorts) Execute() error {
	if err := c.graph.Disconnect(c.src, c.dst); err != nil {
		return err
	}
	c.sync.PortsDisconnected(c.src, c.dst)
	return nil
}

// Undo restores the connection in both endpoints.
func (c *DisconnectPorts) Undo() error {
	if err := c.graph.Connect(c.src, c.dst); err != nil {
		return err
	}
	c.sync.PortsConnected(c.src, c.dst)
	return nil
}

// Label returns "disconnected ports".
func (c *DisconnectPorts) Label() string { return "disconnected ports" }

// TogglePortVisibility flips a port's visibility flag. The visibility at
// construction time is captured; execute applies its negation and undo
// restores the captured value. Both directions trigger a node-level
// layout refresh, since hiding or showing a port changes the node's
// rendered geometry.
type TogglePortVisibility struct {
	graph      *model.Graph
	sync       ViewSync
	port       *model.Port
	wasVisible bool
}

// NewTogglePortVisibility builds a visibility toggle, capturing the
// port's current visibility.
func NewTogglePortVisibility(g *model.Graph, sync ViewSync, p *model.Port) *TogglePortVisibility {
	return &TogglePortVisibility{graph: g, sync: sync, port: p, wasVisible: p.Visible}
}

// Execute sets the visibility to the negation of the captured value.
func (c *TogglePortVisibility) Execute() error { return c.setVisible(!c.wasVisible) }

// Undo restores the captured visibility.
func (c *TogglePortVisibility) Undo() error { return c.setVisible(c.wasVisible) }

// Label returns "toggled port visibility".
func (c *TogglePortVisibility) Label() string { return "toggled port visibility" }

func (c *TogglePortVisibility) setVisible(visible bool) error {
	node, err := c.graph.NodeOf(c.port)
	if err != nil {
		return err
	}
	c.graph.SetPortVisible(c.port, visible)
	c.sync.PortVisibilityChanged(c.port, visible)
	c.sync.NodeLayoutRefresh(node)
	return nil
}
