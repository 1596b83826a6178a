package command

import (
	"github.com/charmbracelet/log"

	"github.com/nodeflowhq/nodeflow/pkg/model"
)

// ViewSync receives notifications about every model mutation performed by
// a command. Implementations mirror the change into a presentation layer
// (scene items, pipes, inspector widgets); they are never a source of
// truth and cannot veto a mutation.
type ViewSync interface {
	// NodeAdded is called after a node is inserted, with the position the
	// host should render it at.
	NodeAdded(n *model.Node, pos model.Position)

	// NodeRemoved is called after a node leaves the graph. The host should
	// destroy its visual representation.
	NodeRemoved(n *model.Node)

	// NodePositionChanged is called after a node moves.
	NodePositionChanged(n *model.Node, pos model.Position)

	// PropertyChanged is called after a node property changes. Commands
	// suppress this call when the originating widget already reflects the
	// value (see PropertyMirror), to prevent notification feedback loops.
	PropertyChanged(n *model.Node, name string, value any)

	// PortsConnected is called after two ports are connected. The host
	// should draw the pipe between them.
	PortsConnected(src, dst *model.Port)

	// PortsDisconnected is called after two ports are disconnected.
	PortsDisconnected(src, dst *model.Port)

	// PortVisibilityChanged is called after a port is shown or hidden.
	// It is always followed by NodeLayoutRefresh for the owning node,
	// since hiding a port changes the node's rendered geometry.
	PortVisibilityChanged(p *model.Port, visible bool)

	// NodeLayoutRefresh asks the host to re-layout a node's visual item.
	NodeLayoutRefresh(n *model.Node)
}

// PropertyMirror is an optional capability of a ViewSync whose property
// widgets hold their own copy of a value. When the sync implements it,
// property commands skip the PropertyChanged notification if the mirror
// already reports the target value, breaking the widget-edit feedback
// loop.
type PropertyMirror interface {
	// MirroredValue returns the value currently displayed for the node
	// property, and whether a widget for it exists at all.
	MirroredValue(nodeID, name string) (any, bool)
}

// NoopViewSync is a ViewSync that ignores every notification. It is the
// headless default used by tests, scripts, and the HTTP host.
type NoopViewSync struct{}

func (NoopViewSync) NodeAdded(*model.Node, model.Position)           {}
func (NoopViewSync) NodeRemoved(*model.Node)                         {}
func (NoopViewSync) NodePositionChanged(*model.Node, model.Position) {}
func (NoopViewSync) PropertyChanged(*model.Node, string, any)        {}
func (NoopViewSync) PortsConnected(*model.Port, *model.Port)         {}
func (NoopViewSync) PortsDisconnected(*model.Port, *model.Port)      {}
func (NoopViewSync) PortVisibilityChanged(*model.Port, bool)         {}
func (NoopViewSync) NodeLayoutRefresh(*model.Node)                   {}

var _ ViewSync = NoopViewSync{}

// LogViewSync traces every notification through a logger at debug level.
// The CLI attaches it so --verbose shows each edit as it lands.
type LogViewSync struct {
	Logger *log.Logger
}

// NewLogViewSync creates a LogViewSync writing to the given logger.
// A nil logger falls back to log.Default.
func NewLogViewSync(l *log.Logger) *LogViewSync {
	if l == nil {
		l = log.Default()
	}
	return &LogViewSync{Logger: l}
}

func (s *LogViewSync) NodeAdded(n *model.Node, pos model.Position) {
	s.Logger.Debug("node added", "node", n.Name, "id", n.ID, "x", pos[0], "y", pos[1])
}

func (s *LogViewSync) NodeRemoved(n *model.Node) {
	s.Logger.Debug("node removed", "node", n.Name, "id", n.ID)
}

func (s *LogViewSync) NodePositionChanged(n *model.Node, pos model.Position) {
	s.Logger.Debug("node moved", "node", n.Name, "x", pos[0], "y", pos[1])
}

func (s *LogViewSync) PropertyChanged(n *model.Node, name string, value any) {
	s.Logger.Debug("property changed", "node", n.Name, "property", name, "value", value)
}

func (s *LogViewSync) PortsConnected(src, dst *model.Port) {
	s.Logger.Debug("ports connected",
		"from", src.NodeID+"."+src.Name, "to", dst.NodeID+"."+dst.Name)
}

func (s *LogViewSync) PortsDisconnected(src, dst *model.Port) {
	s.Logger.Debug("ports disconnected",
		"from", src.NodeID+"."+src.Name, "to", dst.NodeID+"."+dst.Name)
}

func (s *LogViewSync) PortVisibilityChanged(p *model.Port, visible bool) {
	s.Logger.Debug("port visibility changed", "port", p.NodeID+"."+p.Name, "visible", visible)
}

func (s *LogViewSync) NodeLayoutRefresh(n *model.Node) {
	s.Logger.Debug("node layout refresh", "node", n.Name)
}

var _ ViewSync = (*LogViewSync)(nil)
