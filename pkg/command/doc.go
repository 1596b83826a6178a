// Package command defines the reversible edit operations over a graph
// model and the ViewSync notification contract binding them to a host's
// presentation layer.
//
// Each command is an immutable description of one intended transformation
// plus enough captured "before" state to invert it exactly: the old
// property value, the previous position, or the full set of a removed
// node's connections. Commands are constructed against the current graph,
// pushed onto a history stack (which executes them once), and replayed
// forward and backward across redo/undo cycles without ever cloning the
// graph or re-deriving state from scratch.
//
// # ViewSync
//
// Every mutation notifies an abstract [ViewSync] collaborator so a
// rendering host can mirror the model. Notifications carry no return
// value and cannot veto a change; the model is always the source of
// truth. Use [NoopViewSync] for headless or test use, or [LogViewSync]
// to trace edits through a logger.
package command
