package command

import "reflect"

// Command is one invertible model mutation. A command is created once
// against the current graph, executed when pushed onto a history stack,
// and then replayed forward (redo) and backward (undo) any number of
// times. Execute and Undo return an error only on a precondition
// violation, meaning the command was built against a stale graph.
type Command interface {
	// Execute applies the forward transformation. It is called once on
	// push and again on every redo.
	Execute() error

	// Undo applies the inverse transformation, restoring the captured
	// "before" state.
	Undo() error

	// Label returns a short human-readable description for undo menus.
	Label() string
}

// valuesEqual compares two property values. Property values are plain
// data (strings, numbers, bools, positions, small slices), so deep
// equality is the right notion.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
