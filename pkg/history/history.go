// Package history provides the linear undo/redo stack driving command
// execution.
//
// The stack holds an ordered sequence of applied commands plus a cursor
// marking the boundary between applied and not-yet-applied commands.
// Commands at indices below the cursor have been executed in order and
// not yet undone; pushing a new command truncates everything at and
// after the cursor before appending. The stack never stores a graph
// snapshot — state reconstruction is always by replaying command
// inverses, never by diffing against a saved copy.
//
// The stack is the sole owner-mediator of undoable change: mutating the
// graph model directly bypasses history and is reserved for
// non-undoable bulk operations such as session load.
package history

import (
	"github.com/nodeflowhq/nodeflow/pkg/command"
)

// Stack is a linear history of commands with a cursor. The zero value is
// an empty, usable stack.
//
// Stack is not safe for concurrent use; hosts must serialize access.
type Stack struct {
	cmds   []command.Command
	cursor int
}

// New creates an empty undo/redo stack.
func New() *Stack {
	return &Stack{}
}

// Push truncates any commands at or after the cursor, executes the
// command once, appends it, and advances the cursor. If execution fails
// the command is not recorded, but the truncation has already happened:
// a failed push still discards the redo tail, mirroring the fact that
// the attempted edit invalidated it.
func (s *Stack) Push(cmd command.Command) error {
	s.cmds = s.cmds[:s.cursor]
	if err := cmd.Execute(); err != nil {
		return err
	}
	s.cmds = append(s.cmds, cmd)
	s.cursor++
	return nil
}

// Undo reverts the most recently applied command. At the start of
// history it is a silent no-op.
func (s *Stack) Undo() error {
	if s.cursor == 0 {
		return nil
	}
	s.cursor--
	return s.cmds[s.cursor].Undo()
}

// Redo re-applies the next undone command. At the end of history it is a
// silent no-op.
func (s *Stack) Redo() error {
	if s.cursor == len(s.cmds) {
		return nil
	}
	err := s.cmds[s.cursor].Execute()
	s.cursor++
	return err
}

// Clear empties the history and resets the cursor. This is irreversible;
// it is used for an explicit "clear undo history" action and after
// loading a session.
func (s *Stack) Clear() {
	s.cmds = nil
	s.cursor = 0
}

// Len returns the number of commands currently held.
func (s *Stack) Len() int { return len(s.cmds) }

// Cursor returns the boundary between applied and unapplied commands.
func (s *Stack) Cursor() int { return s.cursor }

// CanUndo reports whether an applied command is available to revert.
func (s *Stack) CanUndo() bool { return s.cursor > 0 }

// CanRedo reports whether an undone command is available to re-apply.
func (s *Stack) CanRedo() bool { return s.cursor < len(s.cmds) }

// UndoLabel returns the label of the command Undo would revert, or ""
// when there is none.
func (s *Stack) UndoLabel() string {
	if !s.CanUndo() {
		return ""
	}
	return s.cmds[s.cursor-1].Label()
}

// RedoLabel returns the label of the command Redo would re-apply, or ""
// when there is none.
func (s *Stack) RedoLabel() string {
	if !s.CanRedo() {
		return ""
	}
	return s.cmds[s.cursor].Label()
}
