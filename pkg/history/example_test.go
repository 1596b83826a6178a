package history_test

import (
	"fmt"

	"github.com/nodeflowhq/nodeflow/pkg/command"
	"github.com/nodeflowhq/nodeflow/pkg/history"
	"github.com/nodeflowhq/nodeflow/pkg/model"
)

func Example() {
	// Every edit goes through the stack, so it can be walked back.
	g := model.New()
	sync := command.NoopViewSync{}
	hist := history.New()

	n := &model.Node{ID: "blur", Name: "Blur", Properties: map[string]any{}}
	_ = hist.Push(command.NewAddNode(g, sync, n, nil))
	_ = hist.Push(command.NewSetProperty(g, sync, n, "radius", 5))

	fmt.Println("nodes:", g.NodeCount(), "undo:", hist.UndoLabel())

	_ = hist.Undo()
	_ = hist.Undo()
	fmt.Println("nodes after undo:", g.NodeCount())

	_ = hist.Redo()
	fmt.Println("nodes after redo:", g.NodeCount())
	// Output:
	// nodes: 1 undo: property "Blur:radius"
	// nodes after undo: 0
	// nodes after redo: 1
}
