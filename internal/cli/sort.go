package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/pkg/session"
	"github.com/nodeflowhq/nodeflow/pkg/toposort"
)

// newSortCmd creates the "sort" command printing a topological order.
func newSortCmd() *cobra.Command {
	var (
		starts []string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "sort <session.json>",
		Short: "Print a dependency-respecting node order",
		Long: `Sort reads a session file and prints the node IDs in an order where
every connection's source precedes its target.

Start nodes can be given explicitly with --start (repeatable). Without
--start, every node that has no connected input port is used as a root.
With --strict, cyclic graphs are rejected instead of producing a
best-effort order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := session.ReadFile(args[0])
			if err != nil {
				return err
			}
			logger.Debug("session loaded", "nodes", g.NodeCount())

			candidates := make([]string, 0, g.NodeCount())
			for _, n := range g.Nodes() {
				candidates = append(candidates, n.ID)
			}

			sorter := toposort.Sort
			if strict {
				sorter = toposort.SortStrict
			}
			nodes, err := sorter(g, starts, candidates)
			if err != nil {
				return err
			}

			for _, n := range nodes {
				name := n.Name
				if name == "" {
					name = n.ID
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", n.ID, name)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&starts, "start", nil, "start node ID (repeatable; default: auto-detect roots)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on cyclic graphs instead of best-effort ordering")
	return cmd
}
