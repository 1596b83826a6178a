package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/pkg/model"
	"github.com/nodeflowhq/nodeflow/pkg/session"
)

var (
	infoTitleStyle = lipgloss.NewStyle().Bold(true)
	infoDimStyle   = lipgloss.NewStyle().Faint(true)
)

// newInfoCmd creates the "info" command summarizing a session file.
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <session.json>",
		Short: "Summarize a session file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := session.ReadFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			links := 0
			for _, n := range g.Nodes() {
				for _, p := range n.Outputs {
					links += p.ConnectionCount()
				}
			}

			fmt.Fprintln(out, infoTitleStyle.Render(args[0]))
			fmt.Fprintf(out, "nodes: %d  connections: %d  pipe: %s  zoom: %.2f  grid: %v\n\n",
				g.NodeCount(), links, g.PipeStyle(), g.Zoom(), g.GridVisible())

			for _, n := range g.Nodes() {
				name := n.Name
				if name == "" {
					name = "(unnamed)"
				}
				pos := n.Pos()
				fmt.Fprintf(out, "%s %s\n", infoTitleStyle.Render(name), infoDimStyle.Render(n.ID))
				fmt.Fprintf(out, "  pos: %.1f, %.1f\n", pos[0], pos[1])
				printPorts(out, "in ", n.Inputs)
				printPorts(out, "out", n.Outputs)
			}
			return nil
		},
	}
	return cmd
}

func printPorts(out io.Writer, label string, ports []*model.Port) {
	for _, p := range ports {
		marker := ""
		if !p.Visible {
			marker = " (hidden)"
		}
		fmt.Fprintf(out, "  %s %-12s %d connection(s)%s\n", label, p.Name, p.ConnectionCount(), marker)
	}
}
