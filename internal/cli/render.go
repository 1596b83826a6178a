package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/pkg/render"
	"github.com/nodeflowhq/nodeflow/pkg/session"
)

// newRenderCmd creates the "render" command producing SVG or DOT output.
func newRenderCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <session.json>",
		Short: "Render a session as an SVG or DOT node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			g, err := session.ReadFile(args[0])
			if err != nil {
				return err
			}

			dot, err := render.ToDOT(g)
			if err != nil {
				return err
			}

			var data []byte
			switch strings.ToLower(format) {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(dot)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q (want svg or dot)", format)
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("rendered", "format", format, "output", output, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg or dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
