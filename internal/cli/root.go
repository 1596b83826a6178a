package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/pkg/buildinfo"
)

// Execute runs the nodeflow CLI and returns an error if any command
// fails. The root command wires all subcommands, configures logging
// based on the --verbose flag, and attaches the logger to the command
// context where loggerFromContext can reach it.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "nodeflow",
		Short:        "nodeflow edits and orders node graph sessions",
		Long:         `nodeflow is a headless engine for editable node graphs: nodes with typed ports, reversible edit commands with undo/redo, and dependency-respecting execution order. It inspects, edits, renders, and serves graph session files.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newInfoCmd())
	root.AddCommand(newSortCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
