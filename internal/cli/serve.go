package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodeflowhq/nodeflow/internal/api"
	"github.com/nodeflowhq/nodeflow/pkg/model"
	"github.com/nodeflowhq/nodeflow/pkg/session"
)

// newServeCmd creates the "serve" command exposing a session over HTTP.
func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve [session.json]",
		Short: "Serve a session over an HTTP editing API",
		Long: `Serve hosts a graph session behind an HTTP API. Edits are applied
through the undo/redo stack, so POST /undo and /redo walk history.
Without a session file an empty graph is served.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Listen
			}

			g := model.New()
			if len(args) == 1 {
				g, err = session.ReadFile(args[0])
				if err != nil {
					return err
				}
				logger.Info("session loaded", "file", args[0], "nodes", g.NodeCount())
			}

			srv := &http.Server{
				Addr:              listen,
				Handler:           api.NewServer(g, logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", listen)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-cmd.Context().Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return cmd.Context().Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	return cmd
}
