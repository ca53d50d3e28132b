package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardsrs/internal/bootstrap"
	"github.com/at-ishikawa/cardsrs/internal/server"
)

func newServeCommand() *cobra.Command {
	var port int

	command := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			serverConfig := env.cfg.Server
			if port > 0 {
				serverConfig.Port = port
			}
			srv := server.New(serverConfig, env.svc, env.logger)

			app := bootstrap.New()
			app.AddShutdownHook(func(ctx context.Context) error {
				env.logger.Info("shutting down server")
				return srv.Shutdown(ctx)
			})

			env.logger.WithField("addr", srv.Addr).Info("starting server")
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("srv.ListenAndServe() > %w", err)
				}
				return nil
			})
		},
	}
	command.Flags().IntVar(&port, "port", 0, "Port to listen on (default: server.port of the config)")
	return command
}
