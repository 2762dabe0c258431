package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/slipstream/showguide/internal/api"
	"github.com/slipstream/showguide/internal/config"
	"github.com/slipstream/showguide/internal/di"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog over HTTP and reload it on a schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	a.log.Info().
		Str("version", config.Version).
		Str("feedDir", a.cfg.Catalog.Dir).
		Str("logLevel", a.cfg.Logging.Level).
		Msg("starting showguide")

	injector := di.NewContainer(a.cfg, a.log, a.fs, a.catalog)
	defer func() {
		if err := injector.Shutdown(); err != nil {
			a.log.Error().Msgf("shutdown error: %v", err)
		}
	}()

	server, err := do.Invoke[*api.Server](injector)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	do.MustInvoke[*di.SchedulerHandle](injector).Start()

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	a.log.Info().Msg("showguide stopped")
	return nil
}
