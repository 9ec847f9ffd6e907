package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"waitstat/internal"
	"waitstat/internal/config"
	"waitstat/internal/container"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API",
		Long: `Serve POST /v1/compare, /healthz and /metrics. When DATABASE_URL is set,
reports are persisted and GET /v1/reports/:id is available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default $PORT)")
	return cmd
}

// serve runs the API until ctx is cancelled
func serve(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.Server.GinMode)

	appContainer, err := container.New(cfg, internal.DefaultLogger)
	if err != nil {
		return err
	}
	defer appContainer.Shutdown(context.Background())

	if cfg.Database.Enabled() {
		db, err := openDatabase(ctx, cfg.Database, false)
		if err != nil {
			return err
		}
		if err := appContainer.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
	} else {
		appContainer.Logger.Warn("DATABASE_URL not set, reports will not be persisted")
	}

	return appContainer.Server().Run(ctx, ":"+cfg.Server.Port)
}
