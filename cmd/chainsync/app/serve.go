package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	syncapp "github.com/agilechain/chainsync/internal/app"
	"github.com/agilechain/chainsync/internal/telemetry"
)

const (
	defaultGracefulTimeout   = 30 * time.Second
	telemetryShutdownTimeout = 5 * time.Second
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local API and the background reconciliation",
		Long: `Run the chainsync client process. On startup every domain is reconciled against the
ledger; afterwards reconciliation runs before and after each ledger write made through the
local API, periodically when enabled, and on demand.`,
		RunE: c.runServe,
	}

	cmd.Flags().String("address", "", "Address to listen on (overrides server.address)")
	if err := c.v.BindPFlag("address", cmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}

	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logFile := configureLogging(cfg.Logging)
	defer func() { _ = logFile.Close() }()

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(cfg.Telemetry))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	opts := []syncapp.AppOptions{
		syncapp.WithConfig(cfg),
		syncapp.WithTelemetry(tel),
	}
	if address := c.v.GetString("address"); address != "" {
		opts = append(opts, syncapp.WithAddress(address))
	}

	app, err := syncapp.NewSyncApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	select {
	case err := <-errCh:
		if stopErr := app.Stop(defaultGracefulTimeout); stopErr != nil {
			slog.Error("Failed to stop application", "error", stopErr)
		}
		return err
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	}

	return app.Stop(defaultGracefulTimeout)
}
