// Package app provides application lifecycle management for the chainsync client process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/agilechain/chainsync/internal/config"
)

// SyncApp encapsulates all components needed to run the chainsync API and the
// background reconciliation. It provides lifecycle management and graceful shutdown.
type SyncApp struct {
	config     *config.Config
	components *AppComponents
	httpServer *http.Server

	// Lifecycle management
	ctx        context.Context
	cancelFunc context.CancelFunc

	mu           sync.Mutex
	stopPeriodic context.CancelFunc
	background   sync.WaitGroup
}

// Start runs the initial forced reconciliation in the background, installs the
// periodic reconciliation and serves the HTTP API.
// This method blocks until the HTTP server stops or encounters an error.
func (app *SyncApp) Start() error {
	coord := app.components.Coordinator

	app.background.Add(1)
	go func() {
		defer app.background.Done()
		RunInitialSync(app.ctx, coord)
	}()

	app.mu.Lock()
	app.stopPeriodic = coord.StartPeriodicSync(app.ctx, 0)
	app.mu.Unlock()

	// Start HTTP server (blocks until stopped)
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// It stops background reconciliation and then shuts down the HTTP server.
func (app *SyncApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	app.mu.Lock()
	if app.stopPeriodic != nil {
		app.stopPeriodic()
		app.stopPeriodic = nil
	}
	app.mu.Unlock()

	// Cancel the application context so in-flight ledger calls return
	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if err := app.components.Coordinator.Stop(); err != nil {
		slog.Error("Failed to stop sync coordinator", "error", err)
	}
	app.background.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *SyncApp) GetConfig() *config.Config {
	return app.config
}

// GetComponents returns the application components
func (app *SyncApp) GetComponents() *AppComponents {
	return app.components
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *SyncApp) GetHTTPServer() *http.Server {
	return app.httpServer
}
