package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"welfare-dashboard-go/analysis"
	"welfare-dashboard-go/config"
	"welfare-dashboard-go/db"
	"welfare-dashboard-go/handlers"
	"welfare-dashboard-go/logging"
	"welfare-dashboard-go/metrics"
	"welfare-dashboard-go/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	store, closeStore, err := openRosterStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open roster store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Seed the demo roster when the store is empty
	if _, err := db.SeedIfEmpty(ctx, store, db.DemoRoster(), logger); err != nil {
		logger.Warn("Could not seed demo roster", "error", err)
	}

	tmpl, err := web.LoadTemplates()
	if err != nil {
		logger.Error("Failed to load dashboard templates", "error", err)
		os.Exit(1)
	}

	apiHandler := handlers.NewAPIHandler(store, analysis.NewAnalyzer(logger), metrics.New(), cfg.ReportFilename)
	router := handlers.NewRouter(apiHandler, tmpl, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to run server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exited")
}

// openRosterStore picks Redis when an address is configured, memory otherwise
func openRosterStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (db.RosterStore, func(), error) {
	if !cfg.Redis.Enabled() {
		logger.Info("Using in-memory roster store")
		return db.NewMemoryStore(nil), func() {}, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := db.NewRedisClient(pingCtx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to Redis roster store", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Error closing Redis client", "error", err)
		}
	}
	return db.NewRedisStore(client, logger), closeFn, nil
}
