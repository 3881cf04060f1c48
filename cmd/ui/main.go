package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"upbit-trade-dashboard/internal/analytics"
	"upbit-trade-dashboard/internal/config"
	"upbit-trade-dashboard/internal/database"
	"upbit-trade-dashboard/internal/logger"
	"upbit-trade-dashboard/internal/metrics"
	"upbit-trade-dashboard/internal/upbit"

	"go.uber.org/zap"
)

//go:embed web/templates/index.html
var webFS embed.FS

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Connect to the database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	store := database.NewTradeStore(db)
	defer store.Close()

	var prices analytics.PriceSource
	if cfg.Upbit.Enabled {
		prices = upbit.NewRestClient(&cfg.Upbit, log)
		log.Info("Live Upbit prices enabled", zap.String("base_url", cfg.Upbit.BaseURL))
	}

	m := metrics.New()
	engine := analytics.NewEngine(log, &cfg.Dashboard, store, prices, m)

	apiHandler, err := NewAPIHandler(log, engine, cfg.Dashboard.TimeFormat)
	if err != nil {
		log.Fatal("Failed to parse page template", zap.Error(err))
	}

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler.Routes(mux)
	mux.Handle("GET /metrics", m.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("Shutdown signal received, stopping web server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("Starting web server", zap.String("address", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Web server failed", zap.Error(err))
	}
}
