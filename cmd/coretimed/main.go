package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poppyseed/coretime/internal/chain"
	"github.com/poppyseed/coretime/internal/config"
	"github.com/poppyseed/coretime/internal/constants"
	"github.com/poppyseed/coretime/internal/gateway"
	"github.com/poppyseed/coretime/internal/indexer"
	"github.com/poppyseed/coretime/internal/metrics"
	"github.com/poppyseed/coretime/internal/regions"
	"github.com/poppyseed/coretime/internal/sale"
	"github.com/poppyseed/coretime/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/coretimed.local.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "config", *configPath)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting coretimed",
		"version", version.String(),
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
		"gateway_url", cfg.Gateway.URL,
		"sale_info_source", cfg.Sale.InfoSource,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	client := gateway.NewClient(
		cfg.Gateway.URL,
		cfg.Gateway.APIKey,
		gateway.WithLogger(logger),
		gateway.WithTimeout(cfg.Gateway.Timeout),
		gateway.WithRetries(*cfg.Gateway.MaxRetries, time.Second),
		gateway.WithCircuitBreaker(uint32(*cfg.Gateway.BreakerFailures), cfg.Gateway.BreakerCooldown),
	)

	// Sale info comes from the gateway unless the indexer is configured.
	var (
		infoSource chain.SaleInfoSource = client
		db         pinger
	)
	if cfg.Sale.InfoSource == config.InfoSourceIndexer {
		logger.Info("connecting to indexer",
			"host", cfg.Indexer.Host,
			"port", cfg.Indexer.Port,
			"database", cfg.Indexer.Name,
		)
		pool, err := indexer.Connect(ctx, cfg.Indexer)
		if err != nil {
			logger.Error("failed to connect to indexer", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		infoSource = indexer.NewSaleInfoReader(pool)
		db = pool
		logger.Info("indexer connected")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Constants cache
	cache := constants.New(cfg.Constants.FetchTimeout, logger)
	cache.Bind(ctx, client)
	defer cache.Unbind()

	// Sale tracker
	tracker := sale.NewTracker(cfg.Sale.RefreshInterval, sale.Sources{
		Config:    client,
		Info:      infoSource,
		Constants: cache,
	}, logger)
	if err := tracker.Start(ctx); err != nil {
		logger.Error("failed to start sale tracker", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		tracker.Stop(shutdownCtx)
	}()

	// Region poller
	poller := regions.New(regions.Config{
		Interval:     cfg.Regions.PollInterval,
		FetchTimeout: cfg.Regions.FetchTimeout,
	}, client, regions.MultiHandler{m}, logger)
	if err := poller.Start(ctx); err != nil {
		logger.Error("failed to start region poller", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		poller.Stop(shutdownCtx)
	}()

	// Health server
	var handler http.Handler = createHealthHandler(poller, cache, tracker, db,
		cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), logger)
	if strings.EqualFold(cfg.Log.Level, "debug") {
		handler = handlers.LoggingHandler(os.Stdout, handler)
	}
	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)(handler)

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("coretimed running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("coretimed stopped")
}

// newLogger builds the process logger from cfg.
func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
