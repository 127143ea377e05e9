package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/shapedtime/cuewords/internal/api"
	"github.com/shapedtime/cuewords/internal/config"
	"github.com/shapedtime/cuewords/internal/dialogue"
	"github.com/shapedtime/cuewords/internal/logging"
	"github.com/shapedtime/cuewords/internal/metrics"
	"github.com/shapedtime/cuewords/internal/subtitle"
	"github.com/shapedtime/cuewords/internal/translate"
	"github.com/shapedtime/cuewords/internal/vocab"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup structured logging
	logCloser, err := logging.Setup(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	slog.Info("Starting cuewords", "config", *configPath)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Ensure required directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	// Initialize database
	driver, dsn := cfg.DatabaseSource()
	db, err := vocab.NewDB(driver, dsn)
	if err != nil {
		slog.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("Database initialized", "driver", driver)
	lookups := vocab.NewRepository(db)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewVocabCollector(lookups),
	)
	m := metrics.New(reg)

	// Subtitle service
	extractor, err := dialogue.NewExtractor(cfg.Dialogue.Strategy, cfg.Dialogue.ChineseFont, cfg.Dialogue.EnglishFont)
	if err != nil {
		slog.Error("Invalid dialogue strategy", "error", err)
		os.Exit(1)
	}
	var loader subtitle.Loader
	if cfg.Subtitles.BaseURL != "" {
		loader = subtitle.NewHTTPLoader(cfg.Subtitles.BaseURL, cfg.Subtitles.Extension)
		slog.Info("Loading subtitles over HTTP", "base_url", cfg.Subtitles.BaseURL)
	} else {
		loader = subtitle.NewFileLoader(os.DirFS(cfg.Subtitles.Dir), cfg.Subtitles.Extension)
		slog.Info("Loading subtitles from disk", "dir", cfg.Subtitles.Dir)
	}
	subtitleService := subtitle.NewService(loader, extractor, cfg.Subtitles.Charset, m)

	// Translation relay
	translator := newTranslator(cfg.Translate)

	// Initialize servers
	opts := api.Options{CORSOrigins: cfg.Server.CORSOrigins}
	if cfg.Subtitles.BaseURL == "" {
		opts.SubtitlesDir = cfg.Subtitles.Dir
	}
	apiServer := api.NewServer(subtitleService, translator, opts)
	apiServer.SetLookupStore(lookups)
	apiServer.SetMetrics(m)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: apiServer.Handler(),
	}

	go func() {
		slog.Info("Starting REST API server", "port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("REST API server error", "error", err)
		}
	}()

	var metricsServer *metrics.Server
	if cfg.Server.MetricsPort > 0 {
		metricsServer = metrics.NewServer(cfg.Server.MetricsPort, reg)
		go metricsServer.Start()
	}

	slog.Info("cuewords is ready",
		"api_url", fmt.Sprintf("http://localhost:%d/api", cfg.Server.HTTPPort),
	)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	slog.Info("Received signal, shutting down", "signal", sig)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("REST API server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("Metrics server shutdown error", "error", err)
		}
	}

	slog.Info("cuewords stopped")
}

// newTranslator builds the upstream translator. Direct mode signs requests
// with the configured secret; relay mode forwards to another cuewords server.
func newTranslator(cfg config.TranslateConfig) translate.Translator {
	if cfg.Mode == config.TranslateRelay {
		slog.Info("Forwarding translations to relay", "endpoint", cfg.Endpoint)
		return translate.NewRelayClient(cfg.Endpoint)
	}

	youdao := translate.NewYoudaoClient(translate.YoudaoConfig{
		Endpoint: cfg.Endpoint,
		AppKey:   cfg.AppKey,
		Secret:   cfg.Secret,
		From:     cfg.From,
		To:       cfg.To,
	})
	if !youdao.IsConfigured() {
		slog.Warn("Translation credentials not configured, /api/translate will be unavailable")
		return nil
	}
	slog.Info("Translation relay configured")
	return youdao
}
