package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/go-scrape-shops/config"
	"github.com/aluiziolira/go-scrape-shops/models"
	"github.com/aluiziolira/go-scrape-shops/pipeline"
	"github.com/aluiziolira/go-scrape-shops/scraper"
	"github.com/aluiziolira/go-scrape-shops/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("scraping failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	configPath, _ := config.EnvString("SCRAPER_CONFIG")
	flag.StringVar(&configPath, "config", configPath, "YAML file listing targets and settings")

	defaults := config.DefaultConfig()
	outputDir := envOr("SCRAPER_OUTPUT_DIR", defaults.OutputDir)
	format := envOr("SCRAPER_FORMAT", defaults.OutputFormat)
	sqlitePath := envOr("SCRAPER_SQLITE", "")
	metricsAddr := envOr("SCRAPER_METRICS_ADDR", "")
	timeout := defaults.Timeout
	if value, ok, err := config.EnvDuration("SCRAPER_TIMEOUT"); err != nil {
		return fmt.Errorf("invalid SCRAPER_TIMEOUT: %w", err)
	} else if ok {
		timeout = value
	}
	verbose := false
	if value, ok, err := config.EnvBool("SCRAPER_VERBOSE"); err != nil {
		return fmt.Errorf("invalid SCRAPER_VERBOSE: %w", err)
	} else if ok {
		verbose = value
	}

	flag.StringVar(&outputDir, "output-dir", outputDir, "Directory receiving the dated tables")
	flag.StringVar(&format, "format", format, "Output format: csv, json, or dual")
	flag.StringVar(&sqlitePath, "sqlite", sqlitePath, "SQLite database mirroring every saved table (disabled when empty)")
	flag.StringVar(&metricsAddr, "metrics-addr", metricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flag.DurationVar(&timeout, "timeout", timeout, "HTTP request timeout")
	flag.BoolVar(&verbose, "v", verbose, "Enable verbose logging")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	// Precedence: file < environment < explicit flags.
	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	override := func(name, envKey string) bool {
		if configPath == "" || explicit[name] {
			return true
		}
		_, ok := config.EnvString(envKey)
		return ok
	}
	if override("output-dir", "SCRAPER_OUTPUT_DIR") {
		cfg.OutputDir = outputDir
	}
	if override("format", "SCRAPER_FORMAT") {
		cfg.OutputFormat = format
	}
	if override("sqlite", "SCRAPER_SQLITE") {
		cfg.SQLitePath = sqlitePath
	}
	if override("metrics-addr", "SCRAPER_METRICS_ADDR") {
		cfg.MetricsAddr = metricsAddr
	}
	if override("timeout", "SCRAPER_TIMEOUT") {
		cfg.Timeout = timeout
	}
	if override("v", "SCRAPER_VERBOSE") {
		cfg.Verbose = verbose
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := scraper.NewMetrics()
	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
	}

	opts := scraper.Options{Metrics: metrics, Out: os.Stdout}
	if cfg.SQLitePath != "" {
		store, err := storage.Open(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Error("close database", slog.Any("error", err))
			}
		}()
		opts.Mirror = store
	}

	slog.Debug("starting scrape",
		slog.Int("targets", len(cfg.Targets)),
		slog.String("output_dir", cfg.OutputDir),
		slog.String("format", cfg.OutputFormat),
	)

	fetcher := scraper.NewFetcher(cfg, metrics)
	table := pipeline.NewTable(cfg.OutputDir, cfg.OutputFormat, nil)
	results, err := scraper.Run(ctx, cfg.Targets, fetcher, table, opts)
	logSummary(results)
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

func envOr(key, fallback string) string {
	if value, ok := config.EnvString(key); ok {
		return value
	}
	return fallback
}

func logSummary(results []*models.ShopResult) {
	for _, r := range results {
		slog.Debug("shop summary",
			slog.String("shop", r.Shop),
			slog.Int("items", r.Items),
			slog.String("destination", r.Destination),
			slog.Duration("duration", r.Duration()),
		)
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
