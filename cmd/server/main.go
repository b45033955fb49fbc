package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/attendancestats/internal/config"
	"github.com/attendancestats/internal/datasets"
	httpx "github.com/attendancestats/internal/http"
	"github.com/attendancestats/internal/metrics"
	"github.com/attendancestats/internal/statistics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERROR] config: %s", err)
	}

	flag.StringVar(&cfg.Address, "address", cfg.Address, "http address to listen to")
	flag.StringVar(&cfg.DatabasePath, "database-path", cfg.DatabasePath, "path to the database")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory of the pre-stored exports")
	flag.StringVar(&cfg.Period, "period", cfg.Period, "period of the pre-stored exports")
	flag.StringVar(&cfg.SitesFile, "sites", cfg.SitesFile, "yaml file overriding the site rules")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[ERROR] config: %s", err)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.Level())
	handlerOptions := &slog.HandlerOptions{Level: level}
	var logger *slog.Logger
	if cfg.LogFormat == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, handlerOptions))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, handlerOptions))
	}

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatalf("[ERROR] site rules: %s", err)
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DatabasePath).WithLogger(nil))
	if err != nil {
		log.Fatalf("[ERROR] db: %s", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cache := statistics.NewCache(db)
	// Cached results depend on the site rules, which may have changed since the last run.
	if err := cache.Purge(context.Background()); err != nil {
		log.Fatalf("[ERROR] purge cache: %s", err)
	}

	datasetsStore := datasets.NewStore(db)
	statisticsService := statistics.NewService(
		logger,
		cache,
		metrics.New(registry),
		rules,
		cfg.RejectionLogSize,
		cfg.RejectionWarnRatio,
	)

	httpServer := http.Server{
		Handler: httpx.Handler(
			logger,
			cfg,
			datasetsStore,
			statisticsService,
			promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Fatalf("[ERROR] tcp: %s", err)
	}
	logger.Info("listening", "address", ln.Addr().String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownTimeout := 15 * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("http server", "error", err)
	}
	logger.Info("application stopped")
}
