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
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gradewatch/gradewatch/internal/api"
	"github.com/gradewatch/gradewatch/internal/config"
	"github.com/gradewatch/gradewatch/internal/fetch"
	"github.com/gradewatch/gradewatch/internal/metrics"
	"github.com/gradewatch/gradewatch/internal/store"
	"github.com/gradewatch/gradewatch/internal/tracker"
	"github.com/gradewatch/gradewatch/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("gradewatch starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"mirrors", len(cfg.Source.Mirrors),
		"refresh_interval", cfg.Source.RefreshInterval,
		"http_port", cfg.Server.HTTPPort,
		"storage", cfg.Storage.Path,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.OpenBolt(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open state store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	fetcher := fetch.New(cfg.Source.Mirrors, cfg.Source.FetchTimeout)
	tr := tracker.New(fetcher, st)

	hub := ws.New(tr)
	tr.OnUpdate(hub.Notify)
	go hub.Run(ctx)

	// First scrape up front so the board is populated before serving. A
	// failure here is retryable, not fatal: the ticker keeps trying and the
	// API reports an empty state meanwhile.
	if err := tr.Scrape(ctx); err != nil {
		slog.Warn("initial scrape failed, will retry on schedule", "err", err)
	}

	// Refresh interval is swappable at runtime via config hot-reload.
	var refreshEvery atomic.Int64
	refreshEvery.Store(int64(cfg.Source.RefreshInterval))
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			refreshEvery.Store(int64(updated.Source.RefreshInterval))
			slog.Info("refresh interval updated", "interval", updated.Source.RefreshInterval)
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(refreshEvery.Load())):
				if err := tr.Scrape(ctx); err != nil && !errors.Is(err, tracker.ErrScrapeInFlight) {
					slog.Warn("scheduled scrape failed", "err", err)
				}
			}
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", api.New(tr))
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "err", err)
	}
}
