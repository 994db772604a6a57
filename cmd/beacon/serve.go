package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodebeacon/beacon/internal/alerts"
	"github.com/nodebeacon/beacon/internal/api"
	"github.com/nodebeacon/beacon/internal/auth"
	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/metrics"
	"github.com/nodebeacon/beacon/internal/ranking"
	"github.com/nodebeacon/beacon/internal/scanner"
	"github.com/nodebeacon/beacon/internal/store"
	"github.com/nodebeacon/beacon/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(flags *rootFlags) *cobra.Command {
	var uiDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Scan nodes on a schedule and serve the results over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, flags.configPath, uiDir)
		},
	}

	cmd.Flags().StringVar(&uiDir, "ui-dir", "", "serve the web UI static files from this directory; leave empty to disable")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, configPath, uiDir string) error {
	slog.Info("node-beacon starting", "version", version, "config", configPath)

	cycle, err := newCycle(cfg)
	if err != nil {
		slog.Error("failed to build scan cycle", "err", err)
		return err
	}

	st := store.New()
	ranker := ranking.NewRanker(ranking.PolicyFromConfig(cfg.Ranking))
	alertEngine := alerts.New(cfg.Alerts)
	sched := scanner.NewScheduler(cycle, st, cfg.Scanner.Interval, cfg.ActiveNodes(), slog.Default())

	hub := ws.New(st, ranker, cfg.Server.StreamInterval)
	metricsHandler := auth.APIKey(cfg.Server.Auth.Mode, cfg.Server.Auth.EffectiveHeader(), cfg.Server.Auth.Key())(metrics.Handler())

	handler := api.New(cfg.Server, api.Deps{
		Store:   st,
		Ranker:  ranker,
		Status:  sched,
		Alerts:  alertEngine,
		Stream:  hub,
		Metrics: metricsHandler,
		UIDir:   uiDir,
	})

	sched.OnPublish(func(snap *store.Snapshot) {
		handler.Invalidate()
		metrics.BestNodes.Set(float64(len(ranker.Policy().Best(snap.Nodes))))
		alertEngine.EvaluateAll(snap.Nodes)
	})

	if configPath != "" {
		go func() {
			if err := config.Watch(ctx, configPath, func(updated *config.Config) {
				sched.SetNodes(updated.ActiveNodes())
				ranker.SetPolicy(ranking.PolicyFromConfig(updated.Ranking))
				alertEngine.SetConfig(updated.Alerts)
				handler.Invalidate()
				slog.Info("config hot-reloaded",
					"nodes", len(updated.ActiveNodes()),
					"best_threshold", updated.Ranking.BestThreshold,
					"valid_threshold", updated.Ranking.ValidThreshold,
					"min_nodes", updated.Ranking.MinNodes,
				)
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()
	go hub.Run(ctx)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srvErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-srvErr:
		slog.Error("HTTP server stopped", "err", runErr)
	}

	slog.Info("node-beacon shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck

	if runErr == nil {
		<-schedDone
	}
	alertEngine.Wait()
	return runErr
}
