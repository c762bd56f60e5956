package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/perfboard/internal/app"
	"github.com/felixgeelhaar/perfboard/pkg/config"
	"github.com/felixgeelhaar/perfboard/pkg/observability"
)

// worker relays outbox events to the configured broker and prunes the
// outbox table.
type worker struct {
	cfg       *config.Config
	container *app.Container
	logger    *slog.Logger
}

func main() {
	logger := observability.LoggerFromEnv().With("service", "perfboard-worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer container.Close()

	publisher, err := app.NewPublisher(ctx, cfg, logger, container.Metrics)
	if err != nil {
		return err
	}
	if err := container.StartOutboxProcessor(ctx, publisher); err != nil {
		return err
	}
	logger.Info("outbox relay started",
		"broker", cfg.EventBroker,
		"breaker", cfg.PublisherBreakerEnabled,
		"batch_size", cfg.OutboxBatchSize,
	)

	w := &worker{cfg: cfg, container: container, logger: logger}
	go every(ctx, cfg.OutboxCleanupInterval, w.cleanup)
	go every(ctx, cfg.OutboxStatsInterval, w.reportStats)

	if cfg.WorkerHealthAddr == "" {
		<-ctx.Done()
		return nil
	}
	return w.serveHealth(ctx, cfg.WorkerHealthAddr)
}

// every calls fn on each tick of interval until ctx ends.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

func (w *worker) cleanup(ctx context.Context) {
	days := w.cfg.OutboxRetentionDays
	deleted, err := w.container.OutboxRepo.DeleteOld(ctx, days)
	switch {
	case err != nil:
		w.logger.Error("outbox cleanup failed", "error", err)
	case deleted > 0:
		w.logger.Info("outbox pruned", "deleted", deleted, "retention_days", days)
	}
}

func (w *worker) reportStats(ctx context.Context) {
	stats := w.container.OutboxProcessor.GetStats()
	backlog, err := w.container.OutboxRepo.Backlog(ctx)
	if err != nil {
		w.logger.Warn("outbox backlog unavailable", "error", err)
	}
	w.logger.Info("outbox stats",
		slog.Group("backlog",
			"pending", backlog.Pending,
			"retrying", backlog.Retrying,
			"dead", backlog.Dead,
		),
		slog.Group("relay",
			"running", stats.IsRunning,
			"published", stats.PublishedCount,
			"failed", stats.FailedCount,
			"dead", stats.DeadCount,
			"lag_seconds", stats.LagSeconds,
			"last_error", stats.LastError,
		),
	)
}

// serveHealth blocks serving /healthz and /readyz until ctx ends.
func (w *worker) serveHealth(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", w.liveness)
	mux.HandleFunc("GET /readyz", w.readiness)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		w.logger.Info("health server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// liveness reports relay counters; it succeeds while the process is up.
func (w *worker) liveness(rw http.ResponseWriter, _ *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(struct {
		Status string `json:"status"`
		Relay  any    `json:"relay"`
	}{"ok", w.container.OutboxProcessor.GetStats()})
}

// readiness runs the registered health checks and answers 503 when any
// of them is unhealthy.
func (w *worker) readiness(rw http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := w.container.HealthRegistry().GetOverallHealth(ctx)
	body, err := health.ToJSON()
	if err != nil {
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	if health.Status == observability.HealthStatusUnhealthy {
		rw.WriteHeader(http.StatusServiceUnavailable)
	}
	_, _ = rw.Write(body)
}
