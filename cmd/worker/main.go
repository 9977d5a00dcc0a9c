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

	"github.com/brennoviana/mail-triage/internal/bootstrap"
	"github.com/brennoviana/mail-triage/internal/config"
	"github.com/brennoviana/mail-triage/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, "worker")
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Pipeline.Handler(),
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeReclassify(ctx, func(handlerCtx context.Context, submissionID string) error {
		app.Pipeline.StartReclassify()
		start := time.Now()

		reclassifyCtx, cancel := context.WithTimeout(handlerCtx, 2*time.Minute)
		defer cancel()
		err := app.ReclassifyUC.ReclassifyByID(reclassifyCtx, submissionID)

		app.Pipeline.FinishReclassify("worker", err)
		slog.Info("reclassify_done",
			"submission_id", submissionID,
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"ok", err == nil,
		)
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
