package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"mes-scheduler/internal/config"
	generate_excel "mes-scheduler/internal/service/generate-excel"
	"mes-scheduler/internal/service/scheduling"
	"mes-scheduler/internal/storage/mysql"

	"github.com/robfig/cron/v3"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	storage, err := mysql.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		os.Exit(1)
	}

	coordinator := scheduling.NewCoordinator(log, storage, cfg.Scheduling.DefaultResourceBonus)
	resultService := scheduling.NewResultService(storage)
	genService := generate_excel.NewGenerateService(resultService)

	// Periodic sweep: plans with overdue tasks get their priority
	// escalated so the next run picks them first among equal due dates.
	sweeper := cron.New()
	_, err = sweeper.AddFunc(cfg.Scheduling.OverdueSweepSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := coordinator.SweepOverdue(ctx); err != nil {
			log.Error("overdue sweep failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		log.Error("invalid overdue sweep spec", slog.String("error", err.Error()))
		os.Exit(1)
	}
	sweeper.Start()
	defer sweeper.Stop()

	log.Info("server started", slog.String("address", cfg.Address))

	srv := &http.Server{
		Addr:        cfg.Address,
		Handler:     routes(*cfg, log, storage, coordinator, resultService, genService),
		ReadTimeout: cfg.HTTPServer.Timeout,
		// A scheduling run blocks its response until the batch is done,
		// which may take minutes on large plan volumes.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	err = srv.ListenAndServe()
	if err != nil {
		log.Error("failed start server", slog.String("error", err.Error()))
	}

	log.Error("server stopped")
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		err = h.coreHandler.Handle(ctx, r)
		if err != nil {
			return err
		}
	}

	// Errors are duplicated to the error log file.
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		cloned := r.Clone()
		_ = h.errorHandler.Handle(ctx, cloned)
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	var level slog.Level = slog.LevelDebug
	switch env {
	case envProd:
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envLocal:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	case envProd:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	handler := &dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	}

	return slog.New(handler)
}
