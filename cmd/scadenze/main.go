package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"scadenze/internal/cli"
	apphttp "scadenze/internal/http"
	"scadenze/internal/log"
	"scadenze/internal/middleware/ratelimit"
	"scadenze/internal/recurrence"
	"scadenze/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	res := cli.InitBackend(context.Background(), logger, cfg)

	level := log.ParseLevel(cfg.LogLevel)
	svc := services.NewReminderService(res.Backend, log.New(log.Config{
		Level:     level,
		Component: log.ComponentReminder,
		Handler:   logger.Handler(),
	})).WithGrid(recurrence.GridBuilder{WeekStart: cfg.WeekStart})

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Service:           svc,
		Store:             res.Backend,
		Logger:            log.New(log.Config{Level: level, Component: log.ComponentHTTP, Handler: logger.Handler()}),
		HorizonDays:       cfg.ScheduleHorizonDays,
		CalendarCacheSize: cfg.CalendarCacheSize,
		CalendarCacheTTL:  cfg.CalendarCacheTTL,
		RateLimit:         ratelimit.DefaultConfig(),
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// The server drains before the store closes; Shutdown runs only once.
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if res.Cleanup != nil {
			if err := res.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting scadenze server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"week_start", cfg.WeekStart.String(),
			"horizon_days", cfg.ScheduleHorizonDays)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
