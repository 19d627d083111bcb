package main

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"scadenze/internal/amqp"
	"scadenze/internal/cli"
	"scadenze/internal/core"
	"scadenze/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	logger.Info("Starting reminder-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.DataBackend == "memory" {
		logger.Warn("Memory backend is private to this process; use sqlite to scan reminders created through the API")
	}

	res := cli.InitBackend(context.Background(), logger, cfg)

	// Without AMQP the scan still runs and reports what is due.
	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", "error", err)
		} else {
			amqpClient = client
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - due reminders will only be logged")
	}

	processor := services.NewDueProcessor(res.Backend, publisher)

	scan := func(ctx context.Context) {
		today := core.Today()
		result, err := processor.ProcessDue(ctx, today)
		if err != nil {
			logger.Error("Due scan failed", "error", err, "today", today.String())
			return
		}
		logger.Info("Due scan complete",
			"today", today.String(),
			"checked", result.Checked,
			"due", result.Due,
			"published", result.Published,
			"skipped", result.Skipped,
			"failed", result.Failed)
	}

	// Resources are released after the scans stop, not by the signal handler.
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// One wrapped job serves both the startup run and the schedule, so
	// SkipIfStillRunning keeps them from overlapping.
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() { scan(ctx) }))

	scheduler := cron.New()
	if _, err := scheduler.AddJob(cfg.ReminderScanSchedule, job); err != nil {
		logger.Error("Invalid scan schedule", "error", err, "schedule", cfg.ReminderScanSchedule)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.RunScanOnStartup {
		g.Go(func() error {
			logger.Info("Running initial due scan")
			job.Run()
			return nil
		})
	}
	g.Go(func() error {
		scheduler.Start()
		logger.Info("Due scan scheduled", "schedule", cfg.ReminderScanSchedule)
		<-gctx.Done()
		// Wait for a running scan before the store is closed.
		<-scheduler.Stop().Done()
		return nil
	})

	_ = g.Wait()
	cli.WaitForShutdown(ctx, done)

	if amqpClient != nil {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close failed", "error", err)
		}
	}
	if res.Cleanup != nil {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}
	logger.Info("Reminder-worker stopped")
}
