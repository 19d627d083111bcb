package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"scadenze/internal/amqp"
	"scadenze/internal/backend"
	"scadenze/internal/core"
	"scadenze/internal/recurrence"
)

// Publisher delivers reminder-due events downstream.
type Publisher interface {
	PublishReminderDue(ctx context.Context, msg *amqp.ReminderDueMessage) error
}

// DueStore is what the due scan reads and records.
type DueStore interface {
	ListActive(ctx context.Context) ([]core.Reminder, error)
	backend.NotificationLog
}

// DueScanResult summarizes one scan.
type DueScanResult struct {
	Checked   int
	Due       int
	Published int
	Skipped   int
	Failed    int
}

// DueProcessor announces every occurrence that is due today or overdue exactly once.
// Scans are serialized: the check, publish and record steps of one scan must
// not interleave with another's.
type DueProcessor struct {
	store     DueStore
	publisher Publisher

	mu sync.Mutex
}

// NewDueProcessor creates a due processor. A nil publisher makes scans
// report due reminders without announcing or recording them.
func NewDueProcessor(store DueStore, publisher Publisher) *DueProcessor {
	return &DueProcessor{
		store:     store,
		publisher: publisher,
	}
}

// ProcessDue classifies all active reminders against today and publishes the due ones.
// Failures on single reminders are logged and counted; the scan carries on.
func (p *DueProcessor) ProcessDue(ctx context.Context, today core.Date) (DueScanResult, error) {
	var res DueScanResult
	if p.store == nil {
		return res, fmt.Errorf("processor not properly initialized")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	reminders, err := p.store.ListActive(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to get active reminders: %w", err)
	}

	slog.InfoContext(ctx, "Scanning reminders",
		"total_active", len(reminders),
		"today", today.String())

	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		c, err := recurrence.Classify(r, today)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to classify reminder", "reminder_id", r.ID, "error", err)
			res.Failed++
			continue
		}
		if c.DaysUntilDue > 0 {
			continue
		}
		res.Due++

		if p.publisher == nil {
			slog.WarnContext(ctx, "Publisher not available, skipping due reminder",
				"reminder_id", r.ID, "due_date", c.NextDue.String())
			res.Skipped++
			continue
		}

		done, err := p.store.WasNotified(ctx, r.ID, c.NextDue)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to check notification history", "reminder_id", r.ID, "error", err)
			res.Failed++
			continue
		}
		if done {
			res.Skipped++
			continue
		}

		msg := amqp.NewReminderDueMessage(r, c.NextDue, c.DaysUntilDue, string(c.Status))
		if err := p.publisher.PublishReminderDue(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish reminder due event",
				"reminder_id", r.ID,
				"due_date", c.NextDue.String(),
				"error", err)
			res.Failed++
			continue
		}

		if err := p.store.MarkNotified(ctx, r.ID, c.NextDue); err != nil {
			// Published but not recorded: the next scan announces it again.
			slog.ErrorContext(ctx, "Failed to record notification", "reminder_id", r.ID, "error", err)
		}
		res.Published++
		slog.InfoContext(ctx, "Announced due reminder",
			"reminder_id", r.ID,
			"title", r.Title,
			"due_date", c.NextDue.String(),
			"status", c.Status)
	}

	slog.InfoContext(ctx, "Reminder scan complete",
		"checked", res.Checked,
		"due", res.Due,
		"published", res.Published,
		"skipped", res.Skipped,
		"failed", res.Failed)

	return res, nil
}
