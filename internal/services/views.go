package services

import (
	"context"
	"fmt"

	"scadenze/internal/core"
	"scadenze/internal/recurrence"
)

// ScheduleView is the dashboard feed: occurrences plus per-type totals.
type ScheduleView struct {
	Occurrences []recurrence.Occurrence `json:"occurrences"`
	Summary     core.ScheduleSummary    `json:"summary"`
}

// Status classifies a single reminder against today.
func (s *ReminderService) Status(ctx context.Context, id string, today core.Date) (recurrence.Classification, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return recurrence.Classification{}, err
	}
	return recurrence.Classify(r, today)
}

// Occurrences expands a single reminder over [from, to].
func (s *ReminderService) Occurrences(ctx context.Context, id string, from, to core.Date) ([]recurrence.Occurrence, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return recurrence.Expand(r, from, to)
}

// Month builds the calendar grid of year/month over every stored reminder.
func (s *ReminderService) Month(ctx context.Context, year, month int, today core.Date) ([]recurrence.CalendarCell, error) {
	reminders, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return s.grid.BuildMonth(year, month, reminders, today)
}

// Schedule returns the occurrences of the next horizonDays days with their totals.
func (s *ReminderService) Schedule(ctx context.Context, today core.Date, horizonDays int) (ScheduleView, error) {
	reminders, err := s.store.ListActive(ctx)
	if err != nil {
		return ScheduleView{}, fmt.Errorf("load reminders: %w", err)
	}
	occ, err := recurrence.Schedule(reminders, today, horizonDays)
	if err != nil {
		return ScheduleView{}, err
	}
	return ScheduleView{
		Occurrences: occ,
		Summary: core.ScheduleSummary{
			From:   today,
			To:     today.AddDays(horizonDays),
			ByType: recurrence.Totals(occ, reminders),
		},
	}, nil
}

func (s *ReminderService) Overdue(ctx context.Context, today core.Date) ([]recurrence.Classification, error) {
	reminders, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return recurrence.Overdue(reminders, today)
}

func (s *ReminderService) Upcoming(ctx context.Context, today core.Date, days int) ([]recurrence.Classification, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: negative horizon %d", recurrence.ErrInvalidWindow, days)
	}
	reminders, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reminders: %w", err)
	}
	return recurrence.Upcoming(reminders, today, days)
}
