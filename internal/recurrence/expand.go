package recurrence

import (
	"errors"
	"fmt"

	"scadenze/internal/core"
)

var (
	// ErrInvalidRecurrence is returned for a custom reminder without a positive
	// interval or for an unknown recurrence kind.
	ErrInvalidRecurrence = errors.New("invalid recurrence")

	// ErrInvalidWindow is returned when a query window starts after it ends.
	ErrInvalidWindow = errors.New("invalid window")
)

// Occurrence is one concrete date on which a reminder is due.
type Occurrence struct {
	ReminderID string    `json:"reminder_id"`
	Date       core.Date `json:"date"`
	IsAnchor   bool      `json:"is_anchor"`
}

// Expand returns the occurrences of r inside the inclusive window [start, end],
// ascending and unique. Occurrences after r.DurationEnd are never returned.
// The IsActive flag is ignored; filtering inactive reminders is up to the caller.
func Expand(r core.Reminder, start, end core.Date) ([]Occurrence, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidWindow, start, end)
	}
	strategy, err := strategyForReminder(r)
	if err != nil {
		return nil, err
	}

	if r.HasEnd() {
		end = core.MinDate(end, r.DurationEnd)
	}
	if end.Before(start) || end.Before(r.DueDate) {
		return []Occurrence{}, nil
	}

	dates := strategy.Dates(r, start, end)
	out := make([]Occurrence, 0, len(dates))
	for _, d := range dates {
		out = append(out, Occurrence{
			ReminderID: r.ID,
			Date:       d,
			IsAnchor:   d.Equal(r.DueDate),
		})
	}
	return out, nil
}

func strategyForReminder(r core.Reminder) (OccurrenceStrategy, error) {
	if r.Recurrence == core.Custom && r.RecurrenceInterval < 1 {
		return nil, fmt.Errorf("%w: custom interval %d for reminder %s", ErrInvalidRecurrence, r.RecurrenceInterval, r.ID)
	}
	return StrategyFor(r.Recurrence)
}

// CheckRecurrence reports the error Expand would return for r's recurrence rule.
// The service calls it before storing a reminder.
func CheckRecurrence(r core.Reminder) error {
	_, err := strategyForReminder(r)
	return err
}

// ExpandAll expands every reminder that passes keep over the same window.
// The result is grouped per reminder, not globally sorted.
func ExpandAll(reminders []core.Reminder, start, end core.Date, keep func(core.Reminder) bool) ([]Occurrence, error) {
	var all []Occurrence
	for _, r := range reminders {
		if keep != nil && !keep(r) {
			continue
		}
		occ, err := Expand(r, start, end)
		if err != nil {
			return nil, err
		}
		all = append(all, occ...)
	}
	return all, nil
}

// ActiveOnly keeps reminders with IsActive set.
func ActiveOnly(r core.Reminder) bool {
	return r.IsActive
}
