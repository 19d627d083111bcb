package recurrence

import (
	"sort"

	"scadenze/internal/core"
)

// Status is the badge shown next to a reminder.
type Status string

const (
	StatusInactive Status = "inactive"
	StatusOverdue  Status = "overdue"
	StatusDueToday Status = "due_today"
	StatusDueSoon  Status = "due_soon"
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
)

const (
	dueSoonDays  = 3
	upcomingDays = 7

	// monthlyLookahead covers the largest gap between two clamped monthly
	// occurrences (Feb 28 -> Mar 31).
	monthlyLookahead = 31
)

// Classification is the position of a reminder relative to a reference day.
type Classification struct {
	ReminderID   string    `json:"reminder_id"`
	NextDue      core.Date `json:"next_due"`
	DaysUntilDue int       `json:"days_until_due"`
	Status       Status    `json:"status"`
}

// StatusFor maps a day offset to its band. Inactive reminders are handled by Classify.
func StatusFor(daysUntilDue int) Status {
	switch {
	case daysUntilDue < 0:
		return StatusOverdue
	case daysUntilDue == 0:
		return StatusDueToday
	case daysUntilDue <= dueSoonDays:
		return StatusDueSoon
	case daysUntilDue <= upcomingDays:
		return StatusUpcoming
	default:
		return StatusActive
	}
}

// lookahead is the smallest window length guaranteed to contain the next occurrence.
func lookahead(r core.Reminder) int {
	switch r.Recurrence {
	case core.Daily:
		return 1
	case core.Weekly:
		return 7
	case core.Custom:
		return r.RecurrenceInterval
	default:
		return monthlyLookahead
	}
}

// NextDue returns the occurrence a reminder is measured against on today.
// For a one-time reminder, or one whose anchor is still ahead, that is DueDate.
// Otherwise it is the first occurrence on or after today; when the recurrence has
// already ended it is the last occurrence, which is then in the past.
func NextDue(r core.Reminder, today core.Date) (core.Date, error) {
	if err := CheckRecurrence(r); err != nil {
		return core.Date{}, err
	}
	if !r.Recurrence.IsRecurring() || !r.DueDate.Before(today) {
		return r.DueDate, nil
	}

	span := lookahead(r)
	next, err := Expand(r, today, today.AddDays(span))
	if err != nil {
		return core.Date{}, err
	}
	if len(next) > 0 {
		return next[0].Date, nil
	}

	// Nothing ahead: the recurrence stopped at DurationEnd.
	last := today.AddDays(-1)
	if r.HasEnd() {
		last = core.MinDate(last, r.DurationEnd)
	}
	prev, err := Expand(r, core.MaxDate(r.DueDate, last.AddDays(-span)), last)
	if err != nil {
		return core.Date{}, err
	}
	if len(prev) == 0 {
		return r.DueDate, nil
	}
	return prev[len(prev)-1].Date, nil
}

// Classify computes the day offset to the next occurrence and the status band.
// Inactive reminders are always StatusInactive; when their rule cannot be
// expanded the anchor stands in as the next due date.
func Classify(r core.Reminder, today core.Date) (Classification, error) {
	next, err := NextDue(r, today)
	if err != nil {
		if r.IsActive {
			return Classification{}, err
		}
		next = r.DueDate
	}

	days := core.DaysBetween(today, next)
	status := StatusFor(days)
	if !r.IsActive {
		status = StatusInactive
	}

	return Classification{
		ReminderID:   r.ID,
		NextDue:      next,
		DaysUntilDue: days,
		Status:       status,
	}, nil
}

// ClassifyAll classifies the active reminders for which keep returns true,
// sorted by DaysUntilDue and then reminder ID.
func ClassifyAll(reminders []core.Reminder, today core.Date, keep func(Classification) bool) ([]Classification, error) {
	var out []Classification
	for _, r := range reminders {
		if !r.IsActive {
			continue
		}
		c, err := Classify(r, today)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntilDue != out[j].DaysUntilDue {
			return out[i].DaysUntilDue < out[j].DaysUntilDue
		}
		return out[i].ReminderID < out[j].ReminderID
	})
	return out, nil
}

// Overdue lists active reminders whose next occurrence is before today.
func Overdue(reminders []core.Reminder, today core.Date) ([]Classification, error) {
	return ClassifyAll(reminders, today, func(c Classification) bool {
		return c.DaysUntilDue < 0
	})
}

// Upcoming lists active reminders due between today and today+days inclusive.
func Upcoming(reminders []core.Reminder, today core.Date, days int) ([]Classification, error) {
	return ClassifyAll(reminders, today, func(c Classification) bool {
		return c.DaysUntilDue >= 0 && c.DaysUntilDue <= days
	})
}
