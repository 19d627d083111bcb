// Package recurrence expands reminders into concrete occurrence dates and builds the
// views derived from them: month grids, due classifications and schedules.
//
// This file implements the Strategy Pattern for occurrence generation.
// Each recurrence kind (once, daily, weekly, monthly, custom) has its own strategy
// that knows how to enumerate dates inside a window.
package recurrence

import (
	"fmt"
	"sync"

	"scadenze/internal/core"
)

// OccurrenceStrategy enumerates the occurrence dates of a reminder in [start, end].
// Implementations may assume start <= end, that end already accounts for the
// reminder's DurationEnd and that the reminder passed Validate.
// Results must be strictly ascending and never before the reminder's DueDate.
type OccurrenceStrategy interface {
	Dates(r core.Reminder, start, end core.Date) []core.Date
}

// OnceStrategy yields the anchor date only.
type OnceStrategy struct{}

// Dates returns DueDate when it lies in the window.
func (OnceStrategy) Dates(r core.Reminder, start, end core.Date) []core.Date {
	if r.DueDate.Before(start) || r.DueDate.After(end) {
		return nil
	}
	return []core.Date{r.DueDate}
}

// IntervalStrategy steps a fixed number of days from the anchor.
// A zero Days takes the step from the reminder's RecurrenceInterval.
type IntervalStrategy struct {
	Days int
}

func (s IntervalStrategy) step(r core.Reminder) int {
	if s.Days > 0 {
		return s.Days
	}
	return r.RecurrenceInterval
}

// Dates skips whole steps up to the window and walks forward from there.
func (s IntervalStrategy) Dates(r core.Reminder, start, end core.Date) []core.Date {
	step := s.step(r)
	if step < 1 {
		return nil
	}

	steps := 0
	if r.DueDate.Before(start) {
		gap := core.DaysBetween(r.DueDate, start)
		steps = (gap + step - 1) / step
	}

	var out []core.Date
	for d := r.DueDate.AddDays(steps * step); !d.After(end); d = d.AddDays(step) {
		out = append(out, d)
	}
	return out
}

// MonthlyStrategy repeats on the anchor's day of month, clamped to short months.
type MonthlyStrategy struct{}

// minMonthlyIterations keeps tiny windows from being starved by the derived ceiling.
const minMonthlyIterations = 3

// Dates finds the smallest k >= 0 with clamped(anchor+k) >= start, then emits one date
// per month. Work is capped at the number of months the window spans plus two.
func (MonthlyStrategy) Dates(r core.Reminder, start, end core.Date) []core.Date {
	anchor := r.DueDate

	k := core.MonthsBetween(anchor, start)
	if k < 0 {
		k = 0
	}
	if anchor.AddMonthsClamped(k).Before(start) {
		k++
	}

	limit := max(core.MonthsBetween(start, end)+2, minMonthlyIterations)

	var out []core.Date
	for i := 0; i < limit; i++ {
		d := anchor.AddMonthsClamped(k + i)
		if d.After(end) {
			break
		}
		out = append(out, d)
	}
	return out
}

var (
	strategiesMu sync.RWMutex

	// strategies maps recurrence kinds to their occurrence generators.
	strategies = map[core.Recurrence]OccurrenceStrategy{
		core.Once:    OnceStrategy{},
		core.Daily:   IntervalStrategy{Days: 1},
		core.Weekly:  IntervalStrategy{Days: 7},
		core.Monthly: MonthlyStrategy{},
		core.Custom:  IntervalStrategy{},
	}
)

// StrategyFor returns the occurrence strategy for a recurrence kind.
func StrategyFor(rec core.Recurrence) (OccurrenceStrategy, error) {
	strategiesMu.RLock()
	defer strategiesMu.RUnlock()

	s, ok := strategies[rec]
	if !ok {
		return nil, fmt.Errorf("%w: unknown recurrence %q", ErrInvalidRecurrence, rec)
	}
	return s, nil
}

// RegisterStrategy installs or replaces the strategy for a recurrence kind.
func RegisterStrategy(rec core.Recurrence, s OccurrenceStrategy) {
	strategiesMu.Lock()
	defer strategiesMu.Unlock()
	strategies[rec] = s
}
