package recurrence

import (
	"fmt"
	"sort"

	"scadenze/internal/core"
)

// Schedule merges the occurrences of all active reminders in [today, today+horizonDays]
// into one list sorted by date, ties broken by reminder ID.
// Distinct reminders due on the same day all appear.
func Schedule(reminders []core.Reminder, today core.Date, horizonDays int) ([]Occurrence, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("%w: negative horizon %d", ErrInvalidWindow, horizonDays)
	}

	all, err := ExpandAll(reminders, today, today.AddDays(horizonDays), ActiveOnly)
	if err != nil {
		return nil, err
	}
	if all == nil {
		all = []Occurrence{}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if c := all[i].Date.Compare(all[j].Date); c != 0 {
			return c < 0
		}
		return all[i].ReminderID < all[j].ReminderID
	})
	return all, nil
}

// Totals sums the amounts of a schedule per reminder type.
// Occurrences whose reminder is not in reminders are skipped.
func Totals(occurrences []Occurrence, reminders []core.Reminder) []core.TypeTotal {
	byID := make(map[string]core.Reminder, len(reminders))
	for _, r := range reminders {
		byID[r.ID] = r
	}

	totals := map[core.ReminderType]*core.TypeTotal{}
	for _, o := range occurrences {
		r, ok := byID[o.ReminderID]
		if !ok {
			continue
		}
		t, ok := totals[r.Type]
		if !ok {
			t = &core.TypeTotal{Type: r.Type}
			totals[r.Type] = t
		}
		t.Count++
		t.Amount = t.Amount.Add(r.Amount)
	}

	out := make([]core.TypeTotal, 0, len(totals))
	for _, typ := range []core.ReminderType{core.Payment, core.Receivable} {
		if t, ok := totals[typ]; ok {
			out = append(out, *t)
		}
	}
	return out
}
