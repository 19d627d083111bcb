package recurrence

import (
	"errors"
	"testing"

	"scadenze/internal/core"
)

func TestIntervalStrategy_Dates(t *testing.T) {
	r := reminder("i", d(2024, 1, 1), core.Custom)
	r.RecurrenceInterval = 3

	tests := []struct {
		name       string
		strategy   IntervalStrategy
		start, end core.Date
		want       []core.Date
	}{
		{
			name:     "step from reminder",
			strategy: IntervalStrategy{},
			start:    d(2024, 1, 2), end: d(2024, 1, 10),
			want: []core.Date{d(2024, 1, 4), d(2024, 1, 7), d(2024, 1, 10)},
		},
		{
			name:     "fixed step overrides reminder",
			strategy: IntervalStrategy{Days: 7},
			start:    d(2024, 1, 1), end: d(2024, 1, 15),
			want: []core.Date{d(2024, 1, 1), d(2024, 1, 8), d(2024, 1, 15)},
		},
		{
			name:     "window between two steps",
			strategy: IntervalStrategy{},
			start:    d(2024, 1, 5), end: d(2024, 1, 6),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.strategy.Dates(r, tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("Dates() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Fatalf("Dates()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIntervalStrategy_ZeroStepYieldsNothing(t *testing.T) {
	r := reminder("i", d(2024, 1, 1), core.Custom)
	if got := (IntervalStrategy{}).Dates(r, d(2024, 1, 1), d(2024, 12, 31)); len(got) != 0 {
		t.Fatalf("expected no dates, got %v", got)
	}
}

func TestStrategyFor(t *testing.T) {
	for _, rec := range []core.Recurrence{core.Once, core.Daily, core.Weekly, core.Monthly, core.Custom} {
		if _, err := StrategyFor(rec); err != nil {
			t.Errorf("StrategyFor(%s) error = %v", rec, err)
		}
	}

	if _, err := StrategyFor("yearly"); !errors.Is(err, ErrInvalidRecurrence) {
		t.Errorf("StrategyFor(yearly) error = %v, want ErrInvalidRecurrence", err)
	}
}

type fixedStrategy struct{ date core.Date }

func (f fixedStrategy) Dates(_ core.Reminder, start, end core.Date) []core.Date {
	if f.date.Before(start) || f.date.After(end) {
		return nil
	}
	return []core.Date{f.date}
}

func TestRegisterStrategy(t *testing.T) {
	const biennial core.Recurrence = "biennial"
	RegisterStrategy(biennial, fixedStrategy{date: d(2026, 1, 1)})
	t.Cleanup(func() {
		strategiesMu.Lock()
		delete(strategies, biennial)
		strategiesMu.Unlock()
	})

	got, err := Expand(reminder("b", d(2024, 1, 1), biennial), d(2025, 12, 1), d(2026, 1, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertDates(t, got, d(2026, 1, 1))
}
