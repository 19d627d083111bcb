package recurrence

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

func TestSchedule(t *testing.T) {
	today := d(2024, 3, 1)

	off := reminder("off", d(2024, 3, 2), core.Daily)
	off.IsActive = false

	income := reminder("b-salary", d(2024, 2, 5), core.Monthly)
	income.Type = core.Receivable
	income.Amount = decimal.NewFromInt(2000)

	reminders := []core.Reminder{
		reminder("c-rent", d(2024, 1, 5), core.Monthly),
		income,
		reminder("a-gym", d(2024, 2, 26), core.Weekly),
		off,
	}

	got, err := Schedule(reminders, today, 10)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	want := []struct {
		id   string
		date core.Date
	}{
		{"a-gym", d(2024, 3, 4)},
		{"b-salary", d(2024, 3, 5)},
		{"c-rent", d(2024, 3, 5)},
		{"a-gym", d(2024, 3, 11)},
	}
	if len(got) != len(want) {
		t.Fatalf("Schedule() = %+v", got)
	}
	for i, w := range want {
		if got[i].ReminderID != w.id || !got[i].Date.Equal(w.date) {
			t.Fatalf("Schedule()[%d] = %s %s, want %s %s", i, got[i].ReminderID, got[i].Date, w.id, w.date)
		}
	}

	totals := Totals(got, reminders)
	if len(totals) != 2 {
		t.Fatalf("Totals() = %+v", totals)
	}
	if totals[0].Type != core.Payment || totals[0].Count != 3 || !totals[0].Amount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("payment total = %+v", totals[0])
	}
	if totals[1].Type != core.Receivable || totals[1].Count != 1 || !totals[1].Amount.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("receivable total = %+v", totals[1])
	}
}

func TestSchedule_ZeroHorizon(t *testing.T) {
	today := d(2024, 3, 1)
	got, err := Schedule([]core.Reminder{reminder("d", d(2024, 2, 1), core.Daily)}, today, 0)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	assertDates(t, got, today)
}

func TestSchedule_Empty(t *testing.T) {
	got, err := Schedule(nil, d(2024, 3, 1), 30)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil schedule, got %v", got)
	}
}

func TestSchedule_NegativeHorizon(t *testing.T) {
	if _, err := Schedule(nil, d(2024, 3, 1), -1); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}
