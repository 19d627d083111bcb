package recurrence

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

func d(y, m, day int) core.Date { return core.NewDate(y, m, day) }

func reminder(id string, due core.Date, rec core.Recurrence) core.Reminder {
	return core.Reminder{
		ID:         id,
		Title:      "reminder " + id,
		Amount:     decimal.NewFromInt(10),
		Type:       core.Payment,
		DueDate:    due,
		Recurrence: rec,
		IsActive:   true,
	}
}

func dates(occ []Occurrence) []core.Date {
	out := make([]core.Date, len(occ))
	for i, o := range occ {
		out[i] = o.Date
	}
	return out
}

func assertDates(t *testing.T, got []Occurrence, want ...core.Date) {
	t.Helper()
	g := dates(got)
	if len(g) != len(want) {
		t.Fatalf("got %d occurrences %v, want %d %v", len(g), g, len(want), want)
	}
	for i := range want {
		if !g[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %s, want %s (all: %v)", i, g[i], want[i], g)
		}
	}
}

func TestExpand_Scenarios(t *testing.T) {
	custom := reminder("c", d(2024, 1, 1), core.Custom)
	custom.RecurrenceInterval = 10

	bounded := reminder("b", d(2024, 1, 1), core.Daily)
	bounded.DurationEnd = d(2024, 1, 3)

	tests := []struct {
		name       string
		r          core.Reminder
		start, end core.Date
		want       []core.Date
	}{
		{
			name:  "A monthly clamps to leap february",
			r:     reminder("a", d(2024, 1, 31), core.Monthly),
			start: d(2024, 2, 1), end: d(2024, 2, 29),
			want: []core.Date{d(2024, 2, 29)},
		},
		{
			name:  "B monthly clamps to thirty day month",
			r:     reminder("a", d(2024, 1, 31), core.Monthly),
			start: d(2024, 4, 1), end: d(2024, 4, 30),
			want: []core.Date{d(2024, 4, 30)},
		},
		{
			name:  "C custom interval of ten days",
			r:     custom,
			start: d(2024, 1, 15), end: d(2024, 1, 25),
			want: []core.Date{d(2024, 1, 21)},
		},
		{
			name:  "D daily stops at duration end",
			r:     bounded,
			start: d(2024, 1, 1), end: d(2024, 1, 31),
			want: []core.Date{d(2024, 1, 1), d(2024, 1, 2), d(2024, 1, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.r, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			assertDates(t, got, tt.want...)
		})
	}
}

func TestExpand_Once(t *testing.T) {
	r := reminder("o", d(2024, 3, 15), core.Once)

	tests := []struct {
		name       string
		start, end core.Date
		want       []core.Date
	}{
		{"inside", d(2024, 3, 1), d(2024, 3, 31), []core.Date{d(2024, 3, 15)}},
		{"single day window", d(2024, 3, 15), d(2024, 3, 15), []core.Date{d(2024, 3, 15)}},
		{"window before", d(2024, 2, 1), d(2024, 3, 14), nil},
		{"window after", d(2024, 3, 16), d(2024, 4, 30), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(r, tt.start, tt.end)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			assertDates(t, got, tt.want...)
			if len(got) == 1 && !got[0].IsAnchor {
				t.Fatal("once occurrence must be the anchor")
			}
		})
	}
}

func TestExpand_Weekly(t *testing.T) {
	r := reminder("w", d(2024, 1, 3), core.Weekly)
	got, err := Expand(r, d(2024, 1, 10), d(2024, 1, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertDates(t, got, d(2024, 1, 10), d(2024, 1, 17), d(2024, 1, 24), d(2024, 1, 31))
	if got[0].IsAnchor {
		t.Fatal("later occurrences are not anchors")
	}
}

func TestExpand_WindowBeforeAnchor(t *testing.T) {
	for _, rec := range []core.Recurrence{core.Daily, core.Weekly, core.Monthly} {
		r := reminder("x", d(2024, 6, 1), rec)
		got, err := Expand(r, d(2024, 1, 1), d(2024, 5, 31))
		if err != nil {
			t.Fatalf("%s: Expand() error = %v", rec, err)
		}
		if len(got) != 0 {
			t.Fatalf("%s: expected no occurrences before the anchor, got %v", rec, dates(got))
		}
	}
}

func TestExpand_AnchorFlag(t *testing.T) {
	r := reminder("m", d(2024, 1, 15), core.Monthly)
	got, err := Expand(r, d(2024, 1, 1), d(2024, 3, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertDates(t, got, d(2024, 1, 15), d(2024, 2, 15), d(2024, 3, 15))
	wantAnchor := []bool{true, false, false}
	for i, o := range got {
		if o.IsAnchor != wantAnchor[i] {
			t.Fatalf("occurrence %s IsAnchor = %v", o.Date, o.IsAnchor)
		}
		if o.ReminderID != "m" {
			t.Fatalf("ReminderID = %q", o.ReminderID)
		}
	}
}

func TestExpand_DurationEndInclusive(t *testing.T) {
	r := reminder("m", d(2024, 1, 31), core.Monthly)
	r.DurationEnd = d(2024, 4, 30)

	got, err := Expand(r, d(2024, 1, 1), d(2024, 12, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertDates(t, got, d(2024, 1, 31), d(2024, 2, 29), d(2024, 3, 31), d(2024, 4, 30))

	r.DurationEnd = d(2024, 4, 29)
	got, err = Expand(r, d(2024, 1, 1), d(2024, 12, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	assertDates(t, got, d(2024, 1, 31), d(2024, 2, 29), d(2024, 3, 31))
}

func TestExpand_DurationEndBeforeWindow(t *testing.T) {
	r := reminder("d", d(2024, 1, 1), core.Daily)
	r.DurationEnd = d(2024, 1, 10)
	got, err := Expand(r, d(2024, 2, 1), d(2024, 2, 29))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
}

func TestExpand_MonthlyFastForward(t *testing.T) {
	tests := []struct {
		name       string
		anchor     core.Date
		start, end core.Date
		want       []core.Date
	}{
		{
			name:   "naive month lands before window start",
			anchor: d(2024, 1, 10),
			start:  d(2024, 5, 20), end: d(2024, 7, 5),
			want: []core.Date{d(2024, 6, 10)},
		},
		{
			name:   "window starts on occurrence",
			anchor: d(2024, 1, 10),
			start:  d(2024, 5, 10), end: d(2024, 5, 10),
			want: []core.Date{d(2024, 5, 10)},
		},
		{
			name:   "clamped day right at window start",
			anchor: d(2023, 1, 31),
			start:  d(2023, 2, 28), end: d(2023, 3, 1),
			want: []core.Date{d(2023, 2, 28)},
		},
		{
			name:   "year rollover",
			anchor: d(2023, 11, 30),
			start:  d(2024, 1, 1), end: d(2024, 3, 31),
			want: []core.Date{d(2024, 1, 30), d(2024, 2, 29), d(2024, 3, 30)},
		},
		{
			name:   "anchor inside window",
			anchor: d(2024, 2, 29),
			start:  d(2024, 2, 1), end: d(2024, 5, 31),
			want: []core.Date{d(2024, 2, 29), d(2024, 3, 29), d(2024, 4, 29), d(2024, 5, 29)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(reminder("m", tt.anchor, core.Monthly), tt.start, tt.end)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			assertDates(t, got, tt.want...)
		})
	}
}

func TestExpand_MonthlyLongWindow(t *testing.T) {
	r := reminder("m", d(2000, 1, 31), core.Monthly)
	got, err := Expand(r, d(2000, 1, 1), d(2049, 12, 31))
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(got) != 50*12 {
		t.Fatalf("got %d occurrences, want %d", len(got), 50*12)
	}
	last := got[len(got)-1].Date
	if !last.Equal(d(2049, 12, 31)) {
		t.Fatalf("last occurrence = %s", last)
	}
}

func TestExpand_Errors(t *testing.T) {
	t.Run("inverted window", func(t *testing.T) {
		_, err := Expand(reminder("x", d(2024, 1, 1), core.Daily), d(2024, 2, 1), d(2024, 1, 1))
		if !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	for _, interval := range []int{0, -1} {
		r := reminder("x", d(2024, 1, 1), core.Custom)
		r.RecurrenceInterval = interval
		_, err := Expand(r, d(2024, 1, 1), d(2024, 1, 31))
		if !errors.Is(err, ErrInvalidRecurrence) {
			t.Fatalf("interval %d: expected ErrInvalidRecurrence, got %v", interval, err)
		}
	}

	t.Run("unknown recurrence", func(t *testing.T) {
		_, err := Expand(reminder("x", d(2024, 1, 1), "fortnightly"), d(2024, 1, 1), d(2024, 1, 31))
		if !errors.Is(err, ErrInvalidRecurrence) {
			t.Fatalf("expected ErrInvalidRecurrence, got %v", err)
		}
	})
}

func TestExpand_Properties(t *testing.T) {
	custom := reminder("c", d(2023, 12, 5), core.Custom)
	custom.RecurrenceInterval = 9
	bounded := reminder("b", d(2023, 8, 31), core.Monthly)
	bounded.DurationEnd = d(2024, 6, 15)

	reminders := []core.Reminder{
		reminder("o", d(2024, 2, 14), core.Once),
		reminder("d", d(2023, 12, 30), core.Daily),
		reminder("w", d(2024, 1, 7), core.Weekly),
		reminder("m", d(2023, 10, 31), core.Monthly),
		custom,
		bounded,
	}
	windows := [][2]core.Date{
		{d(2024, 1, 1), d(2024, 1, 1)},
		{d(2024, 1, 29), d(2024, 3, 10)},
		{d(2024, 2, 14), d(2024, 2, 14)},
		{d(2023, 1, 1), d(2025, 1, 1)},
		{d(2024, 6, 15), d(2024, 6, 30)},
	}

	for _, r := range reminders {
		for _, w := range windows {
			got, err := Expand(r, w[0], w[1])
			if err != nil {
				t.Fatalf("%s %v: %v", r.ID, w, err)
			}
			again, _ := Expand(r, w[0], w[1])
			if !reflect.DeepEqual(got, again) {
				t.Fatalf("%s %v: expansion is not idempotent", r.ID, w)
			}
			if r.Recurrence == core.Once && len(got) > 1 {
				t.Fatalf("%s: once yielded %d occurrences", r.ID, len(got))
			}
			for i, o := range got {
				if o.Date.Before(w[0]) || o.Date.After(w[1]) {
					t.Fatalf("%s %v: %s outside window", r.ID, w, o.Date)
				}
				if r.HasEnd() && o.Date.After(r.DurationEnd) {
					t.Fatalf("%s: %s after duration end", r.ID, o.Date)
				}
				if o.Date.Before(r.DueDate) {
					t.Fatalf("%s: %s before anchor", r.ID, o.Date)
				}
				if i > 0 && !got[i-1].Date.Before(o.Date) {
					t.Fatalf("%s %v: not strictly ascending at %d", r.ID, w, i)
				}
				if r.Recurrence == core.Monthly {
					want := min(r.DueDate.Day(), core.DaysIn(o.Date.Year(), o.Date.Month()))
					if o.Date.Day() != want {
						t.Fatalf("%s: %s day %d, want %d", r.ID, o.Date, o.Date.Day(), want)
					}
				}
			}
		}
	}
}
