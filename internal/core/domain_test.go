package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validReminder() Reminder {
	return Reminder{
		ID:         "r1",
		Title:      "Rent",
		Amount:     decimal.NewFromInt(800),
		Type:       Payment,
		DueDate:    NewDate(2024, 1, 31),
		Recurrence: Monthly,
		IsActive:   true,
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestReminderValidate(t *testing.T) {
	if err := validReminder().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Reminder)
		want   error
	}{
		{"empty title", func(r *Reminder) { r.Title = "  " }, ErrEmptyTitle},
		{"zero amount", func(r *Reminder) { r.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(r *Reminder) { r.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"bad type", func(r *Reminder) { r.Type = "gift" }, ErrInvalidType},
		{"bad recurrence", func(r *Reminder) { r.Recurrence = "yearly" }, ErrInvalidRecurrence},
		{"custom without interval", func(r *Reminder) { r.Recurrence = Custom }, ErrInvalidInterval},
		{"custom negative interval", func(r *Reminder) {
			r.Recurrence = Custom
			r.RecurrenceInterval = -3
		}, ErrInvalidInterval},
		{"end before due", func(r *Reminder) { r.DurationEnd = NewDate(2024, 1, 30) }, ErrDurationBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReminder()
			tt.mutate(&r)
			err := r.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("end equal to due is valid", func(t *testing.T) {
		r := validReminder()
		r.DurationEnd = r.DueDate
		if err := r.Validate(); err != nil {
			t.Fatalf("expected ok, got %v", err)
		}
	})

	t.Run("missing due date", func(t *testing.T) {
		r := validReminder()
		r.DueDate = Date{}
		if err := r.Validate(); err == nil {
			t.Fatal("expected error for zero due date")
		}
	})
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		in      string
		want    Recurrence
		wantErr bool
	}{
		{"", Once, false},
		{"Monthly", Monthly, false},
		{" custom ", Custom, false},
		{"yearly", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRecurrence(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseRecurrence(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseRecurrence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseReminderType(t *testing.T) {
	if got, err := ParseReminderType("Receivable"); err != nil || got != Receivable {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := ParseReminderType("loan"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}
