package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	Once    Recurrence = "once"
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
	Custom  Recurrence = "custom"
)

const (
	Payment    ReminderType = "payment"
	Receivable ReminderType = "receivable"
)

type (
	Recurrence string

	ReminderType string

	// Reminder is a payment or receivable due on DueDate and possibly repeating.
	// The recurrence engine only reads it.
	Reminder struct {
		ID       string
		WalletID string
		Title    string
		Amount   decimal.Decimal
		Type     ReminderType
		Note     string

		DueDate            Date // anchor, first occurrence
		Recurrence         Recurrence
		RecurrenceInterval int  // days, custom only
		DurationEnd        Date // optional, inclusive
		IsActive           bool
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyTitle          = errors.New("empty title")
	ErrTitleTooLong        = errors.New("title too long (max 200 characters)")
	ErrInvalidType         = errors.New("invalid reminder type")
	ErrInvalidRecurrence   = errors.New("invalid recurrence")
	ErrInvalidInterval     = errors.New("recurrence interval must be at least 1 day")
	ErrDurationBeforeStart = errors.New("duration end must not be before due date")

	// ErrNotFound is returned by reminder stores for unknown IDs.
	ErrNotFound = errors.New("reminder not found")
)

// Validate rejects the zero date. Day and month are always in range
// because Date is built from a normalized time.Time.
func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// IsRecurring reports whether the recurrence produces more than the anchor.
func (r Recurrence) IsRecurring() bool {
	return r != Once
}

// Valid reports whether r is one of the known recurrence kinds.
func (r Recurrence) Valid() bool {
	switch r {
	case Once, Daily, Weekly, Monthly, Custom:
		return true
	}
	return false
}

// ParseRecurrence normalizes user input into a Recurrence.
func ParseRecurrence(s string) (Recurrence, error) {
	r := Recurrence(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return Once, nil
	}
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecurrence, s)
	}
	return r, nil
}

// ParseReminderType normalizes user input into a ReminderType.
func ParseReminderType(s string) (ReminderType, error) {
	t := ReminderType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Payment, Receivable:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// HasEnd reports whether the reminder stops recurring at DurationEnd.
func (r Reminder) HasEnd() bool {
	return !r.DurationEnd.IsZero()
}

// Validate rejects reminders that cannot be stored. The recurrence engine relies on
// these checks having run at creation time.
func (r Reminder) Validate() error {
	if err := r.DueDate.Validate(); err != nil {
		return fmt.Errorf("invalid due date: %w", err)
	}

	if r.HasEnd() {
		if err := r.DurationEnd.Validate(); err != nil {
			return fmt.Errorf("invalid duration end: %w", err)
		}
		if r.DurationEnd.Before(r.DueDate) {
			return ErrDurationBeforeStart
		}
	}

	if !r.Recurrence.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrence, r.Recurrence)
	}
	if r.Recurrence == Custom && r.RecurrenceInterval < 1 {
		return ErrInvalidInterval
	}

	switch r.Type {
	case Payment, Receivable:
	default:
		return ErrInvalidType
	}

	if len(strings.TrimSpace(r.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(r.Title) > 200 {
		return ErrTitleTooLong
	}

	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}
