package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"scadenze/internal/backend"
	"scadenze/internal/core"
	"scadenze/internal/log"
	"scadenze/internal/recurrence"
)

// ErrValidation marks errors caused by the caller's input.
var ErrValidation = errors.New("validation failed")

// ReminderStore is the persistence the reminder service needs.
type ReminderStore interface {
	backend.ReminderReader
	backend.ReminderWriter
}

// NewReminderInput is the user-facing shape of a reminder before parsing.
type NewReminderInput struct {
	WalletID           string `json:"wallet_id"`
	Title              string `json:"title"`
	Amount             string `json:"amount"`
	Type               string `json:"type"`
	Note               string `json:"note"`
	DueDate            string `json:"due_date"`
	Recurrence         string `json:"recurrence"`
	RecurrenceInterval int    `json:"recurrence_interval"`
	DurationEnd        string `json:"duration_end"`
}

// ReminderService validates reminders before they reach the store and
// serves the engine-backed views over the stored set.
type ReminderService struct {
	store  ReminderStore
	logger *log.StructuredLogger
	grid   recurrence.GridBuilder
	newID  func() string

	mu        sync.Mutex
	listeners []func()
}

func NewReminderService(store ReminderStore, logger *log.Logger) *ReminderService {
	if logger == nil {
		logger = log.NewForComponent(log.ComponentReminder, slog.LevelInfo)
	}
	return &ReminderService{
		store:  store,
		logger: log.NewStructuredLogger(logger),
		grid:   recurrence.DefaultGrid,
		newID:  uuid.NewString,
	}
}

// WithGrid changes how calendar grids are laid out.
func (s *ReminderService) WithGrid(g recurrence.GridBuilder) *ReminderService {
	s.grid = g
	return s
}

// OnChange registers fn to run after every successful write.
func (s *ReminderService) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *ReminderService) changed() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// ParseReminder turns raw input into a validated, active reminder without an ID.
func ParseReminder(in NewReminderInput) (core.Reminder, error) {
	var problems []error

	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		problems = append(problems, fmt.Errorf("amount: %w", err))
	}
	typ, err := core.ParseReminderType(in.Type)
	if err != nil {
		problems = append(problems, err)
	}
	rec, err := core.ParseRecurrence(in.Recurrence)
	if err != nil {
		problems = append(problems, err)
	}
	due, err := core.ParseDate(in.DueDate)
	if err != nil {
		problems = append(problems, fmt.Errorf("due_date: %w", err))
	}
	var end core.Date
	if strings.TrimSpace(in.DurationEnd) != "" {
		if end, err = core.ParseDate(in.DurationEnd); err != nil {
			problems = append(problems, fmt.Errorf("duration_end: %w", err))
		}
	}
	if len(problems) > 0 {
		return core.Reminder{}, fmt.Errorf("%w: %w", ErrValidation, errors.Join(problems...))
	}

	r := core.Reminder{
		WalletID:           strings.TrimSpace(in.WalletID),
		Title:              strings.TrimSpace(in.Title),
		Amount:             amount,
		Type:               typ,
		Note:               strings.TrimSpace(in.Note),
		DueDate:            due,
		Recurrence:         rec,
		RecurrenceInterval: in.RecurrenceInterval,
		DurationEnd:        end,
		IsActive:           true,
	}
	if rec != core.Custom {
		r.RecurrenceInterval = 0
	}
	if err := r.Validate(); err != nil {
		return core.Reminder{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := recurrence.CheckRecurrence(r); err != nil {
		return core.Reminder{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return r, nil
}

// Create parses, stores and returns a new reminder with a fresh ID.
func (s *ReminderService) Create(ctx context.Context, in NewReminderInput) (core.Reminder, error) {
	r, err := ParseReminder(in)
	if err != nil {
		return core.Reminder{}, err
	}
	r.ID = s.newID()

	if err := s.store.Create(ctx, r); err != nil {
		s.logger.LogError(ctx, "Failed to store reminder", err, log.ComponentReminder, log.OpCreate,
			log.NewFields().WithReminder(r.ID, r.Title, string(r.Type), string(r.Recurrence), core.Cents(r.Amount)))
		return core.Reminder{}, fmt.Errorf("save reminder: %w", err)
	}

	s.logger.LogReminderCreated(ctx, r.ID, r.Title, string(r.Type), string(r.Recurrence), core.Cents(r.Amount))
	s.changed()
	return r, nil
}

func (s *ReminderService) Get(ctx context.Context, id string) (core.Reminder, error) {
	return s.store.Get(ctx, id)
}

func (s *ReminderService) List(ctx context.Context, walletID string) ([]core.Reminder, error) {
	return s.store.List(ctx, walletID)
}

func (s *ReminderService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.changed()
	return nil
}

// Toggle flips IsActive and returns the updated reminder.
func (s *ReminderService) Toggle(ctx context.Context, id string) (core.Reminder, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return core.Reminder{}, err
	}
	r.IsActive = !r.IsActive
	if err := s.store.SetActive(ctx, id, r.IsActive); err != nil {
		return core.Reminder{}, err
	}
	s.changed()
	return r, nil
}
