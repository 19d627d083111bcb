package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"scadenze/internal/core"

	"github.com/shopspring/decimal"
)

// SeedFile is read from the data directory by NewFromFiles.
const SeedFile = "seed_reminders.json"

type Store struct {
	mu       sync.RWMutex
	items    map[string]core.Reminder
	notified map[string]struct{}
}

func New(seed ...core.Reminder) *Store {
	s := &Store{
		items:    make(map[string]core.Reminder, len(seed)),
		notified: map[string]struct{}{},
	}
	for _, r := range seed {
		s.items[r.ID] = r
	}
	return s
}

// NewFromFiles loads base/seed_reminders.json when present.
// A missing or unreadable seed yields an empty store.
func NewFromFiles(base string) *Store {
	seed, err := readSeed(filepath.Join(base, SeedFile))
	if err != nil {
		return New()
	}
	return New(seed...)
}

type seedReminder struct {
	ID                 string          `json:"id"`
	WalletID           string          `json:"wallet_id"`
	Title              string          `json:"title"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	Note               string          `json:"note"`
	DueDate            core.Date       `json:"due_date"`
	Recurrence         string          `json:"recurrence"`
	RecurrenceInterval int             `json:"recurrence_interval"`
	DurationEnd        core.Date       `json:"duration_end"`
	Inactive           bool            `json:"inactive"`
}

func readSeed(path string) ([]core.Reminder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []seedReminder
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make([]core.Reminder, 0, len(raw))
	for i, sr := range raw {
		rec, err := core.ParseRecurrence(sr.Recurrence)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
		r := core.Reminder{
			ID:                 sr.ID,
			WalletID:           sr.WalletID,
			Title:              sr.Title,
			Amount:             sr.Amount,
			Type:               core.ReminderType(sr.Type),
			Note:               sr.Note,
			DueDate:            sr.DueDate,
			Recurrence:         rec,
			RecurrenceInterval: sr.RecurrenceInterval,
			DurationEnd:        sr.DurationEnd,
			IsActive:           !sr.Inactive,
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("seed-%d", i+1)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("seed %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Store) Create(_ context.Context, r core.Reminder) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[r.ID]; ok {
		return fmt.Errorf("reminder %s already exists", r.ID)
	}
	s.items[r.ID] = r
	return nil
}

func (s *Store) Get(_ context.Context, id string) (core.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	if !ok {
		return core.Reminder{}, fmt.Errorf("get reminder %s: %w", id, core.ErrNotFound)
	}
	return r, nil
}

// List returns reminders ordered by due date then ID, filtered by walletID when non-empty.
func (s *Store) List(_ context.Context, walletID string) ([]core.Reminder, error) {
	return s.filter(func(r core.Reminder) bool {
		return walletID == "" || r.WalletID == walletID
	}), nil
}

func (s *Store) ListActive(_ context.Context) ([]core.Reminder, error) {
	return s.filter(func(r core.Reminder) bool { return r.IsActive }), nil
}

func (s *Store) filter(keep func(core.Reminder) bool) []core.Reminder {
	s.mu.RLock()
	out := make([]core.Reminder, 0, len(s.items))
	for _, r := range s.items {
		if keep(r) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if c := out[i].DueDate.Compare(out[j].DueDate); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return fmt.Errorf("set reminder %s active: %w", id, core.ErrNotFound)
	}
	r.IsActive = active
	s.items[id] = r
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("delete reminder %s: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	for k := range s.notified {
		if strings.HasPrefix(k, id+"@") {
			delete(s.notified, k)
		}
	}
	return nil
}

func (s *Store) WasNotified(_ context.Context, id string, due core.Date) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.notified[notificationKey(id, due)]
	return ok, nil
}

func (s *Store) MarkNotified(_ context.Context, id string, due core.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified[notificationKey(id, due)] = struct{}{}
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func notificationKey(id string, due core.Date) string {
	return id + "@" + due.String()
}
