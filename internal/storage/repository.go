package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"scadenze/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Create(ctx context.Context, rem core.Reminder) error {
	if err := r.queries.CreateReminder(ctx, toRow(rem)); err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}

	slog.InfoContext(ctx, "Reminder saved to SQLite",
		"id", rem.ID,
		"title", rem.Title,
		"amount_cents", core.Cents(rem.Amount),
		"recurrence", rem.Recurrence,
		"due_date", rem.DueDate.String())
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Reminder, error) {
	row, err := r.queries.GetReminder(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Reminder{}, fmt.Errorf("get reminder %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Reminder{}, fmt.Errorf("get reminder %s: %w", id, err)
	}
	return fromRow(row)
}

// List returns every reminder of walletID, or all reminders when walletID is empty.
func (r *SQLiteRepository) List(ctx context.Context, walletID string) ([]core.Reminder, error) {
	rows, err := r.queries.ListReminders(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return fromRows(rows)
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]core.Reminder, error) {
	rows, err := r.queries.ListActiveReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active reminders: %w", err)
	}
	return fromRows(rows)
}

func (r *SQLiteRepository) SetActive(ctx context.Context, id string, active bool) error {
	n, err := r.queries.SetReminderActive(ctx, id, active)
	if err != nil {
		return fmt.Errorf("set reminder %s active: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("set reminder %s active: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Reminder activity changed", "id", id, "is_active", active)
	return nil
}

// Delete removes the reminder together with its notification history.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteReminderNotifications(ctx, id); err != nil {
		return fmt.Errorf("delete notifications of %s: %w", id, err)
	}
	n, err := q.DeleteReminder(ctx, id)
	if err != nil {
		return fmt.Errorf("delete reminder %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete reminder %s: %w", id, core.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}

	slog.InfoContext(ctx, "Reminder deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) WasNotified(ctx context.Context, id string, due core.Date) (bool, error) {
	ok, err := r.queries.NotificationExists(ctx, id, due.String())
	if err != nil {
		return false, fmt.Errorf("check notification %s@%s: %w", id, due, err)
	}
	return ok, nil
}

// MarkNotified records that the occurrence due on due has been announced.
// Recording the same pair twice is not an error.
func (r *SQLiteRepository) MarkNotified(ctx context.Context, id string, due core.Date) error {
	n, err := r.queries.InsertNotification(ctx, id, due.String())
	if err != nil {
		return fmt.Errorf("record notification %s@%s: %w", id, due, err)
	}
	if n == 0 {
		slog.DebugContext(ctx, "Notification already recorded", "id", id, "due_date", due.String())
	}
	return nil
}

func toRow(rem core.Reminder) ReminderRow {
	row := ReminderRow{
		ID:                 rem.ID,
		WalletID:           rem.WalletID,
		Title:              rem.Title,
		AmountCents:        core.Cents(rem.Amount),
		ReminderType:       string(rem.Type),
		Note:               rem.Note,
		DueDate:            rem.DueDate.String(),
		Recurrence:         string(rem.Recurrence),
		RecurrenceInterval: int64(rem.RecurrenceInterval),
		IsActive:           rem.IsActive,
	}
	if rem.HasEnd() {
		row.DurationEnd = sql.NullString{String: rem.DurationEnd.String(), Valid: true}
	}
	return row
}

func fromRow(row ReminderRow) (core.Reminder, error) {
	due, err := core.ParseDate(row.DueDate)
	if err != nil {
		return core.Reminder{}, fmt.Errorf("reminder %s due date: %w", row.ID, err)
	}
	rem := core.Reminder{
		ID:                 row.ID,
		WalletID:           row.WalletID,
		Title:              row.Title,
		Amount:             core.FromCents(row.AmountCents),
		Type:               core.ReminderType(row.ReminderType),
		Note:               row.Note,
		DueDate:            due,
		Recurrence:         core.Recurrence(row.Recurrence),
		RecurrenceInterval: int(row.RecurrenceInterval),
		IsActive:           row.IsActive,
	}
	if row.DurationEnd.Valid && row.DurationEnd.String != "" {
		end, err := core.ParseDate(row.DurationEnd.String)
		if err != nil {
			return core.Reminder{}, fmt.Errorf("reminder %s duration end: %w", row.ID, err)
		}
		rem.DurationEnd = end
	}
	return rem, nil
}

func fromRows(rows []ReminderRow) ([]core.Reminder, error) {
	out := make([]core.Reminder, 0, len(rows))
	for _, row := range rows {
		rem, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	return out, nil
}
