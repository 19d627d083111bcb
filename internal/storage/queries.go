package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ReminderRow mirrors the reminders table.
type ReminderRow struct {
	ID                 string
	WalletID           string
	Title              string
	AmountCents        int64
	ReminderType       string
	Note               string
	DueDate            string
	Recurrence         string
	RecurrenceInterval int64
	DurationEnd        sql.NullString
	IsActive           bool
}

const reminderColumns = `id, wallet_id, title, amount_cents, reminder_type, note, due_date,
	recurrence, recurrence_interval, duration_end, is_active`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(s rowScanner) (ReminderRow, error) {
	var r ReminderRow
	err := s.Scan(
		&r.ID,
		&r.WalletID,
		&r.Title,
		&r.AmountCents,
		&r.ReminderType,
		&r.Note,
		&r.DueDate,
		&r.Recurrence,
		&r.RecurrenceInterval,
		&r.DurationEnd,
		&r.IsActive,
	)
	return r, err
}

const createReminder = `INSERT INTO reminders (` + reminderColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateReminder(ctx context.Context, arg ReminderRow) error {
	_, err := q.db.ExecContext(ctx, createReminder,
		arg.ID,
		arg.WalletID,
		arg.Title,
		arg.AmountCents,
		arg.ReminderType,
		arg.Note,
		arg.DueDate,
		arg.Recurrence,
		arg.RecurrenceInterval,
		arg.DurationEnd,
		arg.IsActive,
	)
	return err
}

const getReminder = `SELECT ` + reminderColumns + ` FROM reminders WHERE id = ?`

func (q *Queries) GetReminder(ctx context.Context, id string) (ReminderRow, error) {
	return scanReminder(q.db.QueryRowContext(ctx, getReminder, id))
}

const listReminders = `SELECT ` + reminderColumns + ` FROM reminders
WHERE (? = '' OR wallet_id = ?)
ORDER BY due_date, id`

func (q *Queries) ListReminders(ctx context.Context, walletID string) ([]ReminderRow, error) {
	return q.list(ctx, listReminders, walletID, walletID)
}

const listActiveReminders = `SELECT ` + reminderColumns + ` FROM reminders
WHERE is_active = 1
ORDER BY due_date, id`

func (q *Queries) ListActiveReminders(ctx context.Context) ([]ReminderRow, error) {
	return q.list(ctx, listActiveReminders)
}

func (q *Queries) list(ctx context.Context, query string, args ...any) ([]ReminderRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReminderRow
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setReminderActive = `UPDATE reminders SET is_active = ? WHERE id = ?`

func (q *Queries) SetReminderActive(ctx context.Context, id string, active bool) (int64, error) {
	res, err := q.db.ExecContext(ctx, setReminderActive, active, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteReminder = `DELETE FROM reminders WHERE id = ?`

func (q *Queries) DeleteReminder(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteReminder, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteReminderNotifications = `DELETE FROM reminder_notifications WHERE reminder_id = ?`

func (q *Queries) DeleteReminderNotifications(ctx context.Context, reminderID string) error {
	_, err := q.db.ExecContext(ctx, deleteReminderNotifications, reminderID)
	return err
}

const insertNotification = `INSERT OR IGNORE INTO reminder_notifications (reminder_id, due_date) VALUES (?, ?)`

// InsertNotification returns 0 rows affected when the pair was already recorded.
func (q *Queries) InsertNotification(ctx context.Context, reminderID, dueDate string) (int64, error) {
	res, err := q.db.ExecContext(ctx, insertNotification, reminderID, dueDate)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const notificationExists = `SELECT EXISTS(
	SELECT 1 FROM reminder_notifications WHERE reminder_id = ? AND due_date = ?
)`

func (q *Queries) NotificationExists(ctx context.Context, reminderID, dueDate string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, notificationExists, reminderID, dueDate).Scan(&exists)
	return exists, err
}
