package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"scadenze/internal/core"
)

// ReminderDueMessage announces one occurrence of a reminder that is due today or overdue.
// Consumers deduplicate on (ReminderID, DueDate).
type ReminderDueMessage struct {
	ReminderID   string          `json:"reminder_id"`
	WalletID     string          `json:"wallet_id,omitempty"`
	Title        string          `json:"title"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      core.Date       `json:"due_date"`
	DaysUntilDue int             `json:"days_until_due"`
	Status       string          `json:"status"`
	Timestamp    time.Time       `json:"timestamp"`
}

// NewReminderDueMessage builds the message for the occurrence of r due on due.
func NewReminderDueMessage(r core.Reminder, due core.Date, daysUntilDue int, status string) *ReminderDueMessage {
	return &ReminderDueMessage{
		ReminderID:   r.ID,
		WalletID:     r.WalletID,
		Title:        r.Title,
		Type:         string(r.Type),
		Amount:       r.Amount,
		DueDate:      due,
		DaysUntilDue: daysUntilDue,
		Status:       status,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderDueMessageFromJSON creates a message from JSON bytes
func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
