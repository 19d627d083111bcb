package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"scadenze/internal/core"
	"scadenze/internal/services"
)

// reminderResponse is the wire form of a reminder.
type reminderResponse struct {
	ID                 string          `json:"id"`
	WalletID           string          `json:"wallet_id,omitempty"`
	Title              string          `json:"title"`
	Amount             decimal.Decimal `json:"amount"`
	Type               string          `json:"type"`
	Note               string          `json:"note,omitempty"`
	DueDate            core.Date       `json:"due_date"`
	Recurrence         string          `json:"recurrence"`
	RecurrenceInterval int             `json:"recurrence_interval,omitempty"`
	DurationEnd        *core.Date      `json:"duration_end,omitempty"`
	IsActive           bool            `json:"is_active"`
}

func toResponse(r core.Reminder) reminderResponse {
	out := reminderResponse{
		ID:                 r.ID,
		WalletID:           r.WalletID,
		Title:              r.Title,
		Amount:             r.Amount,
		Type:               string(r.Type),
		Note:               r.Note,
		DueDate:            r.DueDate,
		Recurrence:         string(r.Recurrence),
		RecurrenceInterval: r.RecurrenceInterval,
		IsActive:           r.IsActive,
	}
	if r.HasEnd() {
		end := r.DurationEnd
		out.DurationEnd = &end
	}
	return out
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := s.svc.List(r.Context(), r.URL.Query().Get("wallet"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reminderResponse, 0, len(reminders))
	for _, rem := range reminders {
		out = append(out, toResponse(rem))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReminder(w http.ResponseWriter, r *http.Request) {
	var in services.NewReminderInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	rem, err := s.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/reminders/"+rem.ID)
	writeJSON(w, http.StatusCreated, toResponse(rem))
}

func (s *Server) handleGetReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rem))
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleReminder(w http.ResponseWriter, r *http.Request) {
	rem, err := s.svc.Toggle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(rem))
}
