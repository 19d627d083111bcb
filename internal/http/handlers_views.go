package http

import (
	"context"
	"fmt"
	"net/http"

	"scadenze/internal/log"
	"scadenze/internal/recurrence"
)

// defaultUpcomingDays matches the "upcoming" status band.
const defaultUpcomingDays = 7

func (s *Server) handleReminderStatus(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.svc.Status(r.Context(), r.PathValue("id"), today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleReminderOccurrences(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today := s.today()
	from, err := parseDateParam(q, "from", today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDateParam(q, "to", from.AddDays(s.horizonDays))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := checkWindowSpan(from, to); err != nil {
		writeError(w, r, err)
		return
	}

	occ, err := s.svc.Occurrences(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occ)
}

// handleCalendar serves month grids from the cache. Entries are keyed by the
// reference day too, since it drives the IsToday flag.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today, err := parseToday(q, s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	month, err := ParseMonthParams(q, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	key := fmt.Sprintf("%04d-%02d@%s", month.Year, month.Month, today)
	cells, err := s.calendar.Get(r.Context(), key, func(ctx context.Context) ([]recurrence.CalendarCell, error) {
		log.FromContext(ctx).DebugContext(ctx, "Building calendar grid",
			log.FieldYear, month.Year,
			log.FieldMonth, month.Month)
		return s.svc.Month(ctx, month.Year, month.Month, today)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cells)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today, err := parseToday(q, s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := parseDays(q, s.horizonDays)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := s.svc.Schedule(r.Context(), today, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	today, err := parseToday(r.URL.Query(), s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Overdue(r.Context(), today)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	today, err := parseToday(q, s.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	days, err := parseDays(q, defaultUpcomingDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.svc.Upcoming(r.Context(), today, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil(list []recurrence.Classification) []recurrence.Classification {
	if list == nil {
		return []recurrence.Classification{}
	}
	return list
}
