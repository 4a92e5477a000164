package api

import (
	"net/http"
	"strconv"
	"time"

	"quadralivre/internal/metrics"
)

func parseDateParam(r *http.Request, name string) (string, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return "", false
	}
	return raw, true
}

func parseCourtParam(r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("court_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

// handleAgendaDay returns the evaluated slot grid for a date.
// GET /api/v1/agenda/day?date=YYYY-MM-DD&court_id=N
func (s *HTTPServer) handleAgendaDay(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_day")

	date, ok := parseDateParam(r, "date")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}
	courtID, ok := parseCourtParam(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid court_id")
		return
	}

	day, err := s.agenda.DayAvailability(r.Context(), date, courtID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// handleAgendaSlot checks one candidate slot.
// GET /api/v1/agenda/slot?date=YYYY-MM-DD&start=HH:MM&court_id=N
func (s *HTTPServer) handleAgendaSlot(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_slot")

	date, ok := parseDateParam(r, "date")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}
	start := r.URL.Query().Get("start")
	if start == "" {
		writeError(w, http.StatusBadRequest, "start is required")
		return
	}
	courtID, ok := parseCourtParam(r)
	if !ok || courtID == nil {
		writeError(w, http.StatusBadRequest, "court_id is required")
		return
	}

	check, err := s.agenda.SlotAvailability(r.Context(), date, start, *courtID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

// handleAgendaMonth returns the per-day classification of a month.
// GET /api/v1/agenda/month?month=YYYY-MM
func (s *HTTPServer) handleAgendaMonth(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_month")

	raw := r.URL.Query().Get("month")
	parsed, err := time.Parse("2006-01", raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month; expected YYYY-MM")
		return
	}

	days, err := s.agenda.MonthOverview(r.Context(), parsed.Year(), parsed.Month())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"month": raw, "days": days})
}
