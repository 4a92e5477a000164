package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quadralivre/internal/booking"
	"quadralivre/internal/database"
	"quadralivre/internal/metrics"
)

// BookRequest is the request body for creating a reservation.
type BookRequest struct {
	CourtID    int64  `json:"court_id"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	ClientName string `json:"client_name,omitempty"`
}

func reservationID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// handleBook creates a pending reservation for the acting user.
// POST /api/v1/reservations
func (s *HTTPServer) handleBook(w http.ResponseWriter, r *http.Request, a actor) {
	metrics.IncHTTP("book")

	if !s.limiter.allow(a.UserID) {
		writeError(w, http.StatusTooManyRequests, "too many booking attempts; slow down")
		return
	}

	var req BookRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CourtID <= 0 || req.Date == "" || req.StartTime == "" {
		writeError(w, http.StatusBadRequest, "court_id, date and start_time are required")
		return
	}

	res, err := s.booking.Book(r.Context(), booking.BookParams{
		CourtID:    req.CourtID,
		UserID:     a.UserID,
		ClientName: req.ClientName,
		Date:       req.Date,
		StartTime:  req.StartTime,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleListReservations lists reservations with optional filters.
// GET /api/v1/reservations?date=&court_id=&user_id=&status=
func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("list_reservations")

	var f database.ReservationFilter
	q := r.URL.Query()
	if raw := q.Get("date"); raw != "" {
		date, ok := parseDateParam(r, "date")
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
			return
		}
		f.Date = date
	}
	if raw := q.Get("court_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid court_id")
			return
		}
		f.CourtID = id
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		f.UserID = id
	}
	f.Status = q.Get("status")

	list, err := s.booking.List(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

// handleGetReservation returns one reservation, owner or admin only.
// GET /api/v1/reservations/{id}
func (s *HTTPServer) handleGetReservation(w http.ResponseWriter, r *http.Request, a actor) {
	metrics.IncHTTP("get_reservation")

	id, ok := reservationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}
	res, err := s.booking.Get(r.Context(), id, a.UserID, a.IsAdmin)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleCancel cancels an active reservation.
// POST /api/v1/reservations/{id}/cancel
func (s *HTTPServer) handleCancel(w http.ResponseWriter, r *http.Request, a actor) {
	metrics.IncHTTP("cancel_reservation")

	id, ok := reservationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}
	res, err := s.booking.Cancel(r.Context(), id, a.UserID, a.IsAdmin)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleConfirm confirms a pending reservation.
// POST /api/v1/reservations/{id}/confirm
func (s *HTTPServer) handleConfirm(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("confirm_reservation")

	id, ok := reservationID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}
	res, err := s.booking.Confirm(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleMyReservations lists the acting user's reservations.
// GET /api/v1/my-reservations
func (s *HTTPServer) handleMyReservations(w http.ResponseWriter, r *http.Request, a actor) {
	metrics.IncHTTP("my_reservations")

	list, err := s.booking.ListForUser(r.Context(), a.UserID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}
