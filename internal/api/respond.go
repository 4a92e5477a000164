package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"quadralivre/internal/agenda"
	"quadralivre/internal/booking"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors to HTTP statuses. Unknown errors
// become a 500 without leaking internals.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agenda.ErrNoConfig):
		writeError(w, http.StatusNotFound, "agenda is not configured")
	case errors.Is(err, agenda.ErrNotFound), errors.Is(err, booking.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, agenda.ErrInvalidTimeRange),
		errors.Is(err, agenda.ErrInvalidSlotDuration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrClosedDay),
		errors.Is(err, booking.ErrOutsideHours),
		errors.Is(err, booking.ErrPastSlot):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, agenda.ErrDayClosed), errors.Is(err, agenda.ErrBlockedOutsideHours):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrBlocked),
		errors.Is(err, booking.ErrEventConflict),
		errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrCourtUnavailable),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, agenda.ErrExceptionExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
