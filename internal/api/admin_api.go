package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quadralivre/internal/agenda"
	"quadralivre/internal/metrics"
)

// ConfigRequest is the request body for the weekly schedule config.
type ConfigRequest struct {
	OpeningTime         string `json:"opening_time"` // HH:MM
	ClosingTime         string `json:"closing_time"` // HH:MM
	SlotDurationMinutes int    `json:"slot_duration_minutes"`
	ActiveWeekdays      []int  `json:"active_weekdays"` // ISO 1-7
	Timezone            string `json:"timezone,omitempty"`
}

// ExceptionRequest is the request body for a date exception.
type ExceptionRequest struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
	IsClosed    bool    `json:"is_closed"`
	Reason      string  `json:"reason,omitempty"`
}

// BlackoutRequest is the request body for a blackout window. Omitting
// both times blacks out the whole date.
type BlackoutRequest struct {
	CourtID   *int64  `json:"court_id"`
	Date      string  `json:"date"` // YYYY-MM-DD
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Reason    string  `json:"reason,omitempty"`
}

// EventRequest is the request body for an event.
type EventRequest struct {
	Name       string `json:"name"`
	Date       string `json:"date"`       // YYYY-MM-DD
	StartTime  string `json:"start_time"` // HH:MM
	EndTime    string `json:"end_time"`   // HH:MM
	Visibility string `json:"visibility,omitempty"`
	Status     string `json:"status,omitempty"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// GET /api/v1/admin/config
func (s *HTTPServer) handleGetConfig(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("get_config")

	cfg, err := s.agenda.Config(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PUT /api/v1/admin/config
func (s *HTTPServer) handlePutConfig(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("put_config")

	var req ConfigRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cfg, created, err := s.agenda.UpsertConfig(r.Context(), agenda.ConfigParams{
		OpeningTime:         req.OpeningTime,
		ClosingTime:         req.ClosingTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		ActiveWeekdays:      req.ActiveWeekdays,
		Timezone:            req.Timezone,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, cfg)
}

// GET /api/v1/admin/exceptions
func (s *HTTPServer) handleListExceptions(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("list_exceptions")

	list, err := s.agenda.ListExceptions(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exceptions": list})
}

// POST /api/v1/admin/exceptions
func (s *HTTPServer) handleCreateException(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("create_exception")

	var req ExceptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	exc, err := s.agenda.CreateException(r.Context(), agenda.ExceptionParams{
		Date:        req.Date,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		IsClosed:    req.IsClosed,
		Reason:      req.Reason,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exc)
}

// PUT /api/v1/admin/exceptions/{id}
func (s *HTTPServer) handleUpdateException(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("update_exception")

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid exception id")
		return
	}
	var req ExceptionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	exc, err := s.agenda.UpdateException(r.Context(), id, agenda.ExceptionParams{
		Date:        req.Date,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
		IsClosed:    req.IsClosed,
		Reason:      req.Reason,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exc)
}

// DELETE /api/v1/admin/exceptions/{id}
func (s *HTTPServer) handleDeleteException(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("delete_exception")

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid exception id")
		return
	}
	if err := s.agenda.DeleteException(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/blackouts
func (s *HTTPServer) handleListBlackouts(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("list_blackouts")

	list, err := s.agenda.ListBlackouts(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"blackouts": list})
}

// POST /api/v1/admin/blackouts
func (s *HTTPServer) handleCreateBlackout(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("create_blackout")

	var req BlackoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	b, err := s.agenda.CreateBlackout(r.Context(), agenda.BlackoutParams{
		CourtID:   req.CourtID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// DELETE /api/v1/admin/blackouts/{id}
func (s *HTTPServer) handleDeleteBlackout(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("delete_blackout")

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid blackout id")
		return
	}
	if err := s.agenda.DeleteBlackout(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/events
func (s *HTTPServer) handleListEvents(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("list_events")

	list, err := s.agenda.ListEvents(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": list})
}

// POST /api/v1/admin/events
func (s *HTTPServer) handleCreateEvent(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("create_event")

	var req EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.agenda.CreateEvent(r.Context(), agenda.EventParams{
		Name:       req.Name,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Visibility: req.Visibility,
		Status:     req.Status,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// PUT /api/v1/admin/events/{id}
func (s *HTTPServer) handleUpdateEvent(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("update_event")

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	var req EventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	e, err := s.agenda.UpdateEvent(r.Context(), id, agenda.EventParams{
		Name:       req.Name,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Visibility: req.Visibility,
		Status:     req.Status,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DELETE /api/v1/admin/events/{id}
func (s *HTTPServer) handleDeleteEvent(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("delete_event")

	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}
	if err := s.agenda.DeleteEvent(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
