package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"quadralivre/internal/metrics"
	"quadralivre/internal/model"
)

// CourtRequest is the request body for creating or updating a court.
type CourtRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	SortOrder int    `json:"sort_order,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
}

// handleListCourts lists courts. Inactive courts are included only when
// all=true is passed.
// GET /api/v1/courts?all=true
func (s *HTTPServer) handleListCourts(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("courts")

	activeOnly := r.URL.Query().Get("all") != "true"
	courts, err := s.db.ListCourts(r.Context(), activeOnly)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"courts": courts})
}

// handleCreateCourt adds a court.
// POST /api/v1/admin/courts
func (s *HTTPServer) handleCreateCourt(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("create_court")

	var req CourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	court := &model.Court{
		Name:      req.Name,
		Type:      req.Type,
		Active:    true,
		SortOrder: req.SortOrder,
		Capacity:  req.Capacity,
	}
	if err := s.db.CreateCourt(r.Context(), court); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, court)
}

// handleUpdateCourt updates court attributes.
// PUT /api/v1/admin/courts/{id}
func (s *HTTPServer) handleUpdateCourt(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("update_court")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid court id")
		return
	}

	court, err := s.db.GetCourt(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if court == nil {
		writeError(w, http.StatusNotFound, "court not found")
		return
	}

	var req CourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}

	court.Name = req.Name
	court.Type = req.Type
	court.SortOrder = req.SortOrder
	court.Capacity = req.Capacity
	if err := s.db.UpdateCourt(r.Context(), court); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, court)
}

// handleSetCourtActive toggles whether a court accepts bookings.
// PATCH /api/v1/admin/courts/{id}/active
func (s *HTTPServer) handleSetCourtActive(w http.ResponseWriter, r *http.Request, _ actor) {
	metrics.IncHTTP("set_court_active")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid court id")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	court, err := s.db.GetCourt(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if court == nil {
		writeError(w, http.StatusNotFound, "court not found")
		return
	}

	if err := s.db.SetCourtActive(r.Context(), id, req.Active); err != nil {
		s.writeServiceError(w, err)
		return
	}
	court.Active = req.Active
	writeJSON(w, http.StatusOK, court)
}
