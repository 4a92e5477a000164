package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"quadralivre/internal/agenda"
	"quadralivre/internal/booking"
	"quadralivre/internal/database"
)

// HTTPServer exposes the agenda and booking services over REST.
type HTTPServer struct {
	agenda  *agenda.Service
	booking *booking.Service
	db      *database.DB
	logger  *zerolog.Logger
	apiKey  string
	limiter *userLimiter
}

// Options tunes the HTTP surface.
type Options struct {
	APIKey             string
	RateLimitPerMinute int
	RateBurst          int
}

func NewHTTPServer(agendaSvc *agenda.Service, bookingSvc *booking.Service, db *database.DB, logger *zerolog.Logger, opts Options) *HTTPServer {
	return &HTTPServer{
		agenda:  agendaSvc,
		booking: bookingSvc,
		db:      db,
		logger:  logger,
		apiKey:  opts.APIKey,
		limiter: newUserLimiter(opts.RateLimitPerMinute, opts.RateBurst),
	}
}

// Routes builds the request mux.
func (s *HTTPServer) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/agenda/day", s.requireAPIKey(s.handleAgendaDay))
	mux.HandleFunc("GET /api/v1/agenda/slot", s.requireAPIKey(s.handleAgendaSlot))
	mux.HandleFunc("GET /api/v1/agenda/month", s.requireAPIKey(s.handleAgendaMonth))
	mux.HandleFunc("GET /api/v1/courts", s.requireAPIKey(s.handleListCourts))

	mux.HandleFunc("POST /api/v1/reservations", s.requireUser(s.handleBook))
	mux.HandleFunc("GET /api/v1/reservations", s.requireAdmin(s.handleListReservations))
	mux.HandleFunc("GET /api/v1/reservations/{id}", s.requireUser(s.handleGetReservation))
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", s.requireUser(s.handleCancel))
	mux.HandleFunc("POST /api/v1/reservations/{id}/confirm", s.requireAdmin(s.handleConfirm))
	mux.HandleFunc("GET /api/v1/my-reservations", s.requireUser(s.handleMyReservations))

	mux.HandleFunc("GET /api/v1/admin/config", s.requireAdmin(s.handleGetConfig))
	mux.HandleFunc("PUT /api/v1/admin/config", s.requireAdmin(s.handlePutConfig))

	mux.HandleFunc("GET /api/v1/admin/exceptions", s.requireAdmin(s.handleListExceptions))
	mux.HandleFunc("POST /api/v1/admin/exceptions", s.requireAdmin(s.handleCreateException))
	mux.HandleFunc("PUT /api/v1/admin/exceptions/{id}", s.requireAdmin(s.handleUpdateException))
	mux.HandleFunc("DELETE /api/v1/admin/exceptions/{id}", s.requireAdmin(s.handleDeleteException))

	mux.HandleFunc("GET /api/v1/admin/blackouts", s.requireAdmin(s.handleListBlackouts))
	mux.HandleFunc("POST /api/v1/admin/blackouts", s.requireAdmin(s.handleCreateBlackout))
	mux.HandleFunc("DELETE /api/v1/admin/blackouts/{id}", s.requireAdmin(s.handleDeleteBlackout))

	mux.HandleFunc("GET /api/v1/admin/events", s.requireAdmin(s.handleListEvents))
	mux.HandleFunc("POST /api/v1/admin/events", s.requireAdmin(s.handleCreateEvent))
	mux.HandleFunc("PUT /api/v1/admin/events/{id}", s.requireAdmin(s.handleUpdateEvent))
	mux.HandleFunc("DELETE /api/v1/admin/events/{id}", s.requireAdmin(s.handleDeleteEvent))

	mux.HandleFunc("POST /api/v1/admin/courts", s.requireAdmin(s.handleCreateCourt))
	mux.HandleFunc("PUT /api/v1/admin/courts/{id}", s.requireAdmin(s.handleUpdateCourt))
	mux.HandleFunc("PATCH /api/v1/admin/courts/{id}/active", s.requireAdmin(s.handleSetCourtActive))

	return mux
}

// Start runs the server until ctx is cancelled.
func (s *HTTPServer) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Int("port", port).Msg("api server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
