package server

import (
	"context"
	"net/http"
	"time"

	"github.com/smartpark/parking-portal/internal/config"
	"github.com/smartpark/parking-portal/internal/http/handlers"
	"github.com/smartpark/parking-portal/internal/metrics"
	"github.com/smartpark/parking-portal/internal/middleware"
	"github.com/smartpark/parking-portal/internal/parking"
	"github.com/smartpark/parking-portal/internal/session"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, sessions *session.Store, api *parking.Client) *Server {
	mux := http.NewServeMux()

	handlers.NewHealthHandler(time.Now()).Register(mux)
	handlers.NewHomeHandler(sessions).Register(mux)
	handlers.NewAuthHandler(sessions).Register(mux)
	handlers.NewLotHandler(sessions, api).Register(mux)
	handlers.NewTicketHandler(sessions, api).Register(mux)
	handlers.NewReservationHandler(sessions, api).Register(mux)
	handlers.NewVehicleHandler(sessions, api).Register(mux)

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

	handler := middleware.CORS(cfg.CORSOrigins,
		middleware.RequestID(
			middleware.Logging(
				m.Instrument(mux))))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
