package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/npezzotti/homeease/internal/booking"
	"github.com/npezzotti/homeease/internal/config"
	"github.com/npezzotti/homeease/internal/database"
	"github.com/npezzotti/homeease/internal/server"
	"github.com/npezzotti/homeease/internal/types"
)

type HomeEaseApp struct {
	log            *log.Logger
	db             database.HomeEaseRepository
	bookings       *booking.Manager
	mux            *http.Server
	cs             *server.ChatServer
	signingKey     []byte
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

func NewHomeEaseApp(mux *http.ServeMux, logger *log.Logger, cs *server.ChatServer, db database.HomeEaseRepository,
	bookings *booking.Manager, cfg *config.Config) *HomeEaseApp {
	s := &HomeEaseApp{
		log:            logger,
		db:             db,
		bookings:       bookings,
		cs:             cs,
		signingKey:     cfg.SigningKey,
		allowedOrigins: cfg.AllowedOrigins,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}

	mux.HandleFunc("GET /healthz", s.healthCheck)

	mux.Handle("POST /api/bookings", s.authMiddleware(s.createBooking, types.RoleResident))
	mux.Handle("GET /api/bookings/all", s.authMiddleware(s.listAllBookings, types.RoleAdmin))
	mux.Handle("GET /api/bookings/{id}", s.authMiddleware(s.getBooking))
	mux.Handle("GET /api/bookings/plumber/{plumberId}", s.authMiddleware(s.listPlumberBookings))
	mux.Handle("GET /api/bookings/resident/{residentId}", s.authMiddleware(s.listResidentBookings))
	mux.Handle("PUT /api/bookings/status/{bookingId}", s.authMiddleware(s.updateBookingStatus, types.RolePlumber, types.RoleResident))
	mux.Handle("PUT /api/bookings/cancel/{bookingId}", s.authMiddleware(s.cancelBooking, types.RoleResident))

	mux.Handle("POST /api/reviews", s.authMiddleware(s.createReview, types.RoleResident))
	mux.HandleFunc("GET /api/reviews/plumber/{plumberId}", s.listPlumberReviews)
	mux.HandleFunc("GET /api/reviews/resident/{residentId}", s.listResidentReviews)

	mux.Handle("GET /ws", s.authMiddleware(s.serveWs))

	var h http.Handler = handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.ExposedHeaders([]string{requestIdHeader}),
		handlers.AllowCredentials(),
	)(mux)

	h = handlers.CombinedLoggingHandler(logger.Writer(), h)
	h = s.requestId(h)
	h = s.errorHandler(h)

	s.mux = &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	return s
}

// checkOrigin accepts websocket upgrades from the configured CORS origins.
// Requests without an Origin header are not from a browser and are allowed.
func (s *HomeEaseApp) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return slices.Contains(s.allowedOrigins, origin) || slices.Contains(s.allowedOrigins, "*")
}

func (s *HomeEaseApp) Start() error {
	s.log.Printf("starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *HomeEaseApp) Shutdown(ctx context.Context) error {
	s.log.Println("shutting down HTTP server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
