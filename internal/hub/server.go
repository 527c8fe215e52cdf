// Package hub is the remote structured store: profiles, packs, pack days and
// pack exercises, queried by equality predicates. The engine's resolver is
// its main consumer; pack authors use the write surface.
package hub

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/amson/internal/storage"
)

// Server holds dependencies for the hub's HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a hub server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read surface: the resolver's four-hop chain.
	s.router.Get("/api/v1/profiles/{userID}", s.handleGetProfile)
	s.router.Get("/api/v1/days", s.handleQueryDays)
	s.router.Get("/api/v1/exercises", s.handleQueryExercises)

	// Discovery.
	s.router.Get("/api/v1/packs", s.handleListPacks)
	s.router.Get("/api/v1/packs/trending", s.handleTrendingPacks)
	s.router.Get("/api/v1/packs/{id}", s.handleGetPack)

	// Write surface (API key required).
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Put("/api/v1/profiles/{userID}", s.handleUpsertProfile)
		r.Put("/api/v1/profiles/{userID}/pack", s.handleSetCurrentPack)
		r.Post("/api/v1/packs", s.handleCreatePack)
		r.Post("/api/v1/packs/{id}/days", s.handleCreateDay)
		r.Post("/api/v1/days/{id}/exercises", s.handleCreateExercise)
	})
}
