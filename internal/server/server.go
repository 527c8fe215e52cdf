// Package server exposes the engine to the UI layer: plan editing, today's
// resolved workout, session progression, and performance queries.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/amson/internal/ledger"
	"github.com/meltforce/amson/internal/plan"
	"github.com/meltforce/amson/internal/resolver"
	"github.com/meltforce/amson/internal/session"
)

// Server holds dependencies for the engine's HTTP handlers. One instance per
// authenticated user session; userID is the opaque identifier the resolver
// hands to the hub.
type Server struct {
	plans    *plan.Store
	ledger   *ledger.Ledger
	tracker  *session.Tracker
	resolver *resolver.Resolver // nil when no hub is configured
	userID   string
	log      *slog.Logger
	router   chi.Router

	mu     sync.Mutex
	cached *Today
	day    string
}

// Today is a resolved (or degraded) plan for one calendar day.
type Today struct {
	DayName   string              `json:"day_name"`
	Source    string              `json:"source"` // "pack" or "local"
	Reason    string              `json:"reason,omitempty"`
	Exercises []plan.ExerciseItem `json:"exercises"`
}

// New creates an engine server with all routes configured. res may be nil
// when the user runs without a hub.
func New(plans *plan.Store, lg *ledger.Ledger, tracker *session.Tracker, res *resolver.Resolver, userID string, log *slog.Logger) *Server {
	s := &Server{
		plans:    plans,
		ledger:   lg,
		tracker:  tracker,
		resolver: res,
		userID:   userID,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(s.requestLogging)

	s.router.Get("/api/v1/plan", s.handleGetPlan)
	s.router.Post("/api/v1/plan/{day}/exercises", s.handleAddExercise)
	s.router.Put("/api/v1/plan/{day}/exercises/{index}", s.handleUpdateExercise)
	s.router.Delete("/api/v1/plan/{day}/exercises/{index}", s.handleRemoveExercise)

	s.router.Get("/api/v1/today", s.handleToday)

	s.router.Post("/api/v1/session/start", s.handleSessionStart)
	s.router.Get("/api/v1/session", s.handleSessionStatus)
	s.router.Post("/api/v1/session/advance", s.handleAdvance)
	s.router.Post("/api/v1/session/retreat", s.handleRetreat)

	s.router.Get("/api/v1/exercises/{name}/history", s.handleHistory)
	s.router.Get("/api/v1/exercises/{name}/best", s.handlePersonalBest)
}

// SetMCP mounts the MCP transport handler.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}

// TodaysPlan returns today's workout, resolving through the hub when one is
// configured and degrading to the local weekly plan otherwise. The result is
// cached for the rest of the calendar day.
func (s *Server) TodaysPlan(ctx context.Context) *Today {
	today := time.Now().Format(time.DateOnly)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil && s.day == today {
		return s.cached
	}

	result := s.resolveLocked(ctx)
	s.cached = result
	s.day = today
	return result
}

func (s *Server) resolveLocked(ctx context.Context) *Today {
	if s.resolver != nil {
		resolved, err := s.resolver.ResolveToday(ctx, s.userID)
		if err == nil {
			return &Today{
				DayName:   resolved.DayName,
				Source:    "pack",
				Exercises: resolved.Exercises,
			}
		}
		reason, ok := resolver.NoPlanReason(err)
		if !ok {
			reason = "plan resolution failed"
		}
		s.log.Warn("pack resolution degraded to local plan", "reason", reason, "error", err)
		return s.localToday(reason)
	}
	return s.localToday("")
}

// PersonalBest returns the heaviest recorded weight for an exercise.
func (s *Server) PersonalBest(name string) int {
	return s.ledger.PersonalBest(name)
}

// RecentHistory returns the last n recorded weights for an exercise.
func (s *Server) RecentHistory(name string, n int) []int {
	return s.ledger.RecentHistory(name, n)
}

// localToday builds the result from the local weekly plan.
func (s *Server) localToday(reason string) *Today {
	weekday := time.Now().Weekday().String()
	result := &Today{DayName: weekday, Source: "local", Reason: reason}
	if day := s.plans.Plan().DayByName(weekday); day != nil {
		result.Exercises = day.Items
	}
	return result
}
