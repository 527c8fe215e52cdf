package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/amson/internal/plan"
	"github.com/meltforce/amson/internal/session"
)

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.TodaysPlan(r.Context()))
}

// SessionStatus is what the UI renders during a workout.
type SessionStatus struct {
	State         string             `json:"state"`
	DoneToday     bool               `json:"done_today"`
	ExerciseIndex int                `json:"exercise_index"`
	SetIndex      int                `json:"set_index"`
	Exercise      *plan.ExerciseItem `json:"exercise,omitempty"`
	PersonalBest  int                `json:"personal_best,omitempty"`
	LastWeights   []int              `json:"last_weights,omitempty"`
	LastWeight    int                `json:"last_weight,omitempty"`
}

func (s *Server) SessionStatus() SessionStatus {
	exIdx, setIdx := s.tracker.Position()
	st := SessionStatus{
		State:         s.tracker.State().String(),
		DoneToday:     s.tracker.IsDoneToday(),
		ExerciseIndex: exIdx,
		SetIndex:      setIdx,
	}
	if ex, err := s.tracker.CurrentExercise(); err == nil {
		st.Exercise = &ex
		st.PersonalBest = s.ledger.PersonalBest(ex.Name)
		st.LastWeights = s.ledger.RecentHistory(ex.Name, 3)
		st.LastWeight = s.ledger.LastWeight(ex.Name)
	}
	return st
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	today := s.TodaysPlan(r.Context())
	if len(today.Exercises) == 0 {
		reason := today.Reason
		if reason == "" {
			reason = "nothing planned for today"
		}
		writeJSON(w, http.StatusConflict, map[string]string{"error": reason})
		return
	}

	s.tracker.Start(today.Exercises)
	writeJSON(w, http.StatusOK, s.SessionStatus())
}

// advanceBody carries the confirmed weight for a set/rep exercise. Weight is
// absent for timed exercises.
type advanceBody struct {
	Weight *int `json:"weight,omitempty"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var body advanceBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	err := s.tracker.Advance(body.Weight)
	switch {
	case errors.Is(err, session.ErrInvalidWeight):
		// Surfaced to the user as a correction prompt; position unchanged.
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, session.ErrNotStarted), errors.Is(err, session.ErrCompleted), errors.Is(err, session.ErrEmptyPlan):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.SessionStatus())
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Retreat(); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.SessionStatus())
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.SessionStatus())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	n := 3
	if q := r.URL.Query().Get("n"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be a positive integer"})
			return
		}
		n = parsed
	}

	history := s.ledger.RecentHistory(name, n)
	if history == nil {
		history = []int{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": name, "weights": history})
}

func (s *Server) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	writeJSON(w, http.StatusOK, map[string]any{
		"exercise":      name,
		"personal_best": s.ledger.PersonalBest(name),
	})
}
