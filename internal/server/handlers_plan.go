package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/amson/internal/plan"
)

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.plans.Plan())
}

// exerciseBody is the request shape for adding or updating an exercise.
type exerciseBody struct {
	Name        string `json:"name"`
	Sets        int    `json:"number_of_sets"`
	Reps        int    `json:"reps_per_set"`
	Duration    int    `json:"duration_minutes"`
	Description string `json:"description"`
}

func (b exerciseBody) item() plan.ExerciseItem {
	item := plan.ExerciseItem{
		Name:        b.Name,
		Description: b.Description,
	}
	if b.Duration > 0 {
		item.DurationMin = b.Duration
	} else {
		item.NumberOfSets = b.Sets
		item.RepsPerSet = b.Reps
	}
	return item
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	dayName := chi.URLParam(r, "day")

	var body exerciseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	item := plan.NewStrength(body.Name, body.Sets, body.Reps)
	if body.Duration > 0 {
		item = plan.NewTimed(body.Name, body.Duration)
	}
	item.Description = body.Description

	if s.planError(w, s.plans.AddExercise(dayName, item)) {
		return
	}
	s.invalidateToday()
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	dayName := chi.URLParam(r, "day")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise index"})
		return
	}

	var body exerciseBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if s.planError(w, s.plans.UpdateExercise(dayName, index, body.item())) {
		return
	}
	s.invalidateToday()
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	dayName := chi.URLParam(r, "day")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise index"})
		return
	}

	if s.planError(w, s.plans.RemoveExercise(dayName, index)) {
		return
	}
	s.invalidateToday()
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// planError writes the appropriate error response for a failed plan mutation.
// Returns true when an error was written.
func (s *Server) planError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, plan.ErrNoDay), errors.Is(err, plan.ErrNoExercise):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, plan.ErrBothModes):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return true
}

// invalidateToday drops the cached resolution after a local plan edit.
func (s *Server) invalidateToday() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
