package hub

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/amson/internal/storage"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	profile, err := s.db.GetProfile(r.Context(), userID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	if err != nil {
		s.log.Error("profile lookup failed", "user", userID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body struct {
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.db.UpsertProfile(r.Context(), userID, body.DisplayName); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID})
}

func (s *Server) handleSetCurrentPack(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var body struct {
		PackID *uuid.UUID `json:"pack_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if body.PackID != nil {
		if _, err := s.db.GetPack(r.Context(), *body.PackID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pack does not exist"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	err := s.db.SetCurrentPack(r.Context(), userID, body.PackID)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "profile not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user_id": userID, "pack_id": body.PackID})
}

func (s *Server) handleQueryDays(w http.ResponseWriter, r *http.Request) {
	packID, err := uuid.Parse(r.URL.Query().Get("pack_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pack_id parameter required"})
		return
	}

	days, err := s.db.QueryPackDays(r.Context(), packID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if days == nil {
		days = []storage.PackDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleQueryExercises(w http.ResponseWriter, r *http.Request) {
	dayID, err := uuid.Parse(r.URL.Query().Get("day_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day_id parameter required"})
		return
	}

	exercises, err := s.db.QueryPackExercises(r.Context(), dayID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if exercises == nil {
		exercises = []storage.PackExercise{}
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.db.ListPacks(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (s *Server) handleTrendingPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.db.TrendingPacks(r.Context(), 10)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, packs)
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pack ID"})
		return
	}

	pack, err := s.db.GetPack(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pack not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, pack)
}

func (s *Server) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Author      string `json:"author"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	pack := storage.Pack{
		ID:          uuid.New(),
		Name:        body.Name,
		Author:      body.Author,
		Description: body.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.InsertPack(r.Context(), pack); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, pack)
}

func (s *Server) handleCreateDay(w http.ResponseWriter, r *http.Request) {
	packID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pack ID"})
		return
	}

	var body struct {
		DayName  string `json:"day_name"`
		DayOrder int    `json:"day_order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.DayName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day_name is required"})
		return
	}

	day := storage.PackDay{
		ID:       uuid.New(),
		PackID:   packID,
		DayName:  body.DayName,
		DayOrder: body.DayOrder,
	}
	if err := s.db.InsertPackDay(r.Context(), day); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	dayID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day ID"})
		return
	}

	var body struct {
		ChosenExercise string `json:"chosen_exercise"`
		Sets           int    `json:"sets"`
		Reps           int    `json:"reps"`
		Time           int    `json:"time"`
		Position       int    `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if body.ChosenExercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chosen_exercise is required"})
		return
	}
	if body.Time > 0 && body.Sets > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "an exercise is either timed or set-based, not both"})
		return
	}

	exercise := storage.PackExercise{
		ID:             uuid.New(),
		DayID:          dayID,
		ChosenExercise: body.ChosenExercise,
		Sets:           body.Sets,
		Reps:           body.Reps,
		Time:           body.Time,
		Position:       body.Position,
	}
	if err := s.db.InsertPackExercise(r.Context(), exercise); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
