package plan

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/meltforce/amson/internal/docstore"
)

// Store owns the persisted weekly plan. Every mutation rewrites the whole
// plan document. A failed write is logged and the in-memory mutation stays
// applied; the next successful write catches the document up. Safe for
// concurrent use: Plan returns a copy, so readers never observe a mutation
// in progress.
type Store struct {
	docs *docstore.Store
	log  *slog.Logger

	mu   sync.RWMutex
	plan *Plan
}

// NewStore loads the persisted plan, or initializes a fresh weekly plan if
// none exists yet.
func NewStore(docs *docstore.Store, log *slog.Logger) (*Store, error) {
	s := &Store{docs: docs, log: log}

	var p Plan
	found, err := docs.Load(docstore.DocPlan, &p)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if found {
		s.plan = &p
	} else {
		s.plan = NewWeekly()
		s.persist()
	}
	return s, nil
}

// Plan returns a copy of the current plan.
func (s *Store) Plan() *Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.clone()
}

// AddExercise appends item to the named day.
func (s *Store) AddExercise(dayName string, item ExerciseItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.plan.DayByName(dayName)
	if day == nil {
		return fmt.Errorf("%w: %s", ErrNoDay, dayName)
	}
	day.Items = append(day.Items, item)
	s.persist()
	return nil
}

// UpdateExercise replaces the exercise at index on the named day. The stored
// item keeps its identifier.
func (s *Store) UpdateExercise(dayName string, index int, item ExerciseItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.plan.DayByName(dayName)
	if day == nil {
		return fmt.Errorf("%w: %s", ErrNoDay, dayName)
	}
	if index < 0 || index >= len(day.Items) {
		return fmt.Errorf("%w: %s[%d]", ErrNoExercise, dayName, index)
	}
	item.ID = day.Items[index].ID
	day.Items[index] = item
	s.persist()
	return nil
}

// RemoveExercise deletes the exercise at index on the named day.
func (s *Store) RemoveExercise(dayName string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.plan.DayByName(dayName)
	if day == nil {
		return fmt.Errorf("%w: %s", ErrNoDay, dayName)
	}
	if index < 0 || index >= len(day.Items) {
		return fmt.Errorf("%w: %s[%d]", ErrNoExercise, dayName, index)
	}
	day.Items = append(day.Items[:index], day.Items[index+1:]...)
	s.persist()
	return nil
}

// persist runs with s.mu held by the mutating caller.
func (s *Store) persist() {
	if err := s.docs.Save(docstore.DocPlan, s.plan); err != nil {
		s.log.Warn("plan save failed", "error", err)
	}
}
