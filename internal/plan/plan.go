package plan

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// WeekdayNames are the fixed day names of the local weekly plan, Sunday first.
var WeekdayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

var (
	// ErrBothModes is returned when an exercise declares sets/reps and a duration.
	ErrBothModes = errors.New("exercise has both sets/reps and duration")
	// ErrNoDay is returned when a mutation names a day that is not in the plan.
	ErrNoDay = errors.New("no such day")
	// ErrNoExercise is returned when an exercise index is out of range for its day.
	ErrNoExercise = errors.New("no such exercise")
)

// ExerciseItem is one planned exercise. Exactly one of the two modes is
// populated: NumberOfSets/RepsPerSet for strength work, DurationMinutes for
// timed work. An item with neither is normalized to a zero-set strength
// exercise so the session can skip over it.
type ExerciseItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	NumberOfSets int       `json:"number_of_sets,omitempty"`
	RepsPerSet   int       `json:"reps_per_set,omitempty"`
	DurationMin  int       `json:"duration_minutes,omitempty"`
	Description  string    `json:"description,omitempty"`
}

// NewStrength creates a set/rep exercise.
func NewStrength(name string, sets, reps int) ExerciseItem {
	return ExerciseItem{ID: uuid.New(), Name: name, NumberOfSets: sets, RepsPerSet: reps}
}

// NewTimed creates a duration exercise.
func NewTimed(name string, minutes int) ExerciseItem {
	return ExerciseItem{ID: uuid.New(), Name: name, DurationMin: minutes}
}

// Timed reports whether the exercise is measured by duration.
func (e ExerciseItem) Timed() bool {
	return e.DurationMin > 0
}

// Validate rejects items that declare both modes or carry negative counts.
// An item with neither mode passes: it is the documented zero-set case.
func (e ExerciseItem) Validate() error {
	if e.Name == "" {
		return errors.New("exercise name is empty")
	}
	if e.DurationMin > 0 && (e.NumberOfSets > 0 || e.RepsPerSet > 0) {
		return ErrBothModes
	}
	if e.NumberOfSets < 0 || e.RepsPerSet < 0 || e.DurationMin < 0 {
		return fmt.Errorf("exercise %q has a negative count", e.Name)
	}
	return nil
}

// Day is a named ordered collection of exercises. In the weekly plan the name
// is a fixed weekday label and acts as the lookup key.
type Day struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Items []ExerciseItem `json:"items"`
}

// Plan is the local default plan: seven days, one per weekday.
type Plan struct {
	Days []Day `json:"days"`
}

// NewWeekly returns an empty weekly plan with the seven fixed day names.
func NewWeekly() *Plan {
	p := &Plan{Days: make([]Day, 0, len(WeekdayNames))}
	for _, name := range WeekdayNames {
		p.Days = append(p.Days, Day{ID: uuid.New(), Name: name})
	}
	return p
}

// clone deep-copies the plan so readers are detached from the store's
// mutable state.
func (p *Plan) clone() *Plan {
	out := &Plan{Days: make([]Day, len(p.Days))}
	for i, d := range p.Days {
		items := make([]ExerciseItem, len(d.Items))
		copy(items, d.Items)
		out.Days[i] = Day{ID: d.ID, Name: d.Name, Items: items}
	}
	return out
}

// DayByName returns the day with the given name, or nil.
func (p *Plan) DayByName(name string) *Day {
	for i := range p.Days {
		if p.Days[i].Name == name {
			return &p.Days[i]
		}
	}
	return nil
}
