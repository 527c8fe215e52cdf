// Package session drives a user through today's resolved exercise list one
// set at a time. The tracker's position survives app restarts via the local
// cursor document and resets lazily when the calendar day changes.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/amson/internal/docstore"
	"github.com/meltforce/amson/internal/ledger"
	"github.com/meltforce/amson/internal/live"
	"github.com/meltforce/amson/internal/plan"
)

// State is the tracker's lifecycle state.
type State int

const (
	NotStarted State = iota
	InProgress
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrInvalidWeight is returned by Advance when a set/rep exercise gets a
	// missing or out-of-range weight. The session position does not change.
	ErrInvalidWeight = errors.New("weight must be between 1 and 9998")
	// ErrNotStarted is returned for operations that need a running session.
	ErrNotStarted = errors.New("session not started")
	// ErrCompleted is returned by Advance once the session has completed.
	ErrCompleted = errors.New("session already completed")
	// ErrEmptyPlan is returned by CurrentExercise when today has no exercises.
	ErrEmptyPlan = errors.New("no exercises planned")
)

// Notifier receives best-effort session transition updates. *live.Mirror
// satisfies it.
type Notifier interface {
	Publish(st live.Status)
	End()
}

// cursor is the persisted resumable position.
type cursor struct {
	ExerciseIndex  int       `json:"exercise_index"`
	SetIndex       int       `json:"set_index"`
	Started        bool      `json:"started"`
	DoneToday      bool      `json:"done_today"`
	LastActiveDate time.Time `json:"last_active_date"`
}

// sameDay compares calendar dates in local time.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Tracker is the session state machine. A single mutex guards the position;
// the tracker is only ever driven by one interaction stream, but interleaved
// calls must not corrupt the cursor.
type Tracker struct {
	mu       sync.Mutex
	docs     *docstore.Store
	ledger   *ledger.Ledger
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time

	exercises []plan.ExerciseItem
	cur       cursor
}

// New loads the persisted cursor and returns a tracker. The notifier may be
// nil when no live surface is configured.
func New(docs *docstore.Store, lg *ledger.Ledger, notifier Notifier, log *slog.Logger) (*Tracker, error) {
	t := &Tracker{
		docs:     docs,
		ledger:   lg,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
	if _, err := docs.Load(docstore.DocCursor, &t.cur); err != nil {
		return nil, fmt.Errorf("loading session cursor: %w", err)
	}
	return t, nil
}

// Start begins (or resumes) a session over the given exercise list. A prior
// position from the same calendar day is kept; a new day starts fresh.
func (t *Tracker) Start(exercises []plan.ExerciseItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.exercises = exercises
	t.resetIfNewDayLocked()

	// The plan may have shrunk since the cursor was saved.
	if t.cur.ExerciseIndex >= len(exercises) {
		t.cur.ExerciseIndex = 0
		t.cur.SetIndex = 0
	}

	if !t.cur.Started {
		t.cur.Started = true
		t.cur.ExerciseIndex = 0
		t.cur.SetIndex = 0
		t.persistLocked()
	}
	// A completed session's live surface was already dismissed; do not
	// resurrect it.
	if t.stateLocked() == InProgress {
		t.publishLocked()
	}
}

// State reports the tracker's lifecycle state for the current calendar day.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

func (t *Tracker) stateLocked() State {
	switch {
	case t.cur.DoneToday:
		return Completed
	case t.cur.Started:
		return InProgress
	default:
		return NotStarted
	}
}

// Position returns the current exercise and set indexes.
func (t *Tracker) Position() (exercise, set int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cur.ExerciseIndex, t.cur.SetIndex
}

// CurrentExercise returns the exercise at the current position.
func (t *Tracker) CurrentExercise() (plan.ExerciseItem, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.exercises) == 0 {
		return plan.ExerciseItem{}, ErrEmptyPlan
	}
	return t.exercises[t.cur.ExerciseIndex], nil
}

// Advance confirms the current set and moves forward. For a set/rep exercise
// the weight is required, recorded into the ledger, and must sit in (0, 9999);
// a timed or zero-set exercise ignores the weight and skips straight to the
// next exercise. Completing the last exercise transitions to Completed.
func (t *Tracker) Advance(weight *int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.stateLocked() {
	case NotStarted:
		return ErrNotStarted
	case Completed:
		return ErrCompleted
	}
	if len(t.exercises) == 0 {
		return ErrEmptyPlan
	}

	ex := t.exercises[t.cur.ExerciseIndex]

	if ex.Timed() || ex.NumberOfSets == 0 {
		// No weight and no ledger entry for timed or degenerate exercises.
		t.nextExerciseLocked()
		return nil
	}

	if weight == nil || *weight <= 0 || *weight >= 9999 {
		return ErrInvalidWeight
	}
	t.ledger.Record(ex.Name, *weight)

	if t.cur.SetIndex+1 < ex.NumberOfSets {
		t.cur.SetIndex++
		t.persistLocked()
		t.publishLocked()
		return nil
	}
	t.nextExerciseLocked()
	return nil
}

// nextExerciseLocked rolls to the next exercise, or completes the session if
// the current one was last.
func (t *Tracker) nextExerciseLocked() {
	t.cur.SetIndex = 0
	if t.cur.ExerciseIndex+1 < len(t.exercises) {
		t.cur.ExerciseIndex++
		t.persistLocked()
		t.publishLocked()
		return
	}
	t.cur.DoneToday = true
	t.persistLocked()
	if t.notifier != nil {
		t.notifier.End()
	}
}

// Retreat steps backward one set, crossing into the previous exercise's last
// set at an exercise boundary. A no-op at the very first set of the first
// exercise. Nothing is removed from the ledger.
func (t *Tracker) Retreat() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.stateLocked() {
	case NotStarted:
		return ErrNotStarted
	case Completed:
		return ErrCompleted
	}
	if len(t.exercises) == 0 {
		return ErrEmptyPlan
	}

	switch {
	case t.cur.SetIndex > 0:
		t.cur.SetIndex--
	case t.cur.ExerciseIndex > 0:
		t.cur.ExerciseIndex--
		prev := t.exercises[t.cur.ExerciseIndex]
		if prev.NumberOfSets > 0 {
			t.cur.SetIndex = prev.NumberOfSets - 1
		} else {
			t.cur.SetIndex = 0
		}
	default:
		return nil
	}
	t.persistLocked()
	t.publishLocked()
	return nil
}

// ResetIfNewDay clears the position and done flag when the stored calendar
// date differs from today. Called on every resume; rollover is checked
// lazily, never by a background timer.
func (t *Tracker) ResetIfNewDay() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNewDayLocked()
}

func (t *Tracker) resetIfNewDayLocked() {
	now := t.now()
	if sameDay(t.cur.LastActiveDate, now) {
		return
	}
	if !t.cur.LastActiveDate.IsZero() {
		t.log.Info("new day, resetting session",
			"previous", t.cur.LastActiveDate.Format(time.DateOnly),
			"today", now.Format(time.DateOnly),
		)
	}
	t.cur = cursor{LastActiveDate: now}
	t.persistLocked()
}

// IsDoneToday reports whether the session completed on the current day.
func (t *Tracker) IsDoneToday() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetIfNewDayLocked()
	return t.cur.DoneToday
}

func (t *Tracker) persistLocked() {
	t.cur.LastActiveDate = t.now()
	if err := t.docs.Save(docstore.DocCursor, &t.cur); err != nil {
		t.log.Warn("cursor save failed", "error", err)
	}
}

func (t *Tracker) publishLocked() {
	if t.notifier == nil || len(t.exercises) == 0 {
		return
	}
	ex := t.exercises[t.cur.ExerciseIndex]
	t.notifier.Publish(live.Status{
		ExerciseName: ex.Name,
		CurrentSet:   t.cur.SetIndex + 1,
		TotalSets:    ex.NumberOfSets,
	})
}
