// Package resolver turns an opaque user identifier into today's ordered
// exercise list by walking the hub's reference chain: profile, active pack,
// pack day, exercises. Every outcome short of a working plan maps to a
// sentinel error the caller can degrade on; nothing here is fatal.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meltforce/amson/internal/plan"
)

var (
	// ErrProfileNotFound: the hub has no profile for the user identifier.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoActivePack: the profile carries no active pack reference. A
	// legitimate "nothing planned" state, not a failure.
	ErrNoActivePack = errors.New("no active pack selected")
	// ErrNoDaysInPack: the active pack reference dangles or the pack is empty.
	ErrNoDaysInPack = errors.New("pack has no days")
	// ErrNoExercisesForDay: the selected day has no exercise records.
	ErrNoExercisesForDay = errors.New("no exercises for day")
	// ErrRemoteFetchFailed: a round trip to the hub failed or timed out.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
	// ErrMalformedRecord: a hub record failed typed decoding.
	ErrMalformedRecord = errors.New("malformed record")
)

// NoPlanReason maps a resolution error to a human-readable "no plan today"
// reason. Returns false for errors that are not resolution outcomes.
func NoPlanReason(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return "no profile found for this account", true
	case errors.Is(err, ErrNoActivePack):
		return "no workout pack selected", true
	case errors.Is(err, ErrNoDaysInPack):
		return "the selected pack has no days", true
	case errors.Is(err, ErrNoExercisesForDay):
		return "nothing planned for today", true
	case errors.Is(err, ErrRemoteFetchFailed), errors.Is(err, ErrMalformedRecord):
		return "could not reach the workout service", true
	}
	return "", false
}

// TodayPlan is a successfully resolved day.
type TodayPlan struct {
	DayName   string
	Exercises []plan.ExerciseItem
}

// Resolver walks the hub reference chain. It holds no local state; resolution
// is read-only and idempotent.
type Resolver struct {
	client *Client
	log    *slog.Logger
	now    func() time.Time
}

// New creates a resolver over the given hub client.
func New(client *Client, log *slog.Logger) *Resolver {
	return &Resolver{client: client, log: log, now: time.Now}
}

// ResolveToday resolves the exercise list for the user's current pack day.
// The four round trips run sequentially; each step's predicate depends on the
// previous step's result, and a failure short-circuits the rest.
func (r *Resolver) ResolveToday(ctx context.Context, userID string) (*TodayPlan, error) {
	profile, err := r.client.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolving profile: %w", err)
	}

	if profile.CurrentPackID == nil {
		return nil, ErrNoActivePack
	}

	days, err := r.client.QueryDays(ctx, *profile.CurrentPackID)
	if err != nil {
		return nil, fmt.Errorf("resolving pack days: %w", err)
	}
	if len(days) == 0 {
		return nil, ErrNoDaysInPack
	}

	day := r.selectDay(days)

	records, err := r.client.QueryExercises(ctx, day.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving exercises: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoExercisesForDay
	}

	exercises := make([]plan.ExerciseItem, 0, len(records))
	for _, rec := range records {
		item, err := decodeExercise(rec)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, item)
	}

	r.log.Info("resolved today's plan", "day", day.DayName, "exercises", len(exercises))
	return &TodayPlan{DayName: day.DayName, Exercises: exercises}, nil
}

// selectDay picks the day whose name matches today's weekday when the pack
// has one, falling back to the lowest-ordered day. The hub guarantees no
// ordering, so the choice is made here, explicitly.
func (r *Resolver) selectDay(days []DayRecord) DayRecord {
	weekday := r.now().Weekday().String()
	best := days[0]
	for _, d := range days {
		if d.DayName == weekday {
			return d
		}
		if d.DayOrder < best.DayOrder {
			best = d
		}
	}
	return best
}

// decodeExercise converts a raw hub record into a validated ExerciseItem.
// Absent-field ambiguity stops at this boundary: a record that fails
// validation is ErrMalformedRecord, never a nil in the domain model.
func decodeExercise(rec ExerciseRecord) (plan.ExerciseItem, error) {
	if rec.ChosenExercise == "" {
		return plan.ExerciseItem{}, fmt.Errorf("%w: exercise %s has no name", ErrMalformedRecord, rec.ID)
	}
	if rec.Sets < 0 || rec.Reps < 0 || rec.Time < 0 {
		return plan.ExerciseItem{}, fmt.Errorf("%w: exercise %s has negative counts", ErrMalformedRecord, rec.ID)
	}

	item := plan.ExerciseItem{ID: rec.ID, Name: rec.ChosenExercise}
	if rec.Time > 0 {
		item.DurationMin = rec.Time
	} else {
		// Sets may be zero; the session skips such exercises.
		item.NumberOfSets = rec.Sets
		item.RepsPerSet = rec.Reps
	}
	return item, nil
}
