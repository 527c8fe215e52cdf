package plan

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/meltforce/amson/internal/docstore"
)

func newStore(t *testing.T) (*Store, *docstore.Store) {
	t.Helper()
	docs, err := docstore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { docs.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := NewStore(docs, log)
	if err != nil {
		t.Fatal(err)
	}
	return s, docs
}

func TestNewStoreSeedsWeeklyPlan(t *testing.T) {
	s, _ := newStore(t)
	if got := len(s.Plan().Days); got != 7 {
		t.Errorf("fresh store has %d days, want 7", got)
	}
}

func TestAddUpdateRemoveExercise(t *testing.T) {
	s, _ := newStore(t)

	if err := s.AddExercise("Monday", NewStrength("Bench", 3, 8)); err != nil {
		t.Fatal(err)
	}
	day := s.Plan().DayByName("Monday")
	if len(day.Items) != 1 || day.Items[0].Name != "Bench" {
		t.Fatalf("after add: %+v", day.Items)
	}
	originalID := day.Items[0].ID

	if err := s.UpdateExercise("Monday", 0, NewStrength("Incline Bench", 4, 6)); err != nil {
		t.Fatal(err)
	}
	got := s.Plan().DayByName("Monday").Items[0]
	if got.Name != "Incline Bench" || got.NumberOfSets != 4 {
		t.Errorf("after update: %+v", got)
	}
	if got.ID != originalID {
		t.Error("update replaced the exercise identifier")
	}

	if err := s.RemoveExercise("Monday", 0); err != nil {
		t.Fatal(err)
	}
	if got := len(s.Plan().DayByName("Monday").Items); got != 0 {
		t.Errorf("after remove: %d items, want 0", got)
	}
}

func TestMutationErrors(t *testing.T) {
	s, _ := newStore(t)

	if err := s.AddExercise("Funday", NewStrength("Bench", 3, 8)); !errors.Is(err, ErrNoDay) {
		t.Errorf("add to unknown day = %v, want ErrNoDay", err)
	}
	if err := s.AddExercise("Monday", ExerciseItem{Name: "Confused", NumberOfSets: 3, DurationMin: 20}); !errors.Is(err, ErrBothModes) {
		t.Errorf("add both-modes item = %v, want ErrBothModes", err)
	}
	if err := s.UpdateExercise("Monday", 0, NewStrength("Bench", 3, 8)); !errors.Is(err, ErrNoExercise) {
		t.Errorf("update empty day = %v, want ErrNoExercise", err)
	}
	if err := s.RemoveExercise("Monday", -1); !errors.Is(err, ErrNoExercise) {
		t.Errorf("remove negative index = %v, want ErrNoExercise", err)
	}
}

// TestPlanReturnsCopy verifies readers cannot reach into the store's state.
func TestPlanReturnsCopy(t *testing.T) {
	s, _ := newStore(t)
	if err := s.AddExercise("Monday", NewStrength("Bench", 3, 8)); err != nil {
		t.Fatal(err)
	}

	p := s.Plan()
	p.DayByName("Monday").Items[0].Name = "Tampered"

	if got := s.Plan().DayByName("Monday").Items[0].Name; got != "Bench" {
		t.Errorf("mutating a returned plan leaked into the store: %q", got)
	}
}

// TestConcurrentReadAndMutate interleaves plan reads with mutations from
// another goroutine, as concurrent HTTP requests do. Run with -race.
func TestConcurrentReadAndMutate(t *testing.T) {
	s, _ := newStore(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if err := s.AddExercise("Monday", NewStrength("Bench", 3, 8)); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	for i := 0; i < 50; i++ {
		if s.Plan().DayByName("Monday") == nil {
			t.Error("Monday missing during concurrent mutation")
		}
	}
	<-done

	if got := len(s.Plan().DayByName("Monday").Items); got != 50 {
		t.Errorf("Monday has %d items after writer finished, want 50", got)
	}
}

func TestPlanSurvivesReload(t *testing.T) {
	s, docs := newStore(t)
	if err := s.AddExercise("Tuesday", NewTimed("Treadmill", 30)); err != nil {
		t.Fatal(err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reloaded, err := NewStore(docs, log)
	if err != nil {
		t.Fatal(err)
	}
	day := reloaded.Plan().DayByName("Tuesday")
	if len(day.Items) != 1 || day.Items[0].Name != "Treadmill" || day.Items[0].DurationMin != 30 {
		t.Errorf("reloaded Tuesday = %+v", day.Items)
	}
}
