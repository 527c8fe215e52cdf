package ledger

import (
	"io"
	"log/slog"
	"testing"

	"github.com/meltforce/amson/internal/docstore"
)

func newLedger(t *testing.T) (*Ledger, *docstore.Store) {
	t.Helper()
	docs, err := docstore.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { docs.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	l, err := New(docs, log)
	if err != nil {
		t.Fatal(err)
	}
	return l, docs
}

func TestPersonalBest(t *testing.T) {
	l, _ := newLedger(t)

	if got := l.PersonalBest("Bench"); got != 0 {
		t.Errorf("personal best with no history = %d, want 0", got)
	}

	for _, w := range []int{100, 140, 120} {
		l.Record("Bench", w)
	}
	if got := l.PersonalBest("Bench"); got != 140 {
		t.Errorf("personal best = %d, want 140", got)
	}
}

func TestRecentHistory(t *testing.T) {
	l, _ := newLedger(t)
	for _, w := range []int{10, 20, 30, 40} {
		l.Record("Row", w)
	}

	got := l.RecentHistory("Row", 3)
	if len(got) != 3 || got[0] != 20 || got[1] != 30 || got[2] != 40 {
		t.Errorf("recent 3 = %v, want [20 30 40]", got)
	}

	if got := l.RecentHistory("Row", 10); len(got) != 4 {
		t.Errorf("recent 10 over 4 entries = %v, want all 4", got)
	}
	if got := l.RecentHistory("Row", 0); got != nil {
		t.Errorf("recent 0 = %v, want nil", got)
	}
	if got := l.RecentHistory("Unknown", 3); got != nil {
		t.Errorf("unknown exercise = %v, want nil", got)
	}
}

func TestRecentHistoryCopies(t *testing.T) {
	l, _ := newLedger(t)
	l.Record("Row", 10)
	l.Record("Row", 20)

	got := l.RecentHistory("Row", 2)
	got[0] = 999
	if again := l.RecentHistory("Row", 2); again[0] != 10 {
		t.Errorf("mutating returned history leaked into ledger: %v", again)
	}
}

func TestLastWeight(t *testing.T) {
	l, _ := newLedger(t)

	if got := l.LastWeight("Deadlift"); got != 0 {
		t.Errorf("last weight with no history = %d, want 0", got)
	}
	l.Record("Deadlift", 180)
	l.Record("Deadlift", 200)
	if got := l.LastWeight("Deadlift"); got != 200 {
		t.Errorf("last weight = %d, want 200", got)
	}
}

// TestConcurrentRecordAndRead interleaves a writer with the three read paths.
// Run with -race; the readers must see a consistent map while the session
// goroutine records.
func TestConcurrentRecordAndRead(t *testing.T) {
	l, _ := newLedger(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 100; i++ {
			l.Record("Bench", i)
		}
	}()

	for i := 0; i < 100; i++ {
		l.PersonalBest("Bench")
		l.RecentHistory("Bench", 3)
		l.LastWeight("Bench")
	}
	<-done

	if got := l.PersonalBest("Bench"); got != 100 {
		t.Errorf("personal best after writer finished = %d, want 100", got)
	}
	if got := l.RecentHistory("Bench", 100); len(got) != 100 {
		t.Errorf("history length = %d, want 100", len(got))
	}
}

func TestHistorySurvivesReload(t *testing.T) {
	l, docs := newLedger(t)
	l.Record("Squat", 120)
	l.Record("Squat", 130)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reloaded, err := New(docs, log)
	if err != nil {
		t.Fatal(err)
	}
	got := reloaded.RecentHistory("Squat", 2)
	if len(got) != 2 || got[0] != 120 || got[1] != 130 {
		t.Errorf("reloaded history = %v, want [120 130]", got)
	}
}
