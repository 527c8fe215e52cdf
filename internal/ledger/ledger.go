package ledger

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/meltforce/amson/internal/docstore"
)

// Ledger is the append-only per-exercise history of recorded weights, keyed
// by exercise name. Renaming an exercise forks its history; that matches the
// shipped data and is left alone. The whole map is rewritten on every record.
// Safe for concurrent use: the session writes while HTTP and MCP readers
// query history on their own goroutines.
type Ledger struct {
	docs *docstore.Store
	log  *slog.Logger

	mu      sync.RWMutex
	weights map[string][]int
}

// New loads the persisted ledger, starting empty if none exists.
func New(docs *docstore.Store, log *slog.Logger) (*Ledger, error) {
	l := &Ledger{docs: docs, log: log, weights: map[string][]int{}}
	if _, err := docs.Load(docstore.DocLedger, &l.weights); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return l, nil
}

// Record appends weight to the history for exerciseName. The session tracker
// validates the weight range before calling; the ledger trusts its caller.
func (l *Ledger) Record(exerciseName string, weight int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.weights[exerciseName] = append(l.weights[exerciseName], weight)
	if err := l.docs.Save(docstore.DocLedger, l.weights); err != nil {
		l.log.Warn("ledger save failed", "exercise", exerciseName, "error", err)
	}
}

// PersonalBest returns the maximum recorded weight, or 0 with no history.
func (l *Ledger) PersonalBest(exerciseName string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	best := 0
	for _, w := range l.weights[exerciseName] {
		if w > best {
			best = w
		}
	}
	return best
}

// RecentHistory returns the last n recorded weights in insertion order,
// most recent last.
func (l *Ledger) RecentHistory(exerciseName string, n int) []int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := l.weights[exerciseName]
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if n > len(history) {
		n = len(history)
	}
	out := make([]int, n)
	copy(out, history[len(history)-n:])
	return out
}

// LastWeight returns the most recent recorded weight, or 0 with no history.
func (l *Ledger) LastWeight(exerciseName string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := l.weights[exerciseName]
	if len(history) == 0 {
		return 0
	}
	return history[len(history)-1]
}
