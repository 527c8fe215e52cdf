// Package live mirrors session progress to an external live-status surface.
// Publishing is best-effort: a slow or failing sink never delays or fails the
// session that feeds it.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is the compact payload shown on the live surface.
type Status struct {
	ExerciseName string `json:"exercise_name"`
	CurrentSet   int    `json:"current_set"`
	TotalSets    int    `json:"total_sets"`
}

// Sink is the external live-status surface.
type Sink interface {
	Publish(ctx context.Context, st Status) error
	End(ctx context.Context) error
}

// Mirror forwards session transitions to a Sink from a single worker
// goroutine. The queue is small and lossy: when it is full, updates are
// dropped rather than blocking the caller.
type Mirror struct {
	sink    Sink
	log     *slog.Logger
	updates chan update

	closeOnce sync.Once
	done      chan struct{}
}

type update struct {
	st  Status
	end bool
}

const publishTimeout = 5 * time.Second

// NewMirror starts the mirror worker. Close releases it.
func NewMirror(sink Sink, log *slog.Logger) *Mirror {
	m := &Mirror{
		sink:    sink,
		log:     log,
		updates: make(chan update, 16),
		done:    make(chan struct{}),
	}
	go m.run()
	return m
}

// Publish enqueues a status update. Never blocks.
func (m *Mirror) Publish(st Status) {
	select {
	case m.updates <- update{st: st}:
	default:
		m.log.Warn("live status queue full, dropping update", "exercise", st.ExerciseName)
	}
}

// End enqueues the dismissal of the live surface. Never blocks.
func (m *Mirror) End() {
	select {
	case m.updates <- update{end: true}:
	default:
		m.log.Warn("live status queue full, dropping end")
	}
}

// Close stops the worker after draining queued updates.
func (m *Mirror) Close() {
	m.closeOnce.Do(func() {
		close(m.updates)
		<-m.done
	})
}

func (m *Mirror) run() {
	defer close(m.done)
	for u := range m.updates {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		var err error
		if u.end {
			err = m.sink.End(ctx)
		} else {
			err = m.sink.Publish(ctx, u.st)
		}
		cancel()
		if err != nil {
			m.log.Warn("live status publish failed", "error", err)
		}
	}
}
