package geo

import (
	"context"
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var fixesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "snaphunt_location_fixes_total",
	Help: "Location fixes accepted from the configured source.",
})

var (
	// ErrAlreadyStarted reports a second Start on a running tracker.
	ErrAlreadyStarted = errors.New("geo: tracker already started")
	// ErrNotStarted reports a Stop on a tracker that is not running.
	ErrNotStarted = errors.New("geo: tracker not started")
)

// Tracker consumes a Source in the background and keeps only the latest
// fix. It is the live Provider: reads are non-blocking and reflect whatever
// the source has most recently reported.
type Tracker struct {
	src Source
	log logrus.FieldLogger

	mu     sync.RWMutex
	latest *Fix

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTracker wraps src. The tracker does nothing until Start.
func NewTracker(src Source, log logrus.FieldLogger) *Tracker {
	return &Tracker{src: src, log: log}
}

// Start launches the background fix consumer. The tracker keeps answering
// Current after the source stops; the slot just no longer advances.
func (t *Tracker) Start(ctx context.Context) error {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	if t.cancel != nil {
		return ErrAlreadyStarted
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(runCtx)
	return nil
}

// Stop tears the consumer down and waits for it to exit. The latest fix
// survives so Current stays answerable.
func (t *Tracker) Stop() error {
	t.runMu.Lock()
	defer t.runMu.Unlock()
	if t.cancel == nil {
		return ErrNotStarted
	}
	t.cancel()
	<-t.done
	t.cancel = nil
	t.done = nil
	return nil
}

// Current implements Provider.
func (t *Tracker) Current() (Coordinate, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.latest == nil {
		return Coordinate{}, false
	}
	return t.latest.Coordinate, true
}

func (t *Tracker) run(ctx context.Context) {
	defer close(t.done)
	err := t.src.Run(ctx, t.store)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.log.WithError(err).Warn("location source stopped")
	}
}

func (t *Tracker) store(f Fix) {
	if !f.Coordinate.Valid() {
		return
	}
	t.mu.Lock()
	t.latest = &f
	t.mu.Unlock()
	fixesTotal.Inc()
	t.log.WithFields(logrus.Fields{
		"latitude":  f.Coordinate.Latitude,
		"longitude": f.Coordinate.Longitude,
	}).Debug("location fix received")
}
