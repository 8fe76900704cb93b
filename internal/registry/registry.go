// Package registry holds the in-memory task collection for a hunt run.
// Tasks are seeded once at startup; creation order is the listing order.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"snaphunt/internal/hunt"
	"snaphunt/internal/logging"
)

var (
	// ErrNotFound reports an id no task carries.
	ErrNotFound = errors.New("task not found")
	// ErrAlreadySeeded reports a second Seed call.
	ErrAlreadySeeded = errors.New("registry already seeded")
)

// Registry implements hunt.Registry on process memory.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]*hunt.Task
	order  []string
	seeded bool

	log logrus.FieldLogger
}

// New returns an empty registry.
func New(log logrus.FieldLogger) *Registry {
	return &Registry{
		byID: make(map[string]*hunt.Task),
		log:  log,
	}
}

// Seed admits the startup checklist, assigning ids in order. It can run
// once; tasks are never created or deleted after boot.
func (r *Registry) Seed(ctx context.Context, seeds []hunt.SeedTask) ([]hunt.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seeded {
		return nil, ErrAlreadySeeded
	}
	r.seeded = true

	out := make([]hunt.Task, 0, len(seeds))
	for _, s := range seeds {
		t := &hunt.Task{
			ID:          "t_" + uuid.New().String(),
			Title:       s.Title,
			Description: s.Description,
		}
		r.byID[t.ID] = t
		r.order = append(r.order, t.ID)
		out = append(out, *t)
	}
	r.log.WithField("count", len(out)).Info("task registry seeded")
	return out, nil
}

// List returns snapshots of every task in creation order.
func (r *Registry) List(ctx context.Context) []hunt.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]hunt.Task, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Get returns a snapshot of one task.
func (r *Registry) Get(ctx context.Context, id string) (hunt.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return hunt.Task{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return *t, nil
}

// Update applies mutate to the task with that id. The mutation runs on a
// scratch copy and commits only when it returns nil, so readers never see
// a torn update and a failed mutation changes nothing.
func (r *Registry) Update(ctx context.Context, id string, mutate func(*hunt.Task) error) (hunt.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return hunt.Task{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	next := *t
	if err := mutate(&next); err != nil {
		return hunt.Task{}, err
	}
	*t = next
	logging.FromContext(ctx).WithField("task_id", id).Debug("task updated")
	return next, nil
}
