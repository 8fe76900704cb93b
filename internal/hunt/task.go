// Package hunt defines the scavenger-hunt domain: the task checklist and
// the contracts the completion workflow runs against.
package hunt

import (
	"context"
	"time"

	"snaphunt/internal/geo"
	"snaphunt/internal/media"
)

// Task is one scavenger-hunt objective plus its completion evidence.
//
// Completed is true exactly when Photo is attached. Location may only be
// present on a completed task and may legitimately stay absent when no fix
// was available at completion time.
type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Photo       *media.Photo    `json:"-"`
	Location    *geo.Coordinate `json:"location,omitempty"`
}

// Pending reports whether the task still needs evidence.
func (t Task) Pending() bool {
	return !t.Completed
}

// Registry is the canonical owner of task entities.
//
// Update applies mutate atomically with respect to other mutations of the
// same id; readers never observe a half-applied mutation, and a mutation
// that returns an error leaves the task untouched.
type Registry interface {
	List(ctx context.Context) []Task
	Get(ctx context.Context, id string) (Task, error)
	Update(ctx context.Context, id string, mutate func(*Task) error) (Task, error)
}
