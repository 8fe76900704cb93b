// Package workflow drives a scavenger-hunt task from pending to completed.
//
// The rules live here: photographic evidence comes first and is mandatory;
// the coordinate is best-effort and never blocks or reverses a completion.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"snaphunt/internal/geo"
	"snaphunt/internal/hunt"
	"snaphunt/internal/logging"
	"snaphunt/internal/media"
)

// Outcome labels how a completion attempt ended.
type Outcome string

const (
	// OutcomeCompleted means evidence was attached and the task is done.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCancelled means the user backed out; the task is untouched.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeAlreadyCompleted means the task was done before the attempt;
	// nothing ran and nothing changed.
	OutcomeAlreadyCompleted Outcome = "already_completed"
)

// User-visible notices for the two distinguished soft conditions.
const (
	// NoticeCameraUnavailable is the blocking message for a live-camera
	// request on a host without a camera.
	NoticeCameraUnavailable = "Camera not available on this device."
	// NoticeLibraryUnavailable is its photo-library counterpart.
	NoticeLibraryUnavailable = "Photo library not available on this device."
	// NoticeLocationPending is informational: the task completed, but no
	// fix had arrived yet so it carries no coordinate.
	NoticeLocationPending = "location not yet available"
)

// SandboxFallback is the deterministic coordinate pinned to completions in
// sandboxed environments, where no trustworthy GPS signal exists.
var SandboxFallback = geo.Coordinate{Latitude: 37.3349, Longitude: -122.0090}

// Result reports a finished completion attempt.
type Result struct {
	Task    hunt.Task
	Outcome Outcome
	Notice  string
}

// Completer runs the completion workflow against the registry.
type Completer struct {
	registry hunt.Registry
	media    media.Acquirer
	location geo.Provider
	env      hunt.Environment
	log      logrus.FieldLogger

	observers *observerSet
}

// New wires a Completer. location may be nil when the deployment has no
// location source at all; completions then simply carry no coordinate.
func New(reg hunt.Registry, acq media.Acquirer, location geo.Provider, env hunt.Environment, log logrus.FieldLogger) *Completer {
	return &Completer{
		registry:  reg,
		media:     acq,
		location:  location,
		env:       env,
		log:       log,
		observers: newObserverSet(),
	}
}

// Complete acquires evidence from the configured source and, on success,
// marks the task completed and attaches the best available coordinate.
//
// A cancelled capture and a re-trigger on a finished task are normal
// results, not errors. ErrSourceUnavailable from the acquirer surfaces as
// an error before the task is touched.
func (c *Completer) Complete(ctx context.Context, taskID string, src media.Source) (Result, error) {
	return c.CompleteWith(ctx, taskID, src, c.media)
}

// CompleteWith runs one completion attempt with a caller-supplied capture
// interaction, for evidence handed over by the transport layer. Everything
// else behaves exactly like Complete.
func (c *Completer) CompleteWith(ctx context.Context, taskID string, src media.Source, acq media.Acquirer) (Result, error) {
	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"task_id": taskID,
		"source":  src.String(),
	})

	task, err := c.registry.Get(ctx, taskID)
	if err != nil {
		return Result{}, fmt.Errorf("workflow: %w", err)
	}
	if task.Completed {
		// Re-triggering a finished task is a no-op.
		log.Debug("task already completed, nothing to do")
		return Result{Task: task, Outcome: OutcomeAlreadyCompleted}, nil
	}

	photo, err := acq.Acquire(ctx, src)
	switch {
	case errors.Is(err, media.ErrCancelled):
		log.Debug("capture cancelled, task untouched")
		attemptsTotal.WithLabelValues(src.String(), string(OutcomeCancelled)).Inc()
		return Result{Task: task, Outcome: OutcomeCancelled}, nil
	case errors.Is(err, media.ErrSourceUnavailable):
		log.WithError(err).Warn("capture source unavailable")
		attemptsTotal.WithLabelValues(src.String(), "source_unavailable").Inc()
		return Result{}, fmt.Errorf("workflow: %w", err)
	case err != nil:
		attemptsTotal.WithLabelValues(src.String(), "error").Inc()
		return Result{}, fmt.Errorf("workflow: acquire evidence: %w", err)
	}

	now := time.Now()
	task, err = c.registry.Update(ctx, taskID, func(t *hunt.Task) error {
		t.Photo = photo
		t.Completed = true
		t.CompletedAt = &now
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("workflow: attach evidence: %w", err)
	}

	res := Result{Task: task, Outcome: OutcomeCompleted}

	// The coordinate is resolved strictly after the photo is attached; a
	// missing fix degrades to a notice and never rolls the completion back.
	if coord, mode, ok := c.coordinate(); ok {
		task, err = c.registry.Update(ctx, taskID, func(t *hunt.Task) error {
			if t.Location == nil {
				t.Location = &coord
			}
			return nil
		})
		if err != nil {
			return Result{}, fmt.Errorf("workflow: attach location: %w", err)
		}
		res.Task = task
		locationsTotal.WithLabelValues(mode).Inc()
	} else {
		res.Notice = NoticeLocationPending
		locationsTotal.WithLabelValues("none").Inc()
		log.Info("location not yet available, completing without coordinate")
	}

	attemptsTotal.WithLabelValues(src.String(), string(OutcomeCompleted)).Inc()
	log.WithField("located", res.Task.Location != nil).Info("task completed")
	c.observers.notify(Event{Task: res.Task, Outcome: res.Outcome, Notice: res.Notice})
	return res, nil
}

// coordinate resolves the environment policy: sandboxed runs always pin
// the deterministic fallback without consulting the provider; real devices
// take whatever the provider has right now, possibly nothing.
func (c *Completer) coordinate() (geo.Coordinate, string, bool) {
	if c.env == hunt.EnvSandbox {
		return SandboxFallback, "fallback", true
	}
	if c.location == nil {
		return geo.Coordinate{}, "", false
	}
	coord, ok := c.location.Current()
	if !ok {
		return geo.Coordinate{}, "", false
	}
	return coord, "fix", true
}

// UnavailableMessage is the user-visible text for a source-unavailable
// failure on the given source.
func UnavailableMessage(src media.Source) string {
	if src == media.LiveCamera {
		return NoticeCameraUnavailable
	}
	return NoticeLibraryUnavailable
}
