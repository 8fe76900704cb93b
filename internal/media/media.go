// Package media acquires photographic evidence from user-facing capture
// sources. An acquisition is one full interaction: it blocks until the
// user supplies an image or bails out.
package media

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Source identifies where a piece of evidence comes from.
type Source int

const (
	// Library picks an existing image from the staged photo library.
	Library Source = iota
	// LiveCamera captures a fresh frame from the device camera.
	LiveCamera
)

// String returns the wire name clients use for the source.
func (s Source) String() string {
	switch s {
	case Library:
		return "library"
	case LiveCamera:
		return "camera"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseSource maps a wire name onto a Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "library":
		return Library, nil
	case "camera":
		return LiveCamera, nil
	default:
		return 0, fmt.Errorf("media: unknown source %q", s)
	}
}

// Photo is an opaque image handle: the captured bytes plus provenance.
type Photo struct {
	Data    []byte
	Name    string
	Source  Source
	TakenAt time.Time
}

var (
	// ErrCancelled reports that the user declined to supply an image. It
	// is a normal outcome, not a failure.
	ErrCancelled = errors.New("media: capture cancelled")

	// ErrSourceUnavailable reports that the requested capture source does
	// not exist in this environment. It is raised before any capture
	// interaction starts.
	ErrSourceUnavailable = errors.New("media: capture source unavailable")
)

// Acquirer runs one evidence-capture interaction for the requested source.
type Acquirer interface {
	Acquire(ctx context.Context, src Source) (*Photo, error)
}

// Capture is a single-source capture interaction.
type Capture interface {
	Capture(ctx context.Context) (*Photo, error)
}

// CaptureFunc adapts a function to Capture.
type CaptureFunc func(ctx context.Context) (*Photo, error)

// Capture implements Capture.
func (f CaptureFunc) Capture(ctx context.Context) (*Photo, error) {
	return f(ctx)
}
