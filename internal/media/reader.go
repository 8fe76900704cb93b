package media

import (
	"context"
	"fmt"
	"io"
	"time"
)

// FromReader wraps an already-supplied image (an HTTP upload, a test
// fixture) as a one-shot Capture. An empty reader counts as the user
// picking nothing.
func FromReader(r io.Reader, name string) Capture {
	return CaptureFunc(func(ctx context.Context) (*Photo, error) {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read supplied image: %w", err)
		}
		if len(data) == 0 {
			return nil, ErrCancelled
		}
		return &Photo{Data: data, Name: name, TakenAt: time.Now()}, nil
	})
}
