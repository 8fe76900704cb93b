package media

import (
	"context"
	"fmt"
)

// Picker routes acquisition requests to per-source captures. A nil slot
// means the deployment does not have that source; asking for it fails fast
// with ErrSourceUnavailable before any capture interaction starts.
type Picker struct {
	Library Capture
	Camera  Capture
}

// Acquire implements Acquirer.
func (p *Picker) Acquire(ctx context.Context, src Source) (*Photo, error) {
	var c Capture
	switch src {
	case Library:
		c = p.Library
	case LiveCamera:
		c = p.Camera
	default:
		return nil, fmt.Errorf("media: unknown source %d", int(src))
	}
	if c == nil {
		return nil, fmt.Errorf("%s: %w", src, ErrSourceUnavailable)
	}
	photo, err := c.Capture(ctx)
	if err != nil {
		return nil, err
	}
	photo.Source = src
	return photo, nil
}
