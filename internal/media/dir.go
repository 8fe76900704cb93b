package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Dir is the photo-library capture: it hands over the most recently staged
// image in a directory. A companion picker app drops the user's selection
// there; an empty directory means nothing was picked, which is a
// cancellation rather than an error.
type Dir struct {
	Path string
}

// NewDir returns a library capture backed by path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".heic": true,
	".webp": true,
}

// Capture implements Capture.
func (d *Dir) Capture(ctx context.Context) (*Photo, error) {
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("photo library %s: %w", d.Path, ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("read photo library: %w", err)
	}

	var (
		bestName string
		bestTime time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if bestName == "" || info.ModTime().After(bestTime) {
			bestName = e.Name()
			bestTime = info.ModTime()
		}
	}
	if bestName == "" {
		return nil, ErrCancelled
	}

	data, err := os.ReadFile(filepath.Join(d.Path, bestName))
	if err != nil {
		return nil, fmt.Errorf("read staged photo: %w", err)
	}
	return &Photo{Data: data, Name: bestName, TakenAt: bestTime}, nil
}
