package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// FixFile watches a JSON fix file maintained by a companion process (a GPS
// bridge, a phone relay) and emits a fix every time the file is rewritten.
//
// The file holds one object: {"latitude": .., "longitude": .., "time": ..}.
type FixFile struct {
	Path string

	log logrus.FieldLogger
}

// NewFixFile returns a source watching path.
func NewFixFile(path string, log logrus.FieldLogger) *FixFile {
	return &FixFile{Path: filepath.Clean(path), log: log}
}

type fileFix struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Time      time.Time `json:"time"`
}

// Run implements Source.
func (f *FixFile) Run(ctx context.Context, emit func(Fix)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fix file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: bridges typically replace the file rather than
	// write it in place.
	dir := filepath.Dir(f.Path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// A fix written before startup still counts.
	f.load(emit)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != f.Path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f.load(emit)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.log.WithError(err).Debug("fix file watcher error")
		}
	}
}

func (f *FixFile) load(emit func(Fix)) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		// Absent until the bridge writes the first fix.
		return
	}
	var ff fileFix
	if err := json.Unmarshal(data, &ff); err != nil {
		// Likely caught mid-replace; the next event retries.
		f.log.WithError(err).Debug("fix file not parseable, skipping")
		return
	}
	when := ff.Time
	if when.IsZero() {
		when = time.Now()
	}
	emit(Fix{
		Coordinate: Coordinate{Latitude: ff.Latitude, Longitude: ff.Longitude},
		Time:       when,
	})
}
