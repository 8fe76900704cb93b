// Package logging wires the process-wide structured logger and its
// request-scoped propagation.
package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls the process logger.
type Config struct {
	Level   string
	Service string
	Async   bool
}

type ctxKey struct{}

var (
	defMu      sync.RWMutex
	defaultLog logrus.FieldLogger = newDiscard()
)

func newDiscard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Init builds the process logger: JSON lines, RFC3339Nano timestamps,
// level from the config, one service field on every entry. The returned
// func flushes pending output and must run before the process exits.
func Init(cfg Config) (logrus.FieldLogger, func()) {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	closer := func() {}
	var out io.Writer = os.Stdout
	if cfg.Async {
		aw := NewAsyncWriter(os.Stdout)
		out = aw
		closer = func() { aw.Close() }
	}
	l.SetOutput(out)

	entry := l.WithField("service", cfg.Service)
	setDefault(entry)
	return entry, closer
}

func setDefault(l logrus.FieldLogger) {
	defMu.Lock()
	defaultLog = l
	defMu.Unlock()
}

// Default returns the process logger, or a discard logger before Init.
func Default() logrus.FieldLogger {
	defMu.RLock()
	defer defMu.RUnlock()
	return defaultLog
}

// NewContext returns a context carrying a request-scoped log entry.
func NewContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the request-scoped entry, or the process logger when
// the context carries none.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok && l != nil {
		return l
	}
	return Default()
}
