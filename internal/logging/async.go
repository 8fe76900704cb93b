package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	defaultBufferSize    = 4096
	defaultFlushInterval = 100 * time.Millisecond
)

// AsyncWriter decouples log production from the output device: writes are
// queued, batched and flushed by a single background goroutine. A full
// queue drops the line rather than stalling the caller.
type AsyncWriter struct {
	w             io.Writer
	ch            chan []byte
	done          chan struct{}
	bufferSize    int
	flushInterval time.Duration

	mu     sync.RWMutex
	closed bool
}

// AsyncOption configures an AsyncWriter.
type AsyncOption func(*AsyncWriter)

// WithBufferSize sets the queue capacity and the batch flush threshold in
// bytes.
func WithBufferSize(n int) AsyncOption {
	return func(w *AsyncWriter) {
		if n > 0 {
			w.bufferSize = n
		}
	}
}

// WithFlushInterval sets how often a partial batch is forced out.
func WithFlushInterval(d time.Duration) AsyncOption {
	return func(w *AsyncWriter) {
		if d > 0 {
			w.flushInterval = d
		}
	}
}

// NewAsyncWriter starts an async writer in front of w.
func NewAsyncWriter(w io.Writer, opts ...AsyncOption) *AsyncWriter {
	aw := &AsyncWriter{
		w:             w,
		bufferSize:    defaultBufferSize,
		flushInterval: defaultFlushInterval,
	}
	for _, opt := range opts {
		opt(aw)
	}
	aw.ch = make(chan []byte, aw.bufferSize+1)
	aw.done = make(chan struct{})
	go aw.run()
	return aw
}

// Write queues p and never blocks: when the queue is full the line is
// dropped and accounted on stderr.
func (w *AsyncWriter) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return 0, fmt.Errorf("logging: write on closed AsyncWriter")
	}

	// The caller reuses its buffer after Write returns.
	msg := make([]byte, len(p))
	copy(msg, p)

	select {
	case w.ch <- msg:
	default:
		fmt.Fprintf(os.Stderr, "logging: queue full, dropped: %s", msg)
	}
	return len(p), nil
}

// Close flushes whatever is queued and stops the writer.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.ch)
	<-w.done
	return nil
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	var batch bytes.Buffer
	flush := func() {
		if batch.Len() == 0 {
			return
		}
		if _, err := w.w.Write(batch.Bytes()); err != nil {
			fmt.Fprintf(os.Stderr, "logging: flush failed: %v\n", err)
		}
		batch.Reset()
	}

	for {
		select {
		case <-ticker.C:
			flush()
		case msg, ok := <-w.ch:
			if !ok {
				flush()
				return
			}
			batch.Write(msg)
			if batch.Len() >= w.bufferSize {
				flush()
			}
		}
	}
}
