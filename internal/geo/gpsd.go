package geo

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultGPSDAddr is where a stock gpsd daemon listens.
const DefaultGPSDAddr = "localhost:2947"

const watchCommand = `?WATCH={"enable":true,"json":true};` + "\n"

// gpsd reports a 2D fix as mode 2 and a 3D fix as mode 3.
const mode2DFix = 2

// GPSD streams fixes from a gpsd daemon over its JSON watch protocol.
//
// The daemon is dialed lazily and redialed with a fixed pause, so the
// service can boot before the GPS stack is up. Reports other than TPV, and
// TPV reports without at least a 2D fix, are ignored.
type GPSD struct {
	Addr        string
	DialTimeout time.Duration
	Retry       time.Duration

	log logrus.FieldLogger
}

// NewGPSD returns a source for the daemon at addr, or DefaultGPSDAddr when
// addr is empty.
func NewGPSD(addr string, log logrus.FieldLogger) *GPSD {
	if addr == "" {
		addr = DefaultGPSDAddr
	}
	return &GPSD{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
		Retry:       5 * time.Second,
		log:         log,
	}
}

// tpvReport is the slice of a gpsd TPV report we care about.
type tpvReport struct {
	Class string    `json:"class"`
	Mode  int       `json:"mode"`
	Lat   float64   `json:"lat"`
	Lon   float64   `json:"lon"`
	Time  time.Time `json:"time"`
}

// Run implements Source.
func (g *GPSD) Run(ctx context.Context, emit func(Fix)) error {
	for {
		if err := g.watch(ctx, emit); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.WithError(err).Debug("gpsd connection lost, retrying")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.Retry):
		}
	}
}

func (g *GPSD) watch(ctx context.Context, emit func(Fix)) error {
	d := net.Dialer{Timeout: g.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", g.Addr)
	if err != nil {
		return fmt.Errorf("dial gpsd: %w", err)
	}
	defer conn.Close()

	// Unblocks the read loop when the context ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if _, err := io.WriteString(conn, watchCommand); err != nil {
		return fmt.Errorf("enable gpsd watch: %w", err)
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for sc.Scan() {
		var rep tpvReport
		if err := json.Unmarshal(sc.Bytes(), &rep); err != nil {
			// Other report classes reuse field names with different types.
			continue
		}
		if rep.Class != "TPV" || rep.Mode < mode2DFix {
			continue
		}
		when := rep.Time
		if when.IsZero() {
			when = time.Now()
		}
		emit(Fix{
			Coordinate: Coordinate{Latitude: rep.Lat, Longitude: rep.Lon},
			Time:       when,
		})
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read gpsd stream: %w", err)
	}
	return ctx.Err()
}
