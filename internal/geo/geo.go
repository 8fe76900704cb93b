// Package geo tracks the device's location as a stream of best-effort
// fixes. Readers only ever see the latest known coordinate; "no fix yet"
// is a normal answer, not an error.
package geo

import (
	"context"
	"math"
	"time"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is a finite point on the globe.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return false
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Fix is a single reported coordinate from a location source.
type Fix struct {
	Coordinate Coordinate
	Time       time.Time
}

// Provider exposes the latest known device coordinate.
//
// Current never blocks waiting for a fix; a false return means no fix has
// arrived yet.
type Provider interface {
	Current() (Coordinate, bool)
}

// Source streams location fixes to a consumer. Run blocks until ctx is
// done, calling emit for every fresh fix. Implementations handle their own
// reconnects; a source that can produce nothing more simply returns.
type Source interface {
	Run(ctx context.Context, emit func(Fix)) error
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, emit func(Fix)) error

// Run implements Source.
func (f SourceFunc) Run(ctx context.Context, emit func(Fix)) error {
	return f(ctx, emit)
}

// Static is a Provider pinned to one coordinate, for installations at a
// known venue and for deterministic tests.
type Static struct {
	Coordinate Coordinate
}

// NewStatic returns a provider that always reports the same coordinate.
func NewStatic(lat, lon float64) *Static {
	return &Static{Coordinate: Coordinate{Latitude: lat, Longitude: lon}}
}

// Current implements Provider.
func (s *Static) Current() (Coordinate, bool) {
	return s.Coordinate, true
}
