// Package mapview projects a task onto a map viewport: one region and at
// most one marker. It is pure presentation data with no interaction rules.
package mapview

import (
	"encoding/json"

	"snaphunt/internal/geo"
	"snaphunt/internal/hunt"
)

// Span is the viewport extent in degrees.
type Span struct {
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// Region is the visible map window.
type Region struct {
	Center geo.Coordinate `json:"center"`
	Span   Span           `json:"span"`
}

// Marker pins a completed task's coordinate.
type Marker struct {
	Title      string         `json:"title"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// View is what a map renderer needs: where to look and what to pin.
type View struct {
	Region Region  `json:"region"`
	Marker *Marker `json:"marker,omitempty"`
}

// DefaultSpan is a comfortable few-blocks zoom.
var DefaultSpan = Span{LatitudeDelta: 0.01, LongitudeDelta: 0.01}

// ForTask builds the annotation view for a task. A located task recenters
// the region on its marker; anything else shows the fallback region with
// no marker at all.
func ForTask(task hunt.Task, fallback Region) View {
	if fallback.Span == (Span{}) {
		fallback.Span = DefaultSpan
	}
	v := View{Region: fallback}
	if task.Location != nil {
		v.Marker = &Marker{Title: task.Title, Coordinate: *task.Location}
		v.Region.Center = *task.Location
	}
	return v
}

type geometry struct {
	Type string `json:"type"`
	// Longitude first, per RFC 7946.
	Coordinates [2]float64 `json:"coordinates"`
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   geometry          `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features []feature  `json:"features"`
	Center   [2]float64 `json:"center"`
	Span     [2]float64 `json:"span"`
}

// GeoJSON renders the view as a FeatureCollection with zero or one Point
// feature. Center and span travel as foreign members for the renderer.
func (v View) GeoJSON() ([]byte, error) {
	doc := featureCollection{
		Type:     "FeatureCollection",
		Features: []feature{},
		Center:   [2]float64{v.Region.Center.Longitude, v.Region.Center.Latitude},
		Span:     [2]float64{v.Region.Span.LongitudeDelta, v.Region.Span.LatitudeDelta},
	}
	if v.Marker != nil {
		doc.Features = append(doc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: [2]float64{v.Marker.Coordinate.Longitude, v.Marker.Coordinate.Latitude},
			},
			Properties: map[string]string{"title": v.Marker.Title},
		})
	}
	return json.Marshal(doc)
}
