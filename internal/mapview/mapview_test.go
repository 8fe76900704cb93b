package mapview

import (
	"encoding/json"
	"testing"

	"snaphunt/internal/geo"
	"snaphunt/internal/hunt"
)

var venue = Region{
	Center: geo.Coordinate{Latitude: 37.7749, Longitude: -122.4194},
	Span:   Span{LatitudeDelta: 0.05, LongitudeDelta: 0.05},
}

func TestForTaskPendingHasNoMarker(t *testing.T) {
	v := ForTask(hunt.Task{ID: "t_1", Title: "find the mural"}, venue)
	if v.Marker != nil {
		t.Errorf("pending task got a marker: %+v", v.Marker)
	}
	if v.Region != venue {
		t.Errorf("region = %+v, want the fallback", v.Region)
	}
}

func TestForTaskLocatedRecenters(t *testing.T) {
	loc := geo.Coordinate{Latitude: 37.3349, Longitude: -122.0090}
	task := hunt.Task{ID: "t_1", Title: "find the mural", Completed: true, Location: &loc}

	v := ForTask(task, venue)
	if v.Marker == nil {
		t.Fatal("located task got no marker")
	}
	if v.Marker.Coordinate != loc || v.Marker.Title != "find the mural" {
		t.Errorf("marker = %+v", v.Marker)
	}
	if v.Region.Center != loc {
		t.Errorf("region center = %+v, want the task location", v.Region.Center)
	}
	if v.Region.Span != venue.Span {
		t.Errorf("span = %+v, want the fallback span", v.Region.Span)
	}
}

func TestForTaskFillsDefaultSpan(t *testing.T) {
	v := ForTask(hunt.Task{ID: "t_1"}, Region{Center: venue.Center})
	if v.Region.Span != DefaultSpan {
		t.Errorf("span = %+v, want DefaultSpan", v.Region.Span)
	}
}

func TestGeoJSONShape(t *testing.T) {
	loc := geo.Coordinate{Latitude: 51.5007, Longitude: -0.1246}
	task := hunt.Task{ID: "t_1", Title: "clock tower", Completed: true, Location: &loc}

	data, err := ForTask(task, venue).GeoJSON()
	if err != nil {
		t.Fatalf("GeoJSON: %v", err)
	}

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string     `json:"type"`
				Coordinates [2]float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
		Center [2]float64 `json:"center"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Type != "FeatureCollection" || len(doc.Features) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	f := doc.Features[0]
	if f.Geometry.Type != "Point" {
		t.Errorf("geometry type = %q", f.Geometry.Type)
	}
	// GeoJSON order is longitude, latitude.
	if f.Geometry.Coordinates != [2]float64{-0.1246, 51.5007} {
		t.Errorf("coordinates = %v", f.Geometry.Coordinates)
	}
	if f.Properties["title"] != "clock tower" {
		t.Errorf("properties = %v", f.Properties)
	}
	if doc.Center != [2]float64{-0.1246, 51.5007} {
		t.Errorf("center = %v", doc.Center)
	}
}

func TestGeoJSONPendingHasEmptyFeatures(t *testing.T) {
	data, err := ForTask(hunt.Task{ID: "t_1"}, venue).GeoJSON()
	if err != nil {
		t.Fatalf("GeoJSON: %v", err)
	}
	var doc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Features) != 0 {
		t.Errorf("features = %d, want 0", len(doc.Features))
	}
}
