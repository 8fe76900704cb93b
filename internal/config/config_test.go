package config

import (
	"testing"

	"snaphunt/internal/hunt"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Environment != hunt.EnvDevice {
		t.Errorf("environment = %v", cfg.Environment)
	}
	if cfg.Geo.Source != "gpsd" || cfg.Geo.GPSDAddr != "localhost:2947" {
		t.Errorf("geo = %+v", cfg.Geo)
	}
	if cfg.Map.Span != 0.01 {
		t.Errorf("map span = %v", cfg.Map.Span)
	}
	if cfg.Media.CameraDevice != "/dev/video0" || cfg.Media.CaptureCommand != "fswebcam" {
		t.Errorf("media = %+v", cfg.Media)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HUNT_PORT", "9090")
	t.Setenv("HUNT_ENV", "sandbox")
	t.Setenv("HUNT_GEO_SOURCE", "static")
	t.Setenv("HUNT_STATIC_LAT", "37.3349")
	t.Setenv("HUNT_STATIC_LON", "-122.0090")
	t.Setenv("HUNT_CAMERA_DEVICE", "")
	t.Setenv("LOG_ASYNC", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.Environment != hunt.EnvSandbox {
		t.Errorf("environment = %v", cfg.Environment)
	}
	if cfg.Geo.Source != "static" || cfg.Geo.StaticLat != 37.3349 || cfg.Geo.StaticLon != -122.0090 {
		t.Errorf("geo = %+v", cfg.Geo)
	}
	if cfg.Media.CameraDevice != "" {
		t.Errorf("camera device = %q, want disabled", cfg.Media.CameraDevice)
	}
	if !cfg.LogAsync {
		t.Error("async logging not enabled")
	}
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	t.Setenv("HUNT_ENV", "production")
	if _, err := Load(); err == nil {
		t.Error("Load accepted an unknown environment")
	}
}

func TestLoadRejectsBadGeoSource(t *testing.T) {
	t.Setenv("HUNT_GEO_SOURCE", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Error("Load accepted an unknown geo source")
	}
}

func TestLoadRequiresFixFilePath(t *testing.T) {
	t.Setenv("HUNT_GEO_SOURCE", "file")
	if _, err := Load(); err == nil {
		t.Error("Load accepted file source without a path")
	}
}

func TestLoadRejectsBadFloat(t *testing.T) {
	t.Setenv("HUNT_MAP_SPAN", "wide")
	if _, err := Load(); err == nil {
		t.Error("Load accepted a non-numeric span")
	}
}
