// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"snaphunt/internal/hunt"
)

// MediaConfig selects the evidence capture surfaces.
type MediaConfig struct {
	// LibraryDir is where the companion picker stages library selections.
	LibraryDir string
	// CameraDevice is the V4L2 node; empty disables the live camera.
	CameraDevice string
	// CaptureCommand is the still-capture binary.
	CaptureCommand string
}

// GeoConfig selects the location source.
type GeoConfig struct {
	// Source is one of gpsd, file, static, off.
	Source    string
	GPSDAddr  string
	FixFile   string
	StaticLat float64
	StaticLon float64
}

// MapConfig is the default viewport for unlocated tasks.
type MapConfig struct {
	CenterLat float64
	CenterLon float64
	Span      float64
}

// Config is the full service configuration.
type Config struct {
	Port        string
	Environment hunt.Environment
	LogLevel    string
	LogAsync    bool
	SeedFile    string
	Media       MediaConfig
	Geo         GeoConfig
	Map         MapConfig
}

// Load reads the configuration from environment variables, applying
// defaults suited to a single-board kiosk deployment.
func Load() (*Config, error) {
	env, err := hunt.ParseEnvironment(getEnv("HUNT_ENV", "device"))
	if err != nil {
		return nil, fmt.Errorf("HUNT_ENV: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("HUNT_PORT", "8080"),
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogAsync:    getEnv("LOG_ASYNC", "false") == "true",
		SeedFile:    getEnv("HUNT_SEED_FILE", ""),
		Media: MediaConfig{
			LibraryDir:     getEnv("HUNT_LIBRARY_DIR", "photos"),
			CameraDevice:   getEnv("HUNT_CAMERA_DEVICE", "/dev/video0"),
			CaptureCommand: getEnv("HUNT_CAPTURE_COMMAND", "fswebcam"),
		},
		Geo: GeoConfig{
			Source:   getEnv("HUNT_GEO_SOURCE", "gpsd"),
			GPSDAddr: getEnv("HUNT_GPSD_ADDR", "localhost:2947"),
			FixFile:  getEnv("HUNT_FIX_FILE", ""),
		},
	}

	if cfg.Geo.StaticLat, err = getEnvFloat("HUNT_STATIC_LAT", 0); err != nil {
		return nil, err
	}
	if cfg.Geo.StaticLon, err = getEnvFloat("HUNT_STATIC_LON", 0); err != nil {
		return nil, err
	}
	if cfg.Map.CenterLat, err = getEnvFloat("HUNT_MAP_CENTER_LAT", 0); err != nil {
		return nil, err
	}
	if cfg.Map.CenterLon, err = getEnvFloat("HUNT_MAP_CENTER_LON", 0); err != nil {
		return nil, err
	}
	if cfg.Map.Span, err = getEnvFloat("HUNT_MAP_SPAN", 0.01); err != nil {
		return nil, err
	}

	switch cfg.Geo.Source {
	case "gpsd", "static", "off":
	case "file":
		if cfg.Geo.FixFile == "" {
			return nil, fmt.Errorf("HUNT_FIX_FILE is required when HUNT_GEO_SOURCE=file")
		}
	default:
		return nil, fmt.Errorf("HUNT_GEO_SOURCE: unknown source %q", cfg.Geo.Source)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
