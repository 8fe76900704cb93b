package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snaphunt/internal/config"
	"snaphunt/internal/geo"
	"snaphunt/internal/handler"
	"snaphunt/internal/hunt"
	"snaphunt/internal/logging"
	"snaphunt/internal/mapview"
	"snaphunt/internal/media"
	"snaphunt/internal/middleware"
	"snaphunt/internal/registry"
	"snaphunt/internal/workflow"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, closeLogs := logging.Init(logging.Config{
		Level:   cfg.LogLevel,
		Service: "snaphunt",
		Async:   cfg.LogAsync,
	})
	logger.WithField("environment", cfg.Environment.String()).Info("application starting")

	seeds := hunt.DefaultChecklist()
	if cfg.SeedFile != "" {
		if seeds, err = hunt.LoadSeedFile(cfg.SeedFile); err != nil {
			logger.WithError(err).Fatal("load seed file")
		}
	}

	reg := registry.New(logger)
	if _, err := reg.Seed(appCtx, seeds); err != nil {
		logger.WithError(err).Fatal("seed checklist")
	}

	picker := &media.Picker{Library: media.NewDir(cfg.Media.LibraryDir)}
	if cfg.Media.CameraDevice != "" {
		picker.Camera = media.NewWebcam(cfg.Media.CameraDevice, cfg.Media.CaptureCommand)
	}

	var provider geo.Provider
	switch cfg.Geo.Source {
	case "gpsd":
		tracker := geo.NewTracker(geo.NewGPSD(cfg.Geo.GPSDAddr, logger), logger)
		if err := tracker.Start(appCtx); err != nil {
			logger.WithError(err).Fatal("start location tracking")
		}
		defer tracker.Stop()
		provider = tracker
	case "file":
		tracker := geo.NewTracker(geo.NewFixFile(cfg.Geo.FixFile, logger), logger)
		if err := tracker.Start(appCtx); err != nil {
			logger.WithError(err).Fatal("start location tracking")
		}
		defer tracker.Stop()
		provider = tracker
	case "static":
		provider = geo.NewStatic(cfg.Geo.StaticLat, cfg.Geo.StaticLon)
	case "off":
		// Completions simply carry no coordinate.
	}
	logger.WithField("geo_source", cfg.Geo.Source).Info("location provider ready")

	completer := workflow.New(reg, picker, provider, cfg.Environment, logger)

	region := mapview.Region{
		Center: geo.Coordinate{Latitude: cfg.Map.CenterLat, Longitude: cfg.Map.CenterLon},
		Span:   mapview.Span{LatitudeDelta: cfg.Map.Span, LongitudeDelta: cfg.Map.Span},
	}
	taskHandler := handler.New(completer, reg, logger, handler.Options{MapRegion: region})

	mux := http.NewServeMux()
	taskHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	var root http.Handler = mux
	root = middleware.Metrics(root)
	root = middleware.RequestLogging(logger)(root)
	root = middleware.SecurityHeaders(root)
	root = middleware.RequestID(root)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: root,
		// Ties request contexts to the app lifetime so event streams end
		// when shutdown begins.
		BaseContext: func(net.Listener) context.Context { return appCtx },
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("server is listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server: %v\n", err)
	}

	closeLogs()
}
