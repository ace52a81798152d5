package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"globeviewer/app"
	"globeviewer/config"
	"globeviewer/logging"
	"globeviewer/rendering"

	"github.com/prometheus/client_golang/prometheus"
)

// Bare globe: large textured sphere on black, orbit only
func main() {
	runtime.LockOSThread()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.Minimal()
	log := logging.Setup(cfg.Env)

	a, err := app.Build(cfg, log, prometheus.NewRegistry())
	if err != nil {
		log.Error("Failed to build viewer", "error", err)
		os.Exit(1)
	}

	scene, err := rendering.NewScene(rendering.Options{
		Settings: cfg,
		Log:      log,
		Metrics:  a.Metrics,
		Globe:    a.Globe,
		Model:    a.Model,
		Camera:   a.Camera,
		Orbit:    a.Orbit,
	})
	if err != nil {
		log.Error("Failed to create scene", "error", err)
		os.Exit(1)
	}

	scene.Open()
	scene.Run(ctx)
	scene.Close()
}
