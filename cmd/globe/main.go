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
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// raylib needs the main OS thread
	runtime.LockOSThread()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.Setup(cfg.Env)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := app.Build(cfg, log, reg)
	if err != nil {
		log.Error("Failed to build viewer", "error", err)
		os.Exit(1)
	}

	// a dead panel server closes the window instead of queueing panels
	served := a.Start(ctx, func(error) { stop() })

	scene, err := rendering.NewScene(rendering.Options{
		Settings:   cfg,
		Log:        log,
		Metrics:    a.Metrics,
		Globe:      a.Globe,
		Model:      a.Model,
		Camera:     a.Camera,
		Orbit:      a.Orbit,
		Session:    a.Session,
		Controller: a.Controller,
	})
	if err != nil {
		log.Error("Failed to create scene", "error", err)
		os.Exit(1)
	}

	scene.Open()
	log.Info("Viewer started. Click the globe to read its coordinates.")
	scene.Run(ctx)
	scene.Close()

	stop()
	if err := <-served; err != nil {
		os.Exit(1)
	}
	log.Info("Viewer stopped")
}
