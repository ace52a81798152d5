package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"globeviewer/camera"
	"globeviewer/config"
	"globeviewer/core"
	"globeviewer/metrics"
	"globeviewer/picking"
	"globeviewer/server"
	"globeviewer/viewer"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Camera clip planes, matching raylib's perspective defaults
const (
	clipNear = 0.01
	clipFar  = 1000
)

// App is a fully wired viewer without its window. Session, Controller, Hub
// and Server are nil when the settings turn them off.
type App struct {
	Settings *config.Settings
	Log      *slog.Logger
	Metrics  *metrics.Metrics

	Globe  *core.GlobeMesh
	Model  mgl64.Mat4
	Camera *camera.Camera
	Orbit  *camera.OrbitControls

	Session    *viewer.Session
	Controller *viewer.PickController
	Hub        *server.Hub
	Server     *server.Server
}

// Build generates the globe and wires picking and the panel server
func Build(cfg *config.Settings, log *slog.Logger, reg *prometheus.Registry) (*App, error) {
	a := &App{
		Settings: cfg,
		Log:      log,
		Metrics:  metrics.New(reg),
	}

	globe, err := a.buildGlobe()
	if err != nil {
		return nil, err
	}
	a.Globe = globe
	a.Model = picking.RotationXYZ(cfg.Globe.Rotation.X, cfg.Globe.Rotation.Y, cfg.Globe.Rotation.Z)

	viewport := camera.Viewport{Width: float64(cfg.Window.Width), Height: float64(cfg.Window.Height)}
	a.Camera = &camera.Camera{
		Position: core.Vector3(cfg.Camera.Position),
		Up:       core.Vector3{Y: 1},
		FovY:     cfg.Camera.FovY,
		Aspect:   viewport.Aspect(),
		Near:     clipNear,
		Far:      clipFar,
	}
	a.Orbit = camera.NewOrbitControls(a.Camera,
		camera.WithDistanceBounds(cfg.Camera.MinDistance, cfg.Camera.MaxDistance),
		camera.WithDamping(cfg.Camera.Damping),
		camera.WithPan(cfg.Camera.EnablePan),
	)

	if !cfg.Picking {
		log.Info("Picking disabled")
		return a, nil
	}

	a.Session = viewer.NewSession(cfg.Globe.Radius, picking.NewTarget(globe.Positions, a.Model), viewport)
	a.Controller = viewer.NewPickController(a.Session, log, a.Metrics)

	if cfg.Server.Enabled {
		a.Hub = server.NewHub(log, a.Metrics, cfg.Server.QueueSize)
		a.Session.AddSurface(a.Hub)
		a.Server = server.New(log, a.Hub, reg, cfg.Server.Port)
	}
	return a, nil
}

func (a *App) buildGlobe() (*core.GlobeMesh, error) {
	start := time.Now()

	g := a.Settings.Globe
	globe, err := core.GenerateGlobe(g.Radius, g.WidthSegments, g.HeightSegments)
	if err != nil {
		return nil, fmt.Errorf("build globe: %w", err)
	}
	if g.QuadMargin > 0 {
		if err := globe.Quadify(g.QuadMargin); err != nil {
			return nil, fmt.Errorf("quadify globe: %w", err)
		}
	}

	elapsed := time.Since(start)
	a.Metrics.MeshBuildTime.Set(elapsed.Seconds())
	a.Log.Info("Globe built",
		"radius", g.Radius,
		"segments", fmt.Sprintf("%dx%d", g.WidthSegments, g.HeightSegments),
		"quads", globe.QuadCount(),
		"quad_margin", g.QuadMargin,
		"elapsed", elapsed)
	return globe, nil
}

// Serve runs the panel hub and server until ctx is done. It returns at once
// when the server is disabled.
func (a *App) Serve(ctx context.Context) error {
	if a.Server == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Hub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return a.Server.Run(ctx)
	})
	return g.Wait()
}

// Start runs Serve in the background. A failure is logged and handed to
// onFail as soon as it happens, then delivered on the returned channel.
func (a *App) Start(ctx context.Context, onFail func(error)) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := a.Serve(ctx)
		if err != nil {
			a.Log.Error("Panel server failed", "error", err)
			onFail(err)
		}
		done <- err
	}()
	return done
}
