package rendering

import (
	"context"
	"log/slog"
	"os"
	"time"

	"globeviewer/camera"
	"globeviewer/config"
	"globeviewer/core"
	"globeviewer/metrics"
	"globeviewer/viewer"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	titleFontSize = 20
	panelFontSize = 16
	panelPadding  = 6
	panelRowGap   = 4
)

var (
	panelBackground = rl.NewColor(0, 0, 0, 191)
	panelLabel      = rl.LightGray
	markerColor     = rl.Yellow
)

// Scene draws the globe, sky, grid, marker and info panel with raylib and
// feeds window input to the orbit controls and the pick controller.
// All methods must be called from the locked main OS thread.
type Scene struct {
	cfg     *config.Settings
	log     *slog.Logger
	metrics *metrics.Metrics

	globeMesh *core.GlobeMesh
	skyMesh   *core.GlobeMesh
	model     mgl64.Mat4

	camera     *camera.Camera
	orbit      *camera.OrbitControls
	session    *viewer.Session
	controller *viewer.PickController

	globe    *gpuMesh
	sky      *gpuMesh
	textures []rl.Texture2D
}

// Options wires a Scene to the viewer. Session and Controller may be nil
// when picking is disabled.
type Options struct {
	Settings   *config.Settings
	Log        *slog.Logger
	Metrics    *metrics.Metrics
	Globe      *core.GlobeMesh
	Model      mgl64.Mat4
	Camera     *camera.Camera
	Orbit      *camera.OrbitControls
	Session    *viewer.Session
	Controller *viewer.PickController
}

// NewScene prepares a scene. The window opens in Open.
func NewScene(opts Options) (*Scene, error) {
	s := &Scene{
		cfg:        opts.Settings,
		log:        opts.Log,
		metrics:    opts.Metrics,
		globeMesh:  opts.Globe,
		model:      opts.Model,
		camera:     opts.Camera,
		orbit:      opts.Orbit,
		session:    opts.Session,
		controller: opts.Controller,
	}

	if s.cfg.Sky.Radius > 0 {
		sky, err := core.GenerateGlobe(s.cfg.Sky.Radius, s.cfg.Sky.Segments, s.cfg.Sky.Segments)
		if err != nil {
			return nil, err
		}
		s.skyMesh = sky
	}
	return s, nil
}

// Open creates the window and uploads meshes and textures
func (s *Scene) Open() {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(s.cfg.Window.Width), int32(s.cfg.Window.Height), s.cfg.Window.Title)
	rl.SetTargetFPS(int32(s.cfg.Window.TargetFPS))

	s.globe = uploadGlobe(s.globeMesh)
	s.globe.model.Transform = toMatrix(s.model)
	if tex, ok := s.loadTexture(s.cfg.Globe.Texture); ok {
		s.globe.setTexture(tex)
	}

	if s.skyMesh != nil {
		s.sky = uploadGlobe(s.skyMesh)
		if tex, ok := s.loadTexture(s.cfg.Sky.Texture); ok {
			s.sky.setTexture(tex)
		}
	}
	s.log.Info("Scene ready",
		"globe_vertices", len(s.globeMesh.Positions),
		"quads", s.globeMesh.QuadCount(),
		"sky", s.sky != nil)
}

// loadTexture loads an image file. Missing or unreadable files log a
// warning and leave the default material in place.
func (s *Scene) loadTexture(path string) (rl.Texture2D, bool) {
	if path == "" {
		return rl.Texture2D{}, false
	}
	if _, err := os.Stat(path); err != nil {
		s.log.Warn("texture not loaded", "path", path, "error", err)
		return rl.Texture2D{}, false
	}
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		s.log.Warn("texture not loaded", "path", path)
		return rl.Texture2D{}, false
	}
	s.textures = append(s.textures, tex)
	return tex, true
}

// Close releases GPU resources and closes the window
func (s *Scene) Close() {
	if s.globe != nil {
		s.globe.unload()
	}
	if s.sky != nil {
		s.sky.unload()
	}
	for _, tex := range s.textures {
		rl.UnloadTexture(tex)
	}
	rl.CloseWindow()
}

// Run renders until the window closes or ctx is done
func (s *Scene) Run(ctx context.Context) {
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		start := time.Now()

		viewport := camera.Viewport{Width: float64(rl.GetScreenWidth()), Height: float64(rl.GetScreenHeight())}
		s.camera.Aspect = viewport.Aspect()
		if s.session != nil {
			s.session.Viewport = viewport
		}

		s.handleInput(viewport)
		s.orbit.Update()
		s.draw()

		s.metrics.FrameSeconds.Observe(time.Since(start).Seconds())
	}
}

func (s *Scene) handleInput(viewport camera.Viewport) {
	if s.controller != nil && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		pos := rl.GetMousePosition()
		s.controller.OnPointerDown(viewer.PointerEvent{X: float64(pos.X), Y: float64(pos.Y)}, *s.camera, time.Now())
	}

	delta := rl.GetMouseDelta()
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		s.orbit.Rotate(float64(delta.X), float64(delta.Y), viewport)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		s.orbit.Pan(float64(delta.X), float64(delta.Y), viewport)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.orbit.Zoom(float64(wheel))
	}
}

func (s *Scene) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	rl.BeginMode3D(s.raylibCamera())
	if s.sky != nil {
		// The sky is seen from inside
		rl.DisableBackfaceCulling()
		rl.DrawModel(s.sky.model, rl.Vector3{}, 1, rl.White)
		rl.EnableBackfaceCulling()
	}
	rl.DrawModel(s.globe.model, rl.Vector3{}, 1, rl.White)
	if s.cfg.Grid.Enabled && s.cfg.Grid.Divisions > 0 {
		rl.DrawGrid(int32(s.cfg.Grid.Divisions), float32(s.cfg.Grid.Size/float64(s.cfg.Grid.Divisions)))
	}
	if s.session != nil {
		if marker := s.session.Marker(); marker.InScene {
			rl.DrawSphere(toVector3(marker.Position), float32(s.cfg.Marker.Radius), markerColor)
		}
	}
	rl.EndMode3D()

	s.drawTitle()
	if s.session != nil {
		drawPanel(s.session.Panel())
	}
	rl.EndDrawing()
}

func (s *Scene) raylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(s.camera.Position),
		Target:     toVector3(s.camera.Target),
		Up:         toVector3(s.camera.Up),
		Fovy:       float32(s.camera.FovY),
		Projection: rl.CameraPerspective,
	}
}

func (s *Scene) drawTitle() {
	title := s.cfg.Window.Title
	width := rl.MeasureText(title, titleFontSize)
	rl.DrawText(title, (int32(rl.GetScreenWidth())-width)/2, 10, titleFontSize, rl.White)
}

// drawPanel draws the info panel table next to the last pointer-down
func drawPanel(p viewer.DisplayPayload) {
	if !p.Visible || len(p.Rows) == 0 {
		return
	}

	var labelWidth, valueWidth int32
	for _, row := range p.Rows {
		labelWidth = max(labelWidth, rl.MeasureText(row.Label, panelFontSize))
		valueWidth = max(valueWidth, rl.MeasureText(row.Value, panelFontSize))
	}

	x, y := int32(p.Left), int32(p.Top)
	rowHeight := int32(panelFontSize + panelRowGap)
	width := labelWidth + valueWidth + 4*panelPadding
	height := int32(len(p.Rows))*rowHeight + 2*panelPadding - panelRowGap

	rl.DrawRectangle(x, y, width, height, panelBackground)
	for i, row := range p.Rows {
		rowY := y + panelPadding + int32(i)*rowHeight
		rl.DrawText(row.Label, x+panelPadding, rowY, panelFontSize, panelLabel)
		valueX := x + width - panelPadding - rl.MeasureText(row.Value, panelFontSize)
		rl.DrawText(row.Value, valueX, rowY, panelFontSize, rl.White)
	}
}
