package camera_test

import (
	"testing"

	"globeviewer/camera"
	"globeviewer/core"

	"github.com/stretchr/testify/assert"
)

func globeCamera() *camera.Camera {
	return &camera.Camera{
		Position: core.Vector3{Y: 10, Z: 10},
		Up:       core.Vector3{Y: 1},
		FovY:     70,
		Aspect:   1,
		Near:     0.01,
		Far:      1000,
	}
}

func TestOrbitControls_ClampsDistanceOnFirstUpdate(t *testing.T) {
	cam := globeCamera()
	controls := camera.NewOrbitControls(cam, camera.WithDistanceBounds(7.01, 14.02))

	controls.Update()

	assert.InDelta(t, 14.02, cam.Distance(), 1e-9)
	// direction is preserved
	assert.InDelta(t, cam.Position.Y, cam.Position.Z, 1e-9)
}

func TestOrbitControls_ZoomStaysInBounds(t *testing.T) {
	cam := globeCamera()
	controls := camera.NewOrbitControls(cam, camera.WithDistanceBounds(7.01, 14.02))

	for i := 0; i < 100; i++ {
		controls.Zoom(1)
		controls.Update()
	}
	assert.InDelta(t, 7.01, cam.Distance(), 1e-9)

	for i := 0; i < 100; i++ {
		controls.Zoom(-1)
		controls.Update()
	}
	assert.InDelta(t, 14.02, cam.Distance(), 1e-9)
}

func TestOrbitControls_PanDisabled(t *testing.T) {
	cam := globeCamera()
	controls := camera.NewOrbitControls(cam, camera.WithPan(false))

	controls.Pan(300, 200, camera.Viewport{Width: 800, Height: 600})
	controls.Update()

	assert.Equal(t, core.Vector3{}, cam.Target)
}

func TestOrbitControls_PanEnabledMovesTarget(t *testing.T) {
	cam := globeCamera()
	controls := camera.NewOrbitControls(cam, camera.WithPan(true))

	controls.Pan(100, 0, camera.Viewport{Width: 800, Height: 600})
	controls.Update()

	assert.NotEqual(t, core.Vector3{}, cam.Target)
	assert.InDelta(t, 0, cam.Target.Y, 1e-9)
}

func TestOrbitControls_DampingEasesOut(t *testing.T) {
	viewport := camera.Viewport{Width: 600, Height: 600}

	undamped := globeCamera()
	instant := camera.NewOrbitControls(undamped)
	instant.Rotate(50, 0, viewport)
	instant.Update()

	damped := globeCamera()
	eased := camera.NewOrbitControls(damped, camera.WithDamping(0.1))
	eased.Rotate(50, 0, viewport)
	eased.Update()

	// first damped step covers a tenth of the turn
	assert.Less(t, damped.Position.Sub(core.Vector3{Y: 10, Z: 10}).Length(),
		undamped.Position.Sub(core.Vector3{Y: 10, Z: 10}).Length())

	for i := 0; i < 500; i++ {
		eased.Update()
	}
	assert.InDelta(t, undamped.Position.X, damped.Position.X, 1e-6)
	assert.InDelta(t, undamped.Position.Z, damped.Position.Z, 1e-6)
	assert.InDelta(t, eased.Distance(), instant.Distance(), 1e-9)
}

func TestOrbitControls_PolarAngleStopsShortOfPole(t *testing.T) {
	cam := globeCamera()
	controls := camera.NewOrbitControls(cam)

	controls.Rotate(0, 10000, camera.Viewport{Width: 600, Height: 600})
	controls.Update()

	assert.Greater(t, cam.Position.Y, 0.0)
	assert.Less(t, cam.Position.Y, cam.Distance())
	horizontal := core.Vector3{X: cam.Position.X, Z: cam.Position.Z}.Length()
	assert.Greater(t, horizontal, 0.0)
}
