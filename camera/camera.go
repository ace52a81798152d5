package camera

import (
	"globeviewer/core"

	"github.com/go-gl/mathgl/mgl64"
)

// Viewport is the drawable area in pixels
type Viewport struct {
	Width, Height float64
}

// Aspect returns width / height, or 1 for an empty viewport
func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return v.Width / v.Height
}

// Camera is a perspective camera looking from Position at Target.
// FovY is the vertical field of view in degrees.
type Camera struct {
	Position core.Vector3
	Target   core.Vector3
	Up       core.Vector3
	FovY     float64
	Aspect   float64
	Near     float64
	Far      float64
}

// View returns the world-to-camera matrix
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position.Vec(), c.Target.Vec(), c.Up.Vec())
}

// Projection returns the perspective projection matrix
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// Distance returns how far the camera is from its target
func (c Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// ScreenToNDC converts a pixel position to normalized device coordinates in
// [-1, 1] on both axes, with y pointing up.
func ScreenToNDC(x, y float64, viewport Viewport) mgl64.Vec2 {
	return mgl64.Vec2{
		(2.0*x)/viewport.Width - 1.0,
		1.0 - (2.0*y)/viewport.Height, // Flip Y
	}
}

// Ray casts a ray from the camera through a point in normalized device
// coordinates.
func (c Camera) Ray(ndc mgl64.Vec2) core.Ray {
	invViewProj := c.Projection().Mul4(c.View()).Inv()

	// Near and far points in NDC
	nearPoint := mgl64.Vec4{ndc[0], ndc[1], -1.0, 1.0}
	farPoint := mgl64.Vec4{ndc[0], ndc[1], 1.0, 1.0}

	// Transform to world space
	nearWorld := invViewProj.Mul4x1(nearPoint)
	farWorld := invViewProj.Mul4x1(farPoint)

	// Perspective divide
	nearWorld = nearWorld.Mul(1.0 / nearWorld[3])
	farWorld = farWorld.Mul(1.0 / farWorld[3])

	origin := nearWorld.Vec3()
	return core.Ray{
		Origin:    core.FromVec(origin),
		Direction: core.FromVec(farWorld.Vec3().Sub(origin).Normalize()),
	}
}
