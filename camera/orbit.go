package camera

import (
	"math"

	"globeviewer/core"
)

// Keeps the polar angle off the poles, where the up vector degenerates
const polarEpsilon = 1e-6

// OrbitControls orbits a camera around its target. Input methods queue
// motion; Update applies it, easing rotation out when damping is enabled.
type OrbitControls struct {
	camera *Camera

	// Spherical offset from the target: polar angle measured from +Y,
	// azimuth around Y with 0 on +Z.
	radius  float64
	polar   float64
	azimuth float64

	deltaPolar   float64
	deltaAzimuth float64
	scale        float64
	panOffset    core.Vector3

	minDistance   float64
	maxDistance   float64
	enableDamping bool
	dampingFactor float64
	enablePan     bool
	rotateSpeed   float64
	zoomSpeed     float64
	panSpeed      float64
}

// OrbitOption configures OrbitControls
type OrbitOption func(*OrbitControls)

// WithDistanceBounds clamps the camera distance from the target
func WithDistanceBounds(minDistance, maxDistance float64) OrbitOption {
	return func(o *OrbitControls) {
		o.minDistance = minDistance
		o.maxDistance = maxDistance
	}
}

// WithDamping eases rotation out over several updates. factor is the share
// of the pending rotation applied per update.
func WithDamping(factor float64) OrbitOption {
	return func(o *OrbitControls) {
		o.enableDamping = factor > 0
		o.dampingFactor = factor
	}
}

// WithPan enables or disables panning
func WithPan(enabled bool) OrbitOption {
	return func(o *OrbitControls) {
		o.enablePan = enabled
	}
}

// WithRotateSpeed scales drag rotation
func WithRotateSpeed(speed float64) OrbitOption {
	return func(o *OrbitControls) {
		o.rotateSpeed = speed
	}
}

// WithZoomSpeed scales wheel zoom
func WithZoomSpeed(speed float64) OrbitOption {
	return func(o *OrbitControls) {
		o.zoomSpeed = speed
	}
}

// NewOrbitControls attaches controls to cam, taking the current camera
// position as the starting orbit. Distance bounds apply on the first Update.
func NewOrbitControls(cam *Camera, options ...OrbitOption) *OrbitControls {
	o := &OrbitControls{
		camera:      cam,
		scale:       1,
		minDistance: 0,
		maxDistance: math.Inf(1),
		rotateSpeed: 1,
		zoomSpeed:   1,
		panSpeed:    1,
	}
	for _, option := range options {
		option(o)
	}

	offset := cam.Position.Sub(cam.Target)
	o.radius = offset.Length()
	if o.radius > 0 {
		o.polar = math.Acos(clamp(offset.Y/o.radius, -1, 1))
	}
	o.azimuth = math.Atan2(offset.X, offset.Z)
	return o
}

// Rotate queues an orbit from a pointer drag of dx, dy pixels. A drag across
// the full viewport height turns the camera once around.
func (o *OrbitControls) Rotate(dx, dy float64, viewport Viewport) {
	if viewport.Height == 0 {
		return
	}
	o.deltaAzimuth -= 2 * math.Pi * dx / viewport.Height * o.rotateSpeed
	o.deltaPolar -= 2 * math.Pi * dy / viewport.Height * o.rotateSpeed
}

// Zoom queues a dolly from a wheel movement; positive wheel moves closer
func (o *OrbitControls) Zoom(wheel float64) {
	if wheel == 0 {
		return
	}
	o.scale *= math.Pow(0.95, o.zoomSpeed*wheel)
}

// Pan queues a target translation from a drag of dx, dy pixels. It does
// nothing unless panning is enabled.
func (o *OrbitControls) Pan(dx, dy float64, viewport Viewport) {
	if !o.enablePan || viewport.Height == 0 {
		return
	}

	forward := o.camera.Target.Sub(o.camera.Position).Normalize()
	right := forward.Cross(o.camera.Up).Normalize()
	up := right.Cross(forward)

	// Pixels to world units at the target distance
	fovY := core.DegreesToRadians(o.camera.FovY)
	unitsPerPixel := 2 * o.radius * math.Tan(fovY/2) / viewport.Height * o.panSpeed

	o.panOffset = o.panOffset.AddScaled(right, -dx*unitsPerPixel).AddScaled(up, dy*unitsPerPixel)
}

// Update applies queued motion to the camera. Call once per frame.
func (o *OrbitControls) Update() {
	if o.enableDamping {
		o.azimuth += o.deltaAzimuth * o.dampingFactor
		o.polar += o.deltaPolar * o.dampingFactor
	} else {
		o.azimuth += o.deltaAzimuth
		o.polar += o.deltaPolar
	}
	o.polar = clamp(o.polar, polarEpsilon, math.Pi-polarEpsilon)

	o.radius = clamp(o.radius*o.scale, o.minDistance, o.maxDistance)

	o.camera.Target = o.camera.Target.Add(o.panOffset)

	sinPolar := math.Sin(o.polar)
	o.camera.Position = o.camera.Target.Add(core.Vector3{
		X: o.radius * sinPolar * math.Sin(o.azimuth),
		Y: o.radius * math.Cos(o.polar),
		Z: o.radius * sinPolar * math.Cos(o.azimuth),
	})

	if o.enableDamping {
		o.deltaAzimuth *= 1 - o.dampingFactor
		o.deltaPolar *= 1 - o.dampingFactor
	} else {
		o.deltaAzimuth = 0
		o.deltaPolar = 0
	}
	o.scale = 1
	o.panOffset = core.Vector3{}
}

// Distance returns the current orbit radius
func (o *OrbitControls) Distance() float64 {
	return o.radius
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
