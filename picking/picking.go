package picking

import (
	"math"

	"globeviewer/core"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Triangles closer to edge-on than this are skipped
	parallelEpsilon = 1e-12
	// Barycentric slack so rays through shared edges hit one of the faces
	edgeEpsilon = 1e-9
)

// Hit is the nearest intersection of a ray with a Target
type Hit struct {
	Point    core.Vector3 // world space
	Distance float64      // from the ray origin, world units
	Face     int          // triangle index in the target
}

// Target is a pickable triangle mesh. Positions are a non-indexed triangle
// list in model space; Model places them in the world.
type Target struct {
	positions      []core.Vector3
	model          mgl64.Mat4
	inverse        mgl64.Mat4
	boundingRadius float64
}

// NewTarget wraps a triangle list for picking. The slice is referenced, not
// copied, so later in-place edits are seen by the picker.
func NewTarget(positions []core.Vector3, model mgl64.Mat4) *Target {
	radius := 0.0
	for _, p := range positions {
		radius = math.Max(radius, p.Length())
	}
	return &Target{
		positions:      positions,
		model:          model,
		inverse:        model.Inv(),
		boundingRadius: radius,
	}
}

// Model returns the model-to-world transform
func (t *Target) Model() mgl64.Mat4 {
	return t.model
}

// Intersect finds the nearest front-facing triangle hit by ray. The
// bounding sphere is tested first so misses cost one quadratic.
func (t *Target) Intersect(ray core.Ray) (Hit, bool) {
	local := core.Ray{
		Origin:    core.FromVec(mgl64.TransformCoordinate(ray.Origin.Vec(), t.inverse)),
		Direction: core.FromVec(mgl64.TransformNormal(ray.Direction.Vec(), t.inverse)),
	}

	if _, hit := IntersectSphere(local, t.boundingRadius*(1+1e-9)); !hit {
		return Hit{}, false
	}

	bestT := math.Inf(1)
	bestFace := -1
	for i := 0; i+2 < len(t.positions); i += 3 {
		if d, ok := intersectTriangle(local, t.positions[i], t.positions[i+1], t.positions[i+2]); ok && d < bestT {
			bestT = d
			bestFace = i / 3
		}
	}
	if bestFace < 0 {
		return Hit{}, false
	}

	point := core.FromVec(mgl64.TransformCoordinate(local.At(bestT).Vec(), t.model))
	return Hit{
		Point:    point,
		Distance: point.Distance(ray.Origin),
		Face:     bestFace,
	}, true
}

// IntersectSphere performs ray-sphere intersection against a sphere of the
// given radius centered at the origin.
func IntersectSphere(ray core.Ray, radius float64) (core.Vector3, bool) {
	oc := ray.Origin
	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius
	discriminant := b*b - 4*a*c

	if discriminant < 0 {
		return core.Vector3{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t0 := (-b - sqrtD) / (2.0 * a)
	t1 := (-b + sqrtD) / (2.0 * a)

	// Use the closer positive intersection
	t := t0
	if t < 0 {
		t = t1
		if t < 0 {
			return core.Vector3{}, false
		}
	}

	return ray.Origin.AddScaled(ray.Direction, t), true
}

// intersectTriangle is the Moller-Trumbore test. Only triangles wound
// counter-clockwise towards the ray origin count as hits. Returns the ray
// parameter of the hit.
func intersectTriangle(ray core.Ray, a, b, c core.Vector3) (float64, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	pvec := ray.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if det < parallelEpsilon {
		return 0, false
	}

	tvec := ray.Origin.Sub(a)
	u := tvec.Dot(pvec) / det
	if u < -edgeEpsilon || u > 1+edgeEpsilon {
		return 0, false
	}

	qvec := tvec.Cross(edge1)
	v := ray.Direction.Dot(qvec) / det
	if v < -edgeEpsilon || u+v > 1+edgeEpsilon {
		return 0, false
	}

	t := edge2.Dot(qvec) / det
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// RotationXYZ builds a model transform from Euler angles in radians,
// applied about X, then Y, then Z in the object's own frame.
func RotationXYZ(x, y, z float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(x).Mul4(mgl64.HomogRotate3DY(y)).Mul4(mgl64.HomogRotate3DZ(z))
}
