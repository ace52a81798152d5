package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector3 represents a 3D vector. It is used both for mesh vertices and
// for ray hit points.
type Vector3 struct {
	X, Y, Z float64
}

// FromVec converts an mgl64 vector
func FromVec(v mgl64.Vec3) Vector3 {
	return Vector3{v[0], v[1], v[2]}
}

// Vec converts to an mgl64 vector for matrix math
func (v Vector3) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// AddScaled returns v + dir*s
func (v Vector3) AddScaled(dir Vector3, s float64) Vector3 {
	return Vector3{v.X + dir.X*s, v.Y + dir.Y*s, v.Z + dir.Z*s}
}

func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns the unit vector, or the zero vector when v has no length
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length == 0 {
		return Vector3{0, 0, 0}
	}
	return Vector3{v.X / length, v.Y / length, v.Z / length}
}

// Distance returns the euclidean distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Ray is a half-line used for pointer picking
type Ray struct {
	Origin    Vector3
	Direction Vector3 // unit length
}

// At returns the point at distance t along the ray
func (r Ray) At(t float64) Vector3 {
	return r.Origin.AddScaled(r.Direction, t)
}

// UV is a texture coordinate
type UV struct {
	U, V float64
}
