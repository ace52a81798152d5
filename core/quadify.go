package core

import (
	"errors"
	"fmt"
)

// QuadVertexCount is the number of vertices in one quad: two triangles
// emitted without an index buffer.
const QuadVertexCount = 6

var (
	// ErrVertexCount means the buffer does not split into whole quads
	ErrVertexCount = errors.New("vertex count is not a multiple of 6")
	// ErrDegenerateQuad means a quad edge used as a shrink direction has no length
	ErrDegenerateQuad = errors.New("degenerate quad edge")
)

// ShrinkQuads insets every quad of a non-indexed triangle buffer by margin,
// leaving a visible gap between neighbouring quads.
//
// Each group of six vertices (a1, b1, c1, a2, b2, c2) is two triangles where
// c1-a1 and b2-a2 run along one axis of the quad and b1-a1 and c2-b2 along
// the other. The four edge steps below run in order and each one reads the
// vertices already moved by the previous steps.
//
// The transform is not idempotent; every call shrinks further. Normals are
// left stale and must be recomputed. On error the buffer is unchanged.
func ShrinkQuads(vertices []Vector3, margin float64) error {
	if len(vertices)%QuadVertexCount != 0 {
		return fmt.Errorf("shrink quads: %d vertices: %w", len(vertices), ErrVertexCount)
	}

	shrunk := make([]Vector3, len(vertices))
	for q := 0; q < len(vertices)/QuadVertexCount; q++ {
		base := q * QuadVertexCount
		if err := shrinkQuad(vertices[base:base+QuadVertexCount], shrunk[base:base+QuadVertexCount], margin); err != nil {
			return fmt.Errorf("shrink quads: quad %d: %w", q, err)
		}
	}

	copy(vertices, shrunk)
	return nil
}

func shrinkQuad(in, out []Vector3, d float64) error {
	a1, b1, c1 := in[0], in[1], in[2]
	a2, b2, c2 := in[3], in[4], in[5]

	vSide, err := edgeDirection(a1, c1)
	if err != nil {
		return err
	}
	a1 = a1.AddScaled(vSide, d)
	c1 = c1.AddScaled(vSide, -d)
	c2 = c2.AddScaled(vSide, -d)

	vSide, err = edgeDirection(a2, b2)
	if err != nil {
		return err
	}
	b1 = b1.AddScaled(vSide, d)
	a2 = a2.AddScaled(vSide, d)
	b2 = b2.AddScaled(vSide, -d)

	hSide, err := edgeDirection(a1, b1)
	if err != nil {
		return err
	}
	a1 = a1.AddScaled(hSide, d)
	b1 = b1.AddScaled(hSide, -d)
	a2 = a2.AddScaled(hSide, -d)

	vSide, err = edgeDirection(b2, c2)
	if err != nil {
		return err
	}
	b2 = b2.AddScaled(vSide, d)
	c2 = c2.AddScaled(vSide, -d)
	c1 = c1.AddScaled(vSide, -d)

	out[0], out[1], out[2] = a1, b1, c1
	out[3], out[4], out[5] = a2, b2, c2
	return nil
}

// edgeDirection returns the unit vector from -> to
func edgeDirection(from, to Vector3) (Vector3, error) {
	edge := to.Sub(from)
	if edge.Length() == 0 {
		return Vector3{}, fmt.Errorf("%w: %v -> %v", ErrDegenerateQuad, from, to)
	}
	return edge.Normalize(), nil
}

// ComputeVertexNormals assigns every vertex the normal of its triangle.
// Positions are a non-indexed triangle list.
func ComputeVertexNormals(positions []Vector3) []Vector3 {
	normals := make([]Vector3, len(positions))
	for i := 0; i+2 < len(positions); i += 3 {
		a, b, c := positions[i], positions[i+1], positions[i+2]
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		normals[i], normals[i+1], normals[i+2] = n, n, n
	}
	return normals
}
