package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSegments is returned for spheres with too few segments
var ErrInvalidSegments = errors.New("sphere needs at least 3 width and 2 height segments")

// GlobeMesh is a UV sphere stored as a non-indexed triangle list. Every run
// of QuadVertexCount vertices is one quad of the latitude/longitude grid.
type GlobeMesh struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int

	Positions []Vector3
	Normals   []Vector3
	UVs       []UV
}

// GenerateGlobe builds a UV sphere centered at the origin.
//
// Longitude runs with phi from -X towards +Z, latitude with theta from the
// north pole (+Y) down. Triangles wind counter-clockwise seen from outside.
// Texture v grows southward, matching a top-left image origin.
func GenerateGlobe(radius float64, widthSegments, heightSegments int) (*GlobeMesh, error) {
	if widthSegments < 3 || heightSegments < 2 {
		return nil, fmt.Errorf("generate globe %dx%d: %w", widthSegments, heightSegments, ErrInvalidSegments)
	}

	// Grid of shared vertices, expanded into quads below
	rows := heightSegments + 1
	cols := widthSegments + 1
	grid := make([]Vector3, 0, rows*cols)
	uvs := make([]UV, 0, rows*cols)
	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)

		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi

			grid = append(grid, Vector3{
				X: -radius * math.Cos(phi) * sinTheta,
				Y: radius * cosTheta,
				Z: radius * math.Sin(phi) * sinTheta,
			})
			uvs = append(uvs, UV{U: u, V: v})
		}
	}

	quads := widthSegments * heightSegments
	mesh := &GlobeMesh{
		Radius:         radius,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
		Positions:      make([]Vector3, 0, quads*QuadVertexCount),
		Normals:        make([]Vector3, 0, quads*QuadVertexCount),
		UVs:            make([]UV, 0, quads*QuadVertexCount),
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			topLeft := iy*cols + ix
			topRight := topLeft + 1
			bottomLeft := topLeft + cols
			bottomRight := bottomLeft + 1

			// (a1, b1, c1, a2, b2, c2) as ShrinkQuads expects
			for _, idx := range [QuadVertexCount]int{topRight, topLeft, bottomRight, topLeft, bottomLeft, bottomRight} {
				mesh.Positions = append(mesh.Positions, grid[idx])
				mesh.Normals = append(mesh.Normals, grid[idx].Normalize())
				mesh.UVs = append(mesh.UVs, uvs[idx])
			}
		}
	}

	return mesh, nil
}

// Quadify shrinks every quad by margin and recomputes the normals
func (m *GlobeMesh) Quadify(margin float64) error {
	if err := ShrinkQuads(m.Positions, margin); err != nil {
		return err
	}
	m.Normals = ComputeVertexNormals(m.Positions)
	return nil
}

// QuadCount returns the number of quads in the mesh
func (m *GlobeMesh) QuadCount() int {
	return len(m.Positions) / QuadVertexCount
}

// Float32Buffers flattens the mesh into the tightly packed buffers a GPU
// upload expects: xyz positions, xyz normals and uv texcoords.
func (m *GlobeMesh) Float32Buffers() (positions, normals, texcoords []float32) {
	positions = make([]float32, 0, len(m.Positions)*3)
	normals = make([]float32, 0, len(m.Normals)*3)
	texcoords = make([]float32, 0, len(m.UVs)*2)

	for _, p := range m.Positions {
		positions = append(positions, float32(p.X), float32(p.Y), float32(p.Z))
	}
	for _, n := range m.Normals {
		normals = append(normals, float32(n.X), float32(n.Y), float32(n.Z))
	}
	for _, uv := range m.UVs {
		texcoords = append(texcoords, float32(uv.U), float32(uv.V))
	}
	return positions, normals, texcoords
}
