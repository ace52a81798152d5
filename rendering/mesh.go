package rendering

import (
	"runtime"
	"unsafe"

	"globeviewer/core"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
)

// gpuMesh is a raylib model whose vertex data lives in Go slices. The
// slices are pinned for as long as raylib holds pointers to them.
type gpuMesh struct {
	model  rl.Model
	pinner runtime.Pinner

	positions []float32
	normals   []float32
	texcoords []float32
}

// uploadGlobe sends a globe mesh to the GPU as a single raylib model
func uploadGlobe(mesh *core.GlobeMesh) *gpuMesh {
	g := &gpuMesh{}
	g.positions, g.normals, g.texcoords = mesh.Float32Buffers()

	g.pinner.Pin(&g.positions[0])
	g.pinner.Pin(&g.normals[0])
	g.pinner.Pin(&g.texcoords[0])

	vertexCount := len(mesh.Positions)
	m := rl.Mesh{
		VertexCount:   int32(vertexCount),
		TriangleCount: int32(vertexCount / 3),
		Vertices:      &g.positions[0],
		Normals:       &g.normals[0],
		Texcoords:     &g.texcoords[0],
	}
	rl.UploadMesh(&m, false)
	g.model = rl.LoadModelFromMesh(m)
	return g
}

// setTexture binds tex as the model's diffuse map
func (g *gpuMesh) setTexture(tex rl.Texture2D) {
	rl.SetMaterialTexture(g.model.Materials, rl.MapDiffuse, tex)
}

// unload frees the GPU buffers. raylib must not free the Go-owned vertex
// arrays, so the mesh pointers are cleared first.
func (g *gpuMesh) unload() {
	meshes := unsafe.Slice(g.model.Meshes, g.model.MeshCount)
	for i := range meshes {
		meshes[i].Vertices = nil
		meshes[i].Normals = nil
		meshes[i].Texcoords = nil
	}
	rl.UnloadModel(g.model)
	g.pinner.Unpin()
}

// toMatrix converts a column-major mgl64 matrix to raylib's layout
func toMatrix(m mgl64.Mat4) rl.Matrix {
	return rl.Matrix{
		M0: float32(m[0]), M1: float32(m[1]), M2: float32(m[2]), M3: float32(m[3]),
		M4: float32(m[4]), M5: float32(m[5]), M6: float32(m[6]), M7: float32(m[7]),
		M8: float32(m[8]), M9: float32(m[9]), M10: float32(m[10]), M11: float32(m[11]),
		M12: float32(m[12]), M13: float32(m[13]), M14: float32(m[14]), M15: float32(m[15]),
	}
}

func toVector3(v core.Vector3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}
