package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// MeshData contains triangle mesh geometry loaded from a file
type MeshData struct {
	Vertices []core.Vec3 // Vertex positions
	Faces    []int       // Triangle vertex indices (3 per triangle)
}

// TriangleCount returns the number of triangles in the mesh
func (m *MeshData) TriangleCount() int {
	return len(m.Faces) / 3
}

// MeshTransform places a loaded mesh in the scene: vertices are scaled
// about the origin and then translated.
type MeshTransform struct {
	Scale     float64
	Translate core.Vec3
}

// IdentityTransform leaves mesh vertices unchanged
func IdentityTransform() MeshTransform {
	return MeshTransform{Scale: 1}
}

// Apply transforms a single vertex
func (t MeshTransform) Apply(v core.Vec3) core.Vec3 {
	return v.Multiply(t.Scale).Add(t.Translate)
}

// LoadMesh loads a glTF (.gltf, .glb) or PLY (.ply) mesh file
func LoadMesh(filename string) (*MeshData, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gltf", ".glb":
		return LoadGLTF(filename)
	case ".ply":
		return LoadPLY(filename)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", ext)
	}
}

// Triangles converts the mesh into scene triangles sharing one material.
// Faces with zero area are dropped.
func (m *MeshData) Triangles(mat material.Material, transform MeshTransform) ([]geometry.Primitive, error) {
	if len(m.Faces)%3 != 0 {
		return nil, fmt.Errorf("face index count %d is not a multiple of 3", len(m.Faces))
	}

	triangles := make([]geometry.Primitive, 0, m.TriangleCount())
	for i := 0; i < len(m.Faces); i += 3 {
		var v [3]core.Vec3
		for j := range v {
			index := m.Faces[i+j]
			if index < 0 || index >= len(m.Vertices) {
				return nil, fmt.Errorf("face %d references vertex %d, mesh has %d", i/3, index, len(m.Vertices))
			}
			v[j] = transform.Apply(m.Vertices[index])
		}

		if v[1].Subtract(v[0]).Cross(v[2].Subtract(v[0])).IsZero() {
			continue
		}
		triangles = append(triangles, geometry.NewTriangle(v[0], v[1], v[2], mat))
	}
	return triangles, nil
}

// LoadMeshTriangles loads a mesh file and converts it into scene triangles
func LoadMeshTriangles(filename string, mat material.Material, transform MeshTransform) ([]geometry.Primitive, error) {
	mesh, err := LoadMesh(filename)
	if err != nil {
		return nil, err
	}
	return mesh.Triangles(mat, transform)
}
