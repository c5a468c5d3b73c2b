package loaders

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// LoadGLTF loads the triangle geometry of every mesh in a glTF or GLB file.
// Node transforms are not applied; non-triangle primitives are skipped.
func LoadGLTF(filename string) (*MeshData, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open glTF file: %w", err)
	}

	mesh := &MeshData{}
	for _, m := range doc.Meshes {
		if err := appendGLTFMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	return mesh, nil
}

func appendGLTFMesh(doc *gltf.Document, m *gltf.Mesh, mesh *MeshData) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readGLTFPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		baseVertex := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		if prim.Indices == nil {
			// Unindexed primitives list their vertices triangle by triangle
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, baseVertex+i, baseVertex+i+1, baseVertex+i+2)
			}
			continue
		}

		indices, err := readGLTFIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, baseVertex+indices[i], baseVertex+indices[i+1], baseVertex+indices[i+2])
		}
	}
	return nil
}

// gltfAccessorBytes returns the buffer holding an accessor's elements, the
// offset of the first element and the distance between elements.
func gltfAccessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elementSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	view := doc.BufferViews[*accessor.BufferView]
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	start := view.ByteOffset + accessor.ByteOffset
	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}
	if accessor.Count > 0 && start+(accessor.Count-1)*stride+elementSize > len(data) {
		return nil, 0, 0, fmt.Errorf("accessor reads past the end of buffer %d", view.Buffer)
	}
	return data, start, stride, nil
}

func readGLTFPositions(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3 positions, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	data, start, stride, err := gltfAccessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	positions := make([]core.Vec3, accessor.Count)
	for i := range positions {
		offset := start + i*stride
		positions[i] = core.NewVec3(
			readFloat32(data[offset:]),
			readFloat32(data[offset+4:]),
			readFloat32(data[offset+8:]),
		)
	}
	return positions, nil
}

func readGLTFIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %v", accessor.ComponentType)
	}

	data, start, stride, err := gltfAccessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	indices := make([]int, accessor.Count)
	for i := range indices {
		offset := start + i*stride
		switch size {
		case 1:
			indices[i] = int(data[offset])
		case 2:
			indices[i] = int(binary.LittleEndian.Uint16(data[offset:]))
		case 4:
			indices[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		}
	}
	return indices, nil
}

// readFloat32 reads a little-endian float32 as a float64
func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
