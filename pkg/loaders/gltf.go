package loaders

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/qmuntal/gltf"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("loaders")

// ErrNoTriangles is returned when a document contains no triangle primitives
var ErrNoTriangles = errors.New("gltf: no triangle primitives")

// LoadGLTF loads every triangle primitive of a .gltf or .glb file into one
// indexed triangle soup. Node transforms are not applied; primitives are
// merged in mesh order. Normals and UVs are kept only when every primitive
// provides them.
func LoadGLTF(filename string) (geometry.MeshData, error) {
	startTime := time.Now()

	doc, err := gltf.Open(filename)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("failed to open glTF file: %w", err)
	}

	data, err := decodeDocument(doc)
	if err != nil {
		return geometry.MeshData{}, fmt.Errorf("%s: %w", filename, err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles in %v",
		filename, len(data.Positions), data.TriangleCount(), time.Since(startTime))
	return data, nil
}

func decodeDocument(doc *gltf.Document) (geometry.MeshData, error) {
	var data geometry.MeshData
	allNormals, allUVs := true, true
	var normals []core.Vec3
	var uvs []core.Vec2

	for _, mesh := range doc.Meshes {
		if mesh == nil {
			continue
		}
		for _, prim := range mesh.Primitives {
			if prim == nil || prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := readVec3(doc, posIdx)
			if err != nil {
				return geometry.MeshData{}, fmt.Errorf("mesh %q positions: %w", mesh.Name, err)
			}
			base := len(data.Positions)
			data.Positions = append(data.Positions, positions...)

			if idx, ok := prim.Attributes[gltf.NORMAL]; ok && allNormals {
				n, err := readVec3(doc, idx)
				if err != nil {
					return geometry.MeshData{}, fmt.Errorf("mesh %q normals: %w", mesh.Name, err)
				}
				normals = append(normals, n...)
			} else {
				allNormals = false
			}

			if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok && allUVs {
				uv, err := readVec2(doc, idx)
				if err != nil {
					return geometry.MeshData{}, fmt.Errorf("mesh %q uvs: %w", mesh.Name, err)
				}
				uvs = append(uvs, uv...)
			} else {
				allUVs = false
			}

			if prim.Indices != nil {
				indices, err := readIndices(doc, *prim.Indices)
				if err != nil {
					return geometry.MeshData{}, fmt.Errorf("mesh %q indices: %w", mesh.Name, err)
				}
				for _, i := range indices[:len(indices)/3*3] {
					if i >= len(positions) {
						return geometry.MeshData{}, fmt.Errorf("mesh %q: index %d out of range for %d vertices", mesh.Name, i, len(positions))
					}
					data.Indices = append(data.Indices, base+i)
				}
			} else {
				// Non-indexed primitives list their vertices in triangle order
				for i := 0; i+2 < len(positions); i += 3 {
					data.Indices = append(data.Indices, base+i, base+i+1, base+i+2)
				}
			}
		}
	}

	if len(data.Indices) == 0 {
		return geometry.MeshData{}, ErrNoTriangles
	}
	if allNormals {
		data.Normals = normals
	}
	if allUVs {
		data.UVs = uvs
	}
	return data, nil
}

// accessorBytes returns the buffer backing an accessor and the stride between elements
func accessorBytes(doc *gltf.Document, accessorIdx, elementSize int) (*gltf.Accessor, []byte, int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor == nil || accessor.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d has no buffer view", accessorIdx)
	}

	viewIdx := *accessor.BufferView
	if viewIdx < 0 || viewIdx >= len(doc.BufferViews) || doc.BufferViews[viewIdx] == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d: buffer view %d out of range", accessorIdx, viewIdx)
	}
	view := doc.BufferViews[viewIdx]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) || doc.Buffers[view.Buffer] == nil {
		return nil, nil, 0, fmt.Errorf("buffer view %d: buffer %d out of range", viewIdx, view.Buffer)
	}
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, nil, 0, fmt.Errorf("buffer %d has no data", view.Buffer)
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elementSize
	}

	start := view.ByteOffset + accessor.ByteOffset
	if start < 0 || stride < elementSize {
		return nil, nil, 0, fmt.Errorf("accessor %d: invalid offset %d or stride %d", accessorIdx, start, stride)
	}
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elementSize
	}
	if end > len(buffer.Data) {
		return nil, nil, 0, fmt.Errorf("accessor %d reads past the end of buffer %d", accessorIdx, view.Buffer)
	}
	return accessor, buffer.Data[start:end], stride, nil
}

func readFloat32(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

func readVec3(doc *gltf.Document, accessorIdx int) ([]core.Vec3, error) {
	accessor, data, stride, err := accessorBytes(doc, accessorIdx, 12)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	result := make([]core.Vec3, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		result[i] = core.NewVec3(readFloat32(b), readFloat32(b[4:]), readFloat32(b[8:]))
	}
	return result, nil
}

func readVec2(doc *gltf.Document, accessorIdx int) ([]core.Vec2, error) {
	accessor, data, stride, err := accessorBytes(doc, accessorIdx, 8)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorVec2 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC2, got %v/%v", accessor.Type, accessor.ComponentType)
	}

	// glTF puts v=0 at the top of the image, as ImageTexture does
	result := make([]core.Vec2, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		result[i] = core.NewVec2(readFloat32(b), readFloat32(b[4:]))
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) || doc.Accessors[accessorIdx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}

	var size int
	switch doc.Accessors[accessorIdx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index type %v", doc.Accessors[accessorIdx].ComponentType)
	}

	accessor, data, stride, err := accessorBytes(doc, accessorIdx, size)
	if err != nil {
		return nil, err
	}
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		default:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}
