package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"astro-render/core"
)

// LoadMeshGeometry loads a .glb or .gltf file into a single MeshGeometry.
// All primitives of all meshes are merged; only positions, normals, UVs and
// the base color factor of the first material are used.
func LoadMeshGeometry(path string) (*MeshGeometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var vertices []Vertex
	var indices []uint32

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("gltf positions: %w", err)
			}

			var normals [][3]float32
			if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err = modeler.ReadNormal(doc, doc.Accessors[normIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("gltf normals: %w", err)
				}
			}

			var uvs [][2]float32
			if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
				uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[uvIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("gltf uvs: %w", err)
				}
			}

			base := uint32(len(vertices))
			for i, p := range positions {
				v := Vertex{Position: mgl32.Vec3{p[0], p[1], p[2]}}
				if i < len(normals) {
					v.Normal = mgl32.Vec3{normals[i][0], normals[i][1], normals[i][2]}
				}
				if i < len(uvs) {
					v.UV = mgl32.Vec2{uvs[i][0], uvs[i][1]}
				}
				vertices = append(vertices, v)
			}

			if prim.Indices != nil {
				primIndices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("gltf indices: %w", err)
				}
				for _, idx := range primIndices {
					indices = append(indices, base+idx)
				}
			}
		}
	}

	if len(vertices) == 0 {
		return nil, fmt.Errorf("gltf %q: no vertex data", path)
	}

	geom := NewMeshGeometry(NewMesh(path, vertices, indices))

	// Approximate the first material's base color as the diffuse color.
	if len(doc.Materials) > 0 && doc.Materials[0].PBRMetallicRoughness != nil {
		bc := doc.Materials[0].PBRMetallicRoughness.BaseColorFactorOrDefault()
		geom.Material.Diffuse = core.Color{
			R: float32(bc[0]), G: float32(bc[1]), B: float32(bc[2]), A: float32(bc[3]),
		}
	}

	return geom, nil
}
