package geometry

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved vertex layout shared by all mesh geometry:
// position, normal, UV.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// DrawMode selects the GL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota
	DrawLineStrip
	DrawLines
)

// Mesh holds CPU-side vertex and index data. GPU buffers are created lazily
// on first draw, which requires a current GL context.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Mode     DrawMode

	gpu *gpuMesh
}

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
	vertexCount   int32
	hasIndices    bool
}

// NewMesh builds a mesh from vertex and index data.
func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{Name: name, Vertices: vertices, Indices: indices}
}

// BoundingRadius returns the distance from the origin to the farthest
// vertex.
func (m *Mesh) BoundingRadius() float32 {
	var maxSq float32
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		if d := p.Dot(p); d > maxSq {
			maxSq = d
		}
	}
	return sqrt32(maxSq)
}

func (m *Mesh) glMode() uint32 {
	switch m.Mode {
	case DrawLineStrip:
		return gl.LINE_STRIP
	case DrawLines:
		return gl.LINES
	}
	return gl.TRIANGLES
}

// upload creates the VAO/VBO/EBO for this mesh.
func (m *Mesh) upload() {
	g := &gpuMesh{
		vertexCount: int32(len(m.Vertices)),
		indexCount:  int32(len(m.Indices)),
		hasIndices:  len(m.Indices) > 0,
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	stride := int32(unsafe.Sizeof(Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, uintptr(unsafe.Offsetof(Vertex{}.Normal)))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, uintptr(unsafe.Offsetof(Vertex{}.UV)))

	if g.hasIndices {
		gl.GenBuffers(1, &g.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	m.gpu = g
}

// Draw uploads the mesh if needed and issues the draw call. The caller must
// have bound a program (via RenderContext.BindMaterial) first.
func (m *Mesh) Draw() {
	if m.gpu == nil {
		m.upload()
	}
	gl.BindVertexArray(m.gpu.vao)
	if m.gpu.hasIndices {
		gl.DrawElements(m.glMode(), m.gpu.indexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(m.glMode(), 0, m.gpu.vertexCount)
	}
	gl.BindVertexArray(0)
}

// Release frees the GPU buffers; the CPU-side data stays usable.
func (m *Mesh) Release() {
	if m.gpu == nil {
		return
	}
	gl.DeleteBuffers(1, &m.gpu.vbo)
	if m.gpu.hasIndices {
		gl.DeleteBuffers(1, &m.gpu.ebo)
	}
	gl.DeleteVertexArrays(1, &m.gpu.vao)
	m.gpu = nil
}
