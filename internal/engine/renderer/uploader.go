package renderer

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/walkthrough/internal/engine/model"
)

var errEmptyMesh = errors.New("mesh has no vertices or indices")

// GLUploader creates vertex arrays for meshes. It satisfies scene.Uploader
// and must only be used while the GL context is current.
type GLUploader struct{}

// Upload creates the VAO, VBO and EBO for m using the shared interleaved
// layout: position at 0, normal at 1, texture coordinate at 2.
func (GLUploader) Upload(m *model.Mesh) (model.Handle, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return model.Handle{}, errEmptyMesh
	}

	var h model.Handle
	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	gl.GenBuffers(1, &h.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*model.VertexStride, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, model.VertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, model.VertexStride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, model.VertexStride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &h.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return h, nil
}

// Release deletes the GL objects of h.
func (GLUploader) Release(h model.Handle) {
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
	if h.VBO != 0 {
		gl.DeleteBuffers(1, &h.VBO)
	}
	if h.EBO != 0 {
		gl.DeleteBuffers(1, &h.EBO)
	}
}
