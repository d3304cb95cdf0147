// Package renderer draws a loaded scene with OpenGL.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/walkthrough/internal/engine/debug"
	"github.com/Faultbox/walkthrough/internal/engine/lighting"
	"github.com/Faultbox/walkthrough/internal/engine/model"
	"github.com/Faultbox/walkthrough/internal/engine/scene"
	"github.com/Faultbox/walkthrough/internal/engine/shader"
	"github.com/Faultbox/walkthrough/internal/engine/texture"
	"github.com/Faultbox/walkthrough/internal/logger"
	"github.com/Faultbox/walkthrough/pkg/math"
)

// Ground plane geometry.
const (
	groundSize     = 100
	groundTexScale = 20
)

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	ClearColor    [3]float32
	BaseColor     [3]float32
	WorldTexScale float32
	Light         lighting.Headlight
}

// DefaultConfig returns a sky-blue clear colour and light grey geometry.
func DefaultConfig() Config {
	return Config{
		Width:         800,
		Height:        600,
		ClearColor:    [3]float32{0.53, 0.81, 0.92},
		BaseColor:     [3]float32{0.82, 0.82, 0.82},
		WorldTexScale: 0.5,
		Light:         lighting.DefaultHeadlight(),
	}
}

// View is the camera state needed for one frame.
type View struct {
	Position   math.Vec3
	View       math.Mat4
	Projection math.Mat4
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	lit   *shader.Program
	lines *shader.Program

	uploader GLUploader
	ground   *model.Mesh

	gridTex    uint32
	checkerTex uint32
	floorTex   uint32
	mode       texture.Mode

	showBoxes bool
	lineVAO   uint32
	lineVBO   uint32
	lineCap   int

	// Visible is the number of scene meshes drawn in the last frame.
	Visible int
}

// New creates a renderer. The OpenGL context must already be current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		mode:   texture.ModeGrid,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1)

	var err error
	if r.lit, err = shader.Compile(litVertexShader, litFragmentShader); err != nil {
		return nil, fmt.Errorf("lit shader: %w", err)
	}
	if r.lines, err = shader.Compile(lineVertexShader, lineFragmentShader); err != nil {
		r.lit.Delete()
		return nil, fmt.Errorf("line shader: %w", err)
	}
	logger.Debug("shader programs created",
		zap.Uint32("lit", r.lit.ID),
		zap.Uint32("lines", r.lines.ID))

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Uploader returns the GL mesh uploader for scene loading.
func (r *Renderer) Uploader() scene.Uploader {
	return r.uploader
}

// PrepareGround builds the ground plane and its textures once. floor, if
// non-nil, replaces the texture of the scene's floor mesh.
func (r *Renderer) PrepareGround(floor *image.RGBA) {
	if floor != nil {
		deleteTexture(&r.floorTex)
		r.floorTex = uploadTexture(floor)
	}
	if r.ground != nil {
		return
	}

	ground := model.GroundPlane(groundSize, groundTexScale)
	h, err := r.uploader.Upload(ground)
	if err != nil {
		logger.Warn("ground plane upload failed", zap.Error(err))
		return
	}
	ground.Handle = h
	ground.Valid = true
	r.ground = ground

	r.gridTex = uploadTexture(texture.Grid(texture.Size, texture.Size))
	r.checkerTex = uploadTexture(texture.Checkerboard(texture.Size, texture.Size, texture.CheckerCell))
	logger.Debug("ground plane created", zap.Stringer("texture", r.mode))
}

// CycleTexture switches the ground plane to the next texture mode.
func (r *Renderer) CycleTexture() texture.Mode {
	r.mode = r.mode.Next()
	logger.Info("ground texture", zap.Stringer("mode", r.mode))
	return r.mode
}

// ToggleBoxes shows or hides the bounding box overlay.
func (r *Renderer) ToggleBoxes() bool {
	r.showBoxes = !r.showBoxes
	return r.showBoxes
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Draw renders the ground plane and every visible scene mesh.
func (r *Renderer) Draw(s *scene.Scene, v View) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.lit.Use()
	r.lit.SetMat4("view", v.View)
	r.lit.SetMat4("projection", v.Projection)
	r.lit.SetVec3("lightPos", r.config.Light.Position(v.Position))
	r.lit.SetFloat("ambientStrength", r.config.Light.Ambient)
	r.lit.SetInt("diffuseTex", 0)
	r.lit.SetFloat("worldTexScale", r.config.WorldTexScale)

	r.drawGround()

	base := math.Vec3{X: r.config.BaseColor[0], Y: r.config.BaseColor[1], Z: r.config.BaseColor[2]}
	r.lit.SetVec3("baseColor", base)

	floorIdx, hasFloor := s.FloorMeshIndex()
	meshes := s.Meshes()
	visible := s.Cull(v.Projection.Mul(v.View))
	r.Visible = 0
	for _, i := range visible {
		m := meshes[i]
		if !m.Valid {
			continue
		}
		worldTex := hasFloor && i == floorIdx && r.floorTex != 0
		r.lit.SetBool("useTexture", worldTex)
		r.lit.SetBool("useWorldTex", worldTex)
		if worldTex {
			gl.ActiveTexture(gl.TEXTURE0)
			gl.BindTexture(gl.TEXTURE_2D, r.floorTex)
		}
		r.lit.SetMat4("model", s.MeshTransform(i))
		drawMesh(m)
		r.Visible++
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if r.showBoxes {
		r.drawBoxes(s, v.Projection.Mul(v.View))
	}
}

func (r *Renderer) drawGround() {
	if r.ground == nil {
		return
	}
	r.lit.SetMat4("model", math.Identity())
	r.lit.SetBool("useWorldTex", false)

	tex := uint32(0)
	switch r.mode {
	case texture.ModeGrid:
		tex = r.gridTex
	case texture.ModeChecker:
		tex = r.checkerTex
	}
	r.lit.SetBool("useTexture", tex != 0)
	if tex != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, tex)
	} else {
		c := r.config.BaseColor
		r.lit.SetVec3("baseColor", math.Vec3{X: c[0], Y: c[1], Z: c[2]})
	}
	drawMesh(r.ground)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func drawMesh(m *model.Mesh) {
	gl.BindVertexArray(m.Handle.VAO)
	gl.DrawElements(gl.TRIANGLES, m.IndexCount(), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawBoxes(s *scene.Scene, viewProj math.Mat4) {
	verts := debug.Wireframes(s.Boxes())
	if len(verts) == 0 {
		return
	}
	const stride = int32(unsafe.Sizeof(debug.LineVertex{}))

	if r.lineVAO == 0 {
		gl.GenVertexArrays(1, &r.lineVAO)
		gl.GenBuffers(1, &r.lineVBO)
		gl.BindVertexArray(r.lineVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(1)
	}

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	size := len(verts) * int(stride)
	if len(verts) > r.lineCap {
		gl.BufferData(gl.ARRAY_BUFFER, size, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
		r.lineCap = len(verts)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&verts[0]))
	}

	r.lines.Use()
	r.lines.SetMat4("viewProj", viewProj)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)))
	gl.BindVertexArray(0)
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0
	}
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close releases renderer-owned GL resources. Scene meshes are released
// by the scene.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.ground != nil {
		r.uploader.Release(r.ground.Handle)
		r.ground = nil
	}
	deleteTexture(&r.gridTex)
	deleteTexture(&r.checkerTex)
	deleteTexture(&r.floorTex)
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	r.lit.Delete()
	r.lines.Delete()
}
