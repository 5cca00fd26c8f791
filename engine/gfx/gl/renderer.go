package glbackend

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/emberforge/ember/engine/core"
)

// RendererGL implements core.Renderer on an OpenGL 3.3 core context.
// The context must be current on the calling thread (the platform window
// makes it current at creation).
type RendererGL struct {
	vendor   string
	renderer string
	version  string
}

type pipelineGL struct {
	program   uint32
	depthTest bool
	blend     bool
}

type textureGL struct {
	id   uint32
	w, h int
}

type meshGL struct {
	vao, vbo, ebo uint32
	indexCount    int
	capVerts      int // capacity in floats
	capInds       int
}

// NewRendererGL binds the GL function pointers and probes the device.
// A context that cannot provide GL 3.3 core fails here, before the loop
// starts: there is no fallback backend.
func NewRendererGL(_ core.Window, _ core.Config) (*RendererGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl: no compatible device: %w", err)
	}
	r := &RendererGL{
		vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	log.Printf("GL: %s, %s", r.version, r.renderer)

	// UI rendering is alpha-blended and unordered; depth stays off until
	// a pipeline asks for it.
	gl.Disable(gl.DEPTH_TEST)
	return r, nil
}

func (r *RendererGL) Viewport(w, h int) {
	gl.Viewport(0, 0, int32(w), int32(h))
}

func (r *RendererGL) Clear(rf, gf, bf, af float32) {
	gl.ClearColor(rf, gf, bf, af)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *RendererGL) CreatePipeline(desc core.PipelineDesc) (core.Pipeline, error) {
	prog, err := makeProgram(nullTerminate(desc.VertexSource), nullTerminate(desc.FragmentSource))
	if err != nil {
		return nil, err
	}
	return &pipelineGL{program: prog, depthTest: desc.DepthTest, blend: desc.Blend}, nil
}

func (r *RendererGL) CreateTexture(desc core.TextureDesc) (core.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gl: texture size %dx%d", desc.Width, desc.Height)
	}
	if desc.Pixels != nil && len(desc.Pixels) != desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("gl: texture pixels %d bytes, want %d", len(desc.Pixels), desc.Width*desc.Height*4)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filterMode(desc.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filterMode(desc.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrapMode(desc.WrapU))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrapMode(desc.WrapV))

	var pix unsafe.Pointer
	if desc.Pixels != nil {
		pix = gl.Ptr(desc.Pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &textureGL{id: id, w: desc.Width, h: desc.Height}, nil
}

func (r *RendererGL) CreateMesh(desc core.MeshDesc) (core.Mesh, error) {
	m := &meshGL{
		indexCount: len(desc.Indices),
		capVerts:   len(desc.Vertices),
		capInds:    len(desc.Indices),
	}
	usage := uint32(gl.STATIC_DRAW)
	if desc.Dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*4, gl.Ptr(desc.Vertices), usage)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), usage)

	for _, a := range desc.Layout.Attributes {
		gl.EnableVertexAttribArray(uint32(a.Location))
		gl.VertexAttribPointer(uint32(a.Location), int32(a.Size), gl.FLOAT, false,
			int32(desc.Layout.Stride), gl.PtrOffset(a.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return m, nil
}

func (r *RendererGL) UpdateMesh(mesh core.Mesh, vertices []float32, indices []uint32) error {
	m, ok := mesh.(*meshGL)
	if !ok {
		return fmt.Errorf("gl: foreign mesh %T", mesh)
	}
	if len(vertices) > m.capVerts || len(indices) > m.capInds {
		return fmt.Errorf("gl: mesh update %d/%d exceeds capacity %d/%d",
			len(vertices), len(indices), m.capVerts, m.capInds)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(indices)*4, gl.Ptr(indices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	m.indexCount = len(indices)
	return nil
}

func (r *RendererGL) Draw(cmd core.DrawCmd) error {
	pipe, ok := cmd.Pipe.(*pipelineGL)
	if !ok {
		return fmt.Errorf("gl: foreign pipeline %T", cmd.Pipe)
	}
	mesh, ok := cmd.Mesh.(*meshGL)
	if !ok {
		return fmt.Errorf("gl: foreign mesh %T", cmd.Mesh)
	}

	gl.UseProgram(pipe.program)
	if pipe.blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	} else {
		gl.Disable(gl.BLEND)
	}
	if pipe.depthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	for name, v := range cmd.Uniforms {
		if err := setUniform(pipe.program, name, v); err != nil {
			return err
		}
	}

	// Deterministic slot assignment: sampler names sorted.
	names := make([]string, 0, len(cmd.Samplers))
	for name := range cmd.Samplers {
		names = append(names, name)
	}
	sort.Strings(names)
	for slot, name := range names {
		tex, ok := cmd.Samplers[name].(*textureGL)
		if !ok {
			return fmt.Errorf("gl: foreign texture %T", cmd.Samplers[name])
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		if err := setUniform(pipe.program, name, int32(slot)); err != nil {
			return err
		}
	}

	count := int32(cmd.IndexCount)
	if count == 0 {
		count = int32(mesh.indexCount)
	}
	gl.BindVertexArray(mesh.vao)
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	return nil
}

// Err drains the GL error queue and reports the first error, if any.
func (r *RendererGL) Err() error {
	first := gl.GetError()
	if first == gl.NO_ERROR {
		return nil
	}
	for gl.GetError() != gl.NO_ERROR {
	}
	return fmt.Errorf("gl: error 0x%04x", first)
}

func (r *RendererGL) GPUVendor() string   { return r.vendor }
func (r *RendererGL) GPURenderer() string { return r.renderer }
func (r *RendererGL) GPUVersion() string  { return r.version }

func (r *RendererGL) Shutdown() {}

// --- helpers ---

func filterMode(s string) int32 {
	if s == "linear" {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func wrapMode(s string) int32 {
	if s == "repeat" {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func setUniform(program uint32, name string, v any) error {
	loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
	if loc < 0 {
		// Uniform compiled out; not an error.
		return nil
	}
	switch u := v.(type) {
	case int32:
		gl.Uniform1i(loc, u)
	case float32:
		gl.Uniform1f(loc, u)
	case [2]float32:
		gl.Uniform2f(loc, u[0], u[1])
	case [4]float32:
		gl.Uniform4f(loc, u[0], u[1], u[2], u[3])
	case [16]float32:
		gl.UniformMatrix4fv(loc, 1, false, &u[0])
	default:
		return fmt.Errorf("gl: unsupported uniform type %T for %q", v, name)
	}
	return nil
}

func nullTerminate(src string) string {
	if strings.HasSuffix(src, "\x00") {
		return src
	}
	return src + "\x00"
}

// --- shader utilities ---

func makeShader(src string, shaderType uint32) (uint32, error) {
	sh := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	defer free()
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetShaderInfoLog(sh, logLen, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("shader compile error: %s", infoLog)
	}
	return sh, nil
}

func makeProgram(vsSrc, fsSrc string) (uint32, error) {
	vs, err := makeShader(vsSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := makeShader(fsSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs)
	gl.AttachShader(prog, fs)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		infoLog := strings.Repeat("\x00", int(logLen))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(infoLog))
		return 0, fmt.Errorf("program link error: %s", infoLog)
	}
	return prog, nil
}
