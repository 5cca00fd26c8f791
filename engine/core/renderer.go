package core

// Renderer abstraction over the fixed graphics backend. The gfx/gl
// package provides the OpenGL 3.3 core implementation; tests use fakes.
type Renderer interface {
	// Viewport sets the drawable area in physical pixels.
	Viewport(w, h int)
	Clear(r, g, b, a float32)

	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	CreateMesh(desc MeshDesc) (Mesh, error)
	// UpdateMesh re-uploads vertex/index data into an existing mesh.
	// The new data must not exceed the capacity given at creation.
	UpdateMesh(m Mesh, vertices []float32, indices []uint32) error

	Draw(cmd DrawCmd) error

	// Err reports a pending backend error, or nil. Reading clears it.
	Err() error

	GPUVendor() string
	GPURenderer() string
	GPUVersion() string

	Shutdown()
}

// Opaque GPU resource handles. Concrete types live in the backend;
// callers only pass them back into Renderer methods.
type (
	Pipeline any
	Texture  any
	Mesh     any
)

type AttribType int

const (
	AttribFloat32 AttribType = iota
)

type VertexAttrib struct {
	Location int
	Size     int
	Type     AttribType
	Offset   int
}

// VertexLayout describes one interleaved vertex buffer.
type VertexLayout struct {
	Stride     int // bytes
	Attributes []VertexAttrib
}

type PipelineDesc struct {
	VertexSource   string
	FragmentSource string
	DepthTest      bool
	Blend          bool
}

type TextureFormat int

const (
	TextureRGBA8 TextureFormat = iota
)

type TextureDesc struct {
	Width, Height int
	Format        TextureFormat
	Pixels        []byte // len must be Width*Height*4 for RGBA8; nil for uninitialized
	MinFilter     string // "nearest" or "linear"
	MagFilter     string
	WrapU         string // "clamp" or "repeat"
	WrapV         string
}

type MeshDesc struct {
	Vertices []float32
	Indices  []uint32
	Layout   VertexLayout
	// Dynamic marks the buffers for per-frame updates via UpdateMesh.
	Dynamic bool
}

// DrawCmd is one recorded draw: a pipeline, a mesh, uniforms and sampler
// bindings. Commands are recorded first and submitted in a batch.
type DrawCmd struct {
	Pipe       Pipeline
	Mesh       Mesh
	IndexCount int // 0 means the whole index buffer
	Uniforms   map[string]any
	Samplers   map[string]Texture
}
