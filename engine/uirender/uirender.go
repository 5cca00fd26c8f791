// Package uirender rasterizes tessellated UI draw data: it owns the UI
// shader pipeline, a reusable dynamic mesh per batch slot, the 1x1
// white texture bound at sampler slot 0, and the orthographic screen
// projection. It records core.DrawCmds; submission belongs to the
// surface manager.
package uirender

import (
	"strconv"

	"github.com/emberforge/ember/engine/core"
	"github.com/emberforge/ember/engine/ui"
)

const maxTexSlots = 16

type Rasterizer struct {
	r        core.Renderer
	pipe     core.Pipeline
	white    core.Texture
	meshes   []core.Mesh
	maxQuads int
	texNames [maxTexSlots]string
}

// New compiles the UI pipeline and allocates the reusable resources.
// maxQuads bounds a single batch; the tessellator splits beyond it.
func New(r core.Renderer, maxQuads int) (*Rasterizer, error) {
	if maxQuads <= 0 {
		maxQuads = 10000
	}
	pipe, err := r.CreatePipeline(core.PipelineDesc{
		VertexSource:   vertexSource,
		FragmentSource: fragmentSource,
		DepthTest:      false,
		Blend:          true,
	})
	if err != nil {
		return nil, err
	}

	white, err := r.CreateTexture(core.TextureDesc{
		Width: 1, Height: 1,
		Format:    core.TextureRGBA8,
		Pixels:    []byte{255, 255, 255, 255},
		MinFilter: "nearest", MagFilter: "nearest",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, err
	}

	rz := &Rasterizer{r: r, pipe: pipe, white: white, maxQuads: maxQuads}
	for i := 0; i < maxTexSlots; i++ {
		rz.texNames[i] = "uTex[" + strconv.Itoa(i) + "]"
	}
	return rz, nil
}

// mesh returns the reusable mesh for batch index i, creating it on
// first use. One mesh per batch slot keeps uploads within a frame from
// stomping each other.
func (rz *Rasterizer) mesh(i int) (core.Mesh, error) {
	for len(rz.meshes) <= i {
		m, err := rz.r.CreateMesh(core.MeshDesc{
			Vertices: make([]float32, rz.maxQuads*4*ui.VertexStride),
			Indices:  make([]uint32, rz.maxQuads*6),
			Layout:   ui.VertexLayout,
			Dynamic:  true,
		})
		if err != nil {
			return nil, err
		}
		rz.meshes = append(rz.meshes, m)
	}
	return rz.meshes[i], nil
}

// Commands uploads the frame's batches and records one draw command per
// batch, with the screen-space orthographic projection for a w x h
// viewport.
func (rz *Rasterizer) Commands(dd ui.DrawData, w, h int) ([]core.DrawCmd, error) {
	vp := Ortho(w, h)
	cmds := make([]core.DrawCmd, 0, len(dd.Batches))

	for i, b := range dd.Batches {
		if len(b.Inds) == 0 {
			continue
		}
		m, err := rz.mesh(i)
		if err != nil {
			return nil, err
		}
		if err := rz.r.UpdateMesh(m, b.Verts, b.Inds); err != nil {
			return nil, err
		}

		samplers := make(map[string]core.Texture, len(b.Textures))
		for slot, tex := range b.Textures {
			if tex == nil {
				tex = rz.white
			}
			samplers[rz.texNames[slot]] = tex
		}

		cmds = append(cmds, core.DrawCmd{
			Pipe:       rz.pipe,
			Mesh:       m,
			IndexCount: len(b.Inds),
			Uniforms:   map[string]any{"uVP": vp},
			Samplers:   samplers,
		})
	}
	return cmds, nil
}

// Ortho builds a projection mapping pixel coordinates (origin top-left,
// Y down) onto clip space for a w x h viewport. Column-major.
func Ortho(w, h int) [16]float32 {
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	sx := 2 / float32(w)
	sy := -2 / float32(h)
	return [16]float32{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}

const vertexSource = `
#version 330 core
layout(location=0) in vec2 aPos;
layout(location=1) in vec4 aColor;
layout(location=2) in vec2 aUV;
layout(location=3) in float aTexIndex;
uniform mat4 uVP;
out vec4 vColor;
out vec2 vUV;
flat out float vTexIndex;
void main() {
    vColor = aColor;
    vUV = aUV;
    vTexIndex = aTexIndex;
    gl_Position = uVP * vec4(aPos, 0.0, 1.0);
}
`

// Strict GLSL 3.30 requires constant sampler array indices, so the slot
// lookup is unrolled into a switch instead of indexing with the varying.
const fragmentSource = `
#version 330 core
in vec4 vColor;
in vec2 vUV;
flat in float vTexIndex;
uniform sampler2D uTex[16];
out vec4 FragColor;
void main() {
    vec4 texel;
    switch (int(vTexIndex + 0.5)) {
    case 0: texel = texture(uTex[0], vUV); break;
    case 1: texel = texture(uTex[1], vUV); break;
    case 2: texel = texture(uTex[2], vUV); break;
    case 3: texel = texture(uTex[3], vUV); break;
    case 4: texel = texture(uTex[4], vUV); break;
    case 5: texel = texture(uTex[5], vUV); break;
    case 6: texel = texture(uTex[6], vUV); break;
    case 7: texel = texture(uTex[7], vUV); break;
    case 8: texel = texture(uTex[8], vUV); break;
    case 9: texel = texture(uTex[9], vUV); break;
    case 10: texel = texture(uTex[10], vUV); break;
    case 11: texel = texture(uTex[11], vUV); break;
    case 12: texel = texture(uTex[12], vUV); break;
    case 13: texel = texture(uTex[13], vUV); break;
    case 14: texel = texture(uTex[14], vUV); break;
    default: texel = texture(uTex[15], vUV); break;
    }
    FragColor = vColor * texel;
}
`
