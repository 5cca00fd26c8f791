package ui

import (
	"github.com/emberforge/ember/engine/colors"
	"github.com/emberforge/ember/engine/core"
)

// Max textures per batch (common GL limit is 16).
const maxTexSlots = 16

// Vertex: pos2 + color4 + uv2 + texIndex1 => 9 floats.
const (
	VertexStride  = 9
	vertsPerQuad  = 4
	indsPerQuad   = 6
	VertexStrideB = VertexStride * 4 // bytes
)

// VertexLayout is the interleaved layout of tessellated UI vertices,
// shared with the rasterizer.
var VertexLayout = core.VertexLayout{
	Stride: VertexStrideB,
	Attributes: []core.VertexAttrib{
		{Location: 0, Size: 2, Type: core.AttribFloat32, Offset: 0},     // pos
		{Location: 1, Size: 4, Type: core.AttribFloat32, Offset: 2 * 4}, // color
		{Location: 2, Size: 2, Type: core.AttribFloat32, Offset: 6 * 4}, // uv
		{Location: 3, Size: 1, Type: core.AttribFloat32, Offset: 8 * 4}, // texIndex
	},
}

// Batch is one renderer-consumable triangle list. Texture slot 0 is
// always the solid-white placeholder (nil); glyph atlases and images
// occupy the remaining slots.
type Batch struct {
	Verts    []float32
	Inds     []uint32
	Textures []core.Texture
}

// DrawData is the flattened output of one UI frame.
type DrawData struct {
	Batches []Batch
}

// Stats counts what the tessellator produced this frame.
type Stats struct {
	Quads    int
	Batches  int
	Vertices int
	Indices  int
}

type tessellator struct {
	batches []Batch
	stats   Stats
}

func (t *tessellator) reset() {
	t.batches = t.batches[:0]
	t.stats = Stats{}
	t.newBatch()
}

func (t *tessellator) newBatch() {
	t.batches = append(t.batches, Batch{Textures: []core.Texture{nil}})
	t.stats.Batches++
}

func (t *tessellator) cur() *Batch { return &t.batches[len(t.batches)-1] }

// texSlot returns the slot for tex in the current batch, starting a new
// batch when the slot table is full. nil means the white placeholder.
func (t *tessellator) texSlot(tex core.Texture) float32 {
	if tex == nil {
		return 0
	}
	b := t.cur()
	for i := 1; i < len(b.Textures); i++ {
		if b.Textures[i] == tex {
			return float32(i)
		}
	}
	if len(b.Textures) >= maxTexSlots {
		t.newBatch()
		b = t.cur()
	}
	b.Textures = append(b.Textures, tex)
	return float32(len(b.Textures) - 1)
}

// quad appends one axis-aligned textured quad with top-left origin.
func (t *tessellator) quad(x, y, w, h float32, color colors.Color, tex core.Texture, u0, v0, u1, v1 float32) {
	slot := t.texSlot(tex)
	b := t.cur()
	start := uint32(len(b.Verts) / VertexStride)

	corners := [4][4]float32{
		{x, y, u0, v0},
		{x + w, y, u1, v0},
		{x, y + h, u0, v1},
		{x + w, y + h, u1, v1},
	}
	for _, p := range corners {
		b.Verts = append(b.Verts,
			p[0], p[1],
			color[0], color[1], color[2], color[3],
			p[2], p[3],
			slot,
		)
	}
	b.Inds = append(b.Inds,
		start+0, start+2, start+1,
		start+1, start+2, start+3,
	)
	t.stats.Quads++
	t.stats.Vertices += vertsPerQuad
	t.stats.Indices += indsPerQuad
}

// text flattens s into glyph quads with top-left origin (x, y).
// Positive Y goes down, matching the screen projection.
func (t *tessellator) text(f Font, x, y float32, s string, size float32, color colors.Color) {
	if f == nil || s == "" {
		return
	}
	ascent, descent, lineGap := f.Metrics(size)
	lineH := ascent - descent + lineGap
	penX := x
	baseY := y + ascent
	var prev rune = -1

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += lineH
			prev = -1
			continue
		}

		g, ok := f.Glyph(r, size)
		if !ok {
			if sp, ok2 := f.Glyph(' ', size); ok2 {
				penX += sp.Advance
			}
			prev = r
			continue
		}
		if prev >= 0 {
			penX += f.Kern(prev, r, size)
		}

		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			t.quad(left, top, g.W, g.H, color, f.Texture(), g.U0, g.V0, g.U1, g.V1)
		}

		penX += g.Advance
		prev = r
	}
}

// finish strips a trailing empty batch and returns the frame's data.
func (t *tessellator) finish() DrawData {
	out := t.batches
	if n := len(out); n > 0 && len(out[n-1].Inds) == 0 {
		out = out[:n-1]
		t.stats.Batches--
	}
	return DrawData{Batches: out}
}
