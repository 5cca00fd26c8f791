// Package text builds glyph atlases for UI text rendering. A Font packs
// the rasterized glyphs of one face at one base pixel size into a single
// RGBA texture (white coverage) and exposes the metrics the UI
// tessellator needs; other sizes scale off the base.
package text

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/emberforge/ember/engine/core"
	"github.com/emberforge/ember/engine/ui"
)

const (
	atlasPadding = 2
	maxAtlasSize = 4096
	// Target rune set: Latin-1. Expand as needed.
	firstRune = rune(32)
	lastRune  = rune(255)
)

type glyphInfo struct {
	advance  float32
	bearingX float32
	bearingY float32 // baseline to glyph top
	w, h     int
	u0, v0   float32
	u1, v1   float32
}

// Font is a glyph atlas at a fixed base pixel size. It implements
// ui.Font; requests at other sizes scale linearly off the base, which
// is adequate for UI text.
type Font struct {
	sizePx  float32
	ascent  float32
	descent float32
	lineGap float32
	glyphs  map[rune]glyphInfo
	face    font.Face
	tex     core.Texture
}

var _ ui.Font = (*Font)(nil)

// LoadDefault builds an atlas from the embedded Go Regular face. The
// engine needs no font assets on disk.
func LoadDefault(r core.Renderer, sizePx float32) (*Font, error) {
	return New(r, goregular.TTF, sizePx)
}

// LoadTTF builds an atlas from a TTF/OTF file.
func LoadTTF(r core.Renderer, path string, sizePx float32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return New(r, data, sizePx)
}

// New parses the font data, rasterizes the Latin-1 glyphs into a shelf
// packed atlas and uploads it as an RGBA texture (white glyphs, alpha
// coverage).
func New(r core.Renderer, ttfData []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttfData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}

	m := face.Metrics()
	f := &Font{
		sizePx:  sizePx,
		ascent:  float32(m.Ascent.Round()),
		descent: float32(-m.Descent.Round()),
		face:    face,
	}
	f.lineGap = float32(m.Height.Round()) - f.ascent + f.descent

	type meas struct {
		r      rune
		w, h   int
		adv    float32
		bx, by float32
	}
	measure := make([]meas, 0, int(lastRune-firstRune)+1)
	for rr := firstRune; rr <= lastRune; rr++ {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		measure = append(measure, meas{
			r:   rr,
			w:   (br.Max.X - br.Min.X).Round(),
			h:   (br.Max.Y - br.Min.Y).Round(),
			adv: float32(adv.Round()),
			bx:  float32(br.Min.X.Round()),
			by:  float32(-br.Min.Y.Round()),
		})
	}

	// Shelf packer: rows left to right, grow the atlas until it fits.
	atlasSize := 256
	var pos map[rune]image.Point
	for {
		x, y, rowH := atlasPadding, atlasPadding, 0
		fits := true
		pos = make(map[rune]image.Point, len(measure))

		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if g.w+atlasPadding*2 > atlasSize || g.h+atlasPadding*2 > atlasSize {
				fits = false
				break
			}
			if x+g.w+atlasPadding > atlasSize {
				x = atlasPadding
				y += rowH + atlasPadding
				rowH = 0
			}
			if y+g.h+atlasPadding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + atlasPadding
			if g.h > rowH {
				rowH = g.h
			}
		}
		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlasSize {
			return nil, fmt.Errorf("font atlas exceeds %d", maxAtlasSize)
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{}}, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	f.glyphs = make(map[rune]glyphInfo, len(measure))
	for _, g := range measure {
		gi := glyphInfo{
			advance:  g.adv,
			bearingX: g.bx,
			bearingY: g.by,
			w:        g.w,
			h:        g.h,
		}
		if g.w > 0 && g.h > 0 {
			p := pos[g.r]
			// The drawer dot sits on the baseline; place it so the
			// glyph's ink box lands exactly on the packed rect.
			drawer.Dot = fixed.P(p.X-int(g.bx), p.Y+int(g.by))
			drawer.DrawString(string(g.r))

			gi.u0 = float32(p.X) / float32(atlasSize)
			gi.v0 = float32(p.Y) / float32(atlasSize)
			gi.u1 = float32(p.X+g.w) / float32(atlasSize)
			gi.v1 = float32(p.Y+g.h) / float32(atlasSize)
		}
		f.glyphs[g.r] = gi
	}

	f.tex, err = r.CreateTexture(core.TextureDesc{
		Width: atlasSize, Height: atlasSize,
		Format:    core.TextureRGBA8,
		Pixels:    dst.Pix,
		MinFilter: "linear", MagFilter: "linear",
		WrapU: "clamp", WrapV: "clamp",
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SizePx returns the base pixel size the atlas was rasterized at.
func (f *Font) SizePx() float32 { return f.sizePx }

func (f *Font) scale(size float32) float32 {
	if size <= 0 {
		return 1
	}
	return size / f.sizePx
}

// Metrics implements ui.Font.
func (f *Font) Metrics(size float32) (ascent, descent, lineGap float32) {
	s := f.scale(size)
	return f.ascent * s, f.descent * s, f.lineGap * s
}

// Glyph implements ui.Font.
func (f *Font) Glyph(r rune, size float32) (ui.Glyph, bool) {
	gi, ok := f.glyphs[r]
	if !ok {
		return ui.Glyph{}, false
	}
	s := f.scale(size)
	return ui.Glyph{
		Advance:  gi.advance * s,
		BearingX: gi.bearingX * s,
		BearingY: gi.bearingY * s,
		W:        float32(gi.w) * s,
		H:        float32(gi.h) * s,
		U0:       gi.u0, V0: gi.v0, U1: gi.u1, V1: gi.v1,
	}, true
}

// Kern implements ui.Font.
func (f *Font) Kern(prev, r rune, size float32) float32 {
	if f.face == nil {
		return 0
	}
	return float32(f.face.Kern(prev, r).Round()) * f.scale(size)
}

// Measure implements ui.Font: bounding box of s at the given size,
// including newlines.
func (f *Font) Measure(s string, size float32) (width, height float32) {
	sc := f.scale(size)
	lineH := f.ascent - f.descent + f.lineGap
	height = lineH

	var lineW float32
	var prev rune = -1
	for _, r := range s {
		if r == '\n' {
			width = maxf(width, lineW)
			lineW = 0
			height += lineH
			prev = -1
			continue
		}
		g, ok := f.glyphs[r]
		if !ok {
			if sp, ok2 := f.glyphs[' ']; ok2 {
				lineW += sp.advance
			}
			prev = r
			continue
		}
		if prev >= 0 && f.face != nil {
			lineW += float32(f.face.Kern(prev, r).Round())
		}
		lineW += g.advance
		prev = r
	}
	width = maxf(width, lineW)
	return width * sc, height * sc
}

// Texture implements ui.Font.
func (f *Font) Texture() core.Texture { return f.tex }

// Close releases the font face. The atlas texture stays valid.
func (f *Font) Close() {
	if f.face != nil {
		_ = f.face.Close()
		f.face = nil
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
