package ui

import "github.com/emberforge/ember/engine/core"

// Glyph describes one rasterized glyph at a given pixel size: pen
// advance, bearings relative to the baseline, quad size and atlas UVs.
type Glyph struct {
	Advance  float32
	BearingX float32
	BearingY float32 // baseline to glyph top
	W, H     float32
	U0, V0   float32
	U1, V1   float32
}

// Font provides the glyph metrics and atlas texture the tessellator
// needs to flatten text into textured quads. The text package implements
// it over an opentype atlas; tests use a fixed-advance stub.
type Font interface {
	// Measure reports the bounding size of s at the given pixel size.
	Measure(s string, size float32) (w, h float32)
	// Metrics reports ascent, descent (negative down) and line gap.
	Metrics(size float32) (ascent, descent, lineGap float32)
	// Glyph returns the scaled glyph for r, or false if the face has
	// no coverage for it.
	Glyph(r rune, size float32) (Glyph, bool)
	// Kern reports the kerning adjustment between two runes.
	Kern(prev, r rune, size float32) float32
	// Texture is the glyph atlas.
	Texture() core.Texture
}
