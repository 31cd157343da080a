package mosaic

import "math"

// This file implements averaged color sampling from the source image in
// surface coordinates.

// Sampler reads color samples for grid coordinates expressed in surface
// space. Each lookup averages two diagonal taps so a single noisy source
// pixel cannot dominate a cell at low grid densities.
type Sampler struct {
	src  *Source
	w, h int
}

// NewSampler creates a sampler mapping the w×h surface onto src.
func NewSampler(src *Source, w, h int) *Sampler {
	if src == nil || w <= 0 || h <= 0 {
		return nil
	}
	return &Sampler{src: src, w: w, h: h}
}

// At samples the averaged color for the continuous surface coordinate (x, y).
// The primary tap is floor(x), floor(y) clamped to [0,w-1]×[0,h-1]; the
// secondary tap sits one step down-right, clamped the same way. The result is
// the channel-wise average of both taps, always a valid triple in [0,255].
func (s *Sampler) At(x, y float64) (r, g, b float64) {
	px := floorClamp(x, s.w)
	py := floorClamp(y, s.h)
	qx := floorClamp(x+1, s.w)
	qy := floorClamp(y+1, s.h)

	r1, g1, b1 := s.pixel(px, py)
	r2, g2, b2 := s.pixel(qx, qy)
	return (r1 + r2) / 2, (g1 + g2) / 2, (b1 + b2) / 2
}

// pixel reads the source pixel for a clamped surface coordinate. Surface
// points map to source pixels by integer floor scaling, so two surfaces of
// different sizes sample the same relative positions deterministically.
func (s *Sampler) pixel(px, py int) (r, g, b float64) {
	ix := px * s.src.width / s.w
	iy := py * s.src.height / s.h
	o := s.src.pix.PixOffset(ix, iy)
	p := s.src.pix.Pix
	return float64(p[o]), float64(p[o+1]), float64(p[o+2])
}

// floorClamp floors v and clamps the result into [0, n-1].
func floorClamp(v float64, n int) int {
	i := int(math.Floor(v))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
