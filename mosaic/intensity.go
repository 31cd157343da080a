package mosaic

import "math"

// This file converts color samples into ink intensity and the styling tuple
// derived from it.

// Luminance weights (Rec. 709).
const (
	lumR = 0.2126
	lumG = 0.7152
	lumB = 0.0722
)

// intensityGamma shapes the inverse-luminance curve so mid-tones keep a
// visible glyph presence instead of washing out.
const intensityGamma = 0.5

// style is the resolved per-cell styling tuple.
type style struct {
	intensity float64
	weight    int
	size      float64
	alpha     float64
	color     Color
}

// luminance computes the Rec. 709 luma of an RGB sample in [0,255].
func luminance(r, g, b float64) float64 {
	return lumR*r + lumG*g + lumB*b
}

// applyContrast scales luminance around the 128 midpoint:
// (lum - 128) * contrast + 128, clamped back into [0,255].
func applyContrast(lum, contrast float64) float64 {
	return clampF((lum-128)*contrast+128, 0, 255)
}

// intensity maps contrasted luminance to normalized ink intensity in [0,1].
// Darker source regions yield higher intensity; the curve is monotonically
// non-increasing in the contrasted value.
func intensity(contrasted float64) float64 {
	return math.Pow(1-contrasted/255, intensityGamma)
}

// styleFor derives the full styling tuple for one sampled color.
// scaledFont is fontSize·scale, shared across the whole traversal.
//
//	weight = round(300 + intensity·600)   (300–900 font-weight scale)
//	size   = scaledFont · (0.85 + intensity·0.8)
//	alpha  = 0.45 + intensity·0.55        (never fully transparent or opaque)
//
// Monochrome mode replaces only the color with a fixed dark gray; alpha,
// size and weight stay as computed.
func styleFor(r, g, b float64, s Settings, scaledFont float64) style {
	in := intensity(applyContrast(luminance(r, g, b), s.Contrast))
	st := style{
		intensity: in,
		weight:    int(math.Round(300 + in*600)),
		size:      scaledFont * (0.85 + in*0.8),
		alpha:     0.45 + in*0.55,
	}
	if s.Monochrome {
		st.color = monochromeColor
	} else {
		st.color = Color{
			R: int(math.Round(r)),
			G: int(math.Round(g)),
			B: int(math.Round(b)),
		}
	}
	return st
}
