package color

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a color with 8-bit RGBA components.
type RGBA struct {
	R, G, B, A uint8
}

// FromStdColor converts a standard library color to RGBA.
func FromStdColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

// ToStdColor converts RGBA to a standard library color.
func (c RGBA) ToStdColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// ParseHex parses a hex color string like "#000", "#000000", "#FF00FF".
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r = r*16 + r
		g = g*16 + g
		b = b*16 + b
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	return RGBA{R: r, G: g, B: b, A: 255}, nil
}

// toColorful drops alpha; every metric in this package is computed on RGB only.
func (c RGBA) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// HSV is a color in hue/saturation/value form. H is in [0,1), S and V in [0,1].
type HSV struct {
	H, S, V float64
}

// ToHSV converts an RGBA color to normalized HSV.
func (c RGBA) ToHSV() HSV {
	h, s, v := c.toColorful().Hsv()
	h /= 360.0
	if h >= 1 {
		h = 0
	}
	return HSV{H: h, S: s, V: v}
}

// Hue, value and saturation weights of DistanceHSV.
const (
	hueWeight        = 1.5
	valueWeight      = 1.25
	saturationWeight = 0.75
)

// DistanceHSV scores the perceptual dissimilarity of two colors.
// Hue differences weigh the most and wrap around the color wheel, so a hue
// of 0.95 is as close to 0.05 as 0.15 is. The result is 0 for identical
// colors and stays within a few units for any pair.
func DistanceHSV(a, b RGBA) float64 {
	ha := a.ToHSV()
	hb := b.ToHSV()
	return hueWeight*HueDistance(ha.H, hb.H) +
		valueWeight*math.Abs(ha.V-hb.V) +
		saturationWeight*math.Abs(ha.S-hb.S)
}

// HueDistance returns the circular distance between two normalized hues.
func HueDistance(h1, h2 float64) float64 {
	d := math.Abs(h1 - h2)
	if d < 0.5 {
		return d
	}
	return 1.0 - d
}

// DistanceLAB computes the Euclidean distance in CIELAB space between two colors.
func DistanceLAB(a, b RGBA) float64 {
	return a.toColorful().DistanceLab(b.toColorful())
}

// DistanceRGB computes the Euclidean distance in RGB space between two colors.
func DistanceRGB(a, b RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// WeightedMean computes the weighted mean of a set of colors.
// weights[i] corresponds to colors[i]. If weights is nil, equal weights are used.
func WeightedMean(colors []RGBA, weights []int) RGBA {
	if len(colors) == 0 {
		return RGBA{}
	}
	var totalR, totalG, totalB, totalA float64
	var totalW float64
	for i, c := range colors {
		w := 1.0
		if weights != nil {
			w = float64(weights[i])
		}
		totalR += float64(c.R) * w
		totalG += float64(c.G) * w
		totalB += float64(c.B) * w
		totalA += float64(c.A) * w
		totalW += w
	}
	if totalW == 0 {
		return RGBA{}
	}
	return RGBA{
		R: uint8(math.Round(totalR / totalW)),
		G: uint8(math.Round(totalG / totalW)),
		B: uint8(math.Round(totalB / totalW)),
		A: uint8(math.Round(totalA / totalW)),
	}
}

// MaxRGBDistance is the maximum possible Euclidean distance in RGB space.
var MaxRGBDistance = math.Sqrt(255 * 255 * 3)
