package renderer

import (
	"image"
	"sync"

	"github.com/maax3v3/coalesce/internal/aggregation"
	"github.com/maax3v3/coalesce/internal/color"
	"github.com/maax3v3/coalesce/internal/palette"
)

// Config holds rendering configuration.
type Config struct {
	Outline      bool       // draw region boundaries
	OutlineColor color.RGBA // color of the boundary pixels
}

// DefaultConfig returns the default rendering configuration: flat regions,
// no outline.
func DefaultConfig() Config {
	return Config{
		OutlineColor: color.RGBA{R: 0, G: 0, B: 0, A: 255},
	}
}

// Render paints the merged regions onto a width x height image.
// When pm is non-nil, region i is painted with pm.ColorOf(i) instead of its
// own color. labels is the row-major pixel -> region ID index and is only
// read when cfg.Outline is set.
func Render(
	width, height int,
	regions []aggregation.Region,
	pm *palette.Map,
	labels []int,
	cfg Config,
) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))

	// Regions own disjoint pixels, so each can be painted independently.
	var wg sync.WaitGroup
	wg.Add(len(regions))
	for i := range regions {
		go func(idx int) {
			defer wg.Done()
			r := &regions[idx]
			c := r.Color
			if pm != nil {
				c = pm.ColorOf(idx)
			}
			fill := c.ToStdColor()
			for _, px := range r.Pixels {
				out.SetRGBA(px%width, px/width, fill)
			}
		}(i)
	}
	wg.Wait()

	if cfg.Outline {
		drawOutline(out, labels, width, height, cfg.OutlineColor)
	}

	return out
}

// drawOutline marks every pixel whose right or lower neighbour belongs to a
// different region, giving one-pixel boundaries between regions.
func drawOutline(img *image.RGBA, labels []int, width, height int, col color.RGBA) {
	c := col.ToStdColor()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			l := labels[y*width+x]
			if (x+1 < width && labels[y*width+x+1] != l) ||
				(y+1 < height && labels[(y+1)*width+x] != l) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
