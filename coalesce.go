// Package coalesce simplifies flat-color images by merging noise-sized and
// similar-colored regions into their neighbours, so that a later
// vectorization step produces fewer and cleaner shapes.
//
// Usage as a library:
//
//	img, _ := coalesce.LoadImage("drawing.png")
//	result, _ := coalesce.Merge(img, coalesce.DefaultOptions())
//	coalesce.SavePNG("simplified.png", result)
//
// Or use the file-based convenience:
//
//	err := coalesce.MergeFile("drawing.png", "simplified.png", coalesce.DefaultOptions())
package coalesce

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/maax3v3/coalesce/internal/config"
	"github.com/maax3v3/coalesce/internal/imaging"
	"github.com/maax3v3/coalesce/internal/pipeline"
)

// Options configures the merge.
type Options struct {
	// Deviation is the baseline color distance under which neighbouring
	// regions are considered similar. Smaller regions tolerate up to twice
	// this value; large ones need less than a quarter of it.
	// Default: 1.0.
	Deviation float64

	// MinSize is the baseline area, in pixels, of a region worth keeping.
	// Regions under MinSize/16 are always merged.
	// Default: 4096.
	MinSize int

	// Tolerance is the percentage (0–100) of color difference under which
	// adjacent pixels start in the same region.
	// Default: 0 (exact colors).
	Tolerance float64

	// MaxColors caps the number of distinct output colors. 0 means
	// unlimited.
	// Default: 0.
	MaxColors int

	// Outline is a hex color ("#000") used to draw region boundaries.
	// Empty draws none.
	Outline string

	// Logger receives progress messages. If nil, nothing is logged.
	Logger *log.Logger
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	d := config.Default()
	return Options{
		Deviation: d.Deviation,
		MinSize:   d.MinSize,
		Tolerance: d.Tolerance,
		MaxColors: d.MaxColors,
	}
}

// LoadImage reads an image from disk. Supports PNG, JPEG, WEBP, BMP and TIFF.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}

// Merge segments img into flat-color regions, merges small and similar ones
// and returns the simplified image.
func Merge(img image.Image, opts Options) (*image.RGBA, error) {
	return MergeContext(context.Background(), img, opts)
}

// MergeContext is Merge with cancellation: ctx is checked between merge
// steps.
func MergeContext(ctx context.Context, img image.Image, opts Options) (*image.RGBA, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	out, _, err := pipeline.Process(ctx, img, opts.config(), opts.logger())
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MergeFile is a convenience that loads an image from inPath, merges it,
// and saves the result as PNG to outPath.
func MergeFile(inPath, outPath string, opts Options) error {
	img, err := LoadImage(inPath)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	result, err := Merge(img, opts)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}

	if err := SavePNG(outPath, result); err != nil {
		return fmt.Errorf("saving output: %w", err)
	}

	return nil
}

func (o Options) config() config.Config {
	return config.Config{
		Deviation: o.Deviation,
		MinSize:   o.MinSize,
		Tolerance: o.Tolerance,
		MaxColors: o.MaxColors,
		Outline:   o.Outline,
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}
