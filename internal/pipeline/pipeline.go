package pipeline

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maax3v3/coalesce/internal/aggregation"
	"github.com/maax3v3/coalesce/internal/cluster"
	"github.com/maax3v3/coalesce/internal/color"
	"github.com/maax3v3/coalesce/internal/config"
	"github.com/maax3v3/coalesce/internal/imaging"
	"github.com/maax3v3/coalesce/internal/palette"
	"github.com/maax3v3/coalesce/internal/renderer"
)

// Summary describes what a run did.
type Summary struct {
	Width, Height int
	Clusters      int // clusters found by segmentation
	Regions       int // regions left after merging
	Merges        int
	Colors        int // distinct colors in the output
	Elapsed       time.Duration
}

// Run executes the full pipeline: load, segment, merge, render, save.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger) (*Summary, error) {
	// Step 1: Load input image
	logger.Info("Loading image", "path", cfg.InPath)
	img, err := imaging.Load(cfg.InPath)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	logger.Info("Image loaded", "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	out, sum, err := Process(ctx, img, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Step 6: Save output
	logger.Info("Saving output", "path", cfg.OutPath)
	if err := imaging.SavePNG(cfg.OutPath, out); err != nil {
		return nil, fmt.Errorf("saving output: %w", err)
	}
	return sum, nil
}

// Process runs segmentation, merging and rendering on an in-memory image.
// ctx is checked between merge steps; a cancelled run returns ctx.Err().
func Process(ctx context.Context, img image.Image, cfg config.Config, logger *log.Logger) (*image.RGBA, *Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	start := time.Now()

	// Step 2: Segment into flat-color clusters
	logger.Info("Segmenting", "tolerance", cfg.Tolerance)
	clusters := cluster.Segment(img, cfg.Tolerance)
	logger.Info("Clusters found", "count", len(clusters.Clusters))

	// Step 3: Merge small and similar clusters
	logger.Info("Merging clusters", "deviation", cfg.Deviation, "min_size", cfg.MinSize)
	proc := aggregation.New()
	proc.Configure(cfg.Params())
	proc.Input(clusters)
	if err := drive(ctx, proc, logger); err != nil {
		return nil, nil, err
	}
	regions := proc.Regions()
	logger.Info("Merge complete", "regions", len(regions), "merges", proc.Merges())

	// Step 4: Reduce the palette if requested
	var pm *palette.Map
	colors := len(distinctColors(regions))
	if cfg.MaxColors > 0 {
		logger.Info("Reducing colors", "max", cfg.MaxColors)
		pm = reducePalette(regions, cfg.MaxColors)
		colors = len(pm.Entries)
	}
	logger.Info("Distinct colors", "count", colors)

	// Step 5: Render output image
	logger.Info("Rendering output")
	var out *image.RGBA
	rcfg := renderer.DefaultConfig()
	if col, ok := cfg.OutlineColor(); ok {
		rcfg.Outline = true
		rcfg.OutlineColor = col
	}
	if pm == nil && !rcfg.Outline {
		out = proc.Output()
	} else {
		out = renderer.Render(clusters.Width, clusters.Height, regions, pm, proc.Labels(), rcfg)
	}

	sum := &Summary{
		Width:    clusters.Width,
		Height:   clusters.Height,
		Clusters: len(clusters.Clusters),
		Regions:  len(regions),
		Merges:   proc.Merges(),
		Colors:   colors,
		Elapsed:  time.Since(start),
	}
	return out, sum, nil
}

// drive steps the processor to completion, checking for cancellation before
// every step and logging progress each time it crosses a 10% mark.
func drive(ctx context.Context, proc *aggregation.Processor, logger *log.Logger) error {
	lastReported := -1
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("merging interrupted at %d%%: %w", proc.Progress(), err)
		}
		if proc.Step() {
			return nil
		}
		if pct := proc.Progress(); pct/10 != lastReported {
			lastReported = pct / 10
			logger.Debug("Merging", "progress", pct, "merges", proc.Merges())
		}
	}
}

func reducePalette(regions []aggregation.Region, maxColors int) *palette.Map {
	colors := make([]color.RGBA, len(regions))
	weights := make([]int, len(regions))
	for i, r := range regions {
		colors[i] = r.Color
		weights[i] = len(r.Pixels)
	}
	return palette.Reduce(colors, weights, maxColors)
}

func distinctColors(regions []aggregation.Region) map[color.RGBA]struct{} {
	set := make(map[color.RGBA]struct{}, len(regions))
	for _, r := range regions {
		set[r.Color] = struct{}{}
	}
	return set
}
