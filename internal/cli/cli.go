// Package cli implements the coalesce command-line interface.
//
// The command loads an image, splits it into flat-color clusters, merges
// small and similar clusters, and writes the simplified image as PNG.
// Settings come from an optional TOML file (--config) and are overridden by
// any flag given explicitly. --verbose (-v) enables debug logging, which
// includes merge progress.
package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/maax3v3/coalesce/internal/config"
	"github.com/maax3v3/coalesce/internal/pipeline"
)

// flags holds the raw command-line values before they are merged with the
// config file.
type flags struct {
	in, out    string
	configPath string
	deviation  float64
	minSize    int
	tolerance  float64
	maxColors  int
	outline    string
	verbose    bool
}

// Execute runs the coalesce CLI and returns an error if the run fails.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var f flags
	defaults := config.Default()

	root := &cobra.Command{
		Use:          "coalesce --in=drawing.png --out=simplified.png",
		Short:        "Merge small and similar color regions of an image",
		Long:         `coalesce splits an image into flat-color clusters, then absorbs noise-sized and similar-colored clusters into their neighbours so that fewer, cleaner regions remain.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if f.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			prog := newProgress(logger)
			sum, err := pipeline.Run(cmd.Context(), cfg, logger)
			if err != nil {
				printError(cmd.OutOrStdout(), "%v", err)
				return err
			}
			prog.done("Done")
			printSuccess(cmd.OutOrStdout(), "%s: %s clusters merged into %s regions, %s colors",
				StyleValue.Render(cfg.OutPath),
				StyleNumber.Render(fmt.Sprint(sum.Clusters)),
				StyleNumber.Render(fmt.Sprint(sum.Regions)),
				StyleNumber.Render(fmt.Sprint(sum.Colors)))
			return nil
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.in, "in", "", "path to input image (required; png, jpg, webp, bmp, tiff)")
	fl.StringVar(&f.out, "out", "", "path to generated output image (required, must be .png)")
	fl.StringVar(&f.configPath, "config", "", "TOML file with default settings")
	fl.Float64Var(&f.deviation, "deviation", defaults.Deviation, "baseline color distance under which neighbours merge")
	fl.IntVar(&f.minSize, "min-size", defaults.MinSize, "baseline area in pixels of a region worth keeping")
	fl.Float64Var(&f.tolerance, "tolerance", defaults.Tolerance, "segmentation tolerance percentage (0-100)")
	fl.IntVar(&f.maxColors, "max-colors", defaults.MaxColors, "maximum number of output colors (0 = unlimited)")
	fl.StringVar(&f.outline, "outline", defaults.Outline, "hex color of region outlines (e.g. #000); empty draws none")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")

	return root
}

// resolveConfig layers explicitly set flags over the config file (or the
// defaults) and validates the result.
func resolveConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("deviation") {
		cfg.Deviation = f.deviation
	}
	if changed("min-size") {
		cfg.MinSize = f.minSize
	}
	if changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if changed("max-colors") {
		cfg.MaxColors = f.maxColors
	}
	if changed("outline") {
		cfg.Outline = f.outline
	}

	if f.in == "" {
		return config.Config{}, fmt.Errorf("--in is required")
	}
	if f.out == "" {
		return config.Config{}, fmt.Errorf("--out is required")
	}
	if ext := strings.ToLower(filepath.Ext(f.out)); ext != ".png" {
		return config.Config{}, fmt.Errorf("--out must be a .png file, got %q", ext)
	}
	cfg.InPath = f.in
	cfg.OutPath = f.out

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
