package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/maax3v3/coalesce/internal/config"
)

var (
	red    = color.RGBA{255, 0, 0, 255}
	green  = color.RGBA{0, 200, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	yellow = color.RGBA{255, 255, 0, 255}
	black  = color.RGBA{0, 0, 0, 255}
	cyan   = color.RGBA{0, 255, 255, 255}
)

// testImage draws four colored quadrants framed and split by black lines,
// with a single cyan speck inside the red quadrant at (50,50).
func testImage() *image.RGBA {
	w, h := 200, 200
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			switch {
			case x < 100 && y < 100:
				img.Set(x, y, red)
			case x >= 100 && y < 100:
				img.Set(x, y, green)
			case x < 100 && y >= 100:
				img.Set(x, y, blue)
			default:
				img.Set(x, y, yellow)
			}
		}
	}

	// Delimiter lines
	for y := 0; y < h; y++ {
		for dx := 0; dx < 3; dx++ {
			img.Set(99+dx, y, black)
		}
	}
	for x := 0; x < w; x++ {
		for dy := 0; dy < 3; dy++ {
			img.Set(x, 99+dy, black)
		}
	}
	for x := 0; x < w; x++ {
		for d := 0; d < 2; d++ {
			img.Set(x, d, black)
			img.Set(x, h-1-d, black)
		}
	}
	for y := 0; y < h; y++ {
		for d := 0; d < 2; d++ {
			img.Set(d, y, black)
			img.Set(w-1-d, y, black)
		}
	}

	img.Set(50, 50, cyan)
	return img
}

func createTestImage(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, testImage()); err != nil {
		t.Fatal(err)
	}
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestPipelineEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := config.Default()
	cfg.InPath = filepath.Join(tmpDir, "input.png")
	cfg.OutPath = filepath.Join(tmpDir, "output.png")

	createTestImage(t, cfg.InPath)

	sum, err := Run(context.Background(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	// frame, four quadrants and the speck
	if sum.Clusters != 6 {
		t.Errorf("clusters: got %d, want 6", sum.Clusters)
	}
	if sum.Regions != 5 || sum.Merges != 1 {
		t.Errorf("got %d regions after %d merges, want 5 after 1", sum.Regions, sum.Merges)
	}

	f, err := os.Open(cfg.OutPath)
	if err != nil {
		t.Fatalf("output file not found: %v", err)
	}
	defer f.Close()

	outImg, err := png.Decode(f)
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if outImg.Bounds().Dx() != 200 || outImg.Bounds().Dy() != 200 {
		t.Errorf("expected 200x200 output, got %v", outImg.Bounds())
	}

	// The speck is absorbed by the surrounding quadrant.
	r, g, b, _ := outImg.At(50, 50).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("speck pixel: got (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestProcess_MaxColors(t *testing.T) {
	cfg := config.Default()
	cfg.MaxColors = 2

	out, sum, err := Process(context.Background(), testImage(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if sum.Colors != 2 {
		t.Errorf("colors: got %d, want 2", sum.Colors)
	}

	distinct := make(map[color.RGBA]struct{})
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			distinct[out.RGBAAt(x, y)] = struct{}{}
		}
	}
	if len(distinct) > 2 {
		t.Errorf("output has %d colors, want at most 2", len(distinct))
	}
}

func TestProcess_Outline(t *testing.T) {
	cfg := config.Default()
	cfg.Outline = "#FFF"

	out, _, err := Process(context.Background(), testImage(), cfg, quietLogger())
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// (1,50) is the frame's last column before the red quadrant.
	if got := out.RGBAAt(1, 50); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("boundary pixel: got %+v, want white", got)
	}
	if got := out.RGBAAt(50, 50); got != red {
		t.Errorf("interior pixel: got %+v, want red", got)
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Process(ctx, testImage(), config.Default(), quietLogger())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestProcess_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MinSize = 0

	if _, _, err := Process(context.Background(), testImage(), cfg, quietLogger()); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestRun_MissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.InPath = filepath.Join(t.TempDir(), "missing.png")
	cfg.OutPath = filepath.Join(t.TempDir(), "out.png")

	if _, err := Run(context.Background(), cfg, quietLogger()); err == nil {
		t.Fatal("expected error for missing input")
	}
}
