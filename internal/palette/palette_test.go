package palette

import (
	"testing"

	"github.com/maax3v3/coalesce/internal/color"
)

func TestReduce_Empty(t *testing.T) {
	cm := Reduce(nil, nil, 5)
	if len(cm.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(cm.Entries))
	}
	if len(cm.Index) != 0 {
		t.Errorf("expected 0 index entries, got %d", len(cm.Index))
	}
}

func TestReduce_NoReduction(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
	}
	cm := Reduce(colors, nil, 0) // 0 = only fold duplicates

	if len(cm.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(cm.Entries))
	}
	if len(cm.Index) != 3 {
		t.Fatalf("expected 3 index entries, got %d", len(cm.Index))
	}

	// Each region should map to a distinct entry
	seen := make(map[int]bool)
	for _, idx := range cm.Index {
		seen[idx] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct entry indices, got %d", len(seen))
	}

	// Numbers should be 1-based
	for _, e := range cm.Entries {
		if e.Number < 1 || e.Number > 3 {
			t.Errorf("unexpected number %d", e.Number)
		}
	}
}

func TestReduce_DuplicateColors(t *testing.T) {
	red := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	colors := []color.RGBA{red, red, blue, red}

	cm := Reduce(colors, nil, 0)

	// 2 distinct input colors → 2 entries
	if len(cm.Entries) != 2 {
		t.Fatalf("expected 2 entries for 2 distinct colors, got %d", len(cm.Entries))
	}

	// All red regions should map to the same entry
	if cm.Index[0] != cm.Index[1] || cm.Index[0] != cm.Index[3] {
		t.Error("duplicate red regions should map to the same entry")
	}
	// Blue region should map to a different entry
	if cm.Index[2] == cm.Index[0] {
		t.Error("blue region should map to a different entry than red")
	}
}

func TestReduce_MergeToMaxColors(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255}, // red
		{R: 250, G: 0, B: 0, A: 255}, // near-red
		{R: 0, G: 0, B: 255, A: 255}, // blue
		{R: 0, G: 0, B: 250, A: 255}, // near-blue
		{R: 0, G: 255, B: 0, A: 255}, // green
	}

	cm := Reduce(colors, nil, 3)

	if len(cm.Entries) != 3 {
		t.Fatalf("expected 3 entries after reduction, got %d", len(cm.Entries))
	}
	if len(cm.Index) != 5 {
		t.Fatalf("expected 5 index entries, got %d", len(cm.Index))
	}

	// Near-red and red should merge; near-blue and blue should merge
	if cm.Index[0] != cm.Index[1] {
		t.Error("red and near-red should be merged into the same group")
	}
	if cm.Index[2] != cm.Index[3] {
		t.Error("blue and near-blue should be merged into the same group")
	}
}

func TestReduce_MergeToOne(t *testing.T) {
	colors := []color.RGBA{
		{R: 100, G: 0, B: 0, A: 255},
		{R: 0, G: 100, B: 0, A: 255},
		{R: 0, G: 0, B: 100, A: 255},
	}

	cm := Reduce(colors, nil, 1)

	if len(cm.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cm.Entries))
	}

	// All regions must map to the single entry
	for i, idx := range cm.Index {
		if idx != 0 {
			t.Errorf("region %d maps to %d, want 0", i, idx)
		}
	}
}

func TestReduce_MaxColorsExceedsDistinct(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
	}

	cm := Reduce(colors, nil, 10)

	// Should not merge anything since 2 < 10
	if len(cm.Entries) != 2 {
		t.Errorf("expected 2 entries (no merging needed), got %d", len(cm.Entries))
	}
}

func TestReduce_SingleRegion(t *testing.T) {
	colors := []color.RGBA{{R: 42, G: 42, B: 42, A: 255}}
	cm := Reduce(colors, nil, 5)

	if len(cm.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cm.Entries))
	}
	if cm.Entries[0].Color != colors[0] {
		t.Errorf("color mismatch: got %+v, want %+v", cm.Entries[0].Color, colors[0])
	}
	if cm.Entries[0].Number != 1 {
		t.Errorf("number: got %d, want 1", cm.Entries[0].Number)
	}
}

func TestReduce_NumbersAreOneBased(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
	}
	cm := Reduce(colors, nil, 0)

	numbers := make(map[int]bool)
	for _, e := range cm.Entries {
		numbers[e.Number] = true
	}
	for i := 1; i <= len(cm.Entries); i++ {
		if !numbers[i] {
			t.Errorf("missing expected number %d", i)
		}
	}
}

func TestReduce_WeightsSteerMean(t *testing.T) {
	colors := []color.RGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 200, G: 200, B: 200, A: 255},
	}
	cm := Reduce(colors, []int{1, 3}, 1)

	if len(cm.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(cm.Entries))
	}
	got := cm.Entries[0].Color
	if got.R != 150 || got.G != 150 || got.B != 150 {
		t.Errorf("got %+v, want {150,150,150,255}", got)
	}
	if cm.Entries[0].Weight != 4 {
		t.Errorf("weight: got %d, want 4", cm.Entries[0].Weight)
	}
}

func TestReduce_DuplicateWeightsAccumulate(t *testing.T) {
	red := color.RGBA{R: 255, G: 0, B: 0, A: 255}
	blue := color.RGBA{R: 0, G: 0, B: 255, A: 255}
	cm := Reduce([]color.RGBA{red, blue, red}, []int{10, 5, 7}, 0)

	e := cm.Entries[cm.Index[0]]
	if e.Weight != 17 {
		t.Errorf("red weight: got %d, want 17", e.Weight)
	}
	if cm.ColorOf(2) != red {
		t.Errorf("ColorOf(2): got %+v, want red", cm.ColorOf(2))
	}
	if cm.ColorOf(1) != blue {
		t.Errorf("ColorOf(1): got %+v, want blue", cm.ColorOf(1))
	}
}
