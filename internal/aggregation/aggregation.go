// Package aggregation coalesces the clusters of a segmented image into larger
// aggregates. Small clusters are absorbed by their most similar neighbour and
// similar-colored neighbours are joined, so fewer and cleaner shapes remain.
//
// The work is incremental: after Input, each call to Step visits exactly one
// aggregate and returns, leaving the caller free to report progress or stop
// between calls.
//
//	p := aggregation.New()
//	p.Configure(aggregation.DefaultParams())
//	p.Input(clusters)
//	for !p.Step() {
//	}
//	img := p.Output()
package aggregation

import (
	"image"

	"github.com/maax3v3/coalesce/internal/color"
)

// Source is a flat-color partition of an image, as produced by a clustering
// stage. Cluster pixel lists must be disjoint and together cover every pixel
// index in [0, width*height).
type Source interface {
	Dimensions() (width, height int)
	NumClusters() int
	Cluster(i int) (pixels []int, residue color.RGBA)
}

// Params configures the merge policy.
type Params struct {
	// Deviation is the baseline color distance below which neighbours are
	// considered similar. Default: 1.0.
	Deviation float64

	// MinSize is the baseline area, in pixels, from which an aggregate is
	// large enough to be kept on its own. Default: 4096.
	MinSize int
}

// DefaultParams returns Params with the default thresholds.
func DefaultParams() Params {
	return Params{
		Deviation: 1.0,
		MinSize:   64 * 64,
	}
}

// Region is a non-empty aggregate of the current partition.
type Region struct {
	ID     ID
	Color  color.RGBA
	Pixels []int
}

// Processor runs the merge over one partition. It is not safe for
// concurrent use.
type Processor struct {
	params  Params
	part    *partition
	cursor  ID
	started bool
	merges  int
}

// New returns a Processor configured with DefaultParams.
func New() *Processor {
	return &Processor{params: DefaultParams()}
}

// Configure sets the merge thresholds. It must be called before Input;
// reconfiguring a processor that already holds a partition panics.
func (p *Processor) Configure(params Params) {
	if p.started {
		panic("aggregation: processor cannot be reconfigured after input")
	}
	p.params = params
}

// Params returns the active thresholds.
func (p *Processor) Params() Params {
	return p.params
}

// Input builds the partition from src, one aggregate per cluster. It may be
// called once per Processor.
func (p *Processor) Input(src Source) {
	if p.started {
		panic("aggregation: input already supplied")
	}
	p.started = true
	p.part = newPartition(src)
	p.cursor = None + 1
}

// Step visits the aggregate under the cursor and advances it. It returns true
// once every aggregate has been visited; further calls return true and
// change nothing.
func (p *Processor) Step() bool {
	if p.part == nil {
		panic("aggregation: Step called before Input")
	}
	if p.cursor > p.part.last() {
		return true
	}
	if _, merged := p.part.visit(p.cursor, p.params); merged {
		p.merges++
	}
	p.cursor++
	return false
}

// Done reports whether every aggregate has been visited.
func (p *Processor) Done() bool {
	return p.part != nil && p.cursor > p.part.last()
}

// Progress returns the share of aggregates visited so far, from 0 to 100.
func (p *Processor) Progress() int {
	if p.part == nil {
		return 0
	}
	total := int(p.part.last())
	if total == 0 {
		return 100
	}
	visited := int(p.cursor) - 1
	if visited > total {
		visited = total
	}
	return visited * 100 / total
}

// Merges returns how many aggregates have been merged away so far.
func (p *Processor) Merges() int {
	return p.merges
}

// Remaining counts the aggregates that still own pixels.
func (p *Processor) Remaining() int {
	if p.part == nil {
		return 0
	}
	n := 0
	for id := None + 1; id <= p.part.last(); id++ {
		if p.part.area(id) > 0 {
			n++
		}
	}
	return n
}

// Regions lists the non-empty aggregates in ascending ID order. The pixel
// slices are shared with the processor and must not be modified.
func (p *Processor) Regions() []Region {
	if p.part == nil {
		return nil
	}
	var regions []Region
	for id := None + 1; id <= p.part.last(); id++ {
		a := p.part.get(id)
		if a.area() == 0 {
			continue
		}
		regions = append(regions, Region{ID: id, Color: a.color, Pixels: a.pixels})
	}
	return regions
}

// Labels returns a copy of the pixel -> aggregate index, row-major.
func (p *Processor) Labels() []int {
	if p.part == nil {
		return nil
	}
	labels := make([]int, len(p.part.index))
	for i, id := range p.part.index {
		labels[i] = int(id)
	}
	return labels
}

// Output paints every remaining aggregate with its color. It must only be
// called once Step has reported completion.
func (p *Processor) Output() *image.RGBA {
	if !p.Done() {
		panic("aggregation: Output called before the merge completed")
	}
	w, h := p.part.width, p.part.height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for id := None + 1; id <= p.part.last(); id++ {
		a := p.part.get(id)
		c := a.color.ToStdColor()
		for _, px := range a.pixels {
			img.SetRGBA(px%w, px/w, c)
		}
	}
	return img
}
