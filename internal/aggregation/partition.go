package aggregation

import (
	"fmt"

	"github.com/maax3v3/coalesce/internal/color"
)

// ID identifies an aggregate slot. Slots are never reused or deleted.
type ID int

// None is the sentinel ID. It owns no pixel and stands in for neighbours
// outside the image.
const None ID = 0

// aggregate is a region under construction: the pixels it currently covers
// and the color of the cluster it started from.
type aggregate struct {
	pixels []int
	color  color.RGBA
}

func (a *aggregate) area() int {
	return len(a.pixels)
}

// partition owns the pixel -> aggregate index and the aggregates themselves.
// Every pixel is listed by exactly one aggregate and index agrees with the
// lists.
type partition struct {
	width, height int
	index         []ID
	aggregates    []aggregate // aggregates[0] is the sentinel
}

// newPartition seeds one aggregate per cluster of src, in source order,
// behind the empty sentinel slot.
func newPartition(src Source) *partition {
	w, h := src.Dimensions()
	n := src.NumClusters()
	p := &partition{
		width:      w,
		height:     h,
		index:      make([]ID, w*h),
		aggregates: make([]aggregate, 1, n+1),
	}
	for i := 0; i < n; i++ {
		pixels, residue := src.Cluster(i)
		id := ID(len(p.aggregates))
		p.aggregates = append(p.aggregates, aggregate{
			pixels: append([]int(nil), pixels...),
			color:  residue,
		})
		for _, px := range pixels {
			p.index[px] = id
		}
	}
	return p
}

// get returns the aggregate stored in slot id.
func (p *partition) get(id ID) *aggregate {
	return &p.aggregates[id]
}

// area returns the number of pixels aggregate id currently covers.
func (p *partition) area(id ID) int {
	return p.aggregates[id].area()
}

// last returns the highest assigned ID.
func (p *partition) last() ID {
	return ID(len(p.aggregates) - 1)
}

// owner returns the aggregate owning the pixel at (x, y), or None when the
// coordinates fall outside the grid.
func (p *partition) owner(x, y int) ID {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return None
	}
	return p.index[y*p.width+x]
}

// merge moves every pixel of src into dst. src is left empty and dst keeps
// its color.
func (p *partition) merge(src, dst ID) {
	if src == dst {
		panic(fmt.Sprintf("aggregation: merging aggregate %d into itself", src))
	}
	if src == None || dst == None {
		panic("aggregation: merging with the sentinel aggregate")
	}
	from := p.get(src)
	to := p.get(dst)
	for _, px := range from.pixels {
		p.index[px] = dst
	}
	to.pixels = append(to.pixels, from.pixels...)
	from.pixels = nil
}
