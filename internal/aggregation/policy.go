package aggregation

import (
	"sort"

	"github.com/maax3v3/coalesce/internal/color"
)

// scoreScale turns a color distance into an integer score so that near-equal
// distances sort identically on every platform.
const scoreScale = 10000

// candidate is a neighbour considered as a merge destination.
type candidate struct {
	id    ID
	score int
}

// score is the truncated, scaled color distance between two aggregates.
func score(a, b *aggregate) int {
	return int(scoreScale * color.DistanceHSV(a.color, b.color))
}

// rank scores every neighbour of id against it and orders them from most to
// least similar. Equal scores keep ascending ID order.
func (p *partition) rank(id ID) []candidate {
	self := p.get(id)
	ids := p.neighbours(id)
	votes := make([]candidate, len(ids))
	for i, n := range ids {
		votes[i] = candidate{id: n, score: score(self, p.get(n))}
	}
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].score < votes[j].score
	})
	return votes
}

// shouldMerge applies the size/similarity tiers. Smaller regions tolerate
// larger color differences; tiny fragments always go and near-identical
// colors always join.
func (p Params) shouldMerge(area int, diff float64) bool {
	d, m := p.Deviation, p.MinSize
	switch {
	case area < m/16:
		return true
	case diff < d && area < m:
		return true
	case diff < 2*d && area < m/4:
		return true
	case diff < d/2 && area < 4*m:
		return true
	case diff < d/4:
		return true
	}
	return false
}

// visit runs the merge policy for one aggregate. It returns the destination
// and true when the aggregate was merged away.
func (p *partition) visit(id ID, params Params) (ID, bool) {
	area := p.area(id)
	if area == 0 {
		return None, false
	}
	votes := p.rank(id)
	if len(votes) == 0 {
		return None, false
	}
	best := votes[0]
	diff := float64(best.score) / scoreScale
	if !params.shouldMerge(area, diff) {
		return None, false
	}
	p.merge(id, best.id)
	return best.id, true
}
