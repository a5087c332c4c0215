// Package palette reduces the colors of a merged partition to a bounded set.
package palette

import (
	"math"

	"github.com/maax3v3/coalesce/internal/color"
)

// Entry is one color of a reduced palette.
type Entry struct {
	Number int
	Color  color.RGBA
	Weight int // total pixel area using this entry
}

// Map maps each input color slot to a palette entry.
type Map struct {
	Entries []Entry // the distinct palette entries
	Index   []int   // input slot -> index into Entries
}

// ColorOf returns the palette color assigned to input slot i.
func (m *Map) ColorOf(i int) color.RGBA {
	return m.Entries[m.Index[i]].Color
}

// Reduce takes per-region colors and reduces them to at most maxColors
// distinct colors by iteratively merging the two closest colors (in CIELAB
// space). weights[i] is the pixel area of region i and steers the mean of a
// merged entry towards its larger members; nil weighs every region equally.
// If maxColors is 0, only exact duplicates are folded together.
func Reduce(colors []color.RGBA, weights []int, maxColors int) *Map {
	n := len(colors)
	if n == 0 {
		return &Map{}
	}

	type group struct {
		color   color.RGBA
		members []int
	}

	weightOf := func(i int) int {
		if weights == nil {
			return 1
		}
		return weights[i]
	}

	// Regions that already share a color start in the same group.
	groupIndex := make(map[color.RGBA]int)
	var groups []group
	for i, c := range colors {
		if idx, ok := groupIndex[c]; ok {
			groups[idx].members = append(groups[idx].members, i)
			continue
		}
		groupIndex[c] = len(groups)
		groups = append(groups, group{color: c, members: []int{i}})
	}

	for maxColors > 0 && len(groups) > maxColors {
		bestDist := math.MaxFloat64
		bestI, bestJ := 0, 1
		for i := 0; i < len(groups); i++ {
			for j := i + 1; j < len(groups); j++ {
				d := color.DistanceLAB(groups[i].color, groups[j].color)
				if d < bestDist {
					bestDist = d
					bestI = i
					bestJ = j
				}
			}
		}

		merged := append(groups[bestI].members, groups[bestJ].members...)
		memberColors := make([]color.RGBA, len(merged))
		memberWeights := make([]int, len(merged))
		for k, m := range merged {
			memberColors[k] = colors[m]
			memberWeights[k] = weightOf(m)
		}
		groups[bestI] = group{
			color:   color.WeightedMean(memberColors, memberWeights),
			members: merged,
		}
		groups = append(groups[:bestJ], groups[bestJ+1:]...)
	}

	pm := &Map{
		Entries: make([]Entry, len(groups)),
		Index:   make([]int, n),
	}
	for i, g := range groups {
		e := Entry{Number: i + 1, Color: g.color}
		for _, m := range g.members {
			pm.Index[m] = i
			e.Weight += weightOf(m)
		}
		pm.Entries[i] = e
	}
	return pm
}
