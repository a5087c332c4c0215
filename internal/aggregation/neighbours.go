package aggregation

import (
	"image"
	"slices"
)

// dirs are the 4-connected offsets: up, down, left, right.
var dirs = [4]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// neighbours returns the distinct aggregates sharing an edge with id,
// ascending by ID. The sentinel and id itself are never included.
func (p *partition) neighbours(id ID) []ID {
	seen := make(map[ID]struct{})
	for _, px := range p.get(id).pixels {
		x, y := px%p.width, px/p.width
		for _, d := range dirs {
			n := p.owner(x+d.X, y+d.Y)
			if n == None || n == id {
				continue
			}
			seen[n] = struct{}{}
		}
	}

	list := make([]ID, 0, len(seen))
	for n := range seen {
		list = append(list, n)
	}
	slices.Sort(list)
	return list
}
