// Package cluster partitions an image into flat-color clusters, the input
// consumed by the aggregation stage.
package cluster

import (
	"image"
	"sync"

	"github.com/maax3v3/coalesce/internal/color"
)

// Cluster is a 4-connected region of similarly colored pixels.
type Cluster struct {
	ID     int
	Pixels []int      // row-major pixel indices: y*Width + x
	Color  color.RGBA // mean color of the member pixels
}

// Map is a complete partition of an image into clusters.
type Map struct {
	Width, Height int
	Labels        []int // pixel index -> cluster ID
	Clusters      []Cluster
}

// Dimensions returns the grid size of the partition.
func (m *Map) Dimensions() (width, height int) {
	return m.Width, m.Height
}

// NumClusters returns the number of clusters.
func (m *Map) NumClusters() int {
	return len(m.Clusters)
}

// Cluster returns the member pixels and residue color of cluster i.
func (m *Map) Cluster(i int) ([]int, color.RGBA) {
	c := &m.Clusters[i]
	return c.Pixels, c.Color
}

// Segment flood-fills the image into clusters. A pixel joins the cluster
// being grown when its RGB distance to the cluster's seed pixel is within
// tolerancePct percent of the maximum RGB distance. With a tolerance of 0
// every cluster is a connected region of one exact color.
func Segment(img image.Image, tolerancePct float64) *Map {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := Pixels(img)
	threshold := (tolerancePct / 100.0) * color.MaxRGBDistance

	labels := make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}

	var clusters []Cluster
	for start := range labels {
		if labels[start] != -1 {
			continue
		}
		id := len(clusters)
		seed := buf[start]
		c := Cluster{ID: id}
		queue := []int{start}
		labels[start] = id

		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			c.Pixels = append(c.Pixels, p)

			x, y := p%w, p/w
			for _, d := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if labels[ni] != -1 {
					continue
				}
				if color.DistanceRGB(buf[ni], seed) > threshold {
					continue
				}
				labels[ni] = id
				queue = append(queue, ni)
			}
		}

		clusters = append(clusters, c)
	}

	computeColors(clusters, buf)

	return &Map{
		Width:    w,
		Height:   h,
		Labels:   labels,
		Clusters: clusters,
	}
}

// Pixels flattens an image into a row-major color buffer.
func Pixels(img image.Image) []color.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	buf := make([]color.RGBA, w*h)
	parallelRows(h, func(sy, ey int) {
		for y := sy; y < ey; y++ {
			for x := 0; x < w; x++ {
				buf[y*w+x] = color.FromStdColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			}
		}
	})
	return buf
}

// computeColors sets each cluster's color to the mean of its pixels.
func computeColors(clusters []Cluster, buf []color.RGBA) {
	work := make(chan int, len(clusters))
	for i := range clusters {
		work <- i
	}
	close(work)

	numWorkers := 8
	if len(clusters) < numWorkers {
		numWorkers = len(clusters)
	}

	// Each worker writes only the clusters it pulled from the queue.
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				c := &clusters[i]
				colors := make([]color.RGBA, len(c.Pixels))
				for j, p := range c.Pixels {
					colors[j] = buf[p]
				}
				c.Color = color.WeightedMean(colors, nil)
			}
		}()
	}
	wg.Wait()
}

// parallelRows runs fn across row bands using multiple goroutines.
func parallelRows(h int, fn func(startY, endY int)) {
	numWorkers := 8
	rowsPerWorker := (h + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		startY := worker * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		if startY >= h {
			break
		}
		wg.Add(1)
		go func(sy, ey int) {
			defer wg.Done()
			fn(sy, ey)
		}(startY, endY)
	}
	wg.Wait()
}
