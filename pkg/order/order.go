// Package order sequences the paths of one layer: brim, then walls per
// outline component under the outer/inner policy, then skin, fill, and
// support, each chained greedy nearest-neighbor from the nozzle's
// current position. It also places the seam on closed wall rings.
package order

import (
	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
	"github.com/kasynel/slicer/pkg/toolpath"
)

// Buckets is the synthesizer's unordered output for one layer.
type Buckets struct {
	Index   int
	Z       float64
	Brim    []*toolpath.Path   // already outside-in
	Walls   [][]*toolpath.Path // per outline component, outer ring first
	Skin    []*toolpath.Path
	Fill    []*toolpath.Path
	Support []*toolpath.Path
	Spiral  bool
}

// Arrange produces the final ordered layer. from is the nozzle position
// at layer start; the returned point is the position after the last
// path.
func Arrange(b *Buckets, cfg *config.Settings, from geom.Point) (*toolpath.Layer, geom.Point) {
	layer := &toolpath.Layer{Index: b.Index, Z: b.Z, Spiral: b.Spiral}
	cur := from

	add := func(p *toolpath.Path) {
		layer.Paths = append(layer.Paths, p)
		cur = p.End()
	}

	for _, p := range b.Brim {
		placeSeam(p)
		add(p)
	}

	for _, comp := range b.Walls {
		rings := comp
		if !cfg.OuterBeforeInner {
			rings = make([]*toolpath.Path, len(comp))
			for i, p := range comp {
				rings[len(comp)-1-i] = p
			}
		}
		for _, p := range rings {
			placeSeam(p)
			add(p)
		}
	}

	for _, p := range chainNearest(b.Skin, cur) {
		add(p)
	}
	for _, p := range chainNearest(b.Fill, cur) {
		add(p)
	}
	for _, p := range chainNearest(b.Support, cur) {
		add(p)
	}

	return layer, cur
}

// placeSeam selects the start vertex of a closed ring. The "back"
// policy picks the vertex with the greatest Y; "random" and "sharpest"
// reduce to "back" in this baseline.
func placeSeam(p *toolpath.Path) {
	if !p.Closed || len(p.Points) == 0 {
		return
	}
	best := 0
	for i, pt := range p.Points {
		if pt.Y > p.Points[best].Y {
			best = i
		}
	}
	p.StartIndex = best
}
