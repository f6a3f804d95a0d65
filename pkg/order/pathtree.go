package order

import (
	"math"

	"github.com/asim/quadtree"

	"github.com/kasynel/slicer/pkg/geom"
	"github.com/kasynel/slicer/pkg/toolpath"
)

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// pathTree indexes path endpoints in a quadtree so the orderer can
// chain paths greedy nearest-neighbor without quadratic scans.
type pathTree struct {
	tree   *quadtree.QuadTree
	width  float64
	height float64
}

func newPathTree(minX, minY, maxX, maxY float64) *pathTree {
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2
	halfWidth := maxX - midX
	halfHeight := maxY - midY

	// Margin so endpoints on the bounds are never dropped.
	halfWidth += 10
	halfHeight += 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &pathTree{
		tree:   quadtree.New(aabb, 0, nil),
		width:  halfWidth * 2,
		height: halfHeight * 2,
	}
}

func (t *pathTree) endpoints(p *toolpath.Path) []geom.Point {
	if p.Closed {
		return []geom.Point{p.Start()}
	}
	return []geom.Point{p.Points[0], p.Points[len(p.Points)-1]}
}

func (t *pathTree) add(p *toolpath.Path) {
	for _, pt := range t.endpoints(p) {
		point := quadtree.NewPoint(pt.X, pt.Y, nil)
		existing := t.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(existing) > 0 {
			ex, ey := existing[0].Coordinates()
			if ex == pt.X && ey == pt.Y {
				paths := existing[0].Data().(map[*toolpath.Path]struct{})
				paths[p] = struct{}{}
				continue
			}
		}
		paths := map[*toolpath.Path]struct{}{p: {}}
		t.tree.Insert(quadtree.NewPoint(pt.X, pt.Y, paths))
	}
}

func (t *pathTree) remove(p *toolpath.Path) {
	for _, pt := range t.endpoints(p) {
		point := quadtree.NewPoint(pt.X, pt.Y, nil)
		found := t.tree.KNearest(quadtree.NewAABB(point, zeroPoint), 1, nil)
		if len(found) == 0 {
			continue
		}
		fx, fy := found[0].Coordinates()
		if fx != pt.X || fy != pt.Y {
			continue
		}
		paths := found[0].Data().(map[*toolpath.Path]struct{})
		delete(paths, p)
		if len(paths) == 0 {
			t.tree.Remove(found[0])
		}
	}
}

// nearest returns the unchained path whose endpoint is closest to
// (x, y), or nil when the tree is exhausted.
func (t *pathTree) nearest(x, y float64) *toolpath.Path {
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(x, y, nil),
		quadtree.NewPoint(t.width, t.height, nil),
	)
	points := t.tree.KNearest(aabb, 32, nil)

	var best *toolpath.Path
	bestDist := math.Inf(1)
	for _, point := range points {
		for p := range point.Data().(map[*toolpath.Path]struct{}) {
			d := endpointDistance(x, y, p)
			if d < bestDist {
				bestDist = d
				best = p
			}
		}
	}
	return best
}

func endpointDistance(x, y float64, p *toolpath.Path) float64 {
	from := geom.Point{X: x, Y: y}
	d := p.Points[0].Sub(from).Length()
	if !p.Closed {
		if back := p.Points[len(p.Points)-1].Sub(from).Length(); back < d {
			return back
		}
	}
	return d
}

// chainNearest orders paths greedy nearest-neighbor starting from the
// given position, reversing open paths whose far end is closer.
func chainNearest(paths []*toolpath.Path, from geom.Point) []*toolpath.Path {
	if len(paths) <= 1 {
		return paths
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range paths {
		for _, pt := range p.Points {
			minX = math.Min(minX, pt.X)
			minY = math.Min(minY, pt.Y)
			maxX = math.Max(maxX, pt.X)
			maxY = math.Max(maxY, pt.Y)
		}
	}

	tree := newPathTree(minX, minY, maxX, maxY)
	for _, p := range paths {
		tree.add(p)
	}

	out := make([]*toolpath.Path, 0, len(paths))
	cur := from
	for range paths {
		next := tree.nearest(cur.X, cur.Y)
		if next == nil {
			break
		}
		tree.remove(next)
		if !next.Closed {
			startD := next.Points[0].Sub(cur).Length()
			endD := next.Points[len(next.Points)-1].Sub(cur).Length()
			if endD < startD {
				next = next.Reversed()
			}
		}
		out = append(out, next)
		cur = next.End()
	}
	return out
}
