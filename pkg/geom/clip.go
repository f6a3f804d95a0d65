package geom

import (
	"fmt"
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// Polygon operations are performed in fixed point. One clipper unit is
// one micron; slicing geometry lives in millimeters.
const clipperScale = 1000.0

// artifactArea is the area (mm²) below which a result ring is treated
// as numeric noise and dropped.
const artifactArea = 1e-6

func toClipperPoint(pt Point) *clipper.IntPoint {
	return &clipper.IntPoint{
		X: clipper.CInt(math.Round(pt.X * clipperScale)),
		Y: clipper.CInt(math.Round(pt.Y * clipperScale)),
	}
}

func toClipperPath(pts []Point) clipper.Path {
	path := make(clipper.Path, 0, len(pts))
	for _, pt := range pts {
		path = append(path, toClipperPoint(pt))
	}
	return path
}

func (s PolygonSet) clipperPaths() clipper.Paths {
	paths := make(clipper.Paths, 0, len(s.Rings))
	for _, r := range s.Rings {
		paths = append(paths, toClipperPath(r))
	}
	return paths
}

func fromClipperPath(path clipper.Path) Ring {
	ring := make(Ring, 0, len(path))
	for _, pt := range path {
		ring = append(ring, Point{
			X: float64(pt.X) / clipperScale,
			Y: float64(pt.Y) / clipperScale,
		})
	}
	return ring
}

func fromClipperPaths(paths clipper.Paths) PolygonSet {
	rings := make([]Ring, 0, len(paths))
	for _, path := range paths {
		r := fromClipperPath(path)
		if math.Abs(r.SignedArea()) < artifactArea {
			continue
		}
		rings = append(rings, r)
	}
	return NewPolygonSet(rings)
}

func (s PolygonSet) boolean(op clipper.ClipType, other PolygonSet) (PolygonSet, error) {
	if s.IsEmpty() && other.IsEmpty() {
		return PolygonSet{}, nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(s.clipperPaths(), clipper.PtSubject, true)
	c.AddPaths(other.clipperPaths(), clipper.PtClip, true)
	solution, ok := c.Execute1(op, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return PolygonSet{}, fmt.Errorf("polygon boolean op %v failed", op)
	}
	return fromClipperPaths(solution), nil
}

// Union returns the union of the two sets.
func (s PolygonSet) Union(other PolygonSet) (PolygonSet, error) {
	return s.boolean(clipper.CtUnion, other)
}

// Difference returns s minus other.
func (s PolygonSet) Difference(other PolygonSet) (PolygonSet, error) {
	if other.IsEmpty() {
		return s, nil
	}
	return s.boolean(clipper.CtDifference, other)
}

// Intersect returns the intersection of the two sets.
func (s PolygonSet) Intersect(other PolygonSet) (PolygonSet, error) {
	if s.IsEmpty() || other.IsEmpty() {
		return PolygonSet{}, nil
	}
	return s.boolean(clipper.CtIntersection, other)
}

// Offset insets (delta < 0) or dilates (delta > 0) the set boundary by
// |delta| millimeters using miter joins. An inset that consumes the
// geometry entirely returns an empty set, not an error.
func (s PolygonSet) Offset(delta float64) PolygonSet {
	if s.IsEmpty() {
		return PolygonSet{}
	}
	o := clipper.NewClipperOffset()
	o.MiterLimit = 2
	o.AddPaths(s.clipperPaths(), clipper.JtMiter, clipper.EtClosedPolygon)
	solution := o.Execute(delta * clipperScale)
	return fromClipperPaths(solution)
}

// ClipLines clips the open polylines against the filled region of the
// set and returns the surviving pieces.
func (s PolygonSet) ClipLines(lines []Polyline) ([]Polyline, error) {
	if s.IsEmpty() || len(lines) == 0 {
		return nil, nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		c.AddPath(toClipperPath(line), clipper.PtSubject, false)
	}
	c.AddPaths(s.clipperPaths(), clipper.PtClip, true)
	tree, ok := c.Execute2(clipper.CtIntersection, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil, fmt.Errorf("open path clip failed")
	}
	var out []Polyline
	for _, path := range c.OpenPathsFromPolyTree(tree) {
		if len(path) < 2 {
			continue
		}
		line := make(Polyline, 0, len(path))
		for _, pt := range path {
			line = append(line, Point{
				X: float64(pt.X) / clipperScale,
				Y: float64(pt.Y) / clipperScale,
			})
		}
		out = append(out, line)
	}
	return out, nil
}

// UnionAll unions a list of sets into one.
func UnionAll(sets []PolygonSet) (PolygonSet, error) {
	var acc PolygonSet
	for _, s := range sets {
		var err error
		acc, err = acc.Union(s)
		if err != nil {
			return PolygonSet{}, err
		}
	}
	return acc, nil
}
