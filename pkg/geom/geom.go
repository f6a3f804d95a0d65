// Package geom provides the 2D polygon machinery the slicing pipeline is
// built on: polygon sets with holes in a flat ring/parent representation,
// boolean and offset operations, and the segment stitcher that assembles
// plane-intersection segments into closed outlines.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Point is a 2D coordinate in millimeters.
type Point = v2.Vec

// Polyline is an open sequence of points.
type Polyline []Point

// Ring is a closed sequence of points. The closing edge from the last
// point back to the first is implicit; rings never repeat their first
// point.
type Ring []Point

// PolygonSet is a set of polygons with holes in flat form: a list of
// rings plus a parent index per ring. Exterior rings have Parent -1 and
// wind counter-clockwise; hole rings point at their enclosing exterior
// and wind clockwise.
type PolygonSet struct {
	Rings   []Ring
	Parents []int
}

// Segment is a single 2D line segment.
type Segment struct {
	A, B Point
}

// Length returns the total length of the polyline.
func (p Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i].Sub(p[i-1]).Length()
	}
	return total
}

// SignedArea returns the signed area of the ring: positive for
// counter-clockwise winding, negative for clockwise.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	sum := 0.0
	for i := range r {
		j := (i + 1) % len(r)
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Perimeter returns the closed length of the ring, including the
// implicit closing edge.
func (r Ring) Perimeter() float64 {
	if len(r) < 2 {
		return 0
	}
	total := 0.0
	for i := range r {
		j := (i + 1) % len(r)
		total += r[j].Sub(r[i]).Length()
	}
	return total
}

// Contains reports whether the point lies inside the ring, using
// even-odd ray crossing. Points exactly on the boundary are not
// guaranteed either way.
func (r Ring) Contains(pt Point) bool {
	inside := false
	for i := range r {
		j := (i + 1) % len(r)
		a, b := r[i], r[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Reversed returns a copy of the ring with opposite winding.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, pt := range r {
		out[len(r)-1-i] = pt
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the ring.
func (r Ring) Bounds() (min, max Point) {
	min = Point{X: math.Inf(1), Y: math.Inf(1)}
	max = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, pt := range r {
		min.X = math.Min(min.X, pt.X)
		min.Y = math.Min(min.Y, pt.Y)
		max.X = math.Max(max.X, pt.X)
		max.Y = math.Max(max.Y, pt.Y)
	}
	return min, max
}

// IsEmpty reports whether the set contains no rings.
func (s PolygonSet) IsEmpty() bool {
	return len(s.Rings) == 0
}

// Area returns the total enclosed area: exterior areas minus hole areas.
func (s PolygonSet) Area() float64 {
	total := 0.0
	for _, r := range s.Rings {
		total += r.SignedArea()
	}
	return total
}

// Bounds returns the axis-aligned bounding box over all rings.
func (s PolygonSet) Bounds() (min, max Point) {
	min = Point{X: math.Inf(1), Y: math.Inf(1)}
	max = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, r := range s.Rings {
		rmin, rmax := r.Bounds()
		min.X = math.Min(min.X, rmin.X)
		min.Y = math.Min(min.Y, rmin.Y)
		max.X = math.Max(max.X, rmax.X)
		max.Y = math.Max(max.Y, rmax.Y)
	}
	return min, max
}

// Exteriors returns the indices of the exterior rings.
func (s PolygonSet) Exteriors() []int {
	var out []int
	for i, p := range s.Parents {
		if p < 0 {
			out = append(out, i)
		}
	}
	return out
}

// HolesOf returns the indices of the holes attached to exterior i.
func (s PolygonSet) HolesOf(i int) []int {
	var out []int
	for j, p := range s.Parents {
		if p == i {
			out = append(out, j)
		}
	}
	return out
}

// Components splits the set into one PolygonSet per exterior ring, each
// carrying its own holes. Region ordering policies work per component.
func (s PolygonSet) Components() []PolygonSet {
	var out []PolygonSet
	for _, ei := range s.Exteriors() {
		comp := PolygonSet{
			Rings:   []Ring{s.Rings[ei]},
			Parents: []int{-1},
		}
		for _, hi := range s.HolesOf(ei) {
			comp.Rings = append(comp.Rings, s.Rings[hi])
			comp.Parents = append(comp.Parents, 0)
		}
		out = append(out, comp)
	}
	return out
}

// Contains reports whether the point is inside the filled region of the
// set (inside an exterior and outside its holes).
func (s PolygonSet) Contains(pt Point) bool {
	crossings := 0
	for _, r := range s.Rings {
		if r.Contains(pt) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// NewPolygonSet assembles raw rings into a PolygonSet: winding is
// normalized (exteriors CCW, holes CW) and each hole is attached to the
// innermost exterior containing it, by containment depth.
func NewPolygonSet(rings []Ring) PolygonSet {
	n := len(rings)
	set := PolygonSet{Parents: make([]int, n)}
	if n == 0 {
		return set
	}

	// Containment depth of each ring: how many other rings enclose it.
	depth := make([]int, n)
	for i := range rings {
		if len(rings[i]) == 0 {
			continue
		}
		probe := ringProbe(rings[i])
		for j := range rings {
			if i == j {
				continue
			}
			if rings[j].Contains(probe) {
				depth[i]++
			}
		}
	}

	set.Rings = make([]Ring, n)
	for i, r := range rings {
		ccw := r.SignedArea() > 0
		if depth[i]%2 == 0 {
			// Exterior: force CCW.
			if !ccw {
				r = r.Reversed()
			}
			set.Rings[i] = r
			set.Parents[i] = -1
		} else {
			if ccw {
				r = r.Reversed()
			}
			set.Rings[i] = r
			set.Parents[i] = -2 // resolved below
		}
	}

	// Attach each hole to the innermost containing exterior: the
	// containing exterior with the greatest depth.
	for i := range set.Rings {
		if set.Parents[i] != -2 {
			continue
		}
		probe := ringProbe(set.Rings[i])
		best := -1
		for j := range set.Rings {
			if j == i || set.Parents[j] != -1 {
				continue
			}
			if !set.Rings[j].Contains(probe) {
				continue
			}
			if best < 0 || depth[j] > depth[best] {
				best = j
			}
		}
		set.Parents[i] = best
	}
	return set
}

// ringProbe picks a representative interior-ish point for containment
// tests: the midpoint of the first edge nudged toward the centroid.
func ringProbe(r Ring) Point {
	if len(r) == 1 {
		return r[0]
	}
	var c Point
	for _, pt := range r {
		c = c.Add(pt)
	}
	c = c.MulScalar(1 / float64(len(r)))
	mid := r[0].Add(r[1]).MulScalar(0.5)
	// Step a hair toward the centroid to escape the boundary.
	return mid.Add(c.Sub(mid).MulScalar(1e-9))
}
