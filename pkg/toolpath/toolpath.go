// Package toolpath defines the path types shared by the path
// synthesizer, the layer orderer, and the G-code emitter.
package toolpath

import "github.com/kasynel/slicer/pkg/geom"

// Kind tags what a path prints. The emitter maps kinds to feed rates
// and ; TYPE: comments.
type Kind int

const (
	KindWallOuter Kind = iota
	KindWallInner
	KindSkin
	KindFill
	KindSupport
	KindBrim
	KindTravel
)

// String returns the Cura-compatible ; TYPE: vocabulary for the kind.
func (k Kind) String() string {
	switch k {
	case KindWallOuter:
		return "WALL-OUTER"
	case KindWallInner:
		return "WALL-INNER"
	case KindSkin:
		return "SKIN"
	case KindFill:
		return "FILL"
	case KindSupport:
		return "SUPPORT"
	case KindBrim:
		return "BRIM"
	case KindTravel:
		return "TRAVEL"
	}
	return "UNKNOWN"
}

// Path is one polyline to print. Closed paths return to their first
// point; StartIndex selects the seam vertex for closed paths.
type Path struct {
	Points     []geom.Point
	Kind       Kind
	Closed     bool
	StartIndex int
}

// Length returns the printed length of the path, including the closing
// edge for closed paths.
func (p *Path) Length() float64 {
	total := geom.Polyline(p.Points).Length()
	if p.Closed && len(p.Points) > 1 {
		total += p.Points[0].Sub(p.Points[len(p.Points)-1]).Length()
	}
	return total
}

// Start returns the point printing begins at: the seam vertex for
// closed paths, the first point otherwise.
func (p *Path) Start() geom.Point {
	if p.Closed && p.StartIndex > 0 && p.StartIndex < len(p.Points) {
		return p.Points[p.StartIndex]
	}
	return p.Points[0]
}

// End returns the point printing finishes at.
func (p *Path) End() geom.Point {
	if p.Closed {
		return p.Start()
	}
	return p.Points[len(p.Points)-1]
}

// Reversed returns a copy with the point order flipped. Only meaningful
// for open paths.
func (p *Path) Reversed() *Path {
	out := &Path{
		Points: make([]geom.Point, len(p.Points)),
		Kind:   p.Kind,
		Closed: p.Closed,
	}
	for i, pt := range p.Points {
		out.Points[len(p.Points)-1-i] = pt
	}
	return out
}

// Rotated returns the closed path's points rotated so the seam vertex
// comes first, with StartIndex reset. The emitter walks points in order
// and closes back to the first.
func (p *Path) Rotated() *Path {
	if !p.Closed || p.StartIndex <= 0 || p.StartIndex >= len(p.Points) {
		return p
	}
	out := &Path{
		Points: make([]geom.Point, 0, len(p.Points)),
		Kind:   p.Kind,
		Closed: true,
	}
	out.Points = append(out.Points, p.Points[p.StartIndex:]...)
	out.Points = append(out.Points, p.Points[:p.StartIndex]...)
	return out
}

// Layer is the ordered set of paths for one printed layer.
type Layer struct {
	Index  int
	Z      float64 // z_top of this layer, mm
	Paths  []*Path
	Spiral bool // emit with continuous Z interpolation
}

// FromRing converts a closed geometry ring into a path of the given kind.
func FromRing(r geom.Ring, kind Kind) *Path {
	pts := make([]geom.Point, len(r))
	copy(pts, r)
	return &Path{Points: pts, Kind: kind, Closed: true}
}

// FromPolyline converts an open polyline into a path of the given kind.
func FromPolyline(l geom.Polyline, kind Kind) *Path {
	pts := make([]geom.Point, len(l))
	copy(pts, l)
	return &Path{Points: pts, Kind: kind}
}
