// Package mesh holds the triangle mesh consumed by the slicing core.
// Meshes arrive normalized from the host (file decoding happens there);
// the core only transforms, measures, and cross-sections them.
package mesh

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Mesh is an indexed triangle mesh in millimeters. Winding is
// counter-clockwise seen from outside; the outward normal is implied.
type Mesh struct {
	Vertices  []v3.Vec
	Triangles [][3]int
	Name      string
}

// FromArrays builds a Mesh from flat vertex and index arrays, the
// layout produced by marching-cubes tessellation.
func FromArrays(vertices []float32, indices []uint32, name string) *Mesh {
	m := &Mesh{Name: name}
	m.Vertices = make([]v3.Vec, 0, len(vertices)/3)
	for i := 0; i+2 < len(vertices); i += 3 {
		m.Vertices = append(m.Vertices, v3.Vec{
			X: float64(vertices[i]),
			Y: float64(vertices[i+1]),
			Z: float64(vertices[i+2]),
		})
	}
	m.Triangles = make([][3]int, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		m.Triangles = append(m.Triangles, [3]int{
			int(indices[i]), int(indices[i+1]), int(indices[i+2]),
		})
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Triangles) == 0
}

// Bounds returns the axis-aligned bounding box.
func (m *Mesh) Bounds() (min, max v3.Vec) {
	min = v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// Translate moves every vertex by the given offset.
func (m *Mesh) Translate(offset v3.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Add(offset)
	}
}

// Scale scales the mesh uniformly around the given center.
func (m *Mesh) Scale(factor float64, center v3.Vec) {
	for i := range m.Vertices {
		m.Vertices[i] = center.Add(m.Vertices[i].Sub(center).MulScalar(factor))
	}
}

// RotateZ rotates the mesh around a vertical axis through center by the
// given angle in degrees.
func (m *Mesh) RotateZ(angleDeg float64, center v3.Vec) {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	for i := range m.Vertices {
		d := m.Vertices[i].Sub(center)
		m.Vertices[i] = v3.Vec{
			X: center.X + d.X*cos - d.Y*sin,
			Y: center.Y + d.X*sin + d.Y*cos,
			Z: m.Vertices[i].Z,
		}
	}
}

// PlaceOnBed translates the mesh so its lowest point sits at z=0.
func (m *Mesh) PlaceOnBed() {
	min, _ := m.Bounds()
	m.Translate(v3.Vec{Z: -min.Z})
}

// CenterOnBed centers the mesh footprint on a bed of the given x/y size
// and seats it on the build plate.
func (m *Mesh) CenterOnBed(bedX, bedY float64) {
	min, max := m.Bounds()
	m.Translate(v3.Vec{
		X: bedX/2 - (min.X+max.X)/2,
		Y: bedY/2 - (min.Y+max.Y)/2,
		Z: -min.Z,
	})
}

// FaceNormal returns the unit outward normal of triangle i, or the zero
// vector for a degenerate triangle.
func (m *Mesh) FaceNormal(i int) v3.Vec {
	t := m.Triangles[i]
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Volume returns the enclosed volume in mm³, valid for watertight
// meshes (signed tetrahedron sum).
func (m *Mesh) Volume() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		total += a.Dot(b.Cross(c))
	}
	return math.Abs(total) / 6
}

// SurfaceArea returns the total triangle area in mm².
func (m *Mesh) SurfaceArea() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		total += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return total
}

// HasFiniteCoords reports whether every vertex coordinate is finite.
func (m *Mesh) HasFiniteCoords() bool {
	for _, v := range m.Vertices {
		if math.IsNaN(v.X) || math.IsInf(v.X, 0) ||
			math.IsNaN(v.Y) || math.IsInf(v.Y, 0) ||
			math.IsNaN(v.Z) || math.IsInf(v.Z, 0) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	out := &Mesh{
		Vertices:  make([]v3.Vec, len(m.Vertices)),
		Triangles: make([][3]int, len(m.Triangles)),
		Name:      m.Name,
	}
	copy(out.Vertices, m.Vertices)
	copy(out.Triangles, m.Triangles)
	return out
}
