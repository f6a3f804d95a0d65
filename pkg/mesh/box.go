package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// Box returns a closed axis-aligned box mesh with its minimum corner at
// the origin, so placement translations work intuitively.
func Box(x, y, z float64) *Mesh {
	verts := []v3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: x, Y: 0, Z: 0}, {X: x, Y: y, Z: 0}, {X: 0, Y: y, Z: 0},
		{X: 0, Y: 0, Z: z}, {X: x, Y: 0, Z: z}, {X: x, Y: y, Z: z}, {X: 0, Y: y, Z: z},
	}
	tris := [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{3, 6, 2}, {3, 7, 6}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
	return &Mesh{Vertices: verts, Triangles: tris, Name: "box"}
}

// Merge appends the geometry of other into m, re-indexing triangles.
func (m *Mesh) Merge(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, t := range other.Triangles {
		m.Triangles = append(m.Triangles, [3]int{t[0] + base, t[1] + base, t[2] + base})
	}
}
