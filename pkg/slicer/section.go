package slicer

import (
	"context"

	"github.com/kasynel/slicer/pkg/geom"
	"github.com/kasynel/slicer/pkg/mesh"
)

// planeEpsilon is the deterministic upward nudge applied to a slice
// elevation when a mesh vertex lies exactly on the plane. Nudging
// avoids sliver segments while preserving topology.
const planeEpsilon = 1e-6

// onPlaneTolerance decides whether a vertex sits on the slice plane.
const onPlaneTolerance = 1e-9

// cancelCheckStride is how many triangles the sectioner processes
// between cancellation polls.
const cancelCheckStride = 4096

// crossSection intersects the mesh with the horizontal plane Z = z and
// returns the stitched outline plus the number of discarded open
// chains.
func crossSection(ctx context.Context, m *mesh.Mesh, z float64) (geom.PolygonSet, int, error) {
	z = nudgePlane(m, z)

	var segs []geom.Segment
	for i, tri := range m.Triangles {
		if i%cancelCheckStride == 0 {
			if err := ctx.Err(); err != nil {
				return geom.PolygonSet{}, 0, ErrCancelled
			}
		}
		a := m.Vertices[tri[0]]
		b := m.Vertices[tri[1]]
		c := m.Vertices[tri[2]]

		zMin := min3(a.Z, b.Z, c.Z)
		zMax := max3(a.Z, b.Z, c.Z)
		if !(zMin < z && z < zMax) {
			continue
		}

		// Exactly two edges cross the plane once no vertex lies on it.
		var pts []geom.Point
		edges := [3][2]int{{0, 1}, {1, 2}, {2, 0}}
		verts := [3]struct{ x, y, z float64 }{
			{a.X, a.Y, a.Z}, {b.X, b.Y, b.Z}, {c.X, c.Y, c.Z},
		}
		for _, e := range edges {
			p, q := verts[e[0]], verts[e[1]]
			if (p.z-z)*(q.z-z) >= 0 {
				continue
			}
			t := (z - p.z) / (q.z - p.z)
			pts = append(pts, geom.Point{
				X: p.x + t*(q.x-p.x),
				Y: p.y + t*(q.y-p.y),
			})
		}
		// A crossing right beside a nudged-past vertex yields a sliver
		// whose endpoints already fuse; it carries no outline and is
		// dropped so the stitcher does not count it as an open chain.
		if len(pts) == 2 && pts[0].Sub(pts[1]).Length() > geom.FuseTolerance {
			segs = append(segs, geom.Segment{A: pts[0], B: pts[1]})
		}
	}

	res := geom.Stitch(segs)
	return geom.NewPolygonSet(res.Rings), res.OpenChains, nil
}

// nudgePlane lifts z by planeEpsilon until no mesh vertex sits exactly
// on the plane. The nudge is always upward so the result is
// deterministic.
func nudgePlane(m *mesh.Mesh, z float64) float64 {
	for tries := 0; tries < 8; tries++ {
		hit := false
		for _, v := range m.Vertices {
			if v.Z > z-onPlaneTolerance && v.Z < z+onPlaneTolerance {
				hit = true
				break
			}
		}
		if !hit {
			return z
		}
		z += planeEpsilon
	}
	return z
}

func min3(a, b, c float64) float64 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float64) float64 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
