package main

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kasynel/slicer/pkg/mesh"
)

// shapeMeshCells controls marching cubes tessellation resolution for
// the built-in test shapes.
const shapeMeshCells = 128

// builtinShape generates one of the built-in test solids and
// tessellates it into a mesh. These exist so the slicer can be
// exercised without any model file at hand.
func builtinShape(name string) (*mesh.Mesh, error) {
	var solid sdf.SDF3
	var err error

	switch name {
	case "cube":
		solid, err = sdf.Box3D(v3.Vec{X: 20, Y: 20, Z: 20}, 0)
	case "cylinder":
		solid, err = sdf.Cylinder3D(30, 15, 0)
	case "tee":
		solid, err = teeShape()
	default:
		return nil, fmt.Errorf("unknown shape %q (want cube, cylinder, or tee)", name)
	}
	if err != nil {
		return nil, fmt.Errorf("shape %s: %w", name, err)
	}

	return tessellate(solid, name), nil
}

// teeShape is a post with a perpendicular crossbar: the crossbar
// overhangs on both sides, which exercises support generation.
func teeShape() (sdf.SDF3, error) {
	post, err := sdf.Box3D(v3.Vec{X: 10, Y: 10, Z: 30}, 0)
	if err != nil {
		return nil, err
	}
	bar, err := sdf.Box3D(v3.Vec{X: 30, Y: 10, Z: 8}, 0)
	if err != nil {
		return nil, err
	}
	bar = sdf.Transform3D(bar, sdf.Translate3d(v3.Vec{Z: 11}))
	return sdf.Union3D(post, bar), nil
}

// tessellate converts a solid to a triangle mesh using marching cubes.
func tessellate(solid sdf.SDF3, name string) *mesh.Mesh {
	renderer := render.NewMarchingCubesUniform(shapeMeshCells)
	triangles := render.ToTriangles(solid, renderer)

	vertices := make([]float32, 0, len(triangles)*9)
	indices := make([]uint32, 0, len(triangles)*3)
	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			indices = append(indices, uint32(i*3+j))
		}
	}
	return mesh.FromArrays(vertices, indices, name)
}
