package mesh

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestFromArrays(t *testing.T) {
	m := FromArrays(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]uint32{0, 1, 2},
		"tri",
	)
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d, want 1", m.TriangleCount())
	}
	if m.IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh")
	}
}

func TestBoxBoundsAndVolume(t *testing.T) {
	m := Box(20, 30, 10)
	min, max := m.Bounds()
	if min.X != 0 || min.Y != 0 || min.Z != 0 {
		t.Errorf("min = %v, want origin", min)
	}
	if max.X != 20 || max.Y != 30 || max.Z != 10 {
		t.Errorf("max = %v, want (20,30,10)", max)
	}
	if got := m.Volume(); math.Abs(got-6000) > 1e-6 {
		t.Errorf("Volume() = %f, want 6000", got)
	}
	if got := m.SurfaceArea(); math.Abs(got-2200) > 1e-6 {
		t.Errorf("SurfaceArea() = %f, want 2200", got)
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	m := Box(10, 10, 10)
	center := v3.Vec{X: 5, Y: 5, Z: 5}
	for i, tri := range m.Triangles {
		a := m.Vertices[tri[0]]
		b := m.Vertices[tri[1]]
		c := m.Vertices[tri[2]]
		centroid := a.Add(b).Add(c).MulScalar(1.0 / 3.0)
		if m.FaceNormal(i).Dot(centroid.Sub(center)) <= 0 {
			t.Errorf("triangle %d normal points inward", i)
		}
	}
}

func TestCenterOnBed(t *testing.T) {
	m := Box(20, 20, 20)
	m.Translate(v3.Vec{X: 40, Y: -13, Z: 7})
	m.CenterOnBed(220, 220)

	min, max := m.Bounds()
	if math.Abs(min.Z) > 1e-9 {
		t.Errorf("min z = %f, want 0", min.Z)
	}
	if math.Abs((min.X+max.X)/2-110) > 1e-9 {
		t.Errorf("x center = %f, want 110", (min.X+max.X)/2)
	}
	if math.Abs((min.Y+max.Y)/2-110) > 1e-9 {
		t.Errorf("y center = %f, want 110", (min.Y+max.Y)/2)
	}
}

func TestScaleAndRotate(t *testing.T) {
	m := Box(10, 10, 10)
	m.Scale(2, v3.Vec{})
	_, max := m.Bounds()
	if max.X != 20 || max.Z != 20 {
		t.Errorf("scaled max = %v, want (20,20,20)", max)
	}

	m2 := Box(10, 20, 5)
	m2.RotateZ(90, v3.Vec{})
	min2, max2 := m2.Bounds()
	if math.Abs(max2.X-0) > 1e-9 || math.Abs(min2.X+20) > 1e-9 {
		t.Errorf("rotated x range = [%f, %f], want [-20, 0]", min2.X, max2.X)
	}
	if math.Abs(max2.Y-10) > 1e-9 {
		t.Errorf("rotated y max = %f, want 10", max2.Y)
	}
}

func TestMerge(t *testing.T) {
	a := Box(10, 10, 10)
	b := Box(5, 5, 5)
	b.Translate(v3.Vec{Z: 10})
	nA, nB := a.TriangleCount(), b.TriangleCount()
	a.Merge(b)
	if a.TriangleCount() != nA+nB {
		t.Errorf("merged triangle count = %d, want %d", a.TriangleCount(), nA+nB)
	}
	_, max := a.Bounds()
	if max.Z != 15 {
		t.Errorf("merged max z = %f, want 15", max.Z)
	}
}

func TestHasFiniteCoords(t *testing.T) {
	m := Box(1, 1, 1)
	if !m.HasFiniteCoords() {
		t.Error("box should have finite coords")
	}
	m.Vertices[0].X = math.NaN()
	if m.HasFiniteCoords() {
		t.Error("NaN coordinate not detected")
	}
}
