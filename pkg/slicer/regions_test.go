package slicer

import (
	"math"
	"testing"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
)

func squareSet(cx, cy, half float64) geom.PolygonSet {
	return geom.NewPolygonSet([]geom.Ring{{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}})
}

// columnOutlines builds n identical square outlines, a straight
// extruded column.
func columnOutlines(n int, half float64) []geom.PolygonSet {
	out := make([]geom.PolygonSet, n)
	for i := range out {
		out[i] = squareSet(0, 0, half)
	}
	return out
}

func testSettings() *config.Settings {
	cfg := config.Default()
	cfg.WallCount = 2
	cfg.SkinOverlap = 0
	cfg.InfillOverlap = 0
	return cfg
}

func TestBuildRegionsWalls(t *testing.T) {
	cfg := testSettings()
	outlines := columnOutlines(20, 10)
	var warnings []Warning

	regions, err := buildRegions(10, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions.Walls) != 1 {
		t.Fatalf("component count = %d, want 1", len(regions.Walls))
	}
	walls := regions.Walls[0]
	if len(walls) != 2 {
		t.Fatalf("wall count = %d, want 2", len(walls))
	}

	// Centerlines at lw/2 and 3*lw/2 inset: 19.6 and 18.8 squares.
	if got := math.Abs(walls[0].Area()); math.Abs(got-19.6*19.6) > 0.1 {
		t.Errorf("wall 0 area = %f, want ~%f", got, 19.6*19.6)
	}
	if got := math.Abs(walls[1].Area()); math.Abs(got-18.8*18.8) > 0.1 {
		t.Errorf("wall 1 area = %f, want ~%f", got, 18.8*18.8)
	}

	// Inner area at wall_count * lw inset: 18.4 square.
	if got := regions.InnerArea.Area(); math.Abs(got-18.4*18.4) > 0.1 {
		t.Errorf("inner area = %f, want ~%f", got, 18.4*18.4)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestBuildRegionsThinWall(t *testing.T) {
	cfg := testSettings()
	cfg.WallCount = 3
	outlines := columnOutlines(5, 0.6) // 1.2mm square pillar
	var warnings []Warning

	regions, err := buildRegions(2, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions.Walls) != 1 {
		t.Fatalf("component count = %d, want 1", len(regions.Walls))
	}
	if n := len(regions.Walls[0]); n < 1 || n > 2 {
		t.Errorf("surviving walls = %d, want 1 or 2", n)
	}
	if len(warnings) == 0 {
		t.Error("expected WallOffsetEmpty warning")
	} else if warnings[0].Code != WarnWallOffsetEmpty {
		t.Errorf("warning code = %v, want WallOffsetEmpty", warnings[0].Code)
	}
	if !regions.InnerArea.IsEmpty() {
		t.Error("inner area should be empty for thin pillar")
	}
	if !regions.Skin.IsEmpty() || !regions.Sparse.IsEmpty() {
		t.Error("skin/sparse should be empty when no inner area remains")
	}
}

func TestSkinWindows(t *testing.T) {
	cfg := testSettings()
	cfg.TopLayers = 4
	cfg.BottomLayers = 4
	outlines := columnOutlines(20, 10)

	tests := []struct {
		name       string
		layer      int
		wantSkin   bool
		wantSparse bool
	}{
		{"bottom layer", 0, true, false},
		{"third layer", 3, true, false},
		{"middle layer", 10, false, true},
		{"top layer", 19, true, false},
		{"fourth from top", 16, true, false},
		{"fifth from top", 15, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warnings []Warning
			regions, err := buildRegions(tt.layer, outlines, cfg, &warnings)
			if err != nil {
				t.Fatal(err)
			}
			if got := !regions.Skin.IsEmpty(); got != tt.wantSkin {
				t.Errorf("skin non-empty = %v, want %v (area %f)", got, tt.wantSkin, regions.Skin.Area())
			}
			if got := !regions.Sparse.IsEmpty(); got != tt.wantSparse {
				t.Errorf("sparse non-empty = %v, want %v", got, tt.wantSparse)
			}
		})
	}
}

func TestSkinSparseDisjointWithOverlap(t *testing.T) {
	// Skin and sparse stay disjoint after both overlap expansions.
	cfg := testSettings()
	cfg.SkinOverlap = 5
	cfg.InfillOverlap = 10
	cfg.BottomLayers = 2
	cfg.TopLayers = 2

	// Tower that steps narrower above layer 7: layer 6 has top skin
	// where the step exposes it, and sparse infill elsewhere.
	outlines := make([]geom.PolygonSet, 12)
	for i := range outlines {
		half := 10.0
		if i >= 8 {
			half = 6
		}
		outlines[i] = squareSet(0, 0, half)
	}

	var warnings []Warning
	regions, err := buildRegions(6, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if regions.Skin.IsEmpty() {
		t.Fatal("step should expose top skin at layer 6")
	}
	if regions.Sparse.IsEmpty() {
		t.Fatal("covered interior should remain sparse at layer 6")
	}
	inter, err := regions.Skin.Intersect(regions.Sparse)
	if err != nil {
		t.Fatal(err)
	}
	if got := inter.Area(); got > 1e-6 {
		t.Errorf("skin and sparse overlap by %f mm2", got)
	}
}

func TestZeroTopBottomLayers(t *testing.T) {
	cfg := testSettings()
	cfg.TopLayers = 0
	cfg.BottomLayers = 0
	outlines := columnOutlines(10, 10)

	var warnings []Warning
	regions, err := buildRegions(0, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if !regions.Skin.IsEmpty() {
		t.Error("skin should be empty with top_layers = bottom_layers = 0")
	}
	if regions.Sparse.IsEmpty() {
		t.Error("everything inside the walls should be sparse infill")
	}
}

func TestBrimLoops(t *testing.T) {
	cfg := testSettings()
	cfg.BrimEnabled = true
	cfg.BrimWidth = 8
	cfg.LineWidth = 0.4
	outlines := columnOutlines(5, 10)

	var warnings []Warning
	regions, err := buildRegions(0, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(regions.Brim); got != 20 {
		t.Errorf("brim loop count = %d, want 20", got)
	}
	// Loops grow outward.
	prev := 0.0
	for k, loop := range regions.Brim {
		area := loop.Area()
		if area <= prev {
			t.Errorf("brim loop %d area %f not larger than previous %f", k, area, prev)
		}
		prev = area
	}

	// No brim on layer 1.
	regions1, err := buildRegions(1, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if len(regions1.Brim) != 0 {
		t.Error("brim must exist on layer 0 only")
	}
}

func TestSpiralRegions(t *testing.T) {
	cfg := testSettings()
	cfg.Spiralize = true
	cfg.BottomLayers = 3
	outlines := columnOutlines(10, 10)

	var warnings []Warning

	solid, err := buildRegions(2, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if solid.Spiral {
		t.Error("layer below bottom_layers should not be spiral")
	}
	if len(solid.Walls[0]) != cfg.WallCount {
		t.Errorf("solid layer wall count = %d, want %d", len(solid.Walls[0]), cfg.WallCount)
	}

	spiral, err := buildRegions(3, outlines, cfg, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if !spiral.Spiral {
		t.Fatal("layer at bottom_layers should be spiral")
	}
	if len(spiral.Walls) != 1 || len(spiral.Walls[0]) != 1 {
		t.Error("spiral layer must have exactly one wall ring")
	}
	if !spiral.Skin.IsEmpty() || !spiral.Sparse.IsEmpty() {
		t.Error("spiral layer must have no skin or sparse regions")
	}
}
