package slicer

import (
	"context"
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/mesh"
	"github.com/kasynel/slicer/pkg/toolpath"
)

func jobSettings() *config.Settings {
	cfg := config.Default()
	cfg.LayerHeight = 0.2
	cfg.FirstLayerHeight = 0.3
	cfg.WallCount = 2
	cfg.InfillDensity = 20
	cfg.TopLayers = 4
	cfg.BottomLayers = 4
	cfg.BrimEnabled = false
	cfg.InfillAngle = 0
	cfg.MinLayerTime = 0
	return cfg
}

func kindsOf(layer *toolpath.Layer) map[toolpath.Kind]int {
	out := map[toolpath.Kind]int{}
	for _, p := range layer.Paths {
		out[p.Kind]++
	}
	return out
}

func TestSliceCube(t *testing.T) {
	m := mesh.Box(10, 10, 10)
	cfg := jobSettings()

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}

	// 1 + ceil((10-0.3)/0.2) = 50 layers.
	if got := len(job.Layers); got != 50 {
		t.Fatalf("layer count = %d, want 50", got)
	}
	if job.ID == "" {
		t.Error("job has no ID")
	}

	for i, layer := range job.Layers {
		if layer.Index != i {
			t.Fatalf("layer %d has index %d", i, layer.Index)
		}
		k := kindsOf(layer)
		hasGeometry := len(layer.Paths) > 0
		if !hasGeometry {
			// The top planned layer can slice above the object.
			if layer.Z <= 10 {
				t.Errorf("layer %d at z=%.2f has no paths", i, layer.Z)
			}
			continue
		}
		if k[toolpath.KindWallOuter] == 0 {
			t.Errorf("layer %d has no WALL-OUTER", i)
		}
		if k[toolpath.KindWallInner] == 0 {
			t.Errorf("layer %d has no WALL-INNER", i)
		}

		if i >= 4 && i <= 40 {
			if k[toolpath.KindFill] == 0 {
				t.Errorf("middle layer %d has no FILL", i)
			}
			if k[toolpath.KindSkin] != 0 {
				t.Errorf("middle layer %d has SKIN", i)
			}
		}
		if i < 4 && k[toolpath.KindSkin] == 0 {
			t.Errorf("bottom layer %d has no SKIN", i)
		}
	}

	// Z strictly increasing.
	prev := 0.0
	for _, layer := range job.Layers {
		if layer.Z <= prev {
			t.Fatalf("layer z %f not increasing past %f", layer.Z, prev)
		}
		prev = layer.Z
	}
}

func TestSliceWallCountOne(t *testing.T) {
	m := mesh.Box(10, 10, 2)
	cfg := jobSettings()
	cfg.WallCount = 1

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, layer := range job.Layers {
		if kindsOf(layer)[toolpath.KindWallInner] != 0 {
			t.Fatalf("layer %d has WALL-INNER with wall_count=1", layer.Index)
		}
	}
}

func TestSliceThinWallPillar(t *testing.T) {
	m := mesh.Box(1.2, 1.2, 10)
	cfg := jobSettings()
	cfg.WallCount = 3

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}

	sawWallWarning := false
	for _, w := range job.Warnings {
		if w.Code == WarnWallOffsetEmpty {
			sawWallWarning = true
		}
	}
	if !sawWallWarning {
		t.Error("expected WallOffsetEmpty warnings for thin pillar")
	}

	for _, layer := range job.Layers {
		k := kindsOf(layer)
		if k[toolpath.KindFill] != 0 || k[toolpath.KindSkin] != 0 {
			t.Fatalf("thin pillar layer %d should have no fill or skin", layer.Index)
		}
	}
}

func TestSliceBrim(t *testing.T) {
	m := mesh.Box(10, 10, 2)
	cfg := jobSettings()
	cfg.BrimEnabled = true
	cfg.BrimWidth = 8
	cfg.LineWidth = 0.4

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := kindsOf(job.Layers[0])[toolpath.KindBrim]; got != 20 {
		t.Errorf("layer 0 brim rings = %d, want 20", got)
	}
	for _, layer := range job.Layers[1:] {
		if kindsOf(layer)[toolpath.KindBrim] != 0 {
			t.Fatalf("layer %d has BRIM paths", layer.Index)
		}
	}
}

func TestSliceSupportUnderOverhang(t *testing.T) {
	// A post with a crossbar: the bar overhangs both sides.
	m := mesh.Box(10, 10, 12)
	bar := mesh.Box(30, 10, 4)
	bar.Translate(v3.Vec{X: -10, Z: 12})
	m.Merge(bar)

	cfg := jobSettings()
	cfg.SupportEnabled = true
	cfg.SupportThreshold = 45
	cfg.SupportDensity = 15
	cfg.SupportPattern = config.SupportLines

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}

	supportBelow, supportInBar := 0, 0
	for _, layer := range job.Layers {
		n := kindsOf(layer)[toolpath.KindSupport]
		if layer.Z < 12 {
			supportBelow += n
		} else {
			supportInBar += n
		}
	}
	if supportBelow == 0 {
		t.Error("no SUPPORT paths under the overhanging bar")
	}
	if supportInBar != 0 {
		t.Errorf("%d SUPPORT paths inside the bar layers", supportInBar)
	}

	ignored := 0
	for _, w := range job.Warnings {
		if w.Code == WarnSupportParameterIgnored {
			ignored++
		}
	}
	if ignored == 0 {
		t.Error("expected SupportParameterIgnored warnings")
	}
}

func TestSliceSpiralize(t *testing.T) {
	m := mesh.Box(15, 15, 10)
	cfg := jobSettings()
	cfg.Spiralize = true
	cfg.BottomLayers = 3

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, layer := range job.Layers {
		k := kindsOf(layer)
		if layer.Index < 3 {
			if layer.Spiral {
				t.Fatalf("layer %d below bottom_layers marked spiral", layer.Index)
			}
			if k[toolpath.KindSkin] == 0 {
				t.Errorf("solid base layer %d missing skin", layer.Index)
			}
			continue
		}
		if len(layer.Paths) == 0 {
			continue // planner tail above the mesh
		}
		if !layer.Spiral {
			t.Fatalf("layer %d should be spiral", layer.Index)
		}
		if len(layer.Paths) != 1 {
			t.Fatalf("spiral layer %d has %d paths, want 1", layer.Index, len(layer.Paths))
		}
		p := layer.Paths[0]
		if !p.Closed || p.Kind != toolpath.KindWallOuter {
			t.Fatalf("spiral layer %d path is not a closed outer wall", layer.Index)
		}
	}
}

func TestSliceCancellation(t *testing.T) {
	m := mesh.Box(20, 20, 20)
	cfg := jobSettings()

	ctx, cancel := context.WithCancel(context.Background())
	fired := false
	progress := func(stage string, fraction float64) {
		if stage == "section" && fraction >= 0.5 && !fired {
			fired = true
			cancel()
		}
	}

	job, err := Slice(ctx, m, cfg, config.DefaultPrinter(), progress)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if job != nil {
		t.Error("cancelled job must not return partial results")
	}
}

func TestSliceErrors(t *testing.T) {
	printer := config.DefaultPrinter()

	t.Run("nil mesh", func(t *testing.T) {
		_, err := Slice(context.Background(), nil, jobSettings(), printer, nil)
		if !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("err = %v, want ErrInvalidMesh", err)
		}
	})

	t.Run("empty mesh", func(t *testing.T) {
		_, err := Slice(context.Background(), &mesh.Mesh{}, jobSettings(), printer, nil)
		if !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("err = %v, want ErrInvalidMesh", err)
		}
	})

	t.Run("non-finite mesh", func(t *testing.T) {
		m := mesh.Box(5, 5, 5)
		m.Vertices[0].X = math.Inf(1)
		_, err := Slice(context.Background(), m, jobSettings(), printer, nil)
		if !errors.Is(err, ErrInvalidMesh) {
			t.Errorf("err = %v, want ErrInvalidMesh", err)
		}
	})

	t.Run("out of volume", func(t *testing.T) {
		m := mesh.Box(500, 20, 20)
		_, err := Slice(context.Background(), m, jobSettings(), printer, nil)
		var oov *OutOfVolumeError
		if !errors.As(err, &oov) {
			t.Fatalf("err = %v, want OutOfVolumeError", err)
		}
		if oov.Axis != "x" {
			t.Errorf("axis = %s, want x", oov.Axis)
		}
	})

	t.Run("object below first layer", func(t *testing.T) {
		m := mesh.Box(10, 10, 0.1)
		_, err := Slice(context.Background(), m, jobSettings(), printer, nil)
		if !errors.Is(err, ErrEmptyJob) {
			t.Errorf("err = %v, want ErrEmptyJob", err)
		}
	})

	t.Run("invalid parameter", func(t *testing.T) {
		cfg := jobSettings()
		cfg.LayerHeight = -1
		_, err := Slice(context.Background(), mesh.Box(5, 5, 5), cfg, printer, nil)
		var pe *config.ParameterError
		if !errors.As(err, &pe) {
			t.Fatalf("err = %v, want ParameterError", err)
		}
		if pe.Field != "layer_height" {
			t.Errorf("field = %s, want layer_height", pe.Field)
		}
	})
}

func TestSeamFallbackWarning(t *testing.T) {
	m := mesh.Box(5, 5, 2)
	cfg := jobSettings()
	cfg.SeamPosition = config.SeamRandom

	job, err := Slice(context.Background(), m, cfg, config.DefaultPrinter(), nil)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, w := range job.Warnings {
		if w.Code == WarnSeamPositionFallback && w.Detail == config.SeamRandom {
			found = true
		}
	}
	if !found {
		t.Errorf("expected seam fallback warning, got %v", job.Warnings)
	}
}
