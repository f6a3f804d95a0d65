package slicer

import (
	"fmt"
	"math"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
)

// LayerRegions is the per-layer derived geometry consumed by the path
// synthesizer. Walls are grouped by outline component so ring ordering
// policies can work per part.
type LayerRegions struct {
	Outline   geom.PolygonSet
	Walls     [][]geom.PolygonSet // [component][k] wall centerline rings
	InnerArea geom.PolygonSet
	Skin      geom.PolygonSet
	Sparse    geom.PolygonSet
	Brim      []geom.PolygonSet // loop k at offset lw/2 + k*lw, innermost first
	Support   geom.PolygonSet
	Spiral    bool
}

// buildRegions derives walls, skin, sparse infill, and brim for layer
// idx. All layer outlines must already be computed; skins difference
// against the neighbor window.
func buildRegions(idx int, outlines []geom.PolygonSet, cfg *config.Settings, warnings *[]Warning) (*LayerRegions, error) {
	lw := cfg.LineWidth
	outline := outlines[idx]
	regions := &LayerRegions{Outline: outline}

	if outline.IsEmpty() {
		return regions, nil
	}

	spiral := cfg.Spiralize && idx >= cfg.BottomLayers
	regions.Spiral = spiral

	wallCount := cfg.WallCount
	if spiral {
		wallCount = 1
	}

	// Wall centerlines per component: successive inward offsets at
	// lw/2 + k*lw. An empty offset ends wall production for that
	// component.
	for ci, comp := range outline.Components() {
		var walls []geom.PolygonSet
		for k := 0; k < wallCount; k++ {
			ring := comp.Offset(-(lw/2 + float64(k)*lw))
			if ring.IsEmpty() {
				*warnings = append(*warnings, Warning{
					Code:   WarnWallOffsetEmpty,
					Layer:  idx,
					Detail: fmt.Sprintf("component %d, wall %d", ci, k),
				})
				break
			}
			walls = append(walls, ring)
		}
		if len(walls) > 0 {
			regions.Walls = append(regions.Walls, walls)
		}
	}

	if spiral {
		return regions, nil
	}

	regions.InnerArea = outline.Offset(-float64(cfg.WallCount) * lw)

	if err := buildSkin(idx, outlines, cfg, regions); err != nil {
		return nil, &GeometryError{Layer: idx, Stage: "skin", Err: err}
	}

	if idx == 0 && cfg.BrimEnabled && cfg.BrimWidth > 0 {
		loops := int(math.Ceil(cfg.BrimWidth / lw))
		for k := 0; k < loops; k++ {
			loop := outline.Offset(lw/2 + float64(k)*lw)
			if loop.IsEmpty() {
				break
			}
			regions.Brim = append(regions.Brim, loop)
		}
	}

	return regions, nil
}

// buildSkin computes the top/bottom solid regions and the sparse
// remainder for layer idx, applying the overlap expansions into the
// innermost wall band.
func buildSkin(idx int, outlines []geom.PolygonSet, cfg *config.Settings, regions *LayerRegions) error {
	inner := regions.InnerArea
	if inner.IsEmpty() {
		return nil
	}
	skinBottom, err := skinAgainstWindow(inner, outlines, idx-cfg.BottomLayers, idx-1, cfg.BottomLayers)
	if err != nil {
		return fmt.Errorf("bottom skin: %w", err)
	}
	skinTop, err := skinAgainstWindow(inner, outlines, idx+1, idx+cfg.TopLayers, cfg.TopLayers)
	if err != nil {
		return fmt.Errorf("top skin: %w", err)
	}

	skin, err := skinTop.Union(skinBottom)
	if err != nil {
		return fmt.Errorf("skin union: %w", err)
	}
	skin, err = skin.Intersect(inner)
	if err != nil {
		return fmt.Errorf("skin clip: %w", err)
	}

	sparse, err := inner.Difference(skin)
	if err != nil {
		return fmt.Errorf("sparse region: %w", err)
	}

	// Overlap expansions grow skin and sparse outward into the
	// innermost wall band, bounded so neither crosses into the wall
	// centerlines; sparse never overlaps the expanded skin.
	lw := cfg.LineWidth
	wallDepth := float64(cfg.WallCount) * lw

	if ov := cfg.SkinOverlap / 100 * lw; ov > 0 && !skin.IsEmpty() {
		bound := regions.Outline.Offset(-(wallDepth - ov))
		skin, err = skin.Offset(ov).Intersect(bound)
		if err != nil {
			return fmt.Errorf("skin overlap: %w", err)
		}
	}
	if ov := cfg.InfillOverlap / 100 * lw; ov > 0 && !sparse.IsEmpty() {
		bound := regions.Outline.Offset(-(wallDepth - ov))
		sparse, err = sparse.Offset(ov).Intersect(bound)
		if err != nil {
			return fmt.Errorf("infill overlap: %w", err)
		}
		sparse, err = sparse.Difference(skin)
		if err != nil {
			return fmt.Errorf("infill overlap clip: %w", err)
		}
	}

	regions.Skin = skin
	regions.Sparse = sparse
	return nil
}

// skinAgainstWindow returns the part of inner not covered by every
// outline in [from, to]. A window reaching past the stack (below the
// bed or above the object) makes the entire inner area skin; a zero
// window produces no skin.
func skinAgainstWindow(inner geom.PolygonSet, outlines []geom.PolygonSet, from, to, window int) (geom.PolygonSet, error) {
	if window <= 0 {
		return geom.PolygonSet{}, nil
	}
	if from < 0 || to > len(outlines)-1 {
		return inner, nil
	}
	covered := outlines[from]
	for j := from + 1; j <= to; j++ {
		var err error
		covered, err = covered.Intersect(outlines[j])
		if err != nil {
			return geom.PolygonSet{}, err
		}
	}
	return inner.Difference(covered)
}
