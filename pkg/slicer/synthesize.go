package slicer

import (
	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/order"
	"github.com/kasynel/slicer/pkg/slicer/infill"
	"github.com/kasynel/slicer/pkg/toolpath"
)

// synthesize converts a layer's regions into unordered path buckets.
func synthesize(idx int, z float64, regions *LayerRegions, cfg *config.Settings) (*order.Buckets, error) {
	b := &order.Buckets{Index: idx, Z: z, Spiral: regions.Spiral}

	// Brim loops print outside-in so the innermost loop bonds to the
	// outer wall last.
	for k := len(regions.Brim) - 1; k >= 0; k-- {
		for _, ring := range regions.Brim[k].Rings {
			b.Brim = append(b.Brim, toolpath.FromRing(ring, toolpath.KindBrim))
		}
	}

	for _, walls := range regions.Walls {
		var comp []*toolpath.Path
		for k, ringSet := range walls {
			kind := toolpath.KindWallInner
			if k == 0 {
				kind = toolpath.KindWallOuter
			}
			for _, ring := range ringSet.Rings {
				comp = append(comp, toolpath.FromRing(ring, kind))
			}
		}
		if len(comp) > 0 {
			b.Walls = append(b.Walls, comp)
		}
	}

	if regions.Spiral {
		return b, nil
	}

	if !regions.Skin.IsEmpty() {
		lines, err := infill.Solid(regions.Skin, cfg.LineWidth, idx)
		if err != nil {
			return nil, &GeometryError{Layer: idx, Stage: "skin fill", Err: err}
		}
		for _, l := range lines {
			b.Skin = append(b.Skin, toolpath.FromPolyline(l, toolpath.KindSkin))
		}
	}

	if !regions.Sparse.IsEmpty() && cfg.InfillDensity > 0 {
		pattern, err := infill.ForPattern(cfg.InfillPattern)
		if err != nil {
			return nil, err
		}
		lines, err := pattern(regions.Sparse, cfg.InfillDensity, cfg.LineWidth, idx)
		if err != nil {
			return nil, &GeometryError{Layer: idx, Stage: "sparse fill", Err: err}
		}
		for _, l := range lines {
			b.Fill = append(b.Fill, toolpath.FromPolyline(l, toolpath.KindFill))
		}
	}

	if !regions.Support.IsEmpty() && cfg.SupportDensity > 0 {
		pattern, err := infill.ForSupportPattern(cfg.SupportPattern)
		if err != nil {
			return nil, err
		}
		lines, err := pattern(regions.Support, cfg.SupportDensity, cfg.LineWidth, idx)
		if err != nil {
			return nil, &GeometryError{Layer: idx, Stage: "support fill", Err: err}
		}
		for _, l := range lines {
			b.Support = append(b.Support, toolpath.FromPolyline(l, toolpath.KindSupport))
		}
	}

	return b, nil
}
