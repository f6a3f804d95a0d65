// Package support derives per-layer support regions from overhang
// analysis of the layer outlines.
package support

import (
	"fmt"
	"math"

	"github.com/kasynel/slicer/pkg/geom"
)

// Regions computes the support region to print at each layer.
//
// A layer's overhang is the part of its outline not resting on a
// dilation of the layer below: overhang(i) = O_i − dilate(O_{i−1}, d)
// with d = layerHeight / tan(threshold). The support region at layer i
// is the union of the overhangs of all layers above it, minus the
// object itself.
func Regions(outlines []geom.PolygonSet, layerHeight, thresholdDeg float64) ([]geom.PolygonSet, error) {
	n := len(outlines)
	supports := make([]geom.PolygonSet, n)
	if n == 0 {
		return supports, nil
	}

	maxSafe := layerHeight / math.Tan(thresholdDeg*math.Pi/180)

	overhangs := make([]geom.PolygonSet, n)
	for i := 1; i < n; i++ {
		grown := outlines[i-1].Offset(maxSafe)
		oh, err := outlines[i].Difference(grown)
		if err != nil {
			return nil, fmt.Errorf("overhang at layer %d: %w", i, err)
		}
		overhangs[i] = oh
	}

	// Walk top-down accumulating the overhang projection; everything
	// above layer i that overhangs still needs material at i.
	var acc geom.PolygonSet
	for i := n - 1; i >= 0; i-- {
		region, err := acc.Difference(outlines[i])
		if err != nil {
			return nil, fmt.Errorf("support region at layer %d: %w", i, err)
		}
		supports[i] = region

		acc, err = acc.Union(overhangs[i])
		if err != nil {
			return nil, fmt.Errorf("support accumulation at layer %d: %w", i, err)
		}
	}
	return supports, nil
}
