package slicer

import "math"

// LayerPlan is the immutable vector of slice elevations, indexed by
// layer number. Layer 0 is sliced at the first layer height; layer i at
// first_layer_height + i*layer_height.
type LayerPlan struct {
	Heights          []float64
	LayerHeight      float64
	FirstLayerHeight float64
}

// PlanLayers enumerates slice elevations for a mesh of height zMax.
func PlanLayers(zMax, firstLayerHeight, layerHeight float64) LayerPlan {
	count := int(math.Ceil((zMax-firstLayerHeight)/layerHeight)) + 1
	if count < 1 {
		count = 1
	}
	plan := LayerPlan{
		Heights:          make([]float64, count),
		LayerHeight:      layerHeight,
		FirstLayerHeight: firstLayerHeight,
	}
	for i := range plan.Heights {
		plan.Heights[i] = firstLayerHeight + float64(i)*layerHeight
	}
	return plan
}

// Count returns the number of planned layers.
func (p LayerPlan) Count() int {
	return len(p.Heights)
}

// ThicknessAt returns the extruded layer thickness for layer i.
func (p LayerPlan) ThicknessAt(i int) float64 {
	if i == 0 {
		return p.FirstLayerHeight
	}
	return p.LayerHeight
}
