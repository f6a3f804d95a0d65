package gcode

import (
	"math"

	"github.com/kasynel/slicer/pkg/slicer"
	"github.com/kasynel/slicer/pkg/toolpath"
)

// heatupSeconds is the fixed allowance for bed and nozzle heating.
const heatupSeconds = 300

// plaDensityGPerMM3 is the density of PLA filament.
const plaDensityGPerMM3 = 1.24 / 1000

// EstimateTime returns a rough print duration in seconds: path lengths
// over their per-kind speeds plus the heating allowance. Travel and
// acceleration are not modeled.
func EstimateTime(job *slicer.Job) float64 {
	cfg := job.Settings
	total := float64(heatupSeconds)

	for _, layer := range job.Layers {
		for _, p := range layer.Paths {
			speed := cfg.PrintSpeed
			switch {
			case layer.Index == 0 || p.Kind == toolpath.KindBrim:
				speed = cfg.FirstLayerSpeed
			case p.Kind == toolpath.KindWallOuter:
				speed = cfg.OuterPerimeterSpeed
			case p.Kind == toolpath.KindSkin:
				speed = cfg.TopBottomSpeed
			case p.Kind == toolpath.KindFill, p.Kind == toolpath.KindSupport:
				speed = cfg.InfillSpeed
			}
			if speed > 0 {
				total += p.Length() / speed
			}
		}
	}
	return total
}

// EstimateFilament returns the filament length in millimeters the job
// will consume, from the extruded bead volume over the filament
// cross-section.
func EstimateFilament(job *slicer.Job) float64 {
	cfg := job.Settings
	r := cfg.FilamentDiameter / 2
	filamentArea := math.Pi * r * r
	if filamentArea <= 0 {
		return 0
	}

	total := 0.0
	for _, layer := range job.Layers {
		thickness := job.Plan.ThicknessAt(layer.Index)
		for _, p := range layer.Paths {
			total += p.Length() * cfg.LineWidth * thickness / filamentArea
		}
	}
	return total
}

// FilamentGrams converts a filament length to grams of PLA.
func FilamentGrams(lengthMM, filamentDiameter float64) float64 {
	r := filamentDiameter / 2
	volume := lengthMM * math.Pi * r * r
	return volume * plaDensityGPerMM3
}
