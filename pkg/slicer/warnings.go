package slicer

import "fmt"

// WarningCode identifies a recoverable condition recorded during a job.
type WarningCode int

const (
	// WarnOpenContour: a layer had unstitchable segments; the closable
	// rings were kept and the open chains discarded.
	WarnOpenContour WarningCode = iota

	// WarnWallOffsetEmpty: an inward offset produced empty geometry;
	// remaining walls were skipped for that outline component.
	WarnWallOffsetEmpty

	// WarnSupportParameterIgnored: the parameter is accepted but not
	// applied by the baseline support generator.
	WarnSupportParameterIgnored

	// WarnSeamPositionFallback: the requested seam policy reduces to
	// "back".
	WarnSeamPositionFallback

	// WarnInfillAngleIgnored: infill_angle is accepted but not applied
	// to the pattern rotation base.
	WarnInfillAngleIgnored

	// WarnMinLayerTimeIgnored: min_layer_time is accepted but no
	// feedrate clamp is emitted.
	WarnMinLayerTimeIgnored
)

// Warning is a non-fatal condition recorded while slicing.
type Warning struct {
	Code   WarningCode
	Layer  int    // -1 when not layer-specific
	Detail string
}

func (w Warning) String() string {
	switch w.Code {
	case WarnOpenContour:
		return fmt.Sprintf("layer %d: open contour discarded (%s)", w.Layer, w.Detail)
	case WarnWallOffsetEmpty:
		return fmt.Sprintf("layer %d: wall offset empty (%s)", w.Layer, w.Detail)
	case WarnSupportParameterIgnored:
		return fmt.Sprintf("support parameter %s accepted but not applied", w.Detail)
	case WarnSeamPositionFallback:
		return fmt.Sprintf("seam position %s reduces to back", w.Detail)
	case WarnInfillAngleIgnored:
		return "infill_angle accepted but not applied to pattern rotation"
	case WarnMinLayerTimeIgnored:
		return "min_layer_time accepted but no feedrate clamp is emitted"
	}
	return fmt.Sprintf("warning %d: %s", w.Code, w.Detail)
}
