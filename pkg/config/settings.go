// Package config defines the job parameter set, printer and material
// profiles, and the validation rules the slicing core enforces before
// a job runs. A Settings value is immutable for the duration of one job.
package config

import "fmt"

// Infill pattern names.
const (
	InfillGrid      = "grid"
	InfillLines     = "lines"
	InfillHoneycomb = "honeycomb"
)

// Seam placement policies. Only "back" is algorithmically implemented;
// "random" and "sharpest" are accepted and reduce to "back".
const (
	SeamBack     = "back"
	SeamRandom   = "random"
	SeamSharpest = "sharpest"
)

// Support pattern names.
const (
	SupportLines  = "lines"
	SupportGrid   = "grid"
	SupportZigzag = "zigzag"
)

// Settings is the flat, validated parameter set for one slicing job.
type Settings struct {
	// Layer / extrusion
	LayerHeight      float64 `json:"layer_height"`
	FirstLayerHeight float64 `json:"first_layer_height"`
	LineWidth        float64 `json:"line_width"`     // absolute mm, derived from nozzle * pct
	LineWidthPct     float64 `json:"line_width_pct"` // % of nozzle diameter
	NozzleDiameter   float64 `json:"nozzle_diameter"`
	FilamentDiameter float64 `json:"filament_diameter"`

	// Walls
	WallCount        int    `json:"wall_count"`
	OuterBeforeInner bool   `json:"outer_before_inner"`
	SeamPosition     string `json:"seam_position"`

	// Infill
	InfillDensity float64 `json:"infill_density"` // percent 0-100
	InfillPattern string  `json:"infill_pattern"`
	InfillAngle   float64 `json:"infill_angle"`   // accepted, not yet applied
	InfillOverlap float64 `json:"infill_overlap"` // % overlap into perimeter

	// Top / bottom
	TopLayers    int     `json:"top_layers"`
	BottomLayers int     `json:"bottom_layers"`
	SkinOverlap  float64 `json:"skin_overlap"` // % overlap into perimeter

	// Brim
	BrimEnabled bool    `json:"brim_enabled"`
	BrimWidth   float64 `json:"brim_width"` // mm

	// Retraction
	RetractionEnabled     bool    `json:"retraction_enabled"`
	RetractionDistance    float64 `json:"retraction_distance"`     // mm
	RetractionSpeed       float64 `json:"retraction_speed"`        // mm/s
	RetractionZHop        float64 `json:"retraction_z_hop"`        // mm, 0 = off
	RetractionMinDistance float64 `json:"retraction_min_distance"` // mm
	RetractionExtraPrime  float64 `json:"retraction_extra_prime"`  // mm

	// Speed (mm/s)
	PrintSpeed          float64 `json:"print_speed"`
	OuterPerimeterSpeed float64 `json:"outer_perimeter_speed"`
	TopBottomSpeed      float64 `json:"top_bottom_speed"`
	InfillSpeed         float64 `json:"infill_speed"`
	BridgeSpeed         float64 `json:"bridge_speed"`
	FirstLayerSpeed     float64 `json:"first_layer_speed"`
	TravelSpeed         float64 `json:"travel_speed"`
	MinLayerTime        float64 `json:"min_layer_time"` // accepted, not yet applied

	// Temperature
	PrintTemp           int `json:"print_temp"`
	PrintTempFirstLayer int `json:"print_temp_first_layer"`
	BedTemp             int `json:"bed_temp"`

	// Cooling
	FanSpeed       int `json:"fan_speed"`        // percent
	FanFirstLayer  int `json:"fan_first_layer"`  // percent for layer 0
	FanKickInLayer int `json:"fan_kick_in_layer"`

	// Spiralize / non-stop (vase) mode
	Spiralize bool `json:"spiralize"`

	// Support
	SupportEnabled          bool    `json:"support_enabled"`
	SupportThreshold        float64 `json:"support_threshold"` // overhang angle degrees
	SupportDensity          float64 `json:"support_density"`   // percent
	SupportPattern          string  `json:"support_pattern"`
	SupportInterfaceEnabled bool    `json:"support_interface_enabled"`
	SupportInterfaceLayers  int     `json:"support_interface_layers"`
	SupportZDistance        float64 `json:"support_z_distance"`  // accepted, not yet applied
	SupportXYDistance       float64 `json:"support_xy_distance"` // accepted, not yet applied
}

// Default returns the PLA baseline parameter set.
func Default() *Settings {
	return &Settings{
		LayerHeight:      0.2,
		FirstLayerHeight: 0.3,
		LineWidth:        0.4,
		LineWidthPct:     100,
		NozzleDiameter:   0.4,
		FilamentDiameter: 1.75,

		WallCount:        3,
		OuterBeforeInner: false,
		SeamPosition:     SeamBack,

		InfillDensity: 20,
		InfillPattern: InfillGrid,
		InfillAngle:   45,
		InfillOverlap: 10,

		TopLayers:    4,
		BottomLayers: 4,
		SkinOverlap:  5,

		BrimEnabled: false,
		BrimWidth:   8,

		RetractionEnabled:     true,
		RetractionDistance:    5,
		RetractionSpeed:       45,
		RetractionZHop:        0,
		RetractionMinDistance: 1.5,
		RetractionExtraPrime:  0,

		PrintSpeed:          60,
		OuterPerimeterSpeed: 40,
		TopBottomSpeed:      40,
		InfillSpeed:         80,
		BridgeSpeed:         25,
		FirstLayerSpeed:     25,
		TravelSpeed:         200,
		MinLayerTime:        5,

		PrintTemp:           210,
		PrintTempFirstLayer: 215,
		BedTemp:             60,

		FanSpeed:       100,
		FanFirstLayer:  0,
		FanKickInLayer: 2,

		SupportEnabled:          false,
		SupportThreshold:        45,
		SupportDensity:          15,
		SupportPattern:          SupportLines,
		SupportInterfaceEnabled: true,
		SupportInterfaceLayers:  2,
		SupportZDistance:        0.2,
		SupportXYDistance:       0.7,
	}
}

// DeriveLineWidth recomputes the absolute line width from the nozzle
// diameter and the percentage setting.
func (s *Settings) DeriveLineWidth() {
	s.LineWidth = s.NozzleDiameter * s.LineWidthPct / 100
}

// Copy returns a shallow copy (Settings holds no reference types).
func (s *Settings) Copy() *Settings {
	out := *s
	return &out
}

// ParameterError reports a parameter outside its documented range.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %s: %s", e.Field, e.Reason)
}
