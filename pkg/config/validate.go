package config

import "fmt"

// Validate checks every numeric parameter against its documented range
// and the enumerated parameters against their accepted values. The
// printer profile supplies machine limits; it may be nil, in which case
// machine-relative checks are skipped.
func (s *Settings) Validate(printer *PrinterProfile) []*ParameterError {
	var errs []*ParameterError

	requirePositive := func(field string, v float64) {
		if v <= 0 {
			errs = append(errs, &ParameterError{
				Field:  field,
				Reason: fmt.Sprintf("is %.4f, must be positive", v),
			})
		}
	}
	requireNonNegative := func(field string, v float64) {
		if v < 0 {
			errs = append(errs, &ParameterError{
				Field:  field,
				Reason: fmt.Sprintf("is %.4f, must not be negative", v),
			})
		}
	}
	requirePercent := func(field string, v float64) {
		if v < 0 || v > 100 {
			errs = append(errs, &ParameterError{
				Field:  field,
				Reason: fmt.Sprintf("is %.2f, must be within 0-100", v),
			})
		}
	}

	requirePositive("layer_height", s.LayerHeight)
	if s.LayerHeight > 1 {
		errs = append(errs, &ParameterError{Field: "layer_height", Reason: "exceeds 1.0 mm"})
	}
	requirePositive("first_layer_height", s.FirstLayerHeight)
	requirePositive("nozzle_diameter", s.NozzleDiameter)
	requirePositive("filament_diameter", s.FilamentDiameter)
	requirePositive("line_width", s.LineWidth)
	if s.LineWidthPct < 50 || s.LineWidthPct > 250 {
		errs = append(errs, &ParameterError{
			Field:  "line_width_pct",
			Reason: fmt.Sprintf("is %.1f, must be within 50-250", s.LineWidthPct),
		})
	}

	if s.WallCount < 1 {
		errs = append(errs, &ParameterError{
			Field:  "wall_count",
			Reason: fmt.Sprintf("is %d, must be at least 1", s.WallCount),
		})
	}
	switch s.SeamPosition {
	case SeamBack, SeamRandom, SeamSharpest:
	default:
		errs = append(errs, &ParameterError{
			Field:  "seam_position",
			Reason: fmt.Sprintf("%q is not one of back, random, sharpest", s.SeamPosition),
		})
	}

	requirePercent("infill_density", s.InfillDensity)
	switch s.InfillPattern {
	case InfillGrid, InfillLines, InfillHoneycomb:
	default:
		errs = append(errs, &ParameterError{
			Field:  "infill_pattern",
			Reason: fmt.Sprintf("%q is not one of grid, lines, honeycomb", s.InfillPattern),
		})
	}
	requirePercent("infill_overlap", s.InfillOverlap)
	requirePercent("skin_overlap", s.SkinOverlap)

	if s.TopLayers < 0 {
		errs = append(errs, &ParameterError{Field: "top_layers", Reason: "must not be negative"})
	}
	if s.BottomLayers < 0 {
		errs = append(errs, &ParameterError{Field: "bottom_layers", Reason: "must not be negative"})
	}

	requireNonNegative("brim_width", s.BrimWidth)
	requireNonNegative("retraction_distance", s.RetractionDistance)
	requireNonNegative("retraction_z_hop", s.RetractionZHop)
	requireNonNegative("retraction_min_distance", s.RetractionMinDistance)
	requireNonNegative("retraction_extra_prime", s.RetractionExtraPrime)
	if s.RetractionEnabled {
		requirePositive("retraction_speed", s.RetractionSpeed)
	}

	requirePositive("print_speed", s.PrintSpeed)
	requirePositive("outer_perimeter_speed", s.OuterPerimeterSpeed)
	requirePositive("top_bottom_speed", s.TopBottomSpeed)
	requirePositive("infill_speed", s.InfillSpeed)
	requirePositive("bridge_speed", s.BridgeSpeed)
	requirePositive("first_layer_speed", s.FirstLayerSpeed)
	requirePositive("travel_speed", s.TravelSpeed)

	if s.SupportEnabled {
		if s.SupportThreshold <= 0 || s.SupportThreshold >= 90 {
			errs = append(errs, &ParameterError{
				Field:  "support_threshold",
				Reason: fmt.Sprintf("is %.1f, must be within (0, 90) degrees", s.SupportThreshold),
			})
		}
		requirePercent("support_density", s.SupportDensity)
		switch s.SupportPattern {
		case SupportLines, SupportGrid, SupportZigzag:
		default:
			errs = append(errs, &ParameterError{
				Field:  "support_pattern",
				Reason: fmt.Sprintf("%q is not one of lines, grid, zigzag", s.SupportPattern),
			})
		}
		if s.SupportInterfaceLayers < 0 {
			errs = append(errs, &ParameterError{Field: "support_interface_layers", Reason: "must not be negative"})
		}
	}

	if s.PrintTemp <= 0 || s.PrintTemp > 350 {
		errs = append(errs, &ParameterError{
			Field:  "print_temp",
			Reason: fmt.Sprintf("is %d, must be within 1-350", s.PrintTemp),
		})
	}
	if s.PrintTempFirstLayer <= 0 || s.PrintTempFirstLayer > 350 {
		errs = append(errs, &ParameterError{
			Field:  "print_temp_first_layer",
			Reason: fmt.Sprintf("is %d, must be within 1-350", s.PrintTempFirstLayer),
		})
	}
	if s.BedTemp < 0 {
		errs = append(errs, &ParameterError{Field: "bed_temp", Reason: "must not be negative"})
	}
	if s.FanSpeed < 0 || s.FanSpeed > 100 {
		errs = append(errs, &ParameterError{Field: "fan_speed", Reason: "must be within 0-100"})
	}
	if s.FanFirstLayer < 0 || s.FanFirstLayer > 100 {
		errs = append(errs, &ParameterError{Field: "fan_first_layer", Reason: "must be within 0-100"})
	}
	if s.FanKickInLayer < 0 {
		errs = append(errs, &ParameterError{Field: "fan_kick_in_layer", Reason: "must not be negative"})
	}

	if printer != nil {
		if s.BedTemp > printer.BedTempMax {
			errs = append(errs, &ParameterError{
				Field:  "bed_temp",
				Reason: fmt.Sprintf("is %d, exceeds printer maximum %d", s.BedTemp, printer.BedTempMax),
			})
		}
		speeds := []struct {
			field string
			value float64
		}{
			{"print_speed", s.PrintSpeed},
			{"outer_perimeter_speed", s.OuterPerimeterSpeed},
			{"top_bottom_speed", s.TopBottomSpeed},
			{"infill_speed", s.InfillSpeed},
			{"first_layer_speed", s.FirstLayerSpeed},
			{"travel_speed", s.TravelSpeed},
		}
		for _, sp := range speeds {
			if printer.MaxPrintSpeed > 0 && sp.value > printer.MaxPrintSpeed {
				errs = append(errs, &ParameterError{
					Field:  sp.field,
					Reason: fmt.Sprintf("is %.1f, exceeds printer maximum %.1f", sp.value, printer.MaxPrintSpeed),
				})
			}
		}
	}

	return errs
}
