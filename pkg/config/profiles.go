package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// PrinterProfile describes one machine. Profiles are read by the host
// from printers.json; the core receives the resolved structure.
type PrinterProfile struct {
	Name             string     `json:"name"`
	BedSize          [3]float64 `json:"bed_size"` // x, y, z in mm
	BedTempMax       int        `json:"bed_temp_max"`
	NozzleDiameter   float64    `json:"nozzle_diameter"`
	FilamentDiameter float64    `json:"filament_diameter"`
	MaxPrintSpeed    float64    `json:"max_print_speed"`
	StartGcode       string     `json:"start_gcode"`
	EndGcode         string     `json:"end_gcode"`
}

// MaterialProfile describes one filament. Its values overwrite the
// matching Settings fields when applied.
type MaterialProfile struct {
	Name                string  `json:"name"`
	PrintTemp           int     `json:"print_temp"`
	PrintTempFirstLayer int     `json:"print_temp_first_layer"`
	BedTemp             int     `json:"bed_temp"`
	FanSpeed            int     `json:"fan_speed"`
	RetractionDistance  float64 `json:"retraction_distance"`
}

// DefaultPrinter returns a generic 220mm Cartesian machine.
func DefaultPrinter() *PrinterProfile {
	return &PrinterProfile{
		Name:             "Generic 220",
		BedSize:          [3]float64{220, 220, 250},
		BedTempMax:       110,
		NozzleDiameter:   0.4,
		FilamentDiameter: 1.75,
		MaxPrintSpeed:    300,
		StartGcode: "G28 ; home all axes\n" +
			"G92 E0 ; reset extruder\n" +
			"G1 Z2.0 F3000 ; lift before purge\n",
		EndGcode: "M104 S0 ; nozzle off\n" +
			"M140 S0 ; bed off\n" +
			"M107 ; fan off\n" +
			"G91\nG1 Z10 F3000 ; lift\nG90\n" +
			"M84 ; disable steppers\n",
	}
}

// LoadPrinters reads a printers.json file: a JSON array of profiles.
func LoadPrinters(path string) ([]PrinterProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read printer profiles: %w", err)
	}
	var profiles []PrinterProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return profiles, nil
}

// LoadMaterials reads a materials.json file: a JSON array of profiles.
func LoadMaterials(path string) ([]MaterialProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read material profiles: %w", err)
	}
	var profiles []MaterialProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return profiles, nil
}

// FindPrinter returns the named profile, or an error listing what is
// available.
func FindPrinter(profiles []PrinterProfile, name string) (*PrinterProfile, error) {
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("printer profile %q not found among %d profiles", name, len(profiles))
}

// FindMaterial returns the named profile.
func FindMaterial(profiles []MaterialProfile, name string) (*MaterialProfile, error) {
	for i := range profiles {
		if profiles[i].Name == name {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("material profile %q not found among %d profiles", name, len(profiles))
}

// ApplyPrinter copies machine-derived fields into the settings and
// rederives the absolute line width.
func (s *Settings) ApplyPrinter(p *PrinterProfile) {
	s.NozzleDiameter = p.NozzleDiameter
	s.FilamentDiameter = p.FilamentDiameter
	s.DeriveLineWidth()
}

// ApplyMaterial overwrites the material-owned fields.
func (s *Settings) ApplyMaterial(m *MaterialProfile) {
	s.PrintTemp = m.PrintTemp
	s.PrintTempFirstLayer = m.PrintTempFirstLayer
	s.BedTemp = m.BedTemp
	s.FanSpeed = m.FanSpeed
	s.RetractionDistance = m.RetractionDistance
}

// ApplyPreset overlays a preset file onto the settings. Presets are
// partial Settings documents; only the fields present in the JSON are
// overwritten.
func (s *Settings) ApplyPreset(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read preset: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse preset %s: %w", path, err)
	}
	return nil
}
