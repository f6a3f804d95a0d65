// Command kasynel-slice is the command-line host for the slicing core:
// it resolves printer/material profiles and presets, obtains a mesh,
// runs the pipeline, and writes the G-code file.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/gcode"
	"github.com/kasynel/slicer/pkg/mesh"
	"github.com/kasynel/slicer/pkg/slicer"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kasynel-slice: ")

	var (
		inPath    = flag.String("in", "", "input binary STL file")
		shape     = flag.String("shape", "", "built-in test shape: cube, cylinder, tee")
		outPath   = flag.String("o", "", "output G-code file (default: input name with .gcode)")
		printers  = flag.String("printers", "", "printers.json profile file")
		printerNm = flag.String("printer", "", "printer profile name")
		materials = flag.String("materials", "", "materials.json profile file")
		material  = flag.String("material", "", "material profile name")
		preset    = flag.String("preset", "", "preset JSON file overlaying the defaults")

		layerHeight = flag.Float64("layer-height", 0, "layer height override, mm")
		walls       = flag.Int("walls", 0, "wall count override")
		density     = flag.Float64("infill", -1, "infill density override, percent")
		pattern     = flag.String("pattern", "", "infill pattern override: grid, lines, honeycomb")
		brim        = flag.Bool("brim", false, "enable brim")
		spiralize   = flag.Bool("spiralize", false, "enable vase mode")
		supports    = flag.Bool("support", false, "enable support generation")
		quiet       = flag.Bool("q", false, "suppress progress output")
	)
	flag.Parse()

	if (*inPath == "") == (*shape == "") {
		log.Fatal("exactly one of -in or -shape is required")
	}

	printer, cfg, err := resolveProfiles(*printers, *printerNm, *materials, *material, *preset)
	if err != nil {
		log.Fatal(err)
	}

	if *layerHeight > 0 {
		cfg.LayerHeight = *layerHeight
	}
	if *walls > 0 {
		cfg.WallCount = *walls
	}
	if *density >= 0 {
		cfg.InfillDensity = *density
	}
	if *pattern != "" {
		cfg.InfillPattern = *pattern
	}
	if *brim {
		cfg.BrimEnabled = true
	}
	if *spiralize {
		cfg.Spiralize = true
	}
	if *supports {
		cfg.SupportEnabled = true
	}

	var m *mesh.Mesh
	if *inPath != "" {
		m, err = readSTL(*inPath)
	} else {
		m, err = builtinShape(*shape)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("mesh %s: %d triangles, volume %.1f mm3",
		m.Name, m.TriangleCount(), m.Volume())

	out := *outPath
	if out == "" {
		if *inPath != "" {
			out = strings.TrimSuffix(*inPath, filepath.Ext(*inPath)) + ".gcode"
		} else {
			out = *shape + ".gcode"
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := slicer.ProgressFunc(nil)
	if !*quiet {
		lastPct := -1
		progress = func(stage string, fraction float64) {
			pct := int(fraction * 100)
			if pct/10 != lastPct/10 {
				lastPct = pct
				log.Printf("%s: %d%%", stage, pct)
			}
		}
	}

	job, err := slicer.Slice(ctx, m, cfg, printer, progress)
	if err != nil {
		if errors.Is(err, slicer.ErrCancelled) {
			log.Fatal("cancelled; no output written")
		}
		log.Fatal(err)
	}

	for _, w := range job.Warnings {
		log.Printf("warning: %s", w)
	}

	text, err := gcode.Generate(job, printer)
	if err != nil {
		log.Fatal(err)
	}

	if err := writeAtomic(out, []byte(text)); err != nil {
		log.Fatal(err)
	}

	log.Printf("%s: %d layers, ~%.0f s, ~%.1f g filament",
		out, len(job.Layers), gcode.EstimateTime(job),
		gcode.FilamentGrams(gcode.EstimateFilament(job), cfg.FilamentDiameter))
}

// resolveProfiles merges printer defaults, the material profile, and
// the preset into the final parameter set, in that order.
func resolveProfiles(printersPath, printerName, materialsPath, materialName, presetPath string) (*config.PrinterProfile, *config.Settings, error) {
	printer := config.DefaultPrinter()
	if printersPath != "" {
		profiles, err := config.LoadPrinters(printersPath)
		if err != nil {
			return nil, nil, err
		}
		if printerName == "" && len(profiles) > 0 {
			printer = &profiles[0]
		} else {
			printer, err = config.FindPrinter(profiles, printerName)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	cfg := config.Default()
	cfg.ApplyPrinter(printer)

	if materialsPath != "" {
		profiles, err := config.LoadMaterials(materialsPath)
		if err != nil {
			return nil, nil, err
		}
		if len(profiles) == 0 {
			return nil, nil, errors.New("no material profiles in " + materialsPath)
		}
		mat := &profiles[0]
		if materialName != "" {
			mat, err = config.FindMaterial(profiles, materialName)
			if err != nil {
				return nil, nil, err
			}
		}
		cfg.ApplyMaterial(mat)
	}

	if presetPath != "" {
		if err := cfg.ApplyPreset(presetPath); err != nil {
			return nil, nil, err
		}
		cfg.DeriveLineWidth()
	}

	return printer, cfg, nil
}

// writeAtomic writes the file through a temp name so a cancelled or
// failed job never leaves a partial G-code file behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".kasynel-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
