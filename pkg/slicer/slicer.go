// Package slicer implements the slicing pipeline: mesh preparation,
// layer planning, cross-sectioning, region building, path synthesis,
// and within-layer ordering. The G-code emitter consumes its output.
package slicer

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
	"github.com/kasynel/slicer/pkg/mesh"
	"github.com/kasynel/slicer/pkg/order"
	"github.com/kasynel/slicer/pkg/slicer/support"
	"github.com/kasynel/slicer/pkg/toolpath"
)

// ProgressFunc receives coarse progress reports: a stage name and a
// completion fraction in [0, 1]. It must be cheap and must not mutate
// core state. It may be nil.
type ProgressFunc func(stage string, fraction float64)

// Job is the completed result of one slicing call.
type Job struct {
	ID       string
	Layers   []*toolpath.Layer
	Plan     LayerPlan
	Warnings []Warning
	Settings *config.Settings
}

// Slice runs the full pipeline on a copy of the mesh. The mesh is
// centered on the printer bed first; the caller's mesh is not mutated.
// Cancellation is polled at layer boundaries and inside the
// cross-sectioner; on cancellation the error wraps ErrCancelled and no
// partial result is returned.
func Slice(ctx context.Context, m *mesh.Mesh, cfg *config.Settings, printer *config.PrinterProfile, progress ProgressFunc) (*Job, error) {
	if progress == nil {
		progress = func(string, float64) {}
	}

	if errs := cfg.Validate(printer); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i, e := range errs {
			joined[i] = e
		}
		return nil, errors.Join(joined...)
	}
	cfg = cfg.Copy()

	job := &Job{ID: uuid.NewString(), Settings: cfg}
	recordGapWarnings(cfg, &job.Warnings)

	// Stage 1: mesh preparation.
	prepared, zMax, err := prepare(m, printer)
	if err != nil {
		return nil, err
	}
	progress("prepare", 1)

	// Stage 2: layer planning.
	job.Plan = PlanLayers(zMax, cfg.FirstLayerHeight, cfg.LayerHeight)
	n := job.Plan.Count()

	// Stage 3: cross-section every layer. Outlines are held in memory
	// so the skin window can difference against neighbors.
	outlines := make([]geom.PolygonSet, n)
	anyGeometry := false
	for i, z := range job.Plan.Heights {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}
		outline, open, err := crossSection(ctx, prepared, z)
		if err != nil {
			return nil, err
		}
		if open > 0 {
			job.Warnings = append(job.Warnings, Warning{
				Code:   WarnOpenContour,
				Layer:  i,
				Detail: pluralSegments(open),
			})
		}
		if !outline.IsEmpty() {
			anyGeometry = true
		}
		outlines[i] = outline
		progress("section", float64(i+1)/float64(n))
	}
	if !anyGeometry {
		return nil, ErrEmptyJob
	}

	// Support regions need the full outline stack.
	supports := make([]geom.PolygonSet, n)
	if cfg.SupportEnabled {
		supports, err = support.Regions(outlines, cfg.LayerHeight, cfg.SupportThreshold)
		if err != nil {
			return nil, &GeometryError{Layer: -1, Stage: "support", Err: err}
		}
	}

	// Stages 4-6: regions, paths, ordering, one forward pass.
	cur := geom.Point{}
	for i, z := range job.Plan.Heights {
		if err := ctx.Err(); err != nil {
			return nil, ErrCancelled
		}

		regions, err := buildRegions(i, outlines, cfg, &job.Warnings)
		if err != nil {
			return nil, err
		}
		if !regions.Spiral {
			regions.Support = supports[i]
		}

		buckets, err := synthesize(i, z, regions, cfg)
		if err != nil {
			return nil, err
		}

		layer, end := order.Arrange(buckets, cfg, cur)
		cur = end
		job.Layers = append(job.Layers, layer)
		progress("paths", float64(i+1)/float64(n))
	}

	return job, nil
}

// prepare validates the mesh, centers it on the bed, and returns the
// prepared copy plus its top elevation.
func prepare(m *mesh.Mesh, printer *config.PrinterProfile) (*mesh.Mesh, float64, error) {
	if m == nil || m.IsEmpty() {
		return nil, 0, ErrInvalidMesh
	}
	if !m.HasFiniteCoords() {
		return nil, 0, ErrInvalidMesh
	}
	if m.Volume() <= 0 {
		return nil, 0, ErrInvalidMesh
	}

	prepared := m.Copy()
	prepared.CenterOnBed(printer.BedSize[0], printer.BedSize[1])

	min, max := prepared.Bounds()
	extents := [3]float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z}
	axes := [3]string{"x", "y", "z"}
	for i, e := range extents {
		if e > printer.BedSize[i] {
			return nil, 0, &OutOfVolumeError{Axis: axes[i], Extent: e, Limit: printer.BedSize[i]}
		}
	}
	return prepared, max.Z, nil
}

// recordGapWarnings surfaces the accepted-but-not-applied parameters so
// hosts can tell users what the baseline ignores.
func recordGapWarnings(cfg *config.Settings, warnings *[]Warning) {
	if cfg.SeamPosition != config.SeamBack {
		*warnings = append(*warnings, Warning{
			Code: WarnSeamPositionFallback, Layer: -1, Detail: cfg.SeamPosition,
		})
	}
	if cfg.InfillAngle != 0 && cfg.InfillDensity > 0 {
		*warnings = append(*warnings, Warning{Code: WarnInfillAngleIgnored, Layer: -1})
	}
	if cfg.MinLayerTime > 0 {
		*warnings = append(*warnings, Warning{Code: WarnMinLayerTimeIgnored, Layer: -1})
	}
	if cfg.SupportEnabled {
		for _, name := range []string{"support_z_distance", "support_xy_distance"} {
			*warnings = append(*warnings, Warning{
				Code: WarnSupportParameterIgnored, Layer: -1, Detail: name,
			})
		}
		if cfg.SupportInterfaceEnabled && cfg.SupportInterfaceLayers > 0 {
			*warnings = append(*warnings, Warning{
				Code: WarnSupportParameterIgnored, Layer: -1, Detail: "support_interface_layers",
			})
		}
	}
}

func pluralSegments(n int) string {
	if n == 1 {
		return "1 open chain"
	}
	return strconv.Itoa(n) + " open chains"
}
