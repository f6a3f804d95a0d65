// Package gcode walks ordered toolpath layers and emits the final
// G-code program. All printer side effects live here: motion,
// extrusion, retraction, z-hop, temperature, and fan state transitions
// are single functions on one state record so the retract/prime
// invariants stay checkable.
package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
	"github.com/kasynel/slicer/pkg/slicer"
	"github.com/kasynel/slicer/pkg/toolpath"
)

// positionTolerance is the distance below which the nozzle is
// considered already at a path start and no travel is emitted.
const positionTolerance = 1e-4

// Generator is the emitter state machine. One Generator serves one job.
type Generator struct {
	out strings.Builder

	cfg     *config.Settings
	printer *config.PrinterProfile
	plan    slicer.LayerPlan

	x, y, z   float64
	e         float64
	feed      float64 // current feedrate, mm/min
	retracted bool
	fanDuty   int // last commanded duty 0-255
	layer     int

	filamentArea float64 // mm², cross-section of the filament
}

// Generate renders the complete G-code program for a sliced job.
func Generate(job *slicer.Job, printer *config.PrinterProfile) (string, error) {
	cfg := job.Settings
	g := &Generator{
		cfg:     cfg,
		printer: printer,
		plan:    job.Plan,
		fanDuty: -1,
	}
	r := cfg.FilamentDiameter / 2
	g.filamentArea = math.Pi * r * r
	if g.filamentArea <= 0 {
		return "", fmt.Errorf("filament diameter %.3f yields no cross-section", cfg.FilamentDiameter)
	}

	g.header(len(job.Layers))
	g.startup()

	for _, layer := range job.Layers {
		g.beginLayer(layer)
		for _, path := range layer.Paths {
			if len(path.Points) == 0 {
				continue
			}
			if layer.Spiral && path.Closed {
				g.emitSpiralPath(layer, path)
			} else {
				g.emitPath(layer, path)
			}
		}
	}

	g.finish(job)
	return g.out.String(), nil
}

func (g *Generator) header(layerCount int) {
	fmt.Fprintf(&g.out, "; Generated by Kasynel_Slicer\n")
	fmt.Fprintf(&g.out, "; LAYER_COUNT:%d\n", layerCount)
	fmt.Fprintf(&g.out, "; LAYER_HEIGHT:%.2f\n", g.cfg.LayerHeight)
}

// startup emits the printer start template, heats bed and nozzle to
// their first-layer targets, and sets the first-layer fan duty.
func (g *Generator) startup() {
	g.template(g.printer.StartGcode)
	fmt.Fprintf(&g.out, "M140 S%d\n", g.cfg.BedTemp)
	fmt.Fprintf(&g.out, "M190 S%d\n", g.cfg.BedTemp)
	fmt.Fprintf(&g.out, "M104 S%d\n", g.cfg.PrintTempFirstLayer)
	fmt.Fprintf(&g.out, "M109 S%d\n", g.cfg.PrintTempFirstLayer)
	fmt.Fprintf(&g.out, "G92 E0\n")
	g.setFan(g.cfg.FanFirstLayer)
}

func (g *Generator) beginLayer(layer *toolpath.Layer) {
	g.layer = layer.Index
	fmt.Fprintf(&g.out, "; LAYER:%d\n", layer.Index)
	fmt.Fprintf(&g.out, "; Z:%.3f\n", layer.Z)

	if layer.Index == g.cfg.FanKickInLayer {
		g.setFan(g.cfg.FanSpeed)
	}
	if layer.Index == 1 && g.cfg.PrintTemp != g.cfg.PrintTempFirstLayer {
		fmt.Fprintf(&g.out, "M104 S%d\n", g.cfg.PrintTemp)
	}

	if !layer.Spiral {
		g.moveZ(layer.Z)
	}
}

// setFan commands the part fan as an 8-bit duty from a percentage.
func (g *Generator) setFan(percent int) {
	duty := int(math.Round(float64(percent) * 255 / 100))
	if duty == g.fanDuty {
		return
	}
	g.fanDuty = duty
	if duty <= 0 {
		fmt.Fprintf(&g.out, "M107\n")
		return
	}
	fmt.Fprintf(&g.out, "M106 S%d\n", duty)
}

func (g *Generator) moveZ(z float64) {
	if math.Abs(z-g.z) < positionTolerance {
		return
	}
	g.z = z
	fmt.Fprintf(&g.out, "G0 Z%.3f F%.0f\n", z, g.cfg.TravelSpeed*60)
	g.feed = g.cfg.TravelSpeed * 60
}

// emitPath prints one ordered path: type comment, travel with the
// retraction state machine, then extrusion moves.
func (g *Generator) emitPath(layer *toolpath.Layer, path *toolpath.Path) {
	fmt.Fprintf(&g.out, "; TYPE:%s\n", path.Kind)

	p := path
	if p.Closed {
		p = p.Rotated()
	}

	g.travelTo(p.Points[0], false)

	feed := g.feedFor(p.Kind)
	thickness := g.plan.ThicknessAt(layer.Index)
	prev := p.Points[0]
	for _, pt := range p.Points[1:] {
		g.extrudeTo(prev, pt, feed, thickness)
		prev = pt
	}
	if p.Closed {
		g.extrudeTo(prev, p.Points[0], feed, thickness)
	}
}

// emitSpiralPath prints a vase-mode wall: Z rises linearly with the
// distance travelled along the perimeter, no retraction, E continuous.
func (g *Generator) emitSpiralPath(layer *toolpath.Layer, path *toolpath.Path) {
	fmt.Fprintf(&g.out, "; TYPE:%s\n", path.Kind)

	p := path.Rotated()
	total := p.Length()
	if total <= 0 {
		return
	}
	thickness := g.plan.ThicknessAt(layer.Index)
	zBase := layer.Z - thickness
	feed := g.feedFor(p.Kind)

	g.travelTo(p.Points[0], true)
	g.z = zBase

	walk := append(p.Points[1:], p.Points[0])
	s := 0.0
	prev := p.Points[0]
	for _, pt := range walk {
		d := pt.Sub(prev).Length()
		if d < positionTolerance {
			continue
		}
		s += d
		z := zBase + s/total*thickness
		g.e += d * g.cfg.LineWidth * thickness / g.filamentArea
		g.writeMove("G1", pt.X, pt.Y, &z, &g.e, feed)
		g.x, g.y, g.z = pt.X, pt.Y, z
		prev = pt
	}
}

// travelTo moves the nozzle without extruding. Retraction and z-hop
// wrap the move when configured and the travel is long enough;
// noRetract suppresses both for spiral printing.
func (g *Generator) travelTo(to geom.Point, noRetract bool) {
	dist := to.Sub(geom.Point{X: g.x, Y: g.y}).Length()
	if dist < positionTolerance {
		return
	}

	retract := !noRetract &&
		g.cfg.RetractionEnabled &&
		dist >= g.cfg.RetractionMinDistance
	hop := retract && g.cfg.RetractionZHop > 0

	if retract && !g.retracted {
		g.e -= g.cfg.RetractionDistance
		g.feed = g.cfg.RetractionSpeed * 60
		fmt.Fprintf(&g.out, "G1 E%.5f F%.0f\n", g.e, g.feed)
		g.retracted = true
	}
	if hop {
		g.feed = g.cfg.TravelSpeed * 60
		fmt.Fprintf(&g.out, "G0 Z%.3f F%.0f\n", g.z+g.cfg.RetractionZHop, g.feed)
	}

	g.writeMove("G0", to.X, to.Y, nil, nil, g.cfg.TravelSpeed*60)
	g.x, g.y = to.X, to.Y

	if hop {
		g.feed = g.cfg.TravelSpeed * 60
		fmt.Fprintf(&g.out, "G0 Z%.3f F%.0f\n", g.z, g.feed)
	}
	if g.retracted {
		g.e += g.cfg.RetractionDistance + g.cfg.RetractionExtraPrime
		g.feed = g.cfg.RetractionSpeed * 60
		fmt.Fprintf(&g.out, "G1 E%.5f F%.0f\n", g.e, g.feed)
		g.retracted = false
	}
}

// extrudeTo emits one extrusion segment. The E advance per millimeter
// is the bead cross-section over the filament cross-section.
func (g *Generator) extrudeTo(from, to geom.Point, feed, thickness float64) {
	d := to.Sub(from).Length()
	if d < positionTolerance {
		return
	}
	g.e += d * g.cfg.LineWidth * thickness / g.filamentArea
	g.writeMove("G1", to.X, to.Y, nil, &g.e, feed)
	g.x, g.y = to.X, to.Y
}

// writeMove renders a motion command, emitting F only when the
// feedrate changes.
func (g *Generator) writeMove(cmd string, x, y float64, z, e *float64, feed float64) {
	fmt.Fprintf(&g.out, "%s X%.3f Y%.3f", cmd, x, y)
	if z != nil {
		fmt.Fprintf(&g.out, " Z%.3f", *z)
	}
	if e != nil {
		fmt.Fprintf(&g.out, " E%.5f", *e)
	}
	if feed != g.feed {
		fmt.Fprintf(&g.out, " F%.0f", feed)
		g.feed = feed
	}
	g.out.WriteByte('\n')
}

// feedFor selects the feedrate (mm/min) for a path kind on the current
// layer. Layer 0 prints everything at first-layer speed; brim always
// uses first-layer speed.
func (g *Generator) feedFor(kind toolpath.Kind) float64 {
	if g.layer == 0 || kind == toolpath.KindBrim {
		return g.cfg.FirstLayerSpeed * 60
	}
	var speed float64
	switch kind {
	case toolpath.KindWallOuter:
		speed = g.cfg.OuterPerimeterSpeed
	case toolpath.KindWallInner:
		speed = g.cfg.PrintSpeed
	case toolpath.KindSkin:
		speed = g.cfg.TopBottomSpeed
	case toolpath.KindFill, toolpath.KindSupport:
		speed = g.cfg.InfillSpeed
	case toolpath.KindTravel:
		speed = g.cfg.TravelSpeed
	default:
		speed = g.cfg.PrintSpeed
	}
	return speed * 60
}

// finish runs the end template and appends the job estimates.
func (g *Generator) finish(job *slicer.Job) {
	g.template(g.printer.EndGcode)
	fmt.Fprintf(&g.out, "; FILAMENT_USED_MM:%.1f\n", g.e)
	fmt.Fprintf(&g.out, "; FILAMENT_USED_G:%.1f\n", FilamentGrams(g.e, g.cfg.FilamentDiameter))
	fmt.Fprintf(&g.out, "; PRINT_TIME_S:%.0f\n", EstimateTime(job))
}

// template writes a start/end G-code template, normalizing the final
// newline.
func (g *Generator) template(t string) {
	if t == "" {
		return
	}
	g.out.WriteString(t)
	if !strings.HasSuffix(t, "\n") {
		g.out.WriteByte('\n')
	}
}
