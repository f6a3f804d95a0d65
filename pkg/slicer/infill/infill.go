// Package infill generates the line patterns that fill skin, sparse
// infill, and support regions. The scan-line generators (solid, lines,
// grid, zigzag) return clipped polylines in boustrophedon scan order;
// honeycomb returns the clipped cell perimeters. All output is ready for
// chaining.
package infill

import (
	"fmt"
	"math"
	"sort"

	"github.com/kasynel/slicer/pkg/config"
	"github.com/kasynel/slicer/pkg/geom"
)

// Func generates a pattern over a region. The layer index drives the
// per-layer direction alternation.
type Func func(region geom.PolygonSet, density, lineWidth float64, layer int) ([]geom.Polyline, error)

// ForPattern returns the generator for a sparse infill pattern name.
func ForPattern(pattern string) (Func, error) {
	switch pattern {
	case config.InfillLines:
		return Lines, nil
	case config.InfillGrid:
		return Grid, nil
	case config.InfillHoneycomb:
		return Honeycomb, nil
	}
	return nil, fmt.Errorf("unknown infill pattern %q", pattern)
}

// ForSupportPattern returns the generator for a support pattern name.
func ForSupportPattern(pattern string) (Func, error) {
	switch pattern {
	case config.SupportLines:
		return Lines, nil
	case config.SupportGrid:
		return Grid, nil
	case config.SupportZigzag:
		return Zigzag, nil
	}
	return nil, fmt.Errorf("unknown support pattern %q", pattern)
}

// Spacing converts a density percentage into a line spacing.
func Spacing(density, lineWidth float64) float64 {
	if density < 1 {
		density = 1
	}
	if density > 100 {
		density = 100
	}
	return lineWidth / (density / 100)
}

// alternation is the per-layer 90 degree direction flip shared by the
// solid and sparse patterns: 0 on even layers, 90 on odd.
func alternation(layer int) float64 {
	if layer%2 != 0 {
		return 90
	}
	return 0
}

// Solid fills the region with parallel lines at line-width spacing,
// producing 100% density fill for top/bottom skins.
func Solid(region geom.PolygonSet, lineWidth float64, layer int) ([]geom.Polyline, error) {
	return scanFill(region, alternation(layer), lineWidth)
}

// Lines fills with a single set of parallel lines, direction
// alternating 90 degrees per layer.
func Lines(region geom.PolygonSet, density, lineWidth float64, layer int) ([]geom.Polyline, error) {
	if density <= 0 {
		return nil, nil
	}
	return scanFill(region, alternation(layer), Spacing(density, lineWidth))
}

// Grid fills with two superimposed line sets at 0 and 90 degrees,
// rotated by the layer alternation. Spacing is doubled so the combined
// material matches the requested density.
func Grid(region geom.PolygonSet, density, lineWidth float64, layer int) ([]geom.Polyline, error) {
	if density <= 0 {
		return nil, nil
	}
	spacing := Spacing(density, lineWidth) * 2
	rot := alternation(layer)
	a, err := scanFill(region, rot, spacing)
	if err != nil {
		return nil, err
	}
	b, err := scanFill(region, rot+90, spacing)
	if err != nil {
		return nil, err
	}
	return append(a, b...), nil
}

// Zigzag is the connected boustrophedon variant of Lines used for
// support: adjacent scan segments are joined end-to-end into longer
// chains so the nozzle rarely lifts inside a support column.
func Zigzag(region geom.PolygonSet, density, lineWidth float64, layer int) ([]geom.Polyline, error) {
	if density <= 0 {
		return nil, nil
	}
	spacing := Spacing(density, lineWidth)
	lines, err := scanFill(region, alternation(layer), spacing)
	if err != nil {
		return nil, err
	}
	return chainZigzag(lines, spacing*2), nil
}

// honeycombEdgeFactor scales the density-derived spacing into the
// hexagon edge length.
const honeycombEdgeFactor = 1.5

// Honeycomb tessellates the region with flat-top hexagons and prints
// only the cell perimeters.
func Honeycomb(region geom.PolygonSet, density, lineWidth float64, layer int) ([]geom.Polyline, error) {
	if density <= 0 || region.IsEmpty() {
		return nil, nil
	}
	edge := Spacing(density, lineWidth) * honeycombEdgeFactor

	min, max := region.Bounds()
	pad := edge * 2
	colW := edge * 1.5
	rowH := edge * math.Sqrt(3)

	var cells []geom.Polyline
	col := 0
	for x := min.X - pad; x < max.X+pad; x += colW {
		offsetY := 0.0
		if col%2 == 1 {
			offsetY = rowH / 2
		}
		for y := min.Y - pad; y < max.Y+pad; y += rowH {
			cy := y + offsetY
			// Six edges of a flat-top hexagon centered at (x, cy).
			hex := make(geom.Polyline, 0, 7)
			for k := 0; k <= 6; k++ {
				ang := 60 * float64(k) * math.Pi / 180
				hex = append(hex, geom.Point{
					X: x + edge*math.Cos(ang),
					Y: cy + edge*math.Sin(ang),
				})
			}
			cells = append(cells, hex)
		}
		col++
	}

	return region.ClipLines(cells)
}

// scanFill generates parallel scan lines at the given angle and spacing
// covering the region, clips each to the region, and returns the
// surviving pieces in boustrophedon order: scan lines in sequence, with
// every other scan line reversed.
func scanFill(region geom.PolygonSet, angleDeg, spacing float64) ([]geom.Polyline, error) {
	if region.IsEmpty() || spacing <= 0 {
		return nil, nil
	}

	min, max := region.Bounds()
	cx := (min.X + max.X) / 2
	cy := (min.Y + max.Y) / 2
	diag := math.Hypot(max.X-min.X, max.Y-min.Y)/2 + spacing

	rad := angleDeg * math.Pi / 180
	dirX, dirY := math.Cos(rad), math.Sin(rad)
	perpX, perpY := -dirY, dirX

	n := int(math.Ceil(diag/spacing)) + 1
	var out []geom.Polyline
	for i := -n; i <= n; i++ {
		ox := cx + perpX*float64(i)*spacing
		oy := cy + perpY*float64(i)*spacing
		line := geom.Polyline{
			{X: ox - dirX*diag, Y: oy - dirY*diag},
			{X: ox + dirX*diag, Y: oy + dirY*diag},
		}
		pieces, err := region.ClipLines([]geom.Polyline{line})
		if err != nil {
			return nil, err
		}
		if len(pieces) == 0 {
			continue
		}

		// Order pieces along the scan direction, flipping every other
		// scan line for back-and-forth travel.
		forward := i%2 == 0
		sort.Slice(pieces, func(a, b int) bool {
			pa := pieces[a][0].X*dirX + pieces[a][0].Y*dirY
			pb := pieces[b][0].X*dirX + pieces[b][0].Y*dirY
			if forward {
				return pa < pb
			}
			return pa > pb
		})
		for _, piece := range pieces {
			descending := projOf(piece[len(piece)-1], dirX, dirY) < projOf(piece[0], dirX, dirY)
			if descending == forward {
				piece = reversed(piece)
			}
			out = append(out, piece)
		}
	}
	return out, nil
}

func projOf(p geom.Point, dx, dy float64) float64 {
	return p.X*dx + p.Y*dy
}

func reversed(l geom.Polyline) geom.Polyline {
	out := make(geom.Polyline, len(l))
	for i, p := range l {
		out[len(l)-1-i] = p
	}
	return out
}

// chainZigzag joins consecutive polylines whose adjacent endpoints are
// within joinDistance into single connected chains.
func chainZigzag(lines []geom.Polyline, joinDistance float64) []geom.Polyline {
	var out []geom.Polyline
	var cur geom.Polyline
	for _, line := range lines {
		if cur == nil {
			cur = line
			continue
		}
		if line[0].Sub(cur[len(cur)-1]).Length() <= joinDistance {
			cur = append(cur, line...)
			continue
		}
		out = append(out, cur)
		cur = line
	}
	if cur != nil {
		out = append(out, cur)
	}
	return out
}
