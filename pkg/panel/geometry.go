package panel

import (
	"image/color"

	"volshade/pkg/scalar"
	"volshade/pkg/transfer"
)

// Vertex is a normalized plot coordinate, matching Position's axes.
type Vertex struct {
	X, Y float32
}

// PointSprite marks one control point on the plot. Index refers back into
// the store so picking can map sprites to points.
type PointSprite struct {
	Pos   Vertex
	Color color.RGBA
	Index int
}

// PlotGeometry is what the renderer draws for one frame of the panel: the
// opacity polyline and the control point markers, both already clipped to
// the visible window.
type PlotGeometry struct {
	Line    []Vertex
	Sprites []PointSprite
}

// BuildPlotGeometry lays out the opacity function of cps over window. The
// polyline carries the transparent shelf left of the first point, the
// vertical step up to it, one vertex per visible point and the repeated
// shelf after the last point. Segments crossing the window edges are cut at
// the edge with interpolated opacity. An empty store yields empty geometry.
func BuildPlotGeometry(cps *transfer.SortedControlPoints, window scalar.Interval) PlotGeometry {
	n := cps.Len()
	if n == 0 {
		return PlotGeometry{}
	}

	type coord struct{ x, y float64 }
	pts := make([]coord, n)
	for i := 0; i < n; i++ {
		p := cps.Point(i)
		pts[i] = coord{
			x: scalar.Invlerp(window, p.Input),
			y: float64(p.Color.A) / 255,
		}
	}

	// Logical polyline before clipping: shelf, step, points, trailing
	// shelf. The step shares the first point's x, giving the vertical
	// rise out of the transparent region.
	poly := make([]coord, 0, n+3)
	if pts[0].x > 0 {
		poly = append(poly, coord{0, 0}, coord{pts[0].x, 0})
	}
	poly = append(poly, pts...)
	if pts[n-1].x < 1 {
		poly = append(poly, coord{1, pts[n-1].y})
	}

	var geom PlotGeometry
	push := func(c coord) {
		v := Vertex{X: float32(c.x), Y: float32(c.y)}
		if len(geom.Line) == 0 || geom.Line[len(geom.Line)-1] != v {
			geom.Line = append(geom.Line, v)
		}
	}
	for i := 0; i+1 < len(poly); i++ {
		a, b := poly[i], poly[i+1]
		// Discard segments fully outside the window.
		if (a.x < 0 && b.x < 0) || (a.x > 1 && b.x > 1) {
			continue
		}
		if a.x != b.x {
			if a.x < 0 {
				a = coord{0, a.y + (0-a.x)/(b.x-a.x)*(b.y-a.y)}
			}
			if b.x > 1 {
				b = coord{1, a.y + (1-a.x)/(b.x-a.x)*(b.y-a.y)}
			}
		}
		push(a)
		push(b)
	}

	for i, p := range pts {
		if p.x < 0 || p.x > 1 {
			continue
		}
		geom.Sprites = append(geom.Sprites, PointSprite{
			Pos:   Vertex{X: float32(p.x), Y: float32(p.y)},
			Color: cps.Point(i).Color,
			Index: i,
		})
	}
	return geom
}
