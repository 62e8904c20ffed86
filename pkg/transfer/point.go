// Package transfer implements the transfer-function model: an ordered set
// of control points mapping voxel values to RGBA colors, the lookup-table
// rasterization that turns those points into a dense color table, and the
// serializable parameter set the surrounding application persists.
package transfer

import (
	"image/color"
	"math"

	"volshade/pkg/scalar"
)

// ControlPoint anchors one (input value, output color) pair of the
// piecewise-linear transfer function. Control points are plain values;
// mutating one means replacing it, so no state is ever shared by aliasing.
type ControlPoint struct {
	Input scalar.Value
	Color color.RGBA
}

// NormalizedInput returns the point's position relative to rng, 0 at the
// lower bound and 1 at the upper.
func (p ControlPoint) NormalizedInput(rng scalar.Interval) float64 {
	return scalar.Invlerp(rng, p.Input)
}

// TableIndex maps the point into a table of the given size using window as
// the domain. The result falls outside [0, size-1] when the window excludes
// the point.
func (p ControlPoint) TableIndex(window scalar.Interval, size int) int {
	return int(math.Floor(scalar.Invlerp(window, p.Input) * float64(size-1)))
}

// Equal reports component-wise equality of input value and color.
func (p ControlPoint) Equal(o ControlPoint) bool {
	return p.Input.Equal(o.Input) && p.Color == o.Color
}
