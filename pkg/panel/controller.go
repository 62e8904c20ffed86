// Package panel implements the interactive transfer function panel: gesture
// handling over normalized panel coordinates, control point hit-testing and
// the plot geometry handed to the renderer.
package panel

import (
	"image/color"
	"math"

	"volshade/pkg/scalar"
	"volshade/pkg/transfer"
)

// Position is a point in normalized panel coordinates. X runs 0..1 left to
// right across the window, Y runs 0..1 bottom to top and encodes opacity.
type Position struct {
	X, Y float64
}

func (p Position) inBounds() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}

// Options holds the interaction tunables. Zero values select the defaults.
type Options struct {
	// MinGrabFraction is the smallest hit radius around a control point,
	// as a fraction of the panel width.
	MinGrabFraction float64
	// BorderSnapFraction snaps positions this close to a panel edge onto
	// the edge, so points can land exactly on the window bounds.
	BorderSnapFraction float64
	// WheelZoomDivisor converts wheel delta into a zoom exponent:
	// scale = 2^(delta/divisor).
	WheelZoomDivisor float64
}

// DefaultOptions returns the interaction tunables used when no
// configuration overrides them.
func DefaultOptions() Options {
	return Options{
		MinGrabFraction:    0.05,
		BorderSnapFraction: 0.02,
		WheelZoomDivisor:   480,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinGrabFraction <= 0 {
		o.MinGrabFraction = def.MinGrabFraction
	}
	if o.BorderSnapFraction <= 0 {
		o.BorderSnapFraction = def.BorderSnapFraction
	}
	if o.WheelZoomDivisor <= 0 {
		o.WheelZoomDivisor = def.WheelZoomDivisor
	}
	return o
}

// Controller turns pointer gestures into transfer function mutations. It
// tracks at most one grabbed control point between Press and Release and
// whether the points are still the automatic defaults that follow window
// zooms.
//
// Gesture methods return the affected control point index, -1 when the
// gesture had nothing to act on. They never panic on empty stores or stale
// indices.
type Controller struct {
	model *transfer.TransferFunction
	dt    scalar.DataType
	opts  Options

	grabbed int

	// autoPointUpdate stays true while the user has not placed, moved,
	// removed or recolored any point. While true, window zooms regenerate
	// the default ramp to span the new window.
	autoPointUpdate bool
}

// NewController returns a controller driving tf. The controller assumes the
// model still holds automatic default points; call DisableAutoPointUpdate
// after restoring customized state.
func NewController(tf *transfer.TransferFunction, opts Options) *Controller {
	return &Controller{
		model:           tf,
		dt:              tf.DataType(),
		opts:            opts.withDefaults(),
		grabbed:         -1,
		autoPointUpdate: true,
	}
}

// Model returns the transfer function the controller drives.
func (c *Controller) Model() *transfer.TransferFunction { return c.model }

// Grabbed returns the index of the point held by an active drag, -1 when
// idle.
func (c *Controller) Grabbed() int { return c.grabbed }

// AutoPointUpdate reports whether window zooms still regenerate the default
// ramp.
func (c *Controller) AutoPointUpdate() bool { return c.autoPointUpdate }

// DisableAutoPointUpdate marks the points as user-managed so window zooms
// keep them.
func (c *Controller) DisableAutoPointUpdate() { c.autoPointUpdate = false }

// Press grabs the control point near pos, or inserts a new point at pos
// with the default color and grabs it. Inserting pins the range and marks
// the points user-managed. Positions outside the panel return -1.
func (c *Controller) Press(pos Position) int {
	pos = c.snap(pos)
	if !pos.inBounds() {
		return -1
	}
	if idx := c.nearestWithinGrab(pos); idx >= 0 {
		c.grabbed = idx
		return idx
	}
	r, g, b := c.model.DefaultColor().RGB255()
	point := transfer.ControlPoint{
		Input: scalar.Lerp(c.model.Window(), c.dt, pos.X),
		Color: color.RGBA{R: r, G: g, B: b, A: alphaByte(pos.Y)},
	}
	c.model.ControlPoints().DisableAutoRange()
	c.autoPointUpdate = false
	c.grabbed = c.model.AddPoint(point)
	return c.grabbed
}

// Drag moves the grabbed point to pos, updating its input value and
// opacity. Landing exactly on another point's input value keeps the
// previous input so no point is ever swallowed; the opacity still updates.
// Positions outside the panel are ignored and the drag stays live. Returns
// the point's index after any re-sort, -1 when no drag is active or the
// point could not be tracked through the re-sort.
func (c *Controller) Drag(pos Position) int {
	if c.grabbed < 0 {
		return -1
	}
	pos = c.snap(pos)
	if !pos.inBounds() {
		return c.grabbed
	}
	cps := c.model.ControlPoints()
	if c.grabbed >= cps.Len() {
		c.grabbed = -1
		return -1
	}
	cur := cps.Point(c.grabbed)
	input := scalar.Lerp(c.model.Window(), c.dt, pos.X)
	for j := 0; j < cps.Len(); j++ {
		if j != c.grabbed && cps.Point(j).Input.Equal(input) {
			input = cur.Input
			break
		}
	}
	next := cur.Color
	next.A = alphaByte(pos.Y)
	cps.DisableAutoRange()
	c.autoPointUpdate = false
	c.grabbed = c.model.UpdatePoint(c.grabbed, transfer.ControlPoint{Input: input, Color: next})
	return c.grabbed
}

// Release drops the grabbed point, ending any drag.
func (c *Controller) Release() { c.grabbed = -1 }

// DoubleClick removes the control point near pos and returns its former
// index, or -1 when nothing was within grab distance. Removal marks the
// points user-managed and ends any drag.
func (c *Controller) DoubleClick(pos Position) int {
	pos = c.snap(pos)
	if !pos.inBounds() {
		return -1
	}
	idx := c.nearestWithinGrab(pos)
	if idx < 0 {
		return -1
	}
	c.model.RemovePoint(idx)
	c.autoPointUpdate = false
	c.grabbed = -1
	return idx
}

// SecondaryPress recolors the control point near pos with the default
// color, preserving its opacity. Returns the point's index, or -1 when
// nothing was within grab distance.
func (c *Controller) SecondaryPress(pos Position) int {
	pos = c.snap(pos)
	if !pos.inBounds() {
		return -1
	}
	idx := c.nearestWithinGrab(pos)
	if idx < 0 {
		return -1
	}
	c.model.UpdatePointColorRGB(idx, c.model.DefaultColor())
	c.autoPointUpdate = false
	return idx
}

// Wheel zooms the window about the cursor position. Positive delta zooms
// out, negative zooms in, one full detent pair (|delta| = 480 by default)
// doubling or halving the span. While the points are still automatic
// defaults the ramp is regenerated to span the new window; otherwise only
// the window moves. Returns false when the zoom would collapse the window.
func (c *Controller) Wheel(pos Position, delta float64) bool {
	scale := math.Exp2(delta / c.opts.WheelZoomDivisor)
	x := clamp01(pos.X)
	window := c.model.Window()
	lo := scalar.Lerp(window, c.dt, x*(1-scale))
	hi := scalar.Lerp(window, c.dt, x+scale*(1-x))
	next := scalar.NewInterval(lo, hi)
	if !next.Valid() || next.Hi.Cmp(next.Lo) < 0 {
		return false
	}
	if c.autoPointUpdate {
		c.model.GenerateDefaultControlPoints(next, next)
		return true
	}
	return c.model.SetWindow(next) == nil
}

// ClearPoints removes every control point and restores the automatic
// behaviors: the range follows the points again and window zooms regenerate
// the default ramp.
func (c *Controller) ClearPoints() {
	c.model.ClearPoints()
	c.autoPointUpdate = true
	c.grabbed = -1
}

// nearestWithinGrab returns the index of the best control point within grab
// distance of pos along X, ranking candidates by opacity distance plus ten
// times the input distance. Ties keep the first candidate found.
func (c *Controller) nearestWithinGrab(pos Position) int {
	window := c.model.Window()
	grab := c.grabDistance(window)
	cps := c.model.ControlPoints()
	best := -1
	bestRank := math.Inf(1)
	for i := 0; i < cps.Len(); i++ {
		p := cps.Point(i)
		dx := math.Abs(scalar.Invlerp(window, p.Input) - pos.X)
		if dx > grab {
			continue
		}
		dy := math.Abs(float64(p.Color.A)/255 - pos.Y)
		rank := dy + 10*dx
		if rank < bestRank {
			bestRank = rank
			best = i
		}
	}
	return best
}

// grabDistance widens the hit radius as the window narrows: with only a few
// representable values on screen, each one must stay grabbable.
func (c *Controller) grabDistance(window scalar.Interval) float64 {
	span := c.windowSpan(window)
	grab := c.opts.MinGrabFraction
	if span > 0 && 1/span > grab {
		grab = 1 / span
	}
	return grab
}

// windowSpan counts the representable values across the window. Float data
// has no grid, so its span is the constant that makes the grab distance
// bottom out at the minimum.
func (c *Controller) windowSpan(window scalar.Interval) float64 {
	if c.dt == scalar.Float32 {
		return 1 / c.opts.MinGrabFraction
	}
	return math.Abs(window.Span())
}

// snap pulls positions within the border band onto the exact edge. Points
// far outside the panel are left alone so the bounds checks reject them.
func (c *Controller) snap(pos Position) Position {
	f := c.opts.BorderSnapFraction
	if math.Abs(pos.X) <= f {
		pos.X = 0
	} else if math.Abs(pos.X-1) <= f {
		pos.X = 1
	}
	if math.Abs(pos.Y) <= f {
		pos.Y = 0
	} else if math.Abs(pos.Y-1) <= f {
		pos.Y = 1
	}
	return pos
}

func alphaByte(y float64) uint8 {
	return uint8(clamp01(y)*255 + 0.5)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
