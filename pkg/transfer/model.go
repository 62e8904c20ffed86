package transfer

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"volshade/pkg/scalar"
)

// TransferFunction ties the control point store, the derived lookup table
// and the widget-facing parameters together. Every mutation notifies the
// registered watchers so dependents (plot geometry, texture uploads,
// persisted state) can refresh.
//
// The model is not safe for concurrent use. Drive it from one goroutine,
// the same way the event loop drives the panel controller.
type TransferFunction struct {
	dataType scalar.DataType
	params   *Parameters
	lookup   *LookupTable
	watchers []func()
}

// New returns a transfer function for dt seeded with the default
// transparent-to-white ramp and a lookup table of the given size.
func New(dt scalar.DataType, lookupSize int) *TransferFunction {
	return NewFromParameters(dt, DefaultParameters(dt), lookupSize)
}

// NewFromParameters returns a transfer function owning params. The lookup
// table is rasterized immediately so the model starts consistent.
func NewFromParameters(dt scalar.DataType, params *Parameters, lookupSize int) *TransferFunction {
	tf := &TransferFunction{
		dataType: dt,
		params:   params,
		lookup:   NewLookupTable(lookupSize),
	}
	tf.updateLookup()
	return tf
}

// DataType returns the voxel data type the function is defined over.
func (tf *TransferFunction) DataType() scalar.DataType { return tf.dataType }

// ControlPoints returns the live control point store. Treat it as read-only;
// mutations must go through the TransferFunction so watchers stay in sync.
func (tf *TransferFunction) ControlPoints() *SortedControlPoints { return tf.params.ControlPoints }

// Lookup returns the rasterized lookup table. It is rewritten in place on
// every mutation, so the backing bytes always match the current points.
func (tf *TransferFunction) Lookup() *LookupTable { return tf.lookup }

// Parameters returns a deep-copied snapshot of the current state, suitable
// for persisting or diffing against later snapshots.
func (tf *TransferFunction) Parameters() *Parameters { return tf.params.Copy() }

// Window returns the interval the plot and lookup table span.
func (tf *TransferFunction) Window() scalar.Interval { return tf.params.Window }

// SetWindow moves the plot window. Degenerate or descending intervals are
// rejected with ErrInvalidWindow and leave the model untouched.
func (tf *TransferFunction) SetWindow(iv scalar.Interval) error {
	if !iv.Valid() || iv.Hi.Cmp(iv.Lo) < 0 {
		return ErrInvalidWindow
	}
	tf.params.Window = iv
	tf.changed()
	return nil
}

// DefaultColor returns the color assigned to newly placed points.
func (tf *TransferFunction) DefaultColor() colorful.Color { return tf.params.DefaultColor }

// SetDefaultColor changes the color newly placed points receive. Existing
// points keep their colors.
func (tf *TransferFunction) SetDefaultColor(c colorful.Color) {
	tf.params.DefaultColor = c
	tf.changed()
}

// Channel returns the channel coordinates the function applies to.
func (tf *TransferFunction) Channel() []int { return tf.params.Channel }

// SetChannel selects the channel coordinates the function applies to.
func (tf *TransferFunction) SetChannel(ch []int) {
	tf.params.Channel = append([]int(nil), ch...)
	tf.changed()
}

// AddPoint inserts a control point and returns its index in sorted order.
func (tf *TransferFunction) AddPoint(p ControlPoint) int {
	tf.params.ControlPoints.AddPoint(p)
	tf.changed()
	return tf.params.ControlPoints.FindNearestIndex(p.Input)
}

// RemovePoint deletes the point at index i. It reports false when the index
// is out of range, leaving the model untouched.
func (tf *TransferFunction) RemovePoint(i int) bool {
	if i < 0 || i >= tf.params.ControlPoints.Len() {
		return false
	}
	tf.params.ControlPoints.RemovePoint(i)
	tf.changed()
	return true
}

// UpdatePoint replaces the point at index i and returns the index the
// replacement landed on after re-sorting, or -1 when i is out of range.
func (tf *TransferFunction) UpdatePoint(i int, p ControlPoint) int {
	if i < 0 || i >= tf.params.ControlPoints.Len() {
		return -1
	}
	j := tf.params.ControlPoints.UpdatePoint(i, p)
	tf.changed()
	return j
}

// UpdatePointColor replaces all four color channels of the point at index
// i. It reports false when the index is out of range.
func (tf *TransferFunction) UpdatePointColor(i int, c color.RGBA) bool {
	if i < 0 || i >= tf.params.ControlPoints.Len() {
		return false
	}
	tf.params.ControlPoints.UpdatePointColor(i, c)
	tf.changed()
	return true
}

// UpdatePointColorRGB recolors the point at index i with the opaque
// channels of c, preserving its alpha. It reports false when the index is
// out of range.
func (tf *TransferFunction) UpdatePointColorRGB(i int, c colorful.Color) bool {
	if i < 0 || i >= tf.params.ControlPoints.Len() {
		return false
	}
	tf.params.ControlPoints.UpdatePointColorRGB(i, c)
	tf.changed()
	return true
}

// FindNearestControlPointIndex returns the index of the point closest to
// the position x normalized against window, or -1 when no points exist.
func (tf *TransferFunction) FindNearestControlPointIndex(x float64, window scalar.Interval) int {
	v := scalar.Lerp(window, tf.dataType, x)
	return tf.params.ControlPoints.FindNearestIndex(v)
}

// GenerateDefaultControlPoints replaces all points with the canonical ramp
// over rng, rising from transparent to the default color. Pass the zero
// Interval to use the data type's default range; the window likewise
// follows rng when the given window is zero.
func (tf *TransferFunction) GenerateDefaultControlPoints(rng, window scalar.Interval) {
	if !rng.Valid() {
		rng = tf.dataType.DefaultRange()
	}
	if !window.Valid() {
		window = rng
	}
	r, g, b := tf.params.DefaultColor.RGB255()
	tf.params.ControlPoints.SetDefaultPoints(rng, color.RGBA{R: r, G: g, B: b, A: 255})
	tf.params.Window = window
	tf.changed()
}

// ClearPoints removes every control point, re-enabling range
// auto-computation.
func (tf *TransferFunction) ClearPoints() {
	tf.params.ControlPoints.Clear()
	tf.changed()
}

// OnChange registers fn to run after every mutation. Watchers run in
// registration order on the mutating goroutine.
func (tf *TransferFunction) OnChange(fn func()) {
	tf.watchers = append(tf.watchers, fn)
}

func (tf *TransferFunction) changed() {
	tf.updateLookup()
	for _, fn := range tf.watchers {
		fn()
	}
}

func (tf *TransferFunction) updateLookup() {
	tf.lookup.UpdateFromControlPoints(tf.params.ControlPoints, tf.params.Window)
}
