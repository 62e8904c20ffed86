package transfer

import (
	"errors"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"volshade/pkg/scalar"
)

// TestTransferFunctionNotifiesOncePerMutation verifies that every mutation
// runs the watchers exactly once and that reads stay silent.
func TestTransferFunctionNotifiesOncePerMutation(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	count := 0
	tf.OnChange(func() { count++ })

	idx := tf.AddPoint(ControlPoint{Input: scalar.FromFloat64(100), Color: color.RGBA{255, 0, 0, 255}})
	if count != 1 {
		t.Errorf("Expected 1 notification after AddPoint, got %d", count)
	}
	if idx < 0 {
		t.Errorf("Expected valid index from AddPoint, got %d", idx)
	}

	if err := tf.SetWindow(scalar.NewInterval(scalar.FromFloat64(0), scalar.FromFloat64(128))); err != nil {
		t.Fatalf("Failed to set window: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 notifications after SetWindow, got %d", count)
	}

	if !tf.RemovePoint(idx) {
		t.Error("Expected RemovePoint to succeed")
	}
	if count != 3 {
		t.Errorf("Expected 3 notifications after RemovePoint, got %d", count)
	}

	// Reads do not notify
	_ = tf.Window()
	_ = tf.Parameters()
	_ = tf.Lookup()
	if count != 3 {
		t.Errorf("Expected no notifications from reads, got %d", count)
	}
}

// TestTransferFunctionRejectsDegenerateWindow verifies that an invalid
// window leaves the model untouched.
func TestTransferFunctionRejectsDegenerateWindow(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	before := tf.Window()
	count := 0
	tf.OnChange(func() { count++ })

	err := tf.SetWindow(scalar.NewInterval(scalar.FromFloat64(7), scalar.FromFloat64(7)))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow, got %v", err)
	}
	err = tf.SetWindow(scalar.NewInterval(scalar.FromFloat64(9), scalar.FromFloat64(3)))
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("Expected ErrInvalidWindow for descending window, got %v", err)
	}

	if tf.Window() != before {
		t.Errorf("Expected window unchanged, got %v", tf.Window())
	}
	if count != 0 {
		t.Errorf("Expected no notifications from rejected window, got %d", count)
	}
}

// TestTransferFunctionLookupTracksMutations verifies that the lookup table
// is rewritten as part of every mutation.
func TestTransferFunctionLookupTracksMutations(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	tf.ClearPoints()
	for i := 0; i < 256; i++ {
		if tf.Lookup().at(i) != (color.RGBA{}) {
			t.Fatalf("Expected transparent table after clear, got %v at %d", tf.Lookup().at(i), i)
		}
	}

	tf.AddPoint(ControlPoint{Input: scalar.FromFloat64(0), Color: color.RGBA{0, 255, 0, 255}})
	if got := tf.Lookup().at(255); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("Expected last entry to repeat the point color, got %v", got)
	}
}

// TestGenerateDefaultControlPoints verifies the ramp regeneration with
// explicit and defaulted intervals.
func TestGenerateDefaultControlPoints(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	tf.SetDefaultColor(colorful.Color{R: 1, G: 0, B: 0})

	// Zero intervals fall back to the data type's default range
	tf.GenerateDefaultControlPoints(scalar.Interval{}, scalar.Interval{})
	cps := tf.ControlPoints()
	if cps.Len() != 2 {
		t.Fatalf("Expected 2 points, got %d", cps.Len())
	}
	if cps.Point(0).Input.Float64() != 0 || cps.Point(1).Input.Float64() != 255 {
		t.Errorf("Expected ramp over [0, 255], got %v and %v",
			cps.Point(0).Input, cps.Point(1).Input)
	}
	if got := cps.Point(1).Color; got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected opaque default color at the top, got %v", got)
	}
	if tf.Window() != scalar.Uint8.DefaultRange() {
		t.Errorf("Expected window to follow the range, got %v", tf.Window())
	}

	// An explicit range narrows both the ramp and the window
	rng := scalar.NewInterval(scalar.FromFloat64(10), scalar.FromFloat64(20))
	tf.GenerateDefaultControlPoints(rng, scalar.Interval{})
	cps = tf.ControlPoints()
	if cps.Point(0).Input.Float64() != 10 || cps.Point(1).Input.Float64() != 20 {
		t.Errorf("Expected ramp over [10, 20], got %v and %v",
			cps.Point(0).Input, cps.Point(1).Input)
	}
	if tf.Window() != rng {
		t.Errorf("Expected window %v, got %v", rng, tf.Window())
	}
}

// TestOutOfRangeIndicesAreRejected verifies the sentinel returns for
// mutations aimed at missing points.
func TestOutOfRangeIndicesAreRejected(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	tf.ClearPoints()
	count := 0
	tf.OnChange(func() { count++ })

	if tf.RemovePoint(0) {
		t.Error("Expected RemovePoint on empty store to fail")
	}
	if tf.UpdatePoint(3, ControlPoint{}) != -1 {
		t.Error("Expected UpdatePoint on missing index to return -1")
	}
	if tf.UpdatePointColor(-1, color.RGBA{}) {
		t.Error("Expected UpdatePointColor on negative index to fail")
	}
	if tf.UpdatePointColorRGB(0, colorful.Color{}) {
		t.Error("Expected UpdatePointColorRGB on empty store to fail")
	}
	if count != 0 {
		t.Errorf("Expected no notifications from rejected mutations, got %d", count)
	}
}

// TestParametersSnapshotIsIsolated verifies that a snapshot does not track
// later model mutations.
func TestParametersSnapshotIsIsolated(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	snap := tf.Parameters()
	pointsBefore := snap.ControlPoints.Len()

	tf.AddPoint(ControlPoint{Input: scalar.FromFloat64(42), Color: color.RGBA{1, 2, 3, 4}})
	if snap.ControlPoints.Len() != pointsBefore {
		t.Errorf("Expected snapshot to keep %d points, got %d",
			pointsBefore, snap.ControlPoints.Len())
	}
	if snap.Equal(tf.Parameters()) {
		t.Error("Expected snapshot to differ from mutated model")
	}
}

// TestFindNearestControlPointIndexUsesWindow verifies that the normalized
// query position is interpreted against the supplied window rather than the
// store's range.
func TestFindNearestControlPointIndexUsesWindow(t *testing.T) {
	tf := New(scalar.Uint8, 256)
	tf.ClearPoints()
	tf.AddPoint(ControlPoint{Input: scalar.FromFloat64(40)})
	tf.AddPoint(ControlPoint{Input: scalar.FromFloat64(200)})

	// In the window [0, 100], position 0.5 means value 50, nearest to 40
	window := scalar.NewInterval(scalar.FromFloat64(0), scalar.FromFloat64(100))
	if idx := tf.FindNearestControlPointIndex(0.5, window); idx != 0 {
		t.Errorf("Expected index 0 for value 50, got %d", idx)
	}

	// In the window [0, 400], position 0.5 means value 200
	window = scalar.NewInterval(scalar.FromFloat64(0), scalar.FromFloat64(400))
	if idx := tf.FindNearestControlPointIndex(0.5, window); idx != 1 {
		t.Errorf("Expected index 1 for value 200, got %d", idx)
	}
}
