package transfer

import (
	"image/color"
	"math"
	"testing"

	"volshade/pkg/scalar"
)

// TestLookupRasterization verifies the three regions of a rasterized table:
// transparent before the first point, interpolated between points and the
// last color repeated to the end.
func TestLookupRasterization(t *testing.T) {
	s := NewSortedControlPoints(scalar.Uint8)
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(50), Color: color.RGBA{255, 0, 0, 255}})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(150), Color: color.RGBA{0, 0, 255, 127}})

	table := NewLookupTable(256)
	window := scalar.NewInterval(scalar.FromFloat64(0), scalar.FromFloat64(255))
	table.UpdateFromControlPoints(s, window)

	// Entries before the first point are fully transparent
	for i := 0; i < 50; i++ {
		if table.at(i) != (color.RGBA{}) {
			t.Fatalf("Expected transparent entry at %d, got %v", i, table.at(i))
		}
	}

	// The first point's entry carries its exact color
	if got := table.at(50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected first point color at entry 50, got %v", got)
	}

	// Halfway between the points each channel blends linearly
	want := color.RGBA{127, 0, 127, 191}
	if got := table.at(100); got != want {
		t.Errorf("Expected %v at entry 100, got %v", want, got)
	}

	// Entries from the last point to the end repeat its color
	for _, i := range []int{150, 200, 255} {
		if got := table.at(i); got != (color.RGBA{0, 0, 255, 127}) {
			t.Errorf("Expected last point color at entry %d, got %v", i, got)
		}
	}
}

// TestLookupMidpointBlend verifies that the table midpoint of a full-range
// ramp sits within one step of the exact channel average.
func TestLookupMidpointBlend(t *testing.T) {
	s := NewSortedControlPoints(scalar.Uint8)
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(0), Color: color.RGBA{}})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(255), Color: color.RGBA{255, 0, 0, 255}})

	table := NewLookupTable(256)
	table.UpdateFromControlPointsAuto(s)

	if got := table.at(0); got != (color.RGBA{}) {
		t.Errorf("Expected transparent entry 0, got %v", got)
	}
	if got := table.at(255); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("Expected opaque red at entry 255, got %v", got)
	}

	got := table.at(128)
	if math.Abs(float64(got.R)-127.5) > 1 {
		t.Errorf("Expected red near 127.5 at the midpoint, got %d", got.R)
	}
	if math.Abs(float64(got.A)-127.5) > 1 {
		t.Errorf("Expected alpha near 127.5 at the midpoint, got %d", got.A)
	}
	if got.G != 0 || got.B != 0 {
		t.Errorf("Expected untouched channels to stay 0, got %v", got)
	}
}

// TestLookupCoincidentIndices verifies that two points landing on the same
// table entry do not divide by zero and still produce a filled table.
func TestLookupCoincidentIndices(t *testing.T) {
	s := NewSortedControlPoints(scalar.Float32)
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(0.5), Color: color.RGBA{255, 0, 0, 255}})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(0.5001), Color: color.RGBA{0, 255, 0, 255}})

	table := NewLookupTable(256)
	window := scalar.NewInterval(scalar.FromFloat64(0), scalar.FromFloat64(1))
	table.UpdateFromControlPoints(s, window)

	// Both points map to entry 127
	if got := table.at(126); got != (color.RGBA{}) {
		t.Errorf("Expected transparent entry before the pair, got %v", got)
	}
	for _, i := range []int{128, 255} {
		if got := table.at(i); got != (color.RGBA{0, 255, 0, 255}) {
			t.Errorf("Expected last color at entry %d, got %v", i, got)
		}
	}
}

// TestLookupClipsPointsOutsideWindow verifies that points left and right of
// the window clip against the table bounds instead of writing out of range.
func TestLookupClipsPointsOutsideWindow(t *testing.T) {
	s := NewSortedControlPoints(scalar.Uint8)
	a := color.RGBA{200, 0, 0, 200}
	b := color.RGBA{0, 100, 0, 100}
	c := color.RGBA{0, 0, 255, 255}
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(50), Color: a})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(150), Color: b})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(250), Color: c})

	table := NewLookupTable(101)
	window := scalar.NewInterval(scalar.FromFloat64(100), scalar.FromFloat64(200))
	table.UpdateFromControlPoints(s, window)

	// Entry 0 sits halfway between the first two points
	if got := table.at(0); got != (color.RGBA{100, 50, 0, 150}) {
		t.Errorf("Expected %v at entry 0, got %v", color.RGBA{100, 50, 0, 150}, got)
	}

	// The middle point lands exactly on entry 50
	if got := table.at(50); got != b {
		t.Errorf("Expected %v at entry 50, got %v", b, got)
	}

	// Entry 100 sits halfway between the last two points
	if got := table.at(100); got != (color.RGBA{0, 50, 127, 177}) {
		t.Errorf("Expected %v at entry 100, got %v", color.RGBA{0, 50, 127, 177}, got)
	}
}

// TestLookupEmptyStore verifies that rasterizing an empty store leaves the
// table fully transparent.
func TestLookupEmptyStore(t *testing.T) {
	s := NewSortedControlPoints(scalar.Uint8)
	table := NewLookupTable(16)
	table.set(3, color.RGBA{9, 9, 9, 9})

	table.UpdateFromControlPointsAuto(s)
	for i := 0; i < table.Size(); i++ {
		if table.at(i) != (color.RGBA{}) {
			t.Errorf("Expected transparent entry at %d, got %v", i, table.at(i))
		}
	}
}

// TestLookupResize verifies that resizing zero-fills the table and that the
// entry count follows the new size.
func TestLookupResize(t *testing.T) {
	table := NewLookupTable(256)
	table.set(10, color.RGBA{1, 2, 3, 4})

	table.Resize(1024)
	if table.Size() != 1024 {
		t.Errorf("Expected size 1024 after resize, got %d", table.Size())
	}
	if len(table.Bytes()) != 1024*BytesPerSample {
		t.Errorf("Expected %d bytes after resize, got %d", 1024*BytesPerSample, len(table.Bytes()))
	}
	for i := 0; i < table.Size(); i++ {
		if table.at(i) != (color.RGBA{}) {
			t.Fatalf("Expected zeroed entry at %d after resize, got %v", i, table.at(i))
		}
	}
}

// TestLookupSampleClamps verifies that sampling clamps normalized positions
// into the table.
func TestLookupSampleClamps(t *testing.T) {
	s := NewSortedControlPoints(scalar.Uint8)
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(0), Color: color.RGBA{10, 20, 30, 40}})
	s.AddPoint(ControlPoint{Input: scalar.FromFloat64(255), Color: color.RGBA{50, 60, 70, 80}})

	table := NewLookupTable(256)
	table.UpdateFromControlPointsAuto(s)

	if got := table.Sample(-2); got != table.at(0) {
		t.Errorf("Expected clamp to first entry, got %v", got)
	}
	if got := table.Sample(2); got != table.at(255) {
		t.Errorf("Expected clamp to last entry, got %v", got)
	}
	if got := table.Sample(0); got != (color.RGBA{10, 20, 30, 40}) {
		t.Errorf("Expected first point color at 0, got %v", got)
	}
}
