package transfer

import (
	"image/color"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"volshade/pkg/scalar"
)

// SortedControlPoints owns the ordered control points of one transfer
// function together with the numeric range derived from them. Points are
// kept sorted by their position normalized to that range, and input values
// are unique: adding a point at an occupied input value overwrites the
// occupant's color.
type SortedControlPoints struct {
	dataType scalar.DataType
	points   []ControlPoint
	rng      scalar.Interval

	// autoRange tracks whether the range still follows the point extrema.
	// Manual edits (dragging, explicit SetRange) pin the range until the
	// store is cleared.
	autoRange bool
}

// NewSortedControlPoints returns an empty store for the given data type,
// with the range set to the type's default and auto-computation enabled.
func NewSortedControlPoints(dt scalar.DataType) *SortedControlPoints {
	return &SortedControlPoints{
		dataType:  dt,
		rng:       dt.DefaultRange(),
		autoRange: true,
	}
}

// DataType returns the voxel data type the store was built for.
func (s *SortedControlPoints) DataType() scalar.DataType { return s.dataType }

// Len returns the number of control points.
func (s *SortedControlPoints) Len() int { return len(s.points) }

// Point returns the control point at index i. It panics when i is out of
// range, matching slice indexing.
func (s *SortedControlPoints) Point(i int) ControlPoint { return s.points[i] }

// Points returns a copy of the control points in sorted order. Callers may
// modify the returned slice freely.
func (s *SortedControlPoints) Points() []ControlPoint {
	out := make([]ControlPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Range returns the interval the points are normalized against.
func (s *SortedControlPoints) Range() scalar.Interval { return s.rng }

// AutoRange reports whether the range still follows the point extrema.
func (s *SortedControlPoints) AutoRange() bool { return s.autoRange }

// SetRange pins the range to iv and disables auto-computation. Degenerate
// intervals are ignored.
func (s *SortedControlPoints) SetRange(iv scalar.Interval) {
	if !iv.Valid() {
		return
	}
	s.autoRange = false
	s.rng = iv
	s.sortPoints()
}

// DisableAutoRange pins the current range. Dragging a point calls this so
// the plot does not rescale under the cursor.
func (s *SortedControlPoints) DisableAutoRange() { s.autoRange = false }

// AddPoint inserts p, keeping the points sorted by normalized input. When a
// point with the same input value already exists, its color is overwritten
// instead of duplicating the entry.
func (s *SortedControlPoints) AddPoint(p ControlPoint) {
	for i := range s.points {
		if s.points[i].Input.Equal(p.Input) {
			s.points[i].Color = p.Color
			return
		}
	}
	s.points = append(s.points, p)
	s.computeRange()
	s.sortPoints()
}

// RemovePoint deletes the point at index i. The remaining points keep their
// order, so only the range is recomputed.
func (s *SortedControlPoints) RemovePoint(i int) {
	s.points = append(s.points[:i], s.points[i+1:]...)
	s.computeRange()
}

// UpdatePoint replaces the point at index i with p, restores sorted order
// and returns the index p landed on, or -1 when it cannot be found again.
func (s *SortedControlPoints) UpdatePoint(i int, p ControlPoint) int {
	s.points[i] = p
	s.computeRange()
	s.sortPoints()
	for j := range s.points {
		if s.points[j].Equal(p) {
			return j
		}
	}
	return -1
}

// UpdatePointColor replaces all four color channels of the point at index i.
// The input value is untouched, so order and range are preserved.
func (s *SortedControlPoints) UpdatePointColor(i int, c color.RGBA) {
	s.points[i].Color = c
}

// UpdatePointColorRGB replaces the opaque channels of the point at index i
// and keeps its alpha.
func (s *SortedControlPoints) UpdatePointColorRGB(i int, c colorful.Color) {
	r, g, b := c.RGB255()
	s.points[i].Color.R = r
	s.points[i].Color.G = g
	s.points[i].Color.B = b
}

// FindNearestIndex returns the index of the point closest to v measured in
// normalized position, or -1 when the store is empty.
func (s *SortedControlPoints) FindNearestIndex(v scalar.Value) int {
	return s.FindNearestIndexNormalized(scalar.Invlerp(s.rng, v))
}

// FindNearestIndexNormalized returns the index of the point closest to the
// normalized position x, or -1 when the store is empty. Ties resolve to the
// lower index.
func (s *SortedControlPoints) FindNearestIndexNormalized(x float64) int {
	if len(s.points) == 0 {
		return -1
	}
	i := sort.Search(len(s.points), func(j int) bool {
		return s.points[j].NormalizedInput(s.rng) >= x
	})
	if i == len(s.points) {
		return i - 1
	}
	if i == 0 {
		return 0
	}
	before := x - s.points[i-1].NormalizedInput(s.rng)
	after := s.points[i].NormalizedInput(s.rng) - x
	if before <= after {
		return i - 1
	}
	return i
}

// SetDefaultPoints replaces the contents with the canonical two-point ramp:
// fully transparent at rng.Lo rising to finalColor at rng.Hi. Any pinned
// range is released so the new ramp spans exactly rng.
func (s *SortedControlPoints) SetDefaultPoints(rng scalar.Interval, finalColor color.RGBA) {
	s.Clear()
	s.AddPoint(ControlPoint{Input: rng.Lo, Color: color.RGBA{}})
	s.AddPoint(ControlPoint{Input: rng.Hi, Color: finalColor})
}

// Clear removes all points and re-enables range auto-computation, restoring
// the data type's default range.
func (s *SortedControlPoints) Clear() {
	s.points = s.points[:0]
	s.autoRange = true
	s.rng = s.dataType.DefaultRange()
}

// Copy returns a deep copy of the store. The copy shares no state with the
// original.
func (s *SortedControlPoints) Copy() *SortedControlPoints {
	c := &SortedControlPoints{
		dataType:  s.dataType,
		points:    make([]ControlPoint, len(s.points)),
		rng:       s.rng,
		autoRange: s.autoRange,
	}
	copy(c.points, s.points)
	return c
}

// Equal reports whether both stores hold the same points over the same
// range for the same data type.
func (s *SortedControlPoints) Equal(o *SortedControlPoints) bool {
	if s.dataType != o.dataType || s.rng != o.rng || len(s.points) != len(o.points) {
		return false
	}
	for i := range s.points {
		if !s.points[i].Equal(o.points[i]) {
			return false
		}
	}
	return true
}

func (s *SortedControlPoints) sortPoints() {
	sort.Slice(s.points, func(i, j int) bool {
		return s.points[i].NormalizedInput(s.rng) < s.points[j].NormalizedInput(s.rng)
	})
}

// computeRange rederives the range from the point extrema. A single point v
// yields [v, max(defaultHi, next(v))] so the interval never collapses; any
// degenerate outcome falls back to the data type's default range.
func (s *SortedControlPoints) computeRange() {
	if !s.autoRange {
		return
	}
	def := s.dataType.DefaultRange()
	switch len(s.points) {
	case 0:
		s.rng = def
	case 1:
		lo := s.points[0].Input
		hi := lo.Next()
		if def.Hi.Cmp(hi) > 0 {
			hi = def.Hi
		}
		s.rng = scalar.Interval{Lo: lo, Hi: hi}
	default:
		lo, hi := s.points[0].Input, s.points[0].Input
		for _, p := range s.points[1:] {
			if p.Input.Cmp(lo) < 0 {
				lo = p.Input
			}
			if p.Input.Cmp(hi) > 0 {
				hi = p.Input
			}
		}
		s.rng = scalar.Interval{Lo: lo, Hi: hi}
	}
	if !s.rng.Valid() {
		s.rng = def
	}
}
