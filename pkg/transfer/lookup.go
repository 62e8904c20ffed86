package transfer

import (
	"image/color"
	"math"

	"volshade/pkg/scalar"
)

// BytesPerSample is the width of one lookup table entry: R, G, B, A.
const BytesPerSample = 4

// DefaultLookupSize returns the table size used when the caller does not
// pick one: 8-bit data gets one entry per representable value, wider types
// get 1024 entries.
func DefaultLookupSize(dt scalar.DataType) int {
	if dt == scalar.Uint8 {
		return 256
	}
	return 1024
}

// LookupTable is the dense RGBA table the shader samples in place of the
// piecewise control point function. Entries are 4 bytes each, laid out
// R, G, B, A from the window's lower bound to its upper bound.
type LookupTable struct {
	data []byte
}

// NewLookupTable returns a zeroed table with the given number of entries.
// It panics when size is not positive.
func NewLookupTable(size int) *LookupTable {
	if size <= 0 {
		panic("transfer: lookup table size must be positive")
	}
	return &LookupTable{data: make([]byte, size*BytesPerSample)}
}

// Size returns the number of RGBA entries.
func (t *LookupTable) Size() int { return len(t.data) / BytesPerSample }

// Bytes returns the backing sample data. The slice aliases the table; use
// UpdateFromControlPoints to rewrite it rather than mutating directly.
func (t *LookupTable) Bytes() []byte { return t.data }

// Resize reallocates the table to newSize entries and zero-fills it. The
// table holds no meaningful samples afterwards, so callers must rasterize
// again before the next use. It panics when newSize is not positive.
func (t *LookupTable) Resize(newSize int) {
	if newSize <= 0 {
		panic("transfer: lookup table size must be positive")
	}
	t.data = make([]byte, newSize*BytesPerSample)
}

// UpdateFromControlPoints rasterizes the store's points into the table with
// window as the domain. Entries left of the first point stay fully
// transparent, entries between adjacent points interpolate linearly per
// channel, and entries right of the last point repeat its color. Points
// outside the window clip against the table bounds.
func (t *LookupTable) UpdateFromControlPoints(cps *SortedControlPoints, window scalar.Interval) {
	clear(t.data)
	count := cps.Len()
	if count == 0 {
		return
	}
	size := t.Size()
	for i := 0; i < count-1; i++ {
		cur, next := cps.Point(i), cps.Point(i+1)
		idxCur := cur.TableIndex(window, size)
		idxNext := next.TableIndex(window, size)
		if idxNext == idxCur {
			// Both points landed on one entry; it takes the current color.
			if idxCur >= 0 && idxCur < size {
				t.set(idxCur, cur.Color)
			}
			continue
		}
		lo, hi := idxCur, idxNext
		if lo < 0 {
			lo = 0
		}
		if hi > size {
			hi = size
		}
		for sample := lo; sample < hi; sample++ {
			frac := float64(sample-idxCur) / float64(idxNext-idxCur)
			t.set(sample, lerpColor(cur.Color, next.Color, frac))
		}
	}
	last := cps.Point(count - 1)
	from := last.TableIndex(window, size)
	if from < 0 {
		from = 0
	}
	for sample := from; sample < size; sample++ {
		t.set(sample, last.Color)
	}
}

// Copy returns an independent table with the same samples.
func (t *LookupTable) Copy() *LookupTable {
	c := &LookupTable{data: make([]byte, len(t.data))}
	copy(c.data, t.data)
	return c
}

// UpdateFromControlPointsAuto rasterizes over the store's own range instead
// of an explicit window.
func (t *LookupTable) UpdateFromControlPointsAuto(cps *SortedControlPoints) {
	t.UpdateFromControlPoints(cps, cps.Range())
}

// Sample returns the entry the shader would fetch for the normalized
// position x. Positions outside [0, 1] clamp to the table edges.
func (t *LookupTable) Sample(x float64) color.RGBA {
	if math.IsNaN(x) || x < 0 {
		x = 0
	} else if x > 1 {
		x = 1
	}
	i := int(math.Round(x * float64(t.Size()-1)))
	return t.at(i)
}

func (t *LookupTable) set(i int, c color.RGBA) {
	off := i * BytesPerSample
	t.data[off] = c.R
	t.data[off+1] = c.G
	t.data[off+2] = c.B
	t.data[off+3] = c.A
}

func (t *LookupTable) at(i int) color.RGBA {
	off := i * BytesPerSample
	return color.RGBA{R: t.data[off], G: t.data[off+1], B: t.data[off+2], A: t.data[off+3]}
}

func lerpColor(a, b color.RGBA, frac float64) color.RGBA {
	return color.RGBA{
		R: lerpByte(a.R, b.R, frac),
		G: lerpByte(a.G, b.G, frac),
		B: lerpByte(a.B, b.B, frac),
		A: lerpByte(a.A, b.A, frac),
	}
}

func lerpByte(a, b uint8, frac float64) uint8 {
	return uint8(float64(a) + frac*(float64(b)-float64(a)))
}
