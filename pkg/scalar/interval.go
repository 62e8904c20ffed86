package scalar

import (
	"encoding/json"
	"math"
)

// Interval is a pair of bounds over one data type. Bounds are inclusive and
// need not be ascending; Lo == Hi is the one forbidden configuration
// wherever an interval serves as an interpolation domain.
type Interval struct {
	Lo, Hi Value
}

// NewInterval builds an interval from two values.
func NewInterval(lo, hi Value) Interval {
	return Interval{Lo: lo, Hi: hi}
}

// Valid reports whether the interval has a non-zero span.
func (iv Interval) Valid() bool {
	return !iv.Lo.Equal(iv.Hi)
}

// Span returns Hi - Lo as a float64, negative when the interval descends.
// Wide bounds subtract in the uint64 domain before converting, so spans of
// intervals beyond 2^53 stay accurate to float64 precision.
func (iv Interval) Span() float64 {
	if iv.Lo.wide && iv.Hi.wide {
		if iv.Hi.u >= iv.Lo.u {
			return float64(iv.Hi.u - iv.Lo.u)
		}
		return -float64(iv.Lo.u - iv.Hi.u)
	}
	return iv.Hi.Float64() - iv.Lo.Float64()
}

// MarshalJSON writes the interval as a two-element array [lo, hi].
func (iv Interval) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]Value{iv.Lo, iv.Hi})
}

// ParseInterval parses a two-element JSON array into an interval of dt.
func ParseInterval(dt DataType, data []byte) (Interval, error) {
	var raw [2]json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return Interval{}, err
	}
	lo, err := ParseValue(dt, raw[0].String())
	if err != nil {
		return Interval{}, err
	}
	hi, err := ParseValue(dt, raw[1].String())
	if err != nil {
		return Interval{}, err
	}
	return Interval{Lo: lo, Hi: hi}, nil
}

// Invlerp returns the normalized position of v within iv: 0 at Lo, 1 at Hi.
// Values outside iv map outside [0, 1]. A degenerate interval maps every
// value to 0 rather than dividing by zero.
func Invlerp(iv Interval, v Value) float64 {
	span := iv.Span()
	if span == 0 {
		return 0
	}
	if v.wide && iv.Lo.wide {
		var d float64
		if v.u >= iv.Lo.u {
			d = float64(v.u - iv.Lo.u)
		} else {
			d = -float64(iv.Lo.u - v.u)
		}
		return d / span
	}
	return (v.Float64() - iv.Lo.Float64()) / span
}

// Lerp maps the normalized position t back into iv as a value of dt.
// Integer types round to the nearest grid value and clamp into the type's
// range; Float32 stays exact. Uint64 interpolates in the 64-bit domain so
// large windows do not collapse.
func Lerp(iv Interval, dt DataType, t float64) Value {
	if dt == Uint64 {
		return lerpUint64(iv, t)
	}
	raw := iv.Lo.Float64() + t*iv.Span()
	if dt == Float32 {
		return FromFloat64(raw)
	}
	return ClampToRange(dt, FromFloat64(math.Round(raw)))
}

func lerpUint64(iv Interval, t float64) Value {
	lo := iv.Lo.Uint64()
	offset := t * iv.Span()
	if math.IsNaN(offset) {
		return FromUint64(lo)
	}
	if offset >= 0 {
		if offset >= float64(math.MaxUint64) {
			return FromUint64(math.MaxUint64)
		}
		off := uint64(math.Round(offset))
		if off > math.MaxUint64-lo {
			return FromUint64(math.MaxUint64)
		}
		return FromUint64(lo + off)
	}
	down := -offset
	if down >= float64(math.MaxUint64) {
		return FromUint64(0)
	}
	off := uint64(math.Round(down))
	if off >= lo {
		return FromUint64(0)
	}
	return FromUint64(lo - off)
}
