package scalar

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value holds one scalar sample value. Every data type except uint64 is
// carried as a float64; uint64 values keep their own field so magnitudes
// above 2^53 survive round trips intact. Values never convert implicitly:
// use Float64 or Uint64 to move between representations.
type Value struct {
	f    float64
	u    uint64
	wide bool
}

// FromFloat64 wraps a float64 sample value.
func FromFloat64(f float64) Value {
	return Value{f: f}
}

// FromUint64 wraps a 64-bit integer sample value at full precision.
func FromUint64(u uint64) Value {
	return Value{u: u, wide: true}
}

// Wide reports whether v was constructed from a uint64.
func (v Value) Wide() bool {
	return v.wide
}

// Float64 converts v for arithmetic that tolerates rounding. Wide values
// above 2^53 lose their low bits here.
func (v Value) Float64() float64 {
	if v.wide {
		return float64(v.u)
	}
	return v.f
}

// Uint64 converts v to a 64-bit integer, rounding and saturating at the
// representable bounds.
func (v Value) Uint64() uint64 {
	if v.wide {
		return v.u
	}
	if v.f <= 0 || math.IsNaN(v.f) {
		return 0
	}
	if v.f >= float64(math.MaxUint64) {
		return math.MaxUint64
	}
	return uint64(math.Round(v.f))
}

// Cmp returns -1, 0 or 1 as v is less than, equal to or greater than o.
// Two wide values compare at full precision; mixed representations compare
// as float64.
func (v Value) Cmp(o Value) int {
	if v.wide && o.wide {
		switch {
		case v.u < o.u:
			return -1
		case v.u > o.u:
			return 1
		}
		return 0
	}
	a, b := v.Float64(), o.Float64()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Equal reports numeric equality, following the same rules as Cmp.
func (v Value) Equal(o Value) bool {
	return v.Cmp(o) == 0
}

// Next returns the successor value used when widening a single-point range:
// v+1, saturating at the top of the uint64 domain for wide values.
func (v Value) Next() Value {
	if v.wide {
		if v.u == math.MaxUint64 {
			return v
		}
		return FromUint64(v.u + 1)
	}
	return FromFloat64(v.f + 1)
}

// String formats v in its native precision.
func (v Value) String() string {
	if v.wide {
		return strconv.FormatUint(v.u, 10)
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}

// MarshalJSON writes wide values as full-precision integers and everything
// else as a plain JSON number.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.wide {
		return strconv.AppendUint(nil, v.u, 10), nil
	}
	return json.Marshal(v.f)
}

// ParseValue parses the decimal representation of one value of dt. Integer
// types are rounded to their grid and clamped into the type's range.
func ParseValue(dt DataType, s string) (Value, error) {
	if dt == Uint64 {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			// Accept float forms such as "1e10" for convenience.
			f, ferr := strconv.ParseFloat(s, 64)
			if ferr != nil {
				return Value{}, err
			}
			return FromUint64(FromFloat64(f).Uint64()), nil
		}
		return FromUint64(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, err
	}
	if dt.Integer() {
		return ClampToRange(dt, FromFloat64(math.Round(f))), nil
	}
	return FromFloat64(f), nil
}

// ClampToRange clamps v into dt's representable range. Float32 values pass
// through unchanged: the float default range is a display default, not a
// representable bound.
func ClampToRange(dt DataType, v Value) Value {
	switch dt {
	case Float32:
		return v
	case Uint64:
		return FromUint64(v.Uint64())
	}
	r := dt.DefaultRange()
	f := v.Float64()
	if f < r.Lo.f {
		return r.Lo
	}
	if f > r.Hi.f {
		return r.Hi
	}
	return FromFloat64(f)
}
