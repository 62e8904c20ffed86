// Package scalar provides the typed numeric domain that transfer functions
// operate over: the supported voxel data types, scalar values that keep
// 64-bit integers exact, and linear interpolation over typed intervals.
package scalar

import (
	"fmt"
	"math"
)

// DataType identifies the scalar kind of one volume channel.
type DataType int

const (
	Uint8 DataType = iota
	Int8
	Uint16
	Int16
	Uint32
	Int32
	Uint64
	Float32
)

var dataTypeNames = [...]string{
	"uint8", "int8", "uint16", "int16", "uint32", "int32", "uint64", "float32",
}

func (dt DataType) String() string {
	if dt < Uint8 || dt > Float32 {
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
	return dataTypeNames[dt]
}

// ParseDataType converts a type name such as "uint16" into its DataType.
func ParseDataType(s string) (DataType, error) {
	for i, name := range dataTypeNames {
		if s == name {
			return DataType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown data type %q", s)
}

// Signed reports whether the type carries negative values.
func (dt DataType) Signed() bool {
	switch dt {
	case Int8, Int16, Int32, Float32:
		return true
	}
	return false
}

// Integer reports whether dt is one of the integer kinds.
func (dt DataType) Integer() bool {
	return dt != Float32
}

// Wide reports whether values of dt need full 64-bit integer precision;
// float64 cannot represent every uint64 exactly.
func (dt DataType) Wide() bool {
	return dt == Uint64
}

// DefaultRange returns the natural value range of dt. Float32 has no
// natural bounds, so the application default [0, 1] is used instead.
func (dt DataType) DefaultRange() Interval {
	switch dt {
	case Uint8:
		return Interval{FromFloat64(0), FromFloat64(math.MaxUint8)}
	case Int8:
		return Interval{FromFloat64(math.MinInt8), FromFloat64(math.MaxInt8)}
	case Uint16:
		return Interval{FromFloat64(0), FromFloat64(math.MaxUint16)}
	case Int16:
		return Interval{FromFloat64(math.MinInt16), FromFloat64(math.MaxInt16)}
	case Uint32:
		return Interval{FromFloat64(0), FromFloat64(math.MaxUint32)}
	case Int32:
		return Interval{FromFloat64(math.MinInt32), FromFloat64(math.MaxInt32)}
	case Uint64:
		return Interval{FromUint64(0), FromUint64(math.MaxUint64)}
	case Float32:
		return Interval{FromFloat64(0), FromFloat64(1)}
	}
	panic(fmt.Sprintf("scalar: no default range for %v", dt))
}
