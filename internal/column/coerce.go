package column

import (
	"fmt"
	"math"
	"reflect"
)

// CoerceAny converts an arbitrary user-supplied value (a scalar, a slice,
// or a slice of slices matching the declared shape) into a flat slice of
// the column's dtype, plus the inferred batch size n. A bare record (rank
// equal to len(shape)) is treated as n=1; a record with one extra leading
// dimension is treated as a batch of that size. This is the Go-native
// rendition of the dynamic-typing coercion in spec §4.1/§9: the dtype is
// fixed by the schema, but the caller's concrete Go type is not.
func CoerceAny(dtype Dtype, name string, v any, shape []int) (data any, n int, err error) {
	switch dtype {
	case Float32:
		return Coerce[float32](name, v, shape, dtype)
	case Float64:
		return Coerce[float64](name, v, shape, dtype)
	case Int8:
		return Coerce[int8](name, v, shape, dtype)
	case Int16:
		return Coerce[int16](name, v, shape, dtype)
	case Int32:
		return Coerce[int32](name, v, shape, dtype)
	case Int64:
		return Coerce[int64](name, v, shape, dtype)
	case Uint8:
		return Coerce[uint8](name, v, shape, dtype)
	case Uint16:
		return Coerce[uint16](name, v, shape, dtype)
	case Uint32:
		return Coerce[uint32](name, v, shape, dtype)
	case Uint64:
		return Coerce[uint64](name, v, shape, dtype)
	case Bool:
		return Coerce[bool](name, v, shape, dtype)
	default:
		panic("column: unknown dtype")
	}
}

// Coerce is the typed half of CoerceAny.
func Coerce[T Numeric](name string, v any, shape []int, dtype Dtype) ([]T, int, error) {
	rv := reflect.ValueOf(v)
	d := dims(rv)
	ec := elemCount(shape)

	var n int
	switch {
	case len(d) == len(shape) && dimsMatch(d, shape):
		n = 1
	case len(d) == len(shape)+1 && dimsMatch(d[1:], shape):
		n = d[0]
	default:
		return nil, 0, fmt.Errorf("field %q: %w", name, ErrShapeMismatch)
	}

	flat := make([]float64, 0, n*ec)
	flattenInto(rv, &flat)
	if len(flat) != n*ec {
		return nil, 0, fmt.Errorf("field %q: %w", name, ErrShapeMismatch)
	}

	out := make([]T, len(flat))
	for i, x := range flat {
		cv, ok := convertScalar(x, dtype)
		if !ok {
			return nil, 0, fmt.Errorf("field %q: %w", name, ErrDtypeMismatch)
		}
		out[i] = cv.(T)
	}
	return out, n, nil
}

func dimsMatch(have, want []int) bool {
	if len(have) != len(want) {
		return false
	}
	for i := range have {
		if have[i] != want[i] {
			return false
		}
	}
	return true
}

// dims walks nested slices/arrays and returns their lengths at each level,
// e.g. a [3][4]float64 value yields []int{3,4}. A bare scalar yields nil.
func dims(rv reflect.Value) []int {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return []int{0}
		}
		return append([]int{rv.Len()}, dims(rv.Index(0))...)
	default:
		return nil
	}
}

// flattenInto appends every scalar leaf of rv, in row-major order, to out.
func flattenInto(rv reflect.Value, out *[]float64) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			flattenInto(rv.Index(i), out)
		}
	case reflect.Bool:
		if rv.Bool() {
			*out = append(*out, 1)
		} else {
			*out = append(*out, 0)
		}
	case reflect.Float32, reflect.Float64:
		*out = append(*out, rv.Float())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*out = append(*out, float64(rv.Uint()))
	case reflect.Interface:
		flattenInto(rv.Elem(), out)
	default:
		panic(fmt.Sprintf("column: unsupported value kind %s", rv.Kind()))
	}
}

// convertScalar converts x to the Go type for dtype, boxed as any, failing
// when the conversion would lose information: a fractional float narrowed
// to an integer type, a negative value narrowed to an unsigned type, or a
// value outside the target type's range.
func convertScalar(x float64, dtype Dtype) (any, bool) {
	switch dtype {
	case Float32:
		return float32(x), true
	case Float64:
		return x, true
	case Bool:
		return x != 0, true
	case Int8:
		return intScalar(x, math.MinInt8, math.MaxInt8, func(i int64) any { return int8(i) })
	case Int16:
		return intScalar(x, math.MinInt16, math.MaxInt16, func(i int64) any { return int16(i) })
	case Int32:
		return intScalar(x, math.MinInt32, math.MaxInt32, func(i int64) any { return int32(i) })
	case Int64:
		return intScalar(x, math.MinInt64, math.MaxInt64, func(i int64) any { return int64(i) })
	case Uint8:
		return uintScalar(x, math.MaxUint8, func(u uint64) any { return uint8(u) })
	case Uint16:
		return uintScalar(x, math.MaxUint16, func(u uint64) any { return uint16(u) })
	case Uint32:
		return uintScalar(x, math.MaxUint32, func(u uint64) any { return uint32(u) })
	case Uint64:
		return uintScalar(x, math.MaxUint64, func(u uint64) any { return uint64(u) })
	default:
		return nil, false
	}
}

// The upper bounds below test x >= hi+1 rather than x > hi: hi for the
// 64-bit types rounds up to 2^63 or 2^64 as a float64, which is itself
// out of range, and hi+1 is exact (or rounds to that same power of two)
// for every target type.
func intScalar(x float64, lo, hi float64, mk func(int64) any) (any, bool) {
	if math.Trunc(x) != x || x < lo || x >= hi+1 {
		return nil, false
	}
	return mk(int64(x)), true
}

func uintScalar(x float64, hi float64, mk func(uint64) any) (any, bool) {
	if math.Trunc(x) != x || x < 0 || x >= hi+1 {
		return nil, false
	}
	return mk(uint64(x)), true
}
