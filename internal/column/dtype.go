// Package column implements the columnar ring-buffer storage layer: typed,
// shape-bearing columns, ring index arithmetic, and the next_of /
// stack_compress linkages that alias a column instead of duplicating it.
package column

import "fmt"

// Dtype identifies the Go element type backing a column. It mirrors the
// small set of dtypes a numeric environment schema needs; there is no
// dynamic/arbitrary type support, matching the columnar ring buffer the
// teacher's expreplay caches use (one concretely-typed slice per field).
type Dtype int

const (
	Float32 Dtype = iota
	Float64
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Bool
)

func (d Dtype) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("dtype(%d)", int(d))
	}
}

// Numeric is the set of Go types a column may be backed by.
type Numeric interface {
	float32 | float64 |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		bool
}
