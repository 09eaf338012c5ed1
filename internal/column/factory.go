package column

// New allocates a column of the given dtype, shape, and capacity. This is
// the runtime bridge between a schema's Dtype value (known only at
// construction time) and the generic Plain[T] implementation.
func New(dtype Dtype, name string, shape []int, capacity int) AnyColumn {
	switch dtype {
	case Float32:
		return NewPlain[float32](name, shape, capacity)
	case Float64:
		return NewPlain[float64](name, shape, capacity)
	case Int8:
		return NewPlain[int8](name, shape, capacity)
	case Int16:
		return NewPlain[int16](name, shape, capacity)
	case Int32:
		return NewPlain[int32](name, shape, capacity)
	case Int64:
		return NewPlain[int64](name, shape, capacity)
	case Uint8:
		return NewPlain[uint8](name, shape, capacity)
	case Uint16:
		return NewPlain[uint16](name, shape, capacity)
	case Uint32:
		return NewPlain[uint32](name, shape, capacity)
	case Uint64:
		return NewPlain[uint64](name, shape, capacity)
	case Bool:
		return NewPlain[bool](name, shape, capacity)
	default:
		panic("column: unknown dtype")
	}
}

// NewStackAny allocates a stack_compress column of the given dtype.
// innerShape excludes the leading depth dimension; depth is the window
// length S.
func NewStackAny(dtype Dtype, name string, innerShape []int, depth, capacity int) AnyColumn {
	switch dtype {
	case Float32:
		return NewStack[float32](name, innerShape, depth, capacity)
	case Float64:
		return NewStack[float64](name, innerShape, depth, capacity)
	case Int8:
		return NewStack[int8](name, innerShape, depth, capacity)
	case Int16:
		return NewStack[int16](name, innerShape, depth, capacity)
	case Int32:
		return NewStack[int32](name, innerShape, depth, capacity)
	case Int64:
		return NewStack[int64](name, innerShape, depth, capacity)
	case Uint8:
		return NewStack[uint8](name, innerShape, depth, capacity)
	case Uint16:
		return NewStack[uint16](name, innerShape, depth, capacity)
	case Uint32:
		return NewStack[uint32](name, innerShape, depth, capacity)
	case Uint64:
		return NewStack[uint64](name, innerShape, depth, capacity)
	case Bool:
		return NewStack[bool](name, innerShape, depth, capacity)
	default:
		panic("column: unknown dtype")
	}
}
