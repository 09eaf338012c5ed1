package replay

import "reflect"

// reflectSliceOf returns the reflect.Value of v, which must already be a
// slice (as produced by column.CoerceAny/AnyColumn.Gather/ReadRow).
func reflectSliceOf(v any) reflect.Value {
	return reflect.ValueOf(v)
}

// stackRows concatenates a set of same-length, same-type row slices
// (each boxed as any, e.g. []float32) into one flattened batch slice of
// the same concrete type, the shape AnyColumn.Gather itself returns.
func stackRows(rows []any) any {
	if len(rows) == 0 {
		return nil
	}
	first := reflectSliceOf(rows[0])
	elemType := first.Type()
	out := reflect.MakeSlice(elemType, 0, first.Len()*len(rows))
	for _, r := range rows {
		out = reflect.AppendSlice(out, reflectSliceOf(r))
	}
	return out.Interface()
}
