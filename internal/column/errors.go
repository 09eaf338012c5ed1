package column

import "errors"

// Sentinel errors returned by the coercion and ring-write paths. The root
// replay package wraps these in its own Error type; see replay/errors.go,
// grounded on buffer/expreplay/Errors.go's sentinel-error-plus-predicate
// style.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrDtypeMismatch = errors.New("dtype mismatch")
	ErrBatchTooLarge = errors.New("batch larger than capacity")
)
