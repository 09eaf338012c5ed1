package replay

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/replay/internal/column"
)

// Sentinel errors, tested for with errors.Is or the Is* predicates below.
// The style mirrors buffer/expreplay/Errors.go: a small set of sentinels
// plus an Op-carrying wrapper, rather than ad hoc fmt.Errorf strings at
// every call site.
var (
	ErrMissingField      = errors.New("missing field")
	ErrUnknownField      = errors.New("unknown field")
	ErrShapeMismatch     = column.ErrShapeMismatch
	ErrDtypeMismatch     = column.ErrDtypeMismatch
	ErrBatchSizeMismatch = errors.New("batch size mismatch across fields")
	ErrBatchTooLarge     = column.ErrBatchTooLarge
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrEmptyBuffer       = errors.New("buffer is empty")
)

// Error wraps one of the sentinels above with the operation ("add",
// "sample", "update_priorities", ...) and, where applicable, the field
// name that triggered it.
type Error struct {
	Op    string
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("replay: %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("replay: %s: field %q: %s", e.Op, e.Field, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func IsMissingField(err error) bool      { return errors.Is(err, ErrMissingField) }
func IsUnknownField(err error) bool      { return errors.Is(err, ErrUnknownField) }
func IsShapeMismatch(err error) bool     { return errors.Is(err, ErrShapeMismatch) }
func IsDtypeMismatch(err error) bool     { return errors.Is(err, ErrDtypeMismatch) }
func IsBatchSizeMismatch(err error) bool { return errors.Is(err, ErrBatchSizeMismatch) }
func IsBatchTooLarge(err error) bool     { return errors.Is(err, ErrBatchTooLarge) }
func IsInvalidPriority(err error) bool   { return errors.Is(err, ErrInvalidPriority) }
func IsIndexOutOfRange(err error) bool   { return errors.Is(err, ErrIndexOutOfRange) }
func IsEmptyBuffer(err error) bool       { return errors.Is(err, ErrEmptyBuffer) }
