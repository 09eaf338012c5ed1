// Package replay implements a bounded-capacity columnar replay buffer for
// reinforcement-learning training loops: a ring buffer of named, typed,
// shaped fields, with two optional storage linkages (next_of successor
// aliasing and stack_compress frame-stacking) and two samplers, uniform
// and proportional-prioritized.
//
// The buffer never resizes after construction and is not safe for
// concurrent use from multiple goroutines without external
// synchronization, matching the single-writer training-loop shape the
// teacher's expreplay package itself assumes for any one cache instance.
package replay

import (
	"fmt"

	"github.com/samuelfneumann/replay/internal/column"
	"github.com/samuelfneumann/replay/internal/randutil"
)

// Dtype identifies the Go element type backing a field.
type Dtype = column.Dtype

// The supported field dtypes.
const (
	Float32 = column.Float32
	Float64 = column.Float64
	Int8    = column.Int8
	Int16   = column.Int16
	Int32   = column.Int32
	Int64   = column.Int64
	Uint8   = column.Uint8
	Uint16  = column.Uint16
	Uint32  = column.Uint32
	Uint64  = column.Uint64
	Bool    = column.Bool
)

// Field describes one entry of a buffer's schema: a name, a shape (nil or
// empty for a scalar field), and a dtype.
type Field struct {
	Name  string
	Shape []int
	Dtype Dtype
}

// NewField returns a Field with dtype Float32, the schema's default. Use
// WithDtype to override it.
func NewField(name string, shape ...int) Field {
	return Field{Name: name, Shape: shape, Dtype: Float32}
}

// WithDtype returns a copy of f with Dtype set to d.
func (f Field) WithDtype(d Dtype) Field {
	f.Dtype = d
	return f
}

// Schema is the ordered set of fields a buffer stores one value of per
// logical step.
type Schema []Field

// Option configures a buffer at construction.
type Option func(*config)

type config struct {
	nextOf        string
	stackCompress string
	seed          uint64
}

// WithNextOf declares that field's successor is derived from a one-step
// shifted view of its own column rather than stored as a separate
// next_<field> column. Add calls must then additionally supply a
// "next_<field>" value alongside every declared field.
func WithNextOf(field string) Option {
	return func(c *config) { c.nextOf = field }
}

// WithStackCompress declares that field holds an overlapping
// frame-stacked window rather than a single frame. field's declared
// Shape must carry the window depth as its leading dimension.
func WithStackCompress(field string) Option {
	return func(c *config) { c.stackCompress = field }
}

// WithSeed fixes the sampler's RNG seed, making Sample's draws
// reproducible across runs.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

// Buffer is a bounded-capacity ring buffer of schema-typed fields with a
// uniform sampler. PrioritizedBuffer extends it with priority-weighted
// sampling.
type Buffer struct {
	capacity      int
	schema        Schema
	byName        map[string]Field
	required      map[string]Field
	store         *column.Store
	nextFieldName string
	nextOf        *column.NextOf
	rng           *randutil.Source
}

// NewBuffer constructs a buffer of the given capacity (must be positive)
// storing the given schema, configured by opts.
func NewBuffer(capacity int, schema Schema, opts ...Option) (*Buffer, error) {
	b, _, err := newBuffer(capacity, schema, opts...)
	return b, err
}

func newBuffer(capacity int, schema Schema, opts ...Option) (*Buffer, *config, error) {
	if capacity <= 0 {
		return nil, nil, fmt.Errorf("replay: capacity must be positive, got %d", capacity)
	}
	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	store := column.NewStore(capacity)
	byName := make(map[string]Field, len(schema))
	for _, f := range schema {
		if _, dup := byName[f.Name]; dup {
			return nil, nil, fmt.Errorf("replay: duplicate field %q", f.Name)
		}
		byName[f.Name] = f

		var col column.AnyColumn
		if cfg.stackCompress == f.Name {
			if len(f.Shape) < 1 {
				return nil, nil, fmt.Errorf(
					"replay: stack_compress field %q needs a leading depth dimension", f.Name)
			}
			col = column.NewStackAny(f.Dtype, f.Name, f.Shape[1:], f.Shape[0], capacity)
		} else {
			col = column.New(f.Dtype, f.Name, f.Shape, capacity)
		}
		store.AddColumn(f.Name, col)
	}
	if cfg.stackCompress != "" {
		if _, ok := byName[cfg.stackCompress]; !ok {
			return nil, nil, fmt.Errorf(
				"replay: stack_compress field %q not declared in schema", cfg.stackCompress)
		}
	}

	required := make(map[string]Field, len(byName)+1)
	for k, v := range byName {
		required[k] = v
	}

	var nextOf *column.NextOf
	nextFieldName := ""
	if cfg.nextOf != "" {
		base, ok := store.Column(cfg.nextOf)
		if !ok {
			return nil, nil, fmt.Errorf(
				"replay: next_of field %q not declared in schema", cfg.nextOf)
		}
		baseField := byName[cfg.nextOf]
		nextFieldName = "next_" + cfg.nextOf
		required[nextFieldName] = Field{
			Name: nextFieldName, Shape: baseField.Shape, Dtype: baseField.Dtype,
		}
		nextOf = column.NewNextOf(base, capacity)
	}

	seed := cfg.seed
	b := &Buffer{
		capacity:      capacity,
		schema:        schema,
		byName:        byName,
		required:      required,
		store:         store,
		nextFieldName: nextFieldName,
		nextOf:        nextOf,
		rng:           randutil.New(seed),
	}
	return b, cfg, nil
}

// Capacity returns the buffer's fixed maximum size.
func (b *Buffer) Capacity() int { return b.capacity }

// GetStoredSize returns how many logical steps are currently stored,
// capped at Capacity.
func (b *Buffer) GetStoredSize() int { return b.store.StoredSize() }

// GetNextIndex returns the physical ring index the next Add call will
// begin writing at.
func (b *Buffer) GetNextIndex() int { return b.store.Cursor() }

// Clear empties the buffer without releasing its backing storage.
func (b *Buffer) Clear() {
	b.store.Clear()
	if b.nextOf != nil {
		b.nextOf.Reset()
	}
}

// Add writes one logical step, or a batch of n, into the buffer. fields
// must contain exactly the declared schema fields plus, when WithNextOf
// was set, a "next_<field>" entry. A batch entry may be a bare record
// (matching a field's declared shape) or a slice with one leading batch
// dimension; all fields in a single Add call must agree on the same
// batch size. Add either writes every field or returns an error without
// writing anything. It returns the physical ring index of the first row
// written.
func (b *Buffer) Add(fields map[string]any) (int, error) {
	idx, _, err := b.addBatch(fields)
	return idx, err
}

// addBatch is Add's implementation, additionally returning the batch size
// n so PrioritizedBuffer.Add can map a per-row priority vector onto the
// physical slots the batch actually landed in.
func (b *Buffer) addBatch(fields map[string]any) (idx, n int, err error) {
	n, coerced, nextLast, err := b.validateAndCoerce(fields)
	if err != nil {
		return 0, 0, err
	}

	idx, err = b.store.WriteRows(n, coerced)
	if err != nil {
		return 0, 0, &Error{Op: "add", Err: err}
	}
	if b.nextOf != nil {
		b.nextOf.Observe(nextLast)
	}
	return idx, n, nil
}

func (b *Buffer) validateAndCoerce(fields map[string]any) (n int, coerced map[string]any, nextLast any, err error) {
	for name := range fields {
		if _, ok := b.required[name]; !ok {
			return 0, nil, nil, &Error{Op: "add", Field: name, Err: ErrUnknownField}
		}
	}
	for name := range b.required {
		if _, ok := fields[name]; !ok {
			return 0, nil, nil, &Error{Op: "add", Field: name, Err: ErrMissingField}
		}
	}

	coerced = make(map[string]any, len(b.byName))
	n = -1
	for name, f := range b.byName {
		data, rn, cerr := column.CoerceAny(f.Dtype, name, fields[name], f.Shape)
		if cerr != nil {
			return 0, nil, nil, &Error{Op: "add", Err: cerr}
		}
		if n == -1 {
			n = rn
		} else if n != rn {
			return 0, nil, nil, &Error{Op: "add", Field: name, Err: ErrBatchSizeMismatch}
		}
		coerced[name] = data
	}

	if b.nextOf != nil {
		nf := b.required[b.nextFieldName]
		data, rn, cerr := column.CoerceAny(nf.Dtype, b.nextFieldName, fields[b.nextFieldName], nf.Shape)
		if cerr != nil {
			return 0, nil, nil, &Error{Op: "add", Err: cerr}
		}
		if rn != n {
			return 0, nil, nil, &Error{Op: "add", Field: b.nextFieldName, Err: ErrBatchSizeMismatch}
		}
		nextLast = lastRow(data, n, nf.Shape)
	}

	if n > b.capacity {
		return 0, nil, nil, &Error{Op: "add", Err: ErrBatchTooLarge}
	}
	return n, coerced, nextLast, nil
}

func shapeElemCount(shape []int) int {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return n
}

// lastRow slices out the final row of a flattened []T batch, regardless
// of the concrete element type T, via reflection over the boxed slice.
func lastRow(data any, n int, shape []int) any {
	ec := shapeElemCount(shape)
	rv := reflectSliceOf(data)
	return rv.Slice((n-1)*ec, n*ec).Interface()
}

// Sample draws batchSize indices uniformly at random, with replacement,
// from the currently stored steps and returns the gathered field
// values, keyed by field name (and "next_<field>" when WithNextOf is
// set).
func (b *Buffer) Sample(batchSize int) (map[string]any, error) {
	idxs, err := b.uniformIndices(batchSize)
	if err != nil {
		return nil, err
	}
	return b.encodeSample(idxs), nil
}

func (b *Buffer) uniformIndices(batchSize int) ([]int, error) {
	stored := b.store.StoredSize()
	if stored == 0 {
		return nil, &Error{Op: "sample", Err: ErrEmptyBuffer}
	}
	idxs := make([]int, batchSize)
	for i := range idxs {
		logical := b.rng.Intn(stored)
		idxs[i] = b.physicalIndex(logical, stored)
	}
	return idxs, nil
}

// physicalIndex converts a logical (insertion-order) index in
// [0, stored) into a physical ring slot.
func (b *Buffer) physicalIndex(logical, stored int) int {
	if stored < b.capacity {
		return logical
	}
	return (b.store.Cursor() + logical) % b.capacity
}

// EncodeSample gathers every declared field, plus the next_<field>
// alias when configured, for an arbitrary caller-supplied index or
// index sequence, bypassing the sampler entirely. It exists for tests
// and tools that need to inspect specific physical slots directly.
func (b *Buffer) EncodeSample(indexes []int) (map[string]any, error) {
	stored := b.store.StoredSize()
	for _, idx := range indexes {
		if idx < 0 || idx >= stored {
			return nil, &Error{Op: "encode_sample", Err: ErrIndexOutOfRange}
		}
	}
	return b.encodeSample(indexes), nil
}

// encodeSample gathers every declared field, plus the next_<field> alias
// when configured, for the given physical indices.
func (b *Buffer) encodeSample(idxs []int) map[string]any {
	out := b.store.Gather(b.schema.names(), idxs)
	if b.nextOf != nil {
		cursor := b.store.Cursor()
		rows := make([]any, len(idxs))
		for i, idx := range idxs {
			rows[i] = b.nextOf.Get(idx, cursor)
		}
		out[b.nextFieldName] = stackRows(rows)
	}
	return out
}

func (s Schema) names() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Name
	}
	return out
}
