package replay

import (
	"math"

	"github.com/samuelfneumann/replay/internal/floatutils"
	"github.com/samuelfneumann/replay/internal/segtree"
	"gonum.org/v1/gonum/floats"
)

// priorityEpsilon is the floor every stored priority is clamped to before
// it reaches a segment tree: a slot at priority 0 could never be drawn
// again even after UpdatePriorities raises every other slot's priority,
// since PrefixSumIndex only ever lands on a leaf with positive
// accumulated weight.
const priorityEpsilon = 1e-8

func clipPriority(p float64) float64 {
	return floatutils.Clip(p, priorityEpsilon, math.MaxFloat64)
}

// PrioritizedBuffer extends Buffer with proportional prioritized
// sampling: a sum tree drives stratified draws, a parallel min tree
// tracks the smallest live priority for importance-sampling weights, and
// every newly-added step is seeded at the running maximum priority.
type PrioritizedBuffer struct {
	*Buffer

	alpha       float64
	sum         *segtree.Sum
	min         *segtree.Min
	maxPriority float64
}

// NewPrioritizedBuffer constructs a prioritized buffer. alpha controls
// how strongly priority skews sampling (alpha=0 reduces to uniform
// sampling).
func NewPrioritizedBuffer(capacity int, schema Schema, alpha float64, opts ...Option) (*PrioritizedBuffer, error) {
	b, _, err := newBuffer(capacity, schema, opts...)
	if err != nil {
		return nil, err
	}
	return &PrioritizedBuffer{
		Buffer:      b,
		alpha:       alpha,
		sum:         segtree.NewSum(capacity),
		min:         segtree.NewMin(capacity),
		maxPriority: 1.0,
	}, nil
}

// priorityFieldName is the reserved fields map key Add reads a row's
// priority from. It is never passed through to the underlying Buffer's
// schema validation, mirroring cpprb's add(..., priorities=ps) keyword
// argument (see original_source/test/experimental.py's prioritized
// buffer tests): priorities travel alongside the step's fields rather
// than as a separate parameter.
const priorityFieldName = "priorities"

// Add writes one logical step, or a batch of n, the way Buffer.Add does,
// then seeds each written row's priority from fields["priorities"] if
// present. That entry may be omitted (every row is seeded at the current
// running maximum priority, so a freshly-added, never-sampled transition
// carries the highest sampling weight any row currently has), a single
// float64 (n must be 1), or a []float64 of exactly n values, one per row
// of the batch in the same order the batch's fields were supplied (spec
// §4.7's "priority p (vector in batched form)").
func (b *PrioritizedBuffer) Add(fields map[string]any) (int, error) {
	priorityVal, hasPriority := fields[priorityFieldName]
	rest := fields
	if hasPriority {
		rest = make(map[string]any, len(fields)-1)
		for k, v := range fields {
			if k != priorityFieldName {
				rest[k] = v
			}
		}
		// Check the supplied priorities against the batch size before any
		// row is written, so a bad priority leaves the buffer untouched.
		vn, _, _, err := b.Buffer.validateAndCoerce(rest)
		if err != nil {
			return 0, err
		}
		if _, err := b.resolveRowPriorities(vn, priorityVal, true); err != nil {
			return 0, err
		}
	}

	idx, n, err := b.Buffer.addBatch(rest)
	if err != nil {
		return 0, err
	}

	p, err := b.resolveRowPriorities(n, priorityVal, hasPriority)
	if err != nil {
		return 0, err
	}

	for k, pk := range p {
		slot := (idx + k) % b.Buffer.capacity
		weight := math.Pow(clipPriority(pk), b.alpha)
		b.sum.Set(slot, weight)
		b.min.Set(slot, weight)
	}
	if localMax := floats.Max(p); localMax > b.maxPriority {
		b.maxPriority = localMax
	}
	return idx, nil
}

// resolveRowPriorities expands fields["priorities"] into exactly n
// per-row values, defaulting to the running max priority and validating
// strict positivity.
func (b *PrioritizedBuffer) resolveRowPriorities(n int, priorityVal any, has bool) ([]float64, error) {
	var p []float64
	if !has {
		p = make([]float64, n)
		for i := range p {
			p[i] = b.maxPriority
		}
	} else {
		switch v := priorityVal.(type) {
		case float64:
			if n != 1 {
				return nil, &Error{Op: "add", Field: priorityFieldName, Err: ErrBatchSizeMismatch}
			}
			p = []float64{v}
		case []float64:
			if len(v) != n {
				return nil, &Error{Op: "add", Field: priorityFieldName, Err: ErrBatchSizeMismatch}
			}
			p = append([]float64(nil), v...)
		default:
			return nil, &Error{Op: "add", Field: priorityFieldName, Err: ErrDtypeMismatch}
		}
	}
	for _, pk := range p {
		if pk <= 0 {
			return nil, &Error{Op: "add", Err: ErrInvalidPriority}
		}
	}
	return p, nil
}

// GetMaxPriority returns the larger of 1.0 (the starting value) and the
// largest priority passed to Add or UpdatePriorities since construction
// or the last Clear.
func (b *PrioritizedBuffer) GetMaxPriority() float64 { return b.maxPriority }

// PrioritizedSample is the result of a prioritized Sample call: the
// gathered field values, the physical ring indices sampled (to be passed
// back to UpdatePriorities), and each sample's importance-sampling
// weight.
type PrioritizedSample struct {
	Fields  map[string]any
	Indexes []int
	Weights []float64
}

// Sample draws batchSize indices proportional to stored priority^alpha
// via stratified sampling over the sum tree, and returns importance
// sampling weights divided by the weight of the lowest-priority stored
// slot (so every weight is at most 1, and exactly 1 only for a sample of
// such a slot), using beta as the IS exponent (beta=1 fully corrects for the sampling
// bias; beta=0 disables correction).
func (b *PrioritizedBuffer) Sample(batchSize int, beta float64) (*PrioritizedSample, error) {
	stored := b.Buffer.GetStoredSize()
	if stored == 0 {
		return nil, &Error{Op: "sample", Err: ErrEmptyBuffer}
	}

	total := b.sum.Total()
	segment := total / float64(batchSize)
	idxs := make([]int, batchSize)
	for i := 0; i < batchSize; i++ {
		lo := segment * float64(i)
		u := lo + b.Buffer.rng.Float64()*segment
		if u >= total {
			u = math.Nextafter(total, 0)
		}
		idxs[i] = b.sum.PrefixSumIndex(u)
	}

	pMin := b.min.RangeMin(0, stored) / total
	maxWeight := math.Pow(pMin*float64(stored), -beta)

	weights := make([]float64, batchSize)
	for i, idx := range idxs {
		pSample := b.sum.Get(idx) / total
		weights[i] = math.Pow(pSample*float64(stored), -beta)
	}
	floats.Scale(1/maxWeight, weights)

	return &PrioritizedSample{
		Fields:  b.Buffer.encodeSample(idxs),
		Indexes: idxs,
		Weights: weights,
	}, nil
}

// UpdatePriorities overwrites the priority of each given physical index,
// typically with TD-error magnitudes computed from a just-sampled batch.
// Every priority must be strictly positive; UpdatePriorities validates
// and applies the whole batch atomically, rejecting the entire call (and
// leaving prior priorities untouched) if any entry is invalid.
func (b *PrioritizedBuffer) UpdatePriorities(indexes []int, priorities []float64) error {
	if len(indexes) != len(priorities) {
		return &Error{Op: "update_priorities", Err: ErrBatchSizeMismatch}
	}
	if len(indexes) == 0 {
		return nil
	}
	stored := b.Buffer.GetStoredSize()
	for i, idx := range indexes {
		if idx < 0 || idx >= stored {
			return &Error{Op: "update_priorities", Err: ErrIndexOutOfRange}
		}
		if priorities[i] <= 0 {
			return &Error{Op: "update_priorities", Err: ErrInvalidPriority}
		}
	}

	for i, idx := range indexes {
		weight := math.Pow(clipPriority(priorities[i]), b.alpha)
		b.sum.Set(idx, weight)
		b.min.Set(idx, weight)
	}
	if localMax := floats.Max(priorities); localMax > b.maxPriority {
		b.maxPriority = localMax
	}
	return nil
}

// Clear empties the buffer and resets every slot's priority to the
// tree's identity element.
func (b *PrioritizedBuffer) Clear() {
	b.Buffer.Clear()
	b.sum.Reset()
	b.min.Reset()
	b.maxPriority = 1.0
}
