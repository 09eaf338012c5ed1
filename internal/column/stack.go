package column

import "fmt"

// Stack stores a stack_compress-linked field as the single rolling
// buffer spec §4.4 mandates: capacity+depth-1 inner frames, each stored
// exactly once, rather than a full depth-length window per ring slot.
//
// A caller still supplies the full depth-length window on every write
// (the windows of consecutive steps are assumed temporally contiguous:
// step i's window is frame[i:i+depth], step i+1's is frame[i+1:i+depth+1]).
// Only the one new trailing frame of each window is actually new
// information once the buffer has seen its first depth steps — every
// earlier frame already lives in the rolling buffer from a prior step's
// write. The first depth steps ("the first S writes" in spec §4.4) each
// write their full supplied window, bootstrapping the buffer before any
// step can be satisfied by a single new frame alone.
//
// Ring wraparound needs one extra piece of bookkeeping. Physical ring
// slot k's window always occupies buffer positions [k, k+depth), so the
// backing array is laid out as capacity ring slots followed by depth-1
// overflow positions mirroring the tail of whichever window runs past
// the end of the ring. When slot 0 is written for the second and later
// time (a new lap), the depth-1 frames it needs as leading context are
// no longer at the front of the buffer — they were last refreshed a
// full lap ago, and the most recent copies now live in the overflow
// positions. Stack copies them back to the front before writing slot
// 0's new trailing frame, the same mirroring step real cpprb-style
// stack_compress implementations perform at this boundary. Overlapping
// windows leave a narrow inconsistency window of their own: a slot
// 1..depth-1 steps ahead of the just-rewritten slot still shares buffer
// positions with it and is not yet due for eviction, so its window reads
// the newer step's frames in those positions until its own turn to be
// overwritten arrives. See DESIGN.md for
// why this trade-off is accepted rather than reverting to full
// per-slot redundant storage.
type Stack[T Numeric] struct {
	name           string
	innerShape     []int
	innerElemCount int
	depth          int
	capacity       int
	length         int // capacity + depth - 1 inner frames
	data           []T // length * innerElemCount
	written        int // total per-step writes since construction/Reset
}

// NewStack allocates a window column. innerShape is the shape of one
// frame (excluding the leading depth dimension); depth is the window
// length S.
func NewStack[T Numeric](name string, innerShape []int, depth, capacity int) *Stack[T] {
	iec := elemCount(innerShape)
	length := capacity + depth - 1
	return &Stack[T]{
		name:           name,
		innerShape:     append([]int(nil), innerShape...),
		innerElemCount: iec,
		depth:          depth,
		capacity:       capacity,
		length:         length,
		data:           make([]T, length*iec),
	}
}

func (s *Stack[T]) Name() string { return s.name }

// Shape returns the declared field shape (depth, *innerShape).
func (s *Stack[T]) Shape() []int {
	shape := make([]int, 0, len(s.innerShape)+1)
	shape = append(shape, s.depth)
	return append(shape, s.innerShape...)
}

func (s *Stack[T]) ElemCount() int { return s.depth * s.innerElemCount }

func (s *Stack[T]) Dtype() Dtype {
	var zero T
	return dtypeOf(zero)
}

func (s *Stack[T]) Zero() any { return make([]T, s.ElemCount()) }

// Reset restores the bootstrap counter so the next write after a Clear
// re-seeds the rolling buffer's full window from scratch.
func (s *Stack[T]) Reset() { s.written = 0 }

func (s *Stack[T]) WriteBatch(head, n, capacity int, rows any) error {
	typed, ok := rows.([]T)
	if !ok {
		return fmt.Errorf("field %q: %w", s.name, ErrDtypeMismatch)
	}
	rowLen := s.ElemCount()
	if len(typed) != n*rowLen {
		return fmt.Errorf("field %q: %w", s.name, ErrShapeMismatch)
	}
	for i := 0; i < n; i++ {
		window := typed[i*rowLen : (i+1)*rowLen]
		slot := (head + i) % capacity
		s.writeOne(slot, window)
	}
	return nil
}

// writeOne stores the new information contributed by the window for a
// single ring slot: the whole window during bootstrap, otherwise only
// its trailing frame, mirroring the overflow tail back to the front of
// the buffer first if this write begins a new lap.
func (s *Stack[T]) writeOne(slot int, window []T) {
	iec := s.innerElemCount
	if slot == 0 && s.written >= s.capacity {
		tail := s.capacity * iec
		copy(s.data[0:(s.depth-1)*iec], s.data[tail:s.length*iec])
	}
	if s.written < s.depth {
		copy(s.data[slot*iec:(slot+s.depth)*iec], window)
	} else {
		pos := slot + s.depth - 1
		copy(s.data[pos*iec:(pos+1)*iec], window[(s.depth-1)*iec:s.depth*iec])
	}
	s.written++
}

func (s *Stack[T]) Gather(idxs []int) any {
	rowLen := s.ElemCount()
	out := make([]T, len(idxs)*rowLen)
	for i, idx := range idxs {
		copy(out[i*rowLen:(i+1)*rowLen], s.window(idx))
	}
	return out
}

func (s *Stack[T]) ReadRow(idx int) any {
	row := make([]T, s.ElemCount())
	copy(row, s.window(idx))
	return row
}

// window returns the depth-length slice of the rolling buffer backing
// ring slot idx's window, without copying.
func (s *Stack[T]) window(idx int) []T {
	iec := s.innerElemCount
	return s.data[idx*iec : (idx+s.depth)*iec]
}
