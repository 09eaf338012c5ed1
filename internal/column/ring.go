package column

import "github.com/samuelfneumann/replay/internal/intutils"

// Split computes the two contiguous runs a batched write of n rows starting
// at physical slot head produces in a ring of the given capacity: first is
// the run from head to the end of the ring, second is whatever spills over
// and wraps to slot 0. second is 0 when the write does not wrap.
func Split(head, n, capacity int) (first, second int) {
	room := capacity - head
	first = intutils.Min(n, room)
	second = n - first
	return first, second
}

// Advance returns the next write cursor after n rows have been written
// starting at head, and the new stored size after accounting for capacity
// saturation.
func Advance(head, n, capacity, storedSize int) (nextHead, nextStored int) {
	nextHead = (head + n) % capacity
	nextStored = storedSize + n
	if nextStored > capacity {
		nextStored = capacity
	}
	return nextHead, nextStored
}
