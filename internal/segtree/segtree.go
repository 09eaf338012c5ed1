// Package segtree implements the fixed-size sum/min segment tree pair the
// prioritized sampler is built on: O(log capacity) point update, prefix-sum
// index search, and range-min query over per-slot priority^alpha values.
//
// Both trees are 1-indexed flat arrays of length 2*next_pow2(capacity),
// array-backed for index-driven access rather than pointer-chased, since
// slots are addressed by physical ring index, not by value.
package segtree

import "math"

func nextPow2(v int) int {
	if v <= 1 {
		return 1
	}
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// Sum is a segment tree over [0, capacity) holding non-negative leaf
// weights, supporting point update and prefix-sum index search.
type Sum struct {
	leaves int
	tree   []float64
}

// NewSum allocates a sum tree whose leaves cover [0, next_pow2(capacity)).
// Leaves beyond capacity stay at the identity element (0) forever.
func NewSum(capacity int) *Sum {
	n := nextPow2(capacity)
	return &Sum{leaves: n, tree: make([]float64, 2*n)}
}

// Set writes leaf i and propagates the new sum to the root.
func (t *Sum) Set(i int, v float64) {
	i += t.leaves
	t.tree[i] = v
	for i > 1 {
		i >>= 1
		t.tree[i] = t.tree[2*i] + t.tree[2*i+1]
	}
}

// Get returns the current value of leaf i.
func (t *Sum) Get(i int) float64 { return t.tree[i+t.leaves] }

// Total returns the sum over the whole tree, i.e. the root.
func (t *Sum) Total() float64 { return t.tree[1] }

// PrefixSumIndex returns the smallest i such that sum(0..=i) > u, ties
// broken toward the left. Sums are accumulated left-to-right while
// descending from the root, matching the tree's own structure. Callers
// must clamp u to [0, Total()) themselves: a u >= Total() walks off the
// rightmost positive leaf.
func (t *Sum) PrefixSumIndex(u float64) int {
	i := 1
	for i < t.leaves {
		left := 2 * i
		if t.tree[left] > u {
			i = left
		} else {
			u -= t.tree[left]
			i = left + 1
		}
	}
	return i - t.leaves
}

// Reset zeroes every leaf and internal node, restoring the identity tree.
func (t *Sum) Reset() {
	for i := range t.tree {
		t.tree[i] = 0
	}
}

// Min is a segment tree over [0, capacity) supporting point update and
// range-min query.
type Min struct {
	leaves int
	tree   []float64
}

// NewMin allocates a min tree; every leaf starts at +Inf so that unwritten
// or out-of-range slots never win a range-min query.
func NewMin(capacity int) *Min {
	n := nextPow2(capacity)
	tree := make([]float64, 2*n)
	for i := range tree {
		tree[i] = math.Inf(1)
	}
	return &Min{leaves: n, tree: tree}
}

func (t *Min) Set(i int, v float64) {
	i += t.leaves
	t.tree[i] = v
	for i > 1 {
		i >>= 1
		t.tree[i] = math.Min(t.tree[2*i], t.tree[2*i+1])
	}
}

func (t *Min) Get(i int) float64 { return t.tree[i+t.leaves] }

// RangeMin returns the minimum leaf value over [l, r).
func (t *Min) RangeMin(l, r int) float64 {
	res := math.Inf(1)
	l += t.leaves
	r += t.leaves
	for l < r {
		if l&1 == 1 {
			res = math.Min(res, t.tree[l])
			l++
		}
		if r&1 == 1 {
			r--
			res = math.Min(res, t.tree[r])
		}
		l >>= 1
		r >>= 1
	}
	return res
}

// Reset restores every leaf and internal node to +Inf.
func (t *Min) Reset() {
	for i := range t.tree {
		t.tree[i] = math.Inf(1)
	}
}
