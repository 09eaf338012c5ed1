package segtree

import (
	"math"
	"testing"
)

func TestSumSetAndTotal(t *testing.T) {
	s := NewSum(4)
	s.Set(0, 1)
	s.Set(1, 2)
	s.Set(2, 3)
	s.Set(3, 4)
	if got := s.Total(); got != 10 {
		t.Errorf("Total() = %v, want 10", got)
	}
	if got := s.Get(2); got != 3 {
		t.Errorf("Get(2) = %v, want 3", got)
	}
}

func TestSumPrefixSumIndex(t *testing.T) {
	s := NewSum(4)
	s.Set(0, 1)
	s.Set(1, 2)
	s.Set(2, 3)
	s.Set(3, 4)
	// Cumulative bounds: [0,1) -> 0, [1,3) -> 1, [3,6) -> 2, [6,10) -> 3.
	cases := []struct {
		u    float64
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1},
		{2.9, 1},
		{3, 2},
		{5.9, 2},
		{6, 3},
		{9.99, 3},
	}
	for _, c := range cases {
		if got := s.PrefixSumIndex(c.u); got != c.want {
			t.Errorf("PrefixSumIndex(%v) = %d, want %d", c.u, got, c.want)
		}
	}
}

func TestSumReset(t *testing.T) {
	s := NewSum(4)
	s.Set(0, 5)
	s.Reset()
	if got := s.Total(); got != 0 {
		t.Errorf("Total() after Reset = %v, want 0", got)
	}
}

func TestMinRangeMin(t *testing.T) {
	m := NewMin(4)
	m.Set(0, 5)
	m.Set(1, 2)
	m.Set(2, 9)
	m.Set(3, 1)

	if got := m.RangeMin(0, 4); got != 1 {
		t.Errorf("RangeMin(0,4) = %v, want 1", got)
	}
	if got := m.RangeMin(0, 2); got != 2 {
		t.Errorf("RangeMin(0,2) = %v, want 2", got)
	}
	if got := m.RangeMin(2, 4); got != 1 {
		t.Errorf("RangeMin(2,4) = %v, want 1", got)
	}
}

func TestMinUnsetLeavesAreInf(t *testing.T) {
	m := NewMin(4)
	m.Set(1, 3)
	if got := m.RangeMin(0, 1); !math.IsInf(got, 1) {
		t.Errorf("RangeMin over an unset leaf = %v, want +Inf", got)
	}
}

func TestNonPowerOfTwoCapacity(t *testing.T) {
	s := NewSum(5)
	for i := 0; i < 5; i++ {
		s.Set(i, float64(i+1))
	}
	if got, want := s.Total(), 1.0+2+3+4+5; got != want {
		t.Errorf("Total() = %v, want %v", got, want)
	}
}
