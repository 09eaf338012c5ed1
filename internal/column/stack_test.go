package column

import (
	"reflect"
	"testing"
)

func TestStackWriteAndReadRow(t *testing.T) {
	depth, capacity := 3, 4
	s := NewStack[float64]("obs", []int{2}, depth, capacity)

	window := []float64{1, 1, 2, 2, 3, 3} // three frames of two elements each
	if err := s.WriteBatch(0, 1, capacity, window); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	got := s.ReadRow(0).([]float64)
	if !reflect.DeepEqual(got, window) {
		t.Errorf("ReadRow(0) = %v, want %v", got, window)
	}
}

func TestStackWriteBatchWraps(t *testing.T) {
	depth, capacity := 2, 3
	s := NewStack[float64]("obs", []int{1}, depth, capacity)

	rows := []float64{
		9, 9, // slot 2
		8, 8, // slot 0 (wraps)
	}
	if err := s.WriteBatch(2, 2, capacity, rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if got := s.ReadRow(2).([]float64); !reflect.DeepEqual(got, []float64{9, 9}) {
		t.Errorf("ReadRow(2) = %v, want [9 9]", got)
	}
	if got := s.ReadRow(0).([]float64); !reflect.DeepEqual(got, []float64{8, 8}) {
		t.Errorf("ReadRow(0) = %v, want [8 8]", got)
	}
}

func TestStackShapeCarriesDepth(t *testing.T) {
	s := NewStack[float32]("frame", []int{16, 16}, 4, 10)
	want := []int{4, 16, 16}
	if got := s.Shape(); !reflect.DeepEqual(got, want) {
		t.Errorf("Shape() = %v, want %v", got, want)
	}
}

func TestStackDtypeMismatch(t *testing.T) {
	s := NewStack[float64]("obs", []int{1}, 2, 4)
	if err := s.WriteBatch(0, 1, 4, []float32{1, 1}); err == nil {
		t.Error("expected a dtype mismatch error")
	}
}

// TestStackCompressedStorageSize pins the spec §4.4 storage bound: a
// single rolling buffer of capacity+depth-1 inner frames, not a full
// depth-length window per ring slot.
func TestStackCompressedStorageSize(t *testing.T) {
	depth, capacity := 3, 10
	s := NewStack[float64]("obs", []int{2}, depth, capacity)
	want := (capacity + depth - 1) * 2
	if got := len(s.data); got != want {
		t.Errorf("len(data) = %d, want %d (compressed rolling buffer, not capacity*depth*inner)", got, want)
	}
}

// TestStackWrapsAcrossMultipleLaps walks a stream of temporally
// contiguous single-element frames through more than two full ring
// laps and checks that the most-recently-written slot — whose window no
// later write has touched yet — still reads back exactly the window it
// was given.
func TestStackWrapsAcrossMultipleLaps(t *testing.T) {
	depth, capacity := 2, 4
	s := NewStack[float64]("obs", []int{1}, depth, capacity)

	frame := func(i int) float64 { return float64(i) }
	window := func(i int) []float64 { return []float64{frame(i), frame(i + 1)} }

	total := capacity*2 + 1 // just past two full laps
	for i := 0; i < total; i++ {
		if err := s.WriteBatch(i%capacity, 1, capacity, window(i)); err != nil {
			t.Fatalf("WriteBatch step %d: %v", i, err)
		}
	}

	lastStep := total - 1
	lastSlot := lastStep % capacity
	got := s.ReadRow(lastSlot).([]float64)
	want := window(lastStep)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRow(%d) after %d steps = %v, want %v", lastSlot, total, got, want)
	}
}

// TestStackWrapBoundaryMirrorsOverflowTail exercises the exact
// capacity=3, depth=2 trace DESIGN.md documents: after the ring wraps,
// slot 0's window must reflect its own new data, not the stale frame
// left over from the first lap.
func TestStackWrapBoundaryMirrorsOverflowTail(t *testing.T) {
	depth, capacity := 2, 3
	s := NewStack[float64]("obs", []int{1}, depth, capacity)

	windows := [][]float64{
		{0, 1}, // slot 0, bootstrap
		{1, 2}, // slot 1, bootstrap
		{2, 3}, // slot 2, steady state
		{3, 4}, // slot 0, first reuse: must mirror the overflow tail first
	}
	for i, w := range windows {
		if err := s.WriteBatch(i%capacity, 1, capacity, w); err != nil {
			t.Fatalf("WriteBatch step %d: %v", i, err)
		}
	}

	if got := s.ReadRow(0).([]float64); !reflect.DeepEqual(got, []float64{3, 4}) {
		t.Errorf("ReadRow(0) after wrap = %v, want [3 4]", got)
	}
}
