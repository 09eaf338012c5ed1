package column

import (
	"reflect"
	"testing"
)

func TestPlainWriteAndGather(t *testing.T) {
	c := NewPlain[float64]("obs", []int{2}, 4)

	if err := c.WriteBatch(0, 2, 4, []float64{1, 1, 2, 2}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := c.WriteBatch(2, 2, 4, []float64{3, 3, 4, 4}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}

	got := c.Gather([]int{0, 1, 2, 3}).([]float64)
	want := []float64{1, 1, 2, 2, 3, 3, 4, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Gather = %v, want %v", got, want)
	}
}

func TestPlainWriteBatchWraps(t *testing.T) {
	c := NewPlain[float64]("x", []int{1}, 4)
	if err := c.WriteBatch(3, 2, 4, []float64{9, 8}); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if got := c.Row(3)[0]; got != 9 {
		t.Errorf("row 3 = %v, want 9", got)
	}
	if got := c.Row(0)[0]; got != 8 {
		t.Errorf("row 0 = %v, want 8 (wrapped)", got)
	}
}

func TestPlainDtypeMismatch(t *testing.T) {
	c := NewPlain[float64]("x", []int{1}, 4)
	if err := c.WriteBatch(0, 1, 4, []float32{1}); err == nil {
		t.Error("expected dtype mismatch error")
	}
}

func TestPlainShapeMismatch(t *testing.T) {
	c := NewPlain[float64]("x", []int{2}, 4)
	if err := c.WriteBatch(0, 1, 4, []float64{1}); err == nil {
		t.Error("expected shape mismatch error")
	}
}

func TestPlainReadRow(t *testing.T) {
	c := NewPlain[int32]("a", []int{3}, 2)
	c.WriteBatch(0, 1, 2, []int32{1, 2, 3})
	row := c.ReadRow(0).([]int32)
	if !reflect.DeepEqual(row, []int32{1, 2, 3}) {
		t.Errorf("ReadRow = %v, want [1 2 3]", row)
	}
	// ReadRow must copy, not alias.
	row[0] = 99
	if c.Row(0)[0] == 99 {
		t.Error("ReadRow returned an aliased slice")
	}
}
