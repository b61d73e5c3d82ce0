package queue

import "testing"

func TestDeque_PushPop(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	v, ok := q.Pop()
	if !ok || v != 3 {
		t.Errorf("Pop() = %d, %v, want 3, true", v, ok)
	}
	if q.Peek() != 2 {
		t.Errorf("Peek() = %d, want 2", q.Peek())
	}
}

func TestDeque_PopEmpty(t *testing.T) {
	q := New[int](4)
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue returned ok=true")
	}
}

func TestDeque_Steal(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	v, ok := q.Steal()
	if !ok || v != 1 {
		t.Errorf("Steal() = %d, %v, want 1, true (FIFO from the opposite end)", v, ok)
	}
	if q.Peek() != 2 {
		t.Errorf("Peek() after Steal = %d, want 2", q.Peek())
	}
}

func TestDeque_StealEmpty(t *testing.T) {
	q := New[int](4)
	if _, ok := q.Steal(); ok {
		t.Error("Steal() on empty queue returned ok=true")
	}
}

func TestStealHalf_SplitsRemaining(t *testing.T) {
	src := New[int](8)
	dst := New[int](8)
	for i := 0; i < 6; i++ {
		src.Push(i)
	}

	v, ok := StealHalf(dst, src)
	if !ok {
		t.Fatal("StealHalf() ok = false, want true")
	}
	if v != 0 {
		t.Errorf("StealHalf() first item = %d, want 0 (oldest)", v)
	}
	// 6 items, half taken (3), one returned directly, two left in dst.
	if src.Peek() != 3 {
		t.Errorf("src.Peek() after StealHalf = %d, want 3", src.Peek())
	}
	if dst.Peek() != 2 {
		t.Errorf("dst.Peek() after StealHalf = %d, want 2", dst.Peek())
	}
}

func TestStealHalf_EmptySource(t *testing.T) {
	src := New[int](4)
	dst := New[int](4)
	if _, ok := StealHalf(dst, src); ok {
		t.Error("StealHalf() on empty source returned ok=true")
	}
}

func TestDeque_Empty(t *testing.T) {
	q := New[int](4)
	if !q.Empty() {
		t.Error("Empty() = false on a fresh queue")
	}
	q.Push(1)
	if q.Empty() {
		t.Error("Empty() = true after a push")
	}
}
