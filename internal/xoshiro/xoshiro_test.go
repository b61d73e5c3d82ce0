package xoshiro

import "testing"

func TestNew_Deterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("two generators seeded with the same value diverged at step %d", i)
		}
	}
}

func TestNew_DifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
			break
		}
	}
	if same {
		t.Error("generators seeded differently produced the same first 10 values")
	}
}

func TestPermutation_FullCycleNoRepeats(t *testing.T) {
	r := New(7)
	const numThreads = 6
	p := NewPermutation(r, numThreads)
	p.Reset(r.Next())

	seen := make(map[uint64]bool)
	for i := 0; i < 64; i++ {
		idx, wrapped := p.Next()
		if idx >= nextPow2(numThreads) {
			t.Fatalf("Next() returned %d, out of range [0, %d)", idx, nextPow2(numThreads))
		}
		seen[idx] = true
		if wrapped {
			break
		}
	}
	if len(seen) != int(nextPow2(numThreads)) {
		t.Errorf("cycle visited %d distinct values, want %d", len(seen), nextPow2(numThreads))
	}
}

func TestPermutation_SingleThread(t *testing.T) {
	r := New(3)
	p := NewPermutation(r, 1)
	p.Reset(r.Next())
	_, wrapped := p.Next()
	if !wrapped {
		t.Error("a single-slot permutation should wrap on its first Next()")
	}
}
