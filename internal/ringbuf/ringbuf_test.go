package ringbuf

import "testing"

func TestBufferWrap(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 5; i++ {
		b.Push(i)
	}

	if b.Len() != 3 {
		t.Fatalf("expected len 3, got %d", b.Len())
	}
	if b.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", b.Dropped())
	}

	got := b.Slice()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestBufferLast(t *testing.T) {
	b := New[int](10)
	for i := 0; i < 4; i++ {
		b.Push(i)
	}

	last := b.Last(2)
	if len(last) != 2 || last[0] != 2 || last[1] != 3 {
		t.Errorf("unexpected last: %v", last)
	}

	if len(b.Last(20)) != 4 {
		t.Error("Last should clamp to the retained size")
	}
}

func TestBufferReset(t *testing.T) {
	b := New[string](0)
	if b.Cap() != 1 {
		t.Fatalf("expected capacity raised to 1, got %d", b.Cap())
	}
	b.Push("a")
	b.Push("b")
	b.Reset()
	if b.Len() != 0 || b.Dropped() != 0 {
		t.Error("reset should clear size and drop count")
	}
}
