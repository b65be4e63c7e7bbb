package arena

import "testing"

func TestInsertGet(t *testing.T) {
	a := New[string]()
	h := a.Insert("A0")
	v, ok := a.Get(h)
	if !ok || v != "A0" {
		t.Fatalf("expected A0, got %q ok=%v", v, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("expected len 1, got %d", a.Len())
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	a := New[int]()
	h1 := a.Insert(1)
	if !a.Remove(h1) {
		t.Fatal("first remove should succeed")
	}
	h2 := a.Insert(2)
	if h2.Index != h1.Index {
		t.Fatalf("expected slot reuse, got index %d vs %d", h2.Index, h1.Index)
	}
	if _, ok := a.Get(h1); ok {
		t.Fatal("stale handle must not resolve after slot reuse")
	}
	if v, ok := a.Get(h2); !ok || v != 2 {
		t.Fatalf("expected 2 from fresh handle, got %d ok=%v", v, ok)
	}
	if a.Remove(h1) {
		t.Fatal("removing a stale handle should report false")
	}
}

func TestNilHandleNeverResolves(t *testing.T) {
	a := New[int]()
	a.Insert(7)
	if _, ok := a.Get(Nil); ok {
		t.Fatal("nil handle resolved")
	}
	if !Nil.IsNil() {
		t.Fatal("Nil.IsNil should be true")
	}
}

func TestEachSkipsFreed(t *testing.T) {
	a := New[int]()
	h0 := a.Insert(10)
	a.Insert(20)
	a.Insert(30)
	a.Remove(h0)

	sum := 0
	a.Each(func(_ Handle, v int) bool {
		sum += v
		return true
	})
	if sum != 50 {
		t.Fatalf("expected 50, got %d", sum)
	}
}
