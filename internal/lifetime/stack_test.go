package lifetime

import (
	"slices"
	"testing"
)

func TestStackReleasesInReverseOrder(t *testing.T) {
	var got []string
	s := New(nil)
	for _, name := range []string{"instance", "device", "buffer"} {
		s.Defer(name, func() { got = append(got, name) })
	}

	released := s.Release()

	want := []string{"buffer", "device", "instance"}
	if !slices.Equal(got, want) {
		t.Errorf("release calls = %v, want %v", got, want)
	}
	if !slices.Equal(released, want) {
		t.Errorf("Release() = %v, want %v", released, want)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Release = %d, want 0", s.Len())
	}
}

func TestStackReleaseIsIdempotent(t *testing.T) {
	calls := 0
	s := New(nil)
	s.Defer("device", func() { calls++ })

	s.Release()
	if got := s.Release(); got != nil {
		t.Errorf("second Release() = %v, want nil", got)
	}
	if calls != 1 {
		t.Errorf("release ran %d times, want 1", calls)
	}
}

func TestStackRaise(t *testing.T) {
	s := New(nil)
	for _, name := range []string{"instance", "surface", "device", "commands"} {
		s.Defer(name, func() {})
	}

	if !s.Raise("surface") {
		t.Fatal("Raise(surface) = false, want true")
	}
	if s.Raise("missing") {
		t.Error("Raise(missing) = true, want false")
	}

	want := []string{"instance", "device", "commands", "surface"}
	if got := s.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	released := s.Release()
	wantReleased := []string{"surface", "commands", "device", "instance"}
	if !slices.Equal(released, wantReleased) {
		t.Errorf("Release() = %v, want %v", released, wantReleased)
	}
}

func TestStackRaiseTopIsNoop(t *testing.T) {
	s := New(nil)
	s.Defer("a", func() {})
	s.Defer("b", func() {})

	s.Raise("b")

	if got := s.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}
}

func TestStackPartialRelease(t *testing.T) {
	// A failed init releases only what it acquired; the stack can be reused.
	s := New(nil)
	s.Defer("instance", func() {})
	s.Release()

	s.Defer("instance", func() {})
	s.Defer("device", func() {})
	if got := s.Release(); !slices.Equal(got, []string{"device", "instance"}) {
		t.Errorf("Release() = %v, want [device instance]", got)
	}
}
