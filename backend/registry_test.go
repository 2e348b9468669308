package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// fakeBackend reports a fixed variant without being registered with hal.
type fakeBackend struct {
	noop.API
	variant gputypes.Backend
}

func (f fakeBackend) Variant() gputypes.Backend { return f.variant }

// isolate empties the registry for the duration of a test.
func isolate(t *testing.T) {
	t.Helper()
	saved := map[string]hal.Backend{}
	for _, name := range registry.Available() {
		saved[name] = registry.Get(name)
		registry.Unregister(name)
	}
	t.Cleanup(func() {
		for _, name := range registry.Available() {
			registry.Unregister(name)
		}
		for name, b := range saved {
			Register(name, b)
		}
	})
}

func TestName(t *testing.T) {
	tests := []struct {
		v    gputypes.Backend
		want string
	}{
		{gputypes.BackendVulkan, "vulkan"},
		{gputypes.BackendMetal, "metal"},
		{gputypes.BackendDX12, "dx12"},
		{gputypes.BackendGL, "gles"},
		{gputypes.BackendEmpty, "software"},
		{gputypes.BackendBrowserWebGPU, "browser"},
	}
	for _, tt := range tests {
		if got := Name(tt.v); got != tt.want {
			t.Errorf("Name(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestConsumesSPIRV(t *testing.T) {
	if !ConsumesSPIRV(gputypes.BackendVulkan) || !ConsumesSPIRV(gputypes.BackendEmpty) {
		t.Error("vulkan and the CPU backend take SPIR-V")
	}
	for _, v := range []gputypes.Backend{gputypes.BackendDX12, gputypes.BackendMetal, gputypes.BackendGL} {
		if ConsumesSPIRV(v) {
			t.Errorf("ConsumesSPIRV(%v) = true, want false", v)
		}
	}
}

func TestDiscoverFindsNoop(t *testing.T) {
	isolate(t)

	names := Discover()
	if !slices.Contains(names, Software) {
		t.Fatalf("Discover() = %v, want it to contain %q", names, Software)
	}
	b, err := Lookup(Software)
	if err != nil {
		t.Fatalf("Lookup(software) error = %v", err)
	}
	if b.Variant() != gputypes.BackendEmpty {
		t.Errorf("Variant() = %v, want Empty", b.Variant())
	}
}

func TestLookupMissing(t *testing.T) {
	isolate(t)

	_, err := Lookup("vulkan")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Lookup(vulkan) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestBestFollowsPriority(t *testing.T) {
	isolate(t)

	if _, _, err := Best(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Fatalf("Best() on empty registry error = %v, want ErrBackendNotAvailable", err)
	}

	Register(Software, fakeBackend{variant: gputypes.BackendEmpty})
	Register(GLES, fakeBackend{variant: gputypes.BackendGL})
	Register(Vulkan, fakeBackend{variant: gputypes.BackendVulkan})

	b, name, err := Best()
	if err != nil {
		t.Fatalf("Best() error = %v", err)
	}
	if name != Vulkan || b.Variant() != gputypes.BackendVulkan {
		t.Errorf("Best() = %v, %q, want vulkan", b.Variant(), name)
	}

	Unregister(Vulkan)
	if _, name, _ := Best(); name != GLES {
		t.Errorf("Best() after removing vulkan = %q, want gles", name)
	}

	if got := Available(); !slices.Equal(got, []string{GLES, Software}) {
		t.Errorf("Available() = %v", got)
	}
	if !IsRegistered(GLES) || IsRegistered(Vulkan) {
		t.Error("IsRegistered disagrees with Available")
	}
}
