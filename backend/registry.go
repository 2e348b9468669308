package backend

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// registry holds registered backends.
// Priority order for backend selection (first available wins): native APIs
// first, GLES as the portable fallback, then the CPU rasterizer.
var registry = gpucontext.NewRegistry[hal.Backend](
	gpucontext.WithPriority(Vulkan, Metal, DX12, GLES, Software),
)

// Register registers a backend under name.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, b hal.Backend) {
	registry.Register(name, func() hal.Backend { return b })
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registry.Unregister(name)
}

// Discover registers every backend currently known to the hal registry
// under its Name and returns the names, sorted.
func Discover() []string {
	variants := hal.AvailableBackends()
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		b, ok := hal.GetBackend(v)
		if !ok {
			continue
		}
		name := Name(v)
		Register(name, b)
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Available returns the sorted names of registered backends.
func Available() []string {
	names := registry.Available()
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Lookup returns the backend registered under name.
func Lookup(name string) (hal.Backend, error) {
	if !registry.Has(name) {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	return registry.Get(name), nil
}

// Best returns the highest-priority registered backend and its name.
func Best() (hal.Backend, string, error) {
	name := registry.BestName()
	if name == "" {
		return nil, "", ErrBackendNotAvailable
	}
	return registry.Get(name), name, nil
}
