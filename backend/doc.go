// Package backend names the wgpu HAL backends linked into the program and
// picks one for a Renderer.
//
// # Backend Registration
//
// HAL backends register themselves with the hal package from init functions.
// Import the set for the current platform for its side effects:
//
//	import _ "github.com/gogpu/wgpu/hal/allbackends"
//
// Discover copies whatever the hal registry holds into this package's
// registry under stable lowercase names; Register adds a backend directly.
//
// # Backend Selection
//
// Use Best to get the highest-priority backend, or Lookup to request one by
// name:
//
//	b, name, err := backend.Best()
//
//	b, err := backend.Lookup("vulkan")
//
// # Available Backends
//
//   - "vulkan": Windows, Linux, macOS (MoltenVK)
//   - "metal": macOS, iOS
//   - "dx12": Windows
//   - "gles": Windows, Linux
//   - "software": CPU rasterizer, always linked by allbackends
package backend
