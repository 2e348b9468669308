// Package present owns the GPU side of a single window: device, swapchain,
// render target and, optionally, a triangle mesh with its shader program.
//
// # Overview
//
// A Renderer is created with NewRenderer, bound to a native window with
// Init, driven by the host's event loop through Resize and Render, and torn
// down with Shutdown:
//
//	r := present.NewRenderer(present.WithVariant(present.VariantTriangle))
//	if err := r.Init(present.WindowHandle{Display: display, Window: window}, 1280, 720); err != nil {
//	    return err
//	}
//	defer r.Shutdown()
//
//	for !window.ShouldClose() {
//	    pollEvents() // calls r.Resize from the framebuffer-size callback
//	    if err := r.Render(); err != nil {
//	        return err
//	    }
//	}
//
// # Variants
//
// VariantClear clears every frame to (0.1, 0.2, 0.6, 1). VariantTriangle
// clears to (0.1, 0.2, 0.4, 1) and draws a blue, green and red triangle from
// an immutable vertex and index buffer with a WGSL program compiled at Init.
//
// # Backends
//
// GPU access goes through the gogpu/wgpu HAL. Link the platform backends
// with a blank import of github.com/gogpu/wgpu/hal/allbackends; Init then
// picks the best one unless WithBackendName or WithBackend says otherwise.
// CPU adapters ("Software Renderer", "Microsoft Basic Render Driver") are
// skipped by default; see WithFallbackAdapters.
//
// # Resource lifetime
//
// Every resource Init creates is released exactly once, in reverse creation
// order, either by Shutdown or by a failing Init. Shutdown is idempotent.
//
// # Threading
//
// A Renderer is not safe for concurrent use. Call it from the goroutine that
// runs the window's event loop, locked to the main OS thread.
package present
