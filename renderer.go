package present

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present/backend"
	"github.com/gogpu/present/internal/lifetime"
)

// State is the lifecycle state of a Renderer.
type State uint8

const (
	// StateUninitialized is the state of a new Renderer and of one whose
	// Init failed.
	StateUninitialized State = iota
	// StateInitialized means every GPU resource is live and frames can be
	// rendered.
	StateInitialized
	// StateShutDown is terminal.
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateInitialized:
		return "Initialized"
	case StateShutDown:
		return "ShutDown"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// WindowHandle identifies the native window a Renderer presents to.
// On Windows Display is the HINSTANCE (0 selects the current module) and
// Window the HWND; on X11 they are the Display* and the Window.
type WindowHandle struct {
	Display uintptr
	Window  uintptr
}

// Renderer owns a GPU device, the swapchain of one window and, in the
// triangle variant, the mesh and shader program it draws.
//
// A Renderer is used from a single goroutine, normally the one locked to
// the main OS thread that also runs the window's event loop. Render blocks
// in present until the next vertical blank.
type Renderer struct {
	opts  options
	state State
	stack *lifetime.Stack

	backendVariant gputypes.Backend
	adapterInfo    gputypes.AdapterInfo

	instance   hal.Instance
	surface    hal.Surface
	device     hal.Device
	queue      hal.Queue
	commands   *commandContext
	config     hal.SurfaceConfiguration
	configured bool
	target     *renderTarget
	mesh       *mesh
	program    *program

	width, height uint32
	frames        uint64
	diagnostics   Diagnostics
	released      []string
}

// NewRenderer returns an uninitialized Renderer.
//
// Example:
//
//	r := present.NewRenderer(present.WithVariant(present.VariantTriangle))
//	if err := r.Init(handle, 1280, 720); err != nil {
//	    return err
//	}
//	defer r.Shutdown()
func NewRenderer(opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Renderer{opts: o, stack: lifetime.New(Logger())}
}

// State returns the lifecycle state.
func (r *Renderer) State() State { return r.state }

// Variant returns the configured variant.
func (r *Renderer) Variant() Variant { return r.opts.variant }

// ClearColor returns the colour every frame is cleared to.
func (r *Renderer) ClearColor() gputypes.Color { return r.opts.clear() }

// Size returns the current back buffer dimensions.
func (r *Renderer) Size() (width, height uint32) { return r.width, r.height }

// Format returns the back buffer format chosen at Init.
func (r *Renderer) Format() gputypes.TextureFormat { return r.config.Format }

// Frames returns the number of frames presented.
func (r *Renderer) Frames() uint64 { return r.frames }

// Diagnostics returns the shader compiler warnings collected by Init.
func (r *Renderer) Diagnostics() Diagnostics { return r.diagnostics }

// AdapterInfo describes the adapter selected by Init.
func (r *Renderer) AdapterInfo() gpucontext.AdapterInfo {
	if r.state != StateInitialized {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	return toAdapterInfo(r.adapterInfo)
}

// Init creates every GPU resource the Renderer owns and binds it to the
// window identified by handle. On failure everything created so far is
// released, the Renderer stays uninitialized and the returned error wraps
// one of ErrNoAdapter, ErrFeatureLevel, ErrSurface, ErrShaderCompile or
// ErrResource.
func (r *Renderer) Init(handle WindowHandle, width, height uint32) (err error) {
	switch r.state {
	case StateInitialized:
		return ErrAlreadyInitialized
	case StateShutDown:
		return ErrShutDown
	}
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}

	defer func() {
		if err != nil {
			released := r.stack.Release()
			Logger().Debug("present: init failed, released partial state", "released", released, "err", err)
			r.reset()
		}
	}()

	if err := r.createDevice(handle); err != nil {
		return err
	}
	if err := r.configureSurface(width, height); err != nil {
		return err
	}
	if r.opts.variant == VariantTriangle {
		if err := r.createScene(); err != nil {
			return err
		}
	}

	r.width, r.height = width, height
	r.state = StateInitialized
	return nil
}

// createDevice creates the instance and surface, selects an adapter and
// opens the device and the command context.
func (r *Renderer) createDevice(handle WindowHandle) error {
	b, name, err := r.resolveBackend()
	if err != nil {
		return err
	}
	r.backendVariant = b.Variant()

	var flags gputypes.InstanceFlags
	if r.opts.debug {
		flags = gputypes.InstanceFlagsDebug | gputypes.InstanceFlagsValidation
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
		Flags:    flags,
	})
	if err != nil {
		return fmt.Errorf("%w: create %s instance: %w", ErrNoAdapter, name, err)
	}
	r.instance = instance
	r.stack.Defer("instance", instance.Destroy)

	surface, err := instance.CreateSurface(handle.Display, handle.Window)
	if err != nil {
		return fmt.Errorf("%w: create surface: %w", ErrSurface, err)
	}
	r.surface = surface
	r.stack.Defer("surface", func() {
		if r.configured {
			surface.Unconfigure(r.device)
			r.configured = false
		}
		surface.Destroy()
	})

	adapters := instance.EnumerateAdapters(surface)
	selected, err := selectAdapter(adapters, r.opts.fallbacks)
	for i := range adapters {
		if selected == nil || &adapters[i] != selected {
			adapters[i].Adapter.Destroy()
		}
	}
	if err != nil {
		return err
	}
	adapter := selected.Adapter
	if err := checkLimits(selected.Capabilities.Limits, r.opts.limits); err != nil {
		adapter.Destroy()
		return fmt.Errorf("adapter %q: %w", selected.Info.Name, err)
	}
	open, err := adapter.Open(gputypes.Features(0), r.opts.limits)
	if err != nil {
		adapter.Destroy()
		return fmt.Errorf("%w: open device on %q: %w", ErrFeatureLevel, selected.Info.Name, err)
	}
	r.device, r.queue = open.Device, open.Queue
	r.adapterInfo = selected.Info
	r.stack.Defer("device", func() {
		open.Device.Destroy()
		adapter.Destroy()
	})
	Logger().Info("present: device opened",
		"backend", name,
		"adapter", selected.Info.Name,
		"type", toAdapterInfo(selected.Info).Type,
		"driver", selected.Info.Driver)

	commands, err := newCommandContext(r.device, r.queue)
	if err != nil {
		return fmt.Errorf("%w: command encoder: %w", ErrResource, err)
	}
	r.commands = commands
	r.stack.Defer("command context", commands.release)

	// Surface capabilities are queried against the adapter that owns the
	// device, so they are resolved here and kept for configureSurface.
	caps := adapter.SurfaceCapabilities(surface)
	cfg, err := surfaceConfig(caps, 1, 1)
	if err != nil {
		return err
	}
	r.config = cfg
	return nil
}

// resolveBackend picks the HAL backend: an explicit WithBackend, then a
// named registry entry, then the best available.
func (r *Renderer) resolveBackend() (hal.Backend, string, error) {
	if r.opts.backend != nil {
		return r.opts.backend, backend.Name(r.opts.backend.Variant()), nil
	}
	backend.Discover()
	if r.opts.backendName != "" {
		b, err := backend.Lookup(r.opts.backendName)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrNoAdapter, err)
		}
		return b, r.opts.backendName, nil
	}
	b, name, err := backend.Best()
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}
	return b, name, nil
}

// configureSurface configures the swapchain and builds the render target.
func (r *Renderer) configureSurface(width, height uint32) error {
	cfg := r.config
	cfg.Width, cfg.Height = width, height
	if err := r.surface.Configure(r.device, &cfg); err != nil {
		return fmt.Errorf("%w: configure %dx%d: %w", ErrSurface, width, height, err)
	}
	r.config = cfg
	r.configured = true
	// The swapchain now depends on the device, so the surface must be
	// released before it.
	r.stack.Raise("surface")
	Logger().Info("present: surface configured",
		"width", width, "height", height,
		"format", cfg.Format, "present_mode", cfg.PresentMode, "buffers", BufferCount)

	r.target = newRenderTarget(r.surface, r.device, &cfg)
	r.stack.Defer("render target", func() {
		if r.target != nil {
			r.target.release()
			r.target = nil
		}
	})
	return nil
}

// createScene uploads the triangle mesh and builds its shader program.
func (r *Renderer) createScene() error {
	vertices, err := uploadBuffer(r.device, r.queue, "present.vertices",
		gputypes.BufferUsageVertex, EncodeVertices(TriangleVertices))
	if err != nil {
		return err
	}
	r.stack.Defer("vertex buffer", func() { r.device.DestroyBuffer(vertices) })

	indices, err := uploadBuffer(r.device, r.queue, "present.indices",
		gputypes.BufferUsageIndex, EncodeIndices(TriangleIndices))
	if err != nil {
		return err
	}
	r.stack.Defer("index buffer", func() { r.device.DestroyBuffer(indices) })
	r.mesh = &mesh{vertices: vertices, indices: indices, indexCount: uint32(len(TriangleIndices))}

	vs, fs, diags, err := compileTriangleProgram()
	if err != nil {
		return err
	}
	r.diagnostics = diags

	p, err := buildProgram(r.device, r.backendVariant, r.config.Format, vs, fs, r.stack)
	if err != nil {
		return err
	}
	r.program = p
	return nil
}

// ready reports whether frames and resizes are allowed.
func (r *Renderer) ready() error {
	switch r.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateShutDown:
		return ErrShutDown
	}
	return nil
}

// Resize resizes the swapchain. A zero dimension or an unchanged size is
// ignored. The render target is released before the surface is
// reconfigured and rebuilt after.
func (r *Renderer) Resize(width, height uint32) error {
	if err := r.ready(); err != nil {
		return err
	}
	if width == 0 || height == 0 || (width == r.width && height == r.height) {
		return nil
	}
	if err := r.reconfigure(width, height); err != nil {
		return err
	}
	Logger().Debug("present: resized", "width", width, "height", height)
	return nil
}

// reconfigure rebuilds the swapchain at width x height.
func (r *Renderer) reconfigure(width, height uint32) error {
	if err := r.commands.drain(); err != nil {
		return fmt.Errorf("%w: wait idle: %w", ErrSurface, err)
	}
	r.target.release()
	r.target = nil

	cfg := r.config
	cfg.Width, cfg.Height = width, height
	if err := r.surface.Configure(r.device, &cfg); err != nil {
		r.target = newRenderTarget(r.surface, r.device, &r.config)
		return fmt.Errorf("%w: reconfigure %dx%d: %w", ErrSurface, width, height, err)
	}
	r.config = cfg
	r.target = newRenderTarget(r.surface, r.device, &cfg)
	r.width, r.height = width, height
	return nil
}

// Render draws and presents one frame. With FIFO presentation it blocks
// until the frame is queued for the next vertical blank.
func (r *Renderer) Render() error {
	if err := r.ready(); err != nil {
		return err
	}
	r.commands.retire()

	view, err := r.target.acquire()
	if errors.Is(err, hal.ErrSurfaceOutdated) {
		Logger().Debug("present: surface outdated, rebuilding render target")
		if err := r.reconfigure(r.width, r.height); err != nil {
			return fmt.Errorf("%w: %w", ErrFrame, err)
		}
		view, err = r.target.acquire()
	}
	if errors.Is(err, hal.ErrNotReady) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: acquire back buffer: %w", ErrFrame, err)
	}

	if err := r.commands.begin(); err != nil {
		r.target.release()
		return fmt.Errorf("%w: %w", ErrFrame, err)
	}
	pass := r.commands.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "present.frame",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clear(),
		}},
	})
	r.draw(pass)
	pass.End()

	sub, err := r.commands.submit()
	if err != nil {
		r.commands.discard()
		r.target.release()
		return fmt.Errorf("%w: %w", ErrFrame, err)
	}
	suboptimal := r.target.suboptimal
	sub.view, err = r.target.present(r.queue)
	r.commands.track(sub)
	if errors.Is(err, hal.ErrSurfaceOutdated) {
		suboptimal, err = true, nil
	}
	if err != nil {
		return fmt.Errorf("%w: present: %w", ErrFrame, err)
	}
	r.frames++
	r.commands.retire()

	if suboptimal {
		if err := r.reconfigure(r.width, r.height); err != nil {
			return fmt.Errorf("%w: %w", ErrFrame, err)
		}
	}
	return nil
}

// draw records the triangle. Every binding is set on each frame; a render
// pass starts from default pipeline state.
func (r *Renderer) draw(pass hal.RenderPassEncoder) {
	if r.mesh == nil || r.program == nil {
		return
	}
	pass.SetViewport(0, 0, float32(r.width), float32(r.height), 0, 1)
	pass.SetIndexBuffer(r.mesh.indices, gputypes.IndexFormatUint16, 0)
	pass.SetVertexBuffer(0, r.mesh.vertices, 0)
	pass.SetPipeline(r.program.pipeline)
	pass.DrawIndexed(r.mesh.indexCount, 1, 0, 0, 0)
}

// Shutdown waits for the GPU to finish and releases every resource in
// reverse creation order. It is idempotent; after it returns the Renderer
// rejects every other call with ErrShutDown.
func (r *Renderer) Shutdown() error {
	if r.state == StateShutDown {
		return nil
	}
	var err error
	if r.state == StateInitialized {
		if werr := r.commands.drain(); werr != nil {
			err = fmt.Errorf("present: wait idle: %w", werr)
		}
	}
	r.released = r.stack.Release()
	if r.opts.debug {
		Logger().Info("present: released resources", "count", len(r.released), "order", r.released)
	}
	if r.stack.Len() != 0 {
		Logger().Warn("present: resources still live after shutdown", "live", r.stack.Names())
	}
	r.reset()
	r.state = StateShutDown
	return err
}

// reset drops every handle after the stack has released them.
func (r *Renderer) reset() {
	r.instance = nil
	r.surface = nil
	r.device = nil
	r.queue = nil
	r.commands = nil
	r.configured = false
	r.target = nil
	r.mesh = nil
	r.program = nil
	r.width, r.height = 0, 0
	r.adapterInfo = gputypes.AdapterInfo{}
}
