package haltest

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// AdapterSpec describes one adapter the backend exposes.
type AdapterSpec struct {
	Name   string
	Type   gputypes.DeviceType
	Limits *gputypes.Limits // nil means gputypes.DefaultLimits()
}

// Backend is a hal.Backend that records everything done through it.
type Backend struct {
	Recorder *Recorder

	// Adapters are exposed by EnumerateAdapters in order.
	Adapters []AdapterSpec

	// Formats overrides the surface formats reported by the adapters.
	Formats []gputypes.TextureFormat
}

// New returns a recording backend exposing one discrete adapter named
// "Test GPU".
func New() *Backend {
	return &Backend{
		Recorder: newRecorder(),
		Adapters: []AdapterSpec{{Name: "Test GPU", Type: gputypes.DeviceTypeDiscreteGPU}},
	}
}

// Variant reports the empty backend, which consumes SPIR-V.
func (b *Backend) Variant() gputypes.Backend { return gputypes.BackendEmpty }

// CreateInstance creates a recording instance.
func (b *Backend) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	if err := b.Recorder.failure("CreateInstance"); err != nil {
		return nil, err
	}
	inner, err := noop.API{}.CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &instance{Instance: inner, b: b, id: b.Recorder.acquire("instance", "")}, nil
}

// object stands in for every handle-like HAL resource. The noop backend
// returns zero-sized values for these, so they cannot be told apart.
type object struct {
	id    int
	kind  string
	label string
}

func (o *object) Destroy()              {}
func (o *object) NativeHandle() uintptr { return uintptr(o.id) }

func labelOf(v any) string {
	if o, ok := v.(*object); ok {
		return o.label
	}
	return fmt.Sprintf("%T", v)
}

type instance struct {
	hal.Instance
	b  *Backend
	id int
}

func (i *instance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	if err := i.b.Recorder.failure("CreateSurface"); err != nil {
		return nil, err
	}
	inner, err := i.Instance.CreateSurface(display, window)
	if err != nil {
		return nil, err
	}
	return &surface{Surface: inner, rec: i.b.Recorder, id: i.b.Recorder.acquire("surface", "")}, nil
}

func (i *instance) EnumerateAdapters(_ hal.Surface) []hal.ExposedAdapter {
	base := i.Instance.EnumerateAdapters(nil)
	out := make([]hal.ExposedAdapter, 0, len(i.b.Adapters))
	for _, spec := range i.b.Adapters {
		limits := gputypes.DefaultLimits()
		if spec.Limits != nil {
			limits = *spec.Limits
		}
		ea := base[0]
		ea.Adapter = &adapter{
			Adapter: base[0].Adapter,
			b:       i.b,
			name:    spec.Name,
			id:      i.b.Recorder.acquire("adapter", spec.Name),
		}
		ea.Info.Name = spec.Name
		ea.Info.DeviceType = spec.Type
		ea.Capabilities.Limits = limits
		out = append(out, ea)
	}
	return out
}

func (i *instance) Destroy() {
	i.b.Recorder.release(i.id, "instance")
	i.Instance.Destroy()
}

type adapter struct {
	hal.Adapter
	b    *Backend
	name string
	id   int
}

func (a *adapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	if err := a.b.Recorder.failure("Open"); err != nil {
		return hal.OpenDevice{}, err
	}
	inner, err := a.Adapter.Open(features, limits)
	if err != nil {
		return hal.OpenDevice{}, err
	}
	rec := a.b.Recorder
	q := &queue{Queue: inner.Queue, rec: rec}
	d := &Device{
		Device:  inner.Device,
		rec:     rec,
		queue:   q,
		id:      rec.acquire("device", a.name),
		buffers: make(map[hal.Buffer]*object),
	}
	q.device = d
	return hal.OpenDevice{Device: d, Queue: q}, nil
}

func (a *adapter) SurfaceCapabilities(s hal.Surface) *hal.SurfaceCapabilities {
	caps := a.Adapter.SurfaceCapabilities(s)
	if a.b.Formats != nil {
		caps.Formats = a.b.Formats
	}
	return caps
}

func (a *adapter) Destroy() {
	a.b.Recorder.release(a.id, "adapter")
	a.Adapter.Destroy()
}

type surface struct {
	hal.Surface
	rec        *Recorder
	id         int
	configured bool
}

func (s *surface) Configure(device hal.Device, cfg *hal.SurfaceConfiguration) error {
	if err := s.rec.failure("Configure"); err != nil {
		return err
	}
	s.configured = true
	s.rec.record("configure surface %dx%d format=%d mode=%d", cfg.Width, cfg.Height, cfg.Format, cfg.PresentMode)
	return s.Surface.Configure(device, cfg)
}

func (s *surface) Unconfigure(device hal.Device) {
	if !s.configured {
		s.rec.problems = append(s.rec.problems, "unconfigure of unconfigured surface")
	}
	s.configured = false
	s.rec.record("unconfigure surface")
	s.Surface.Unconfigure(device)
}

func (s *surface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if err := s.rec.failure("AcquireTexture"); err != nil {
		return nil, err
	}
	if !s.configured {
		return nil, fmt.Errorf("haltest: acquire from unconfigured surface")
	}
	s.rec.record("acquire")
	return &hal.AcquiredSurfaceTexture{Texture: &surfaceTexture{}}, nil
}

func (s *surface) DiscardTexture(t hal.SurfaceTexture) {
	s.rec.record("discard")
	s.Surface.DiscardTexture(t)
}

func (s *surface) Destroy() {
	s.rec.release(s.id, "surface")
	s.Surface.Destroy()
}

type surfaceTexture struct {
	noop.SurfaceTexture
	_ byte
}

// Device is the recording device. Tests reach it through the queue or the
// renderer to read buffer contents back.
type Device struct {
	hal.Device
	rec     *Recorder
	queue   *queue
	id      int
	buffers map[hal.Buffer]*object
}

func (d *Device) fail(op string) error { return d.rec.failure(op) }

func (d *Device) newObject(kind, label string) *object {
	return &object{id: d.rec.acquire(kind, label), kind: kind, label: label}
}

func (d *Device) destroyObject(v any, kind string) {
	o, ok := v.(*object)
	if !ok {
		d.rec.problems = append(d.rec.problems, fmt.Sprintf("destroy of foreign %s %T", kind, v))
		return
	}
	d.rec.release(o.id, kind)
}

func (d *Device) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	if err := d.fail("CreateBuffer"); err != nil {
		return nil, err
	}
	buf, err := d.Device.CreateBuffer(desc)
	if err != nil {
		return nil, err
	}
	d.buffers[buf] = d.newObject("buffer", desc.Label)
	return buf, nil
}

func (d *Device) DestroyBuffer(buf hal.Buffer) {
	o, ok := d.buffers[buf]
	if !ok {
		d.rec.problems = append(d.rec.problems, "destroy of unknown buffer")
		return
	}
	d.rec.release(o.id, "buffer")
	d.Device.DestroyBuffer(buf)
}

// BufferLabel returns the label buf was created with.
func (d *Device) BufferLabel(buf hal.Buffer) string {
	if o, ok := d.buffers[buf]; ok {
		return o.label
	}
	return ""
}

// Buffer returns the buffer created with label, or nil.
func (d *Device) Buffer(label string) hal.Buffer {
	for buf, o := range d.buffers {
		if o.label == label {
			return buf
		}
	}
	return nil
}

// Contents returns a copy of the first size bytes of the buffer created
// with label.
func (d *Device) Contents(label string, size uint64) ([]byte, error) {
	buf := d.Buffer(label)
	if buf == nil {
		return nil, fmt.Errorf("haltest: no buffer %q", label)
	}
	m, err := d.Device.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, err
	}
	defer func() { _ = d.Device.UnmapBuffer(buf) }()
	return append([]byte(nil), unsafe.Slice((*byte)(m.Ptr), size)...), nil
}

func (d *Device) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	if err := d.fail("CreateTextureView"); err != nil {
		return nil, err
	}
	return d.newObject("texture view", desc.Label), nil
}

func (d *Device) DestroyTextureView(v hal.TextureView) { d.destroyObject(v, "texture view") }

func (d *Device) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	if err := d.fail("CreateShaderModule"); err != nil {
		return nil, err
	}
	if len(desc.Source.SPIRV) == 0 && desc.Source.WGSL == "" {
		return nil, fmt.Errorf("haltest: shader module %q has no source", desc.Label)
	}
	return d.newObject("shader module", desc.Label), nil
}

func (d *Device) DestroyShaderModule(m hal.ShaderModule) { d.destroyObject(m, "shader module") }

func (d *Device) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if err := d.fail("CreatePipelineLayout"); err != nil {
		return nil, err
	}
	return d.newObject("pipeline layout", desc.Label), nil
}

func (d *Device) DestroyPipelineLayout(l hal.PipelineLayout) { d.destroyObject(l, "pipeline layout") }

func (d *Device) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if err := d.fail("CreateRenderPipeline"); err != nil {
		return nil, err
	}
	if desc.Vertex.Module == nil || desc.Fragment == nil || desc.Fragment.Module == nil {
		return nil, fmt.Errorf("haltest: pipeline %q is missing a stage", desc.Label)
	}
	d.rec.record("pipeline %s vs=%s:%s fs=%s:%s buffers=%d",
		desc.Label, labelOf(desc.Vertex.Module), desc.Vertex.EntryPoint,
		labelOf(desc.Fragment.Module), desc.Fragment.EntryPoint, len(desc.Vertex.Buffers))
	return d.newObject("render pipeline", desc.Label), nil
}

func (d *Device) DestroyRenderPipeline(p hal.RenderPipeline) { d.destroyObject(p, "render pipeline") }

func (d *Device) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	if err := d.fail("CreateCommandEncoder"); err != nil {
		return nil, err
	}
	inner, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &encoder{CommandEncoder: inner, d: d, id: d.rec.acquire("command encoder", desc.Label)}, nil
}

func (d *Device) FreeCommandBuffer(cb hal.CommandBuffer) { d.destroyObject(cb, "command buffer") }

func (d *Device) WaitIdle() error {
	d.rec.record("wait idle")
	d.queue.completed = d.queue.submitted
	return d.Device.WaitIdle()
}

func (d *Device) Destroy() {
	d.rec.release(d.id, "device")
	d.Device.Destroy()
}

type queue struct {
	hal.Queue
	rec       *Recorder
	device    *Device
	submitted uint64
	completed uint64
}

func (q *queue) Submit(cbs []hal.CommandBuffer) (uint64, error) {
	if err := q.rec.failure("Submit"); err != nil {
		return 0, err
	}
	q.submitted++
	if q.submitted > q.rec.lag {
		q.completed = max(q.completed, q.submitted-q.rec.lag)
	}
	q.rec.record("submit %d", q.submitted)
	return q.submitted, nil
}

func (q *queue) PollCompleted() uint64 { return q.completed }

func (q *queue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	if err := q.rec.failure("WriteBuffer"); err != nil {
		return err
	}
	q.rec.record("write %s %d bytes", q.device.BufferLabel(buf), len(data))
	return q.Queue.WriteBuffer(buf, offset, data)
}

func (q *queue) Present(s hal.Surface, t hal.SurfaceTexture, damage []image.Rectangle) error {
	if err := q.rec.failure("Present"); err != nil {
		return err
	}
	q.rec.record("present")
	return nil
}

type encoder struct {
	hal.CommandEncoder
	d         *Device
	id        int
	recording bool
}

func (e *encoder) BeginEncoding(label string) error {
	if err := e.d.fail("BeginEncoding"); err != nil {
		return err
	}
	if e.recording {
		e.d.rec.problems = append(e.d.rec.problems, "BeginEncoding while recording")
	}
	e.recording = true
	return nil
}

func (e *encoder) EndEncoding() (hal.CommandBuffer, error) {
	if err := e.d.fail("EndEncoding"); err != nil {
		return nil, err
	}
	e.recording = false
	return e.d.newObject("command buffer", ""), nil
}

func (e *encoder) DiscardEncoding() {
	e.recording = false
	e.d.rec.record("discard encoding")
}

func (e *encoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	c := desc.ColorAttachments[0]
	e.d.rec.record("begin pass view=%s clear=(%.2f,%.2f,%.2f,%.2f) attachments=%d",
		labelOf(c.View), c.ClearValue.R, c.ClearValue.G, c.ClearValue.B, c.ClearValue.A, len(desc.ColorAttachments))
	return &pass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), d: e.d}
}

func (e *encoder) Destroy() {
	e.d.rec.release(e.id, "command encoder")
	e.CommandEncoder.Destroy()
}

type pass struct {
	hal.RenderPassEncoder
	d *Device
}

func (p *pass) record(format string, args ...any) { p.d.rec.record(format, args...) }

func (p *pass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.record("viewport %g %g %g %g %g %g", x, y, w, h, minDepth, maxDepth)
}

func (p *pass) SetIndexBuffer(buf hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.record("index buffer %s format=%d offset=%d", p.d.BufferLabel(buf), format, offset)
}

func (p *pass) SetVertexBuffer(slot uint32, buf hal.Buffer, offset uint64) {
	p.record("vertex buffer %d %s offset=%d", slot, p.d.BufferLabel(buf), offset)
}

func (p *pass) SetPipeline(pl hal.RenderPipeline) {
	p.record("pipeline %s", labelOf(pl))
}

func (p *pass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.record("draw indexed %d %d %d %d %d", indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *pass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record("draw %d %d %d %d", vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *pass) End() {
	p.record("end pass")
	p.RenderPassEncoder.End()
}
