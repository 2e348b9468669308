package present

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BufferCount is the minimum number of back buffers requested from the
// swapchain. FIFO presentation never uses fewer.
const BufferCount = 2

// surfaceConfig builds the swapchain configuration for a width x height
// surface: RGBA8 unorm (BGRA8 unorm when the surface lacks RGBA8), render
// attachment usage, FIFO presentation and opaque alpha.
func surfaceConfig(caps *hal.SurfaceCapabilities, width, height uint32) (hal.SurfaceConfiguration, error) {
	cfg := hal.SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	}
	if caps == nil || len(caps.Formats) == 0 {
		return cfg, nil
	}
	switch {
	case slices.Contains(caps.Formats, gputypes.TextureFormatRGBA8Unorm):
	case slices.Contains(caps.Formats, gputypes.TextureFormatBGRA8Unorm):
		Logger().Warn("present: surface lacks RGBA8Unorm, using BGRA8Unorm")
		cfg.Format = gputypes.TextureFormatBGRA8Unorm
	default:
		return cfg, fmt.Errorf("%w: no 8-bit unorm format among %v", ErrSurface, caps.Formats)
	}
	if len(caps.AlphaModes) > 0 && !slices.Contains(caps.AlphaModes, gputypes.CompositeAlphaModeOpaque) {
		cfg.AlphaMode = caps.AlphaModes[0]
		Logger().Warn("present: surface lacks opaque alpha", "alpha_mode", cfg.AlphaMode)
	}
	return cfg, nil
}

// renderTarget binds frames to the back buffers of a configured surface.
// It is rebuilt every time the surface is reconfigured. Between frames it
// holds nothing; during a frame it holds the acquired back buffer and the
// view drawn into.
type renderTarget struct {
	surface hal.Surface
	device  hal.Device
	format  gputypes.TextureFormat
	width   uint32
	height  uint32

	texture    hal.SurfaceTexture
	view       hal.TextureView
	suboptimal bool
}

func newRenderTarget(surface hal.Surface, device hal.Device, cfg *hal.SurfaceConfiguration) *renderTarget {
	return &renderTarget{
		surface: surface,
		device:  device,
		format:  cfg.Format,
		width:   cfg.Width,
		height:  cfg.Height,
	}
}

// acquire takes the next back buffer and creates the view frames draw into.
// Surface errors such as hal.ErrSurfaceOutdated are returned unwrapped.
func (t *renderTarget) acquire() (hal.TextureView, error) {
	acquired, err := t.surface.AcquireTexture(nil)
	if err != nil {
		return nil, err
	}
	view, err := t.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "present.back_buffer",
		Format:          t.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		t.surface.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("back buffer view: %w", err)
	}
	t.texture = acquired.Texture
	t.view = view
	t.suboptimal = acquired.Suboptimal
	return view, nil
}

// present queues the acquired back buffer for display. The view is handed
// back to the caller, which releases it once the GPU is done with the frame.
func (t *renderTarget) present(queue hal.Queue) (hal.TextureView, error) {
	texture, view := t.texture, t.view
	t.texture, t.view = nil, nil
	if err := queue.Present(t.surface, texture, nil); err != nil {
		return view, err
	}
	return view, nil
}

// release drops a frame that was acquired but never presented.
func (t *renderTarget) release() {
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.surface.DiscardTexture(t.texture)
		t.texture = nil
	}
}
