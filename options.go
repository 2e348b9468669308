package present

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Variant selects what a Renderer draws each frame.
type Variant uint8

const (
	// VariantTriangle clears the back buffer and draws one coloured triangle.
	VariantTriangle Variant = iota
	// VariantClear only clears the back buffer.
	VariantClear
)

func (v Variant) String() string {
	switch v {
	case VariantTriangle:
		return "triangle"
	case VariantClear:
		return "clear"
	default:
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
}

// ParseVariant returns the Variant named s.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "triangle":
		return VariantTriangle, nil
	case "clear":
		return VariantClear, nil
	}
	return 0, fmt.Errorf("present: unknown variant %q (want triangle or clear)", s)
}

// DefaultClearColor returns the clear colour the variant uses when none is
// configured.
func (v Variant) DefaultClearColor() gputypes.Color {
	if v == VariantClear {
		return ClearColorBasic
	}
	return ClearColorTriangle
}

// DefaultFallbackAdapters lists adapter names Init never selects unless
// WithFallbackAdapters overrides the list.
var DefaultFallbackAdapters = []string{"Software Renderer", "Microsoft Basic Render Driver"}

// Option configures a Renderer during creation.
//
// Example:
//
//	r := present.NewRenderer(
//	    present.WithVariant(present.VariantClear),
//	    present.WithBackendName("vulkan"),
//	)
type Option func(*options)

// options holds optional configuration for a Renderer.
type options struct {
	variant     Variant
	clearColor  *gputypes.Color
	backend     hal.Backend
	backendName string
	fallbacks   []string
	limits      gputypes.Limits
	debug       bool
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		variant:   VariantTriangle,
		fallbacks: DefaultFallbackAdapters,
		limits:    gputypes.DefaultLimits(),
	}
}

// clear returns the configured clear colour or the variant default.
func (o *options) clear() gputypes.Color {
	if o.clearColor != nil {
		return *o.clearColor
	}
	return o.variant.DefaultClearColor()
}

// WithVariant selects the clear-only or triangle variant.
// The default is VariantTriangle.
func WithVariant(v Variant) Option {
	return func(o *options) {
		o.variant = v
	}
}

// WithClearColor overrides the variant's clear colour.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = &c
	}
}

// WithBackend makes Init use b instead of looking a backend up.
// It takes precedence over WithBackendName.
func WithBackend(b hal.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithBackendName selects a registered backend by name ("vulkan", "dx12",
// "metal", "gles", "software"). An empty name selects the best available.
func WithBackendName(name string) Option {
	return func(o *options) {
		o.backendName = name
	}
}

// WithFallbackAdapters replaces the list of adapter names Init skips.
// Calling it with no names allows every adapter, including CPU renderers.
func WithFallbackAdapters(names ...string) Option {
	return func(o *options) {
		o.fallbacks = names
	}
}

// WithLimits sets the device limits the adapter must support. The default
// is gputypes.DefaultLimits().
func WithLimits(l gputypes.Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithDebug enables backend validation and a resource release report on
// Shutdown.
func WithDebug(enabled bool) Option {
	return func(o *options) {
		o.debug = enabled
	}
}
