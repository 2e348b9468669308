package present

import (
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/present/internal/haltest"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.variant != VariantTriangle {
		t.Errorf("variant = %v, want triangle", o.variant)
	}
	if o.clear() != ClearColorTriangle {
		t.Errorf("clear() = %v, want %v", o.clear(), ClearColorTriangle)
	}
	if !slices.Equal(o.fallbacks, DefaultFallbackAdapters) {
		t.Errorf("fallbacks = %q, want %q", o.fallbacks, DefaultFallbackAdapters)
	}
	if o.limits != gputypes.DefaultLimits() {
		t.Error("limits differ from gputypes.DefaultLimits()")
	}
	if o.backend != nil || o.backendName != "" || o.debug {
		t.Errorf("unexpected non-zero defaults: %+v", o)
	}
}

func TestOptionsApply(t *testing.T) {
	b := haltest.New()
	c := gputypes.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}
	limits := gputypes.DefaultLimits()
	limits.MaxTextureDimension2D = 4096

	r := NewRenderer(
		WithVariant(VariantClear),
		WithClearColor(c),
		WithBackend(b),
		WithBackendName("vulkan"),
		WithFallbackAdapters("Slow GPU"),
		WithLimits(limits),
		WithDebug(true),
	)

	if r.Variant() != VariantClear {
		t.Errorf("Variant() = %v, want clear", r.Variant())
	}
	if r.ClearColor() != c {
		t.Errorf("ClearColor() = %v, want %v", r.ClearColor(), c)
	}
	if r.opts.backend != b || r.opts.backendName != "vulkan" {
		t.Errorf("backend options = %v %q", r.opts.backend, r.opts.backendName)
	}
	if !slices.Equal(r.opts.fallbacks, []string{"Slow GPU"}) {
		t.Errorf("fallbacks = %q", r.opts.fallbacks)
	}
	if r.opts.limits.MaxTextureDimension2D != 4096 {
		t.Errorf("limits.MaxTextureDimension2D = %d, want 4096", r.opts.limits.MaxTextureDimension2D)
	}
	if !r.opts.debug {
		t.Error("debug = false, want true")
	}
	if r.State() != StateUninitialized {
		t.Errorf("State() = %v, want Uninitialized", r.State())
	}
}

func TestWithFallbackAdaptersEmpty(t *testing.T) {
	r := NewRenderer(WithFallbackAdapters())
	if len(r.opts.fallbacks) != 0 {
		t.Errorf("fallbacks = %q, want none", r.opts.fallbacks)
	}
}

func TestVariantDefaultClearColor(t *testing.T) {
	if got := VariantClear.DefaultClearColor(); got != ClearColorBasic {
		t.Errorf("clear variant colour = %v, want %v", got, ClearColorBasic)
	}
	if got := VariantTriangle.DefaultClearColor(); got != ClearColorTriangle {
		t.Errorf("triangle variant colour = %v, want %v", got, ClearColorTriangle)
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"triangle", VariantTriangle, false},
		{"clear", VariantClear, false},
		{"Triangle", 0, true},
		{"", 0, true},
		{"cube", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseVariant(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestVariantString(t *testing.T) {
	for _, v := range []Variant{VariantTriangle, VariantClear} {
		got, err := ParseVariant(v.String())
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %v, %v", v.String(), got, err)
		}
	}
	if got := Variant(7).String(); got != "Variant(7)" {
		t.Errorf("Variant(7).String() = %q", got)
	}
}
