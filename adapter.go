package present

import (
	"fmt"
	"slices"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// selectAdapter returns the first adapter whose name is not listed in
// fallbacks, in enumeration order.
func selectAdapter(adapters []hal.ExposedAdapter, fallbacks []string) (*hal.ExposedAdapter, error) {
	if len(adapters) == 0 {
		return nil, fmt.Errorf("%w: backend exposes no adapters", ErrNoAdapter)
	}
	for i := range adapters {
		if slices.Contains(fallbacks, adapters[i].Info.Name) {
			Logger().Debug("present: skipping fallback adapter", "name", adapters[i].Info.Name)
			continue
		}
		return &adapters[i], nil
	}
	return nil, fmt.Errorf("%w: only fallback adapters found (%d)", ErrNoAdapter, len(adapters))
}

// checkLimits reports the first limit in want that have does not reach.
// Only limits the renderer's pipeline depends on are compared.
func checkLimits(have, want gputypes.Limits) error {
	checks := []struct {
		name       string
		have, want uint64
	}{
		{"MaxTextureDimension2D", uint64(have.MaxTextureDimension2D), uint64(want.MaxTextureDimension2D)},
		{"MaxVertexBuffers", uint64(have.MaxVertexBuffers), uint64(want.MaxVertexBuffers)},
		{"MaxVertexAttributes", uint64(have.MaxVertexAttributes), uint64(want.MaxVertexAttributes)},
		{"MaxVertexBufferArrayStride", uint64(have.MaxVertexBufferArrayStride), uint64(want.MaxVertexBufferArrayStride)},
		{"MaxInterStageShaderVariables", uint64(have.MaxInterStageShaderVariables), uint64(want.MaxInterStageShaderVariables)},
		{"MaxColorAttachments", uint64(have.MaxColorAttachments), uint64(want.MaxColorAttachments)},
		{"MaxBufferSize", have.MaxBufferSize, want.MaxBufferSize},
	}
	for _, c := range checks {
		if c.have < c.want {
			return fmt.Errorf("%w: %s is %d, need %d", ErrFeatureLevel, c.name, c.have, c.want)
		}
	}
	return nil
}

// toAdapterInfo converts HAL adapter information to the gpucontext form
// exposed by Renderer.AdapterInfo.
func toAdapterInfo(info gputypes.AdapterInfo) gpucontext.AdapterInfo {
	out := gpucontext.AdapterInfo{Name: info.Name, Type: gpucontext.AdapterTypeUnknown}
	switch info.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		out.Type = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		out.Type = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		out.Type = gpucontext.AdapterTypeSoftware
	}
	return out
}
