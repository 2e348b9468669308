package backend

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend names.
const (
	Vulkan   = "vulkan"
	Metal    = "metal"
	DX12     = "dx12"
	GLES     = "gles"
	Software = "software"
	Browser  = "browser"
)

// Name returns the registry name for a HAL backend variant.
// BackendEmpty is shared by the CPU rasterizer and the test backend and
// maps to "software".
func Name(v gputypes.Backend) string {
	switch v {
	case gputypes.BackendVulkan:
		return Vulkan
	case gputypes.BackendMetal:
		return Metal
	case gputypes.BackendDX12:
		return DX12
	case gputypes.BackendGL:
		return GLES
	case gputypes.BackendBrowserWebGPU:
		return Browser
	default:
		return Software
	}
}

// ConsumesSPIRV reports whether the backend accepts SPIR-V shader modules.
// The others compile WGSL text themselves.
func ConsumesSPIRV(v gputypes.Backend) bool {
	return v == gputypes.BackendVulkan || v == gputypes.BackendEmpty
}
