package present

import (
	"slices"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/present/internal/shader"
)

func TestCompileTriangleProgram(t *testing.T) {
	vs, fs, diags, err := compileTriangleProgram()
	if err != nil {
		t.Fatalf("compileTriangleProgram() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}

	if vs.Entry != VertexEntryPoint || vs.Stage != shader.StageVertex {
		t.Errorf("vertex module = %s %v, want %s vertex", vs.Entry, vs.Stage, VertexEntryPoint)
	}
	if fs.Entry != FragmentEntryPoint || fs.Stage != shader.StageFragment {
		t.Errorf("fragment module = %s %v, want %s fragment", fs.Entry, fs.Stage, FragmentEntryPoint)
	}
	if !slices.Equal(vs.Inputs, []uint32{0, 1}) {
		t.Errorf("vertex inputs = %v, want [0 1]", vs.Inputs)
	}
	for _, m := range []*shader.Module{vs, fs} {
		if len(m.SPIRV) == 0 || m.SPIRV[0] != 0x07230203 {
			t.Errorf("%s: missing SPIR-V module", m.Name)
		}
		if m.WGSL == "" {
			t.Errorf("%s: WGSL source not kept", m.Name)
		}
	}
}

func TestShaderSource(t *testing.T) {
	m := &shader.Module{WGSL: "@vertex fn vs() {}", SPIRV: []uint32{0x07230203}}
	tests := []struct {
		backend   gputypes.Backend
		wantSPIRV bool
	}{
		{gputypes.BackendVulkan, true},
		{gputypes.BackendEmpty, true},
		{gputypes.BackendMetal, false},
		{gputypes.BackendDX12, false},
		{gputypes.BackendGL, false},
	}
	for _, tt := range tests {
		src := shaderSource(tt.backend, m)
		if got := len(src.SPIRV) > 0; got != tt.wantSPIRV {
			t.Errorf("%v: SPIR-V = %v, want %v", tt.backend, got, tt.wantSPIRV)
		}
		if got := src.WGSL != ""; got == tt.wantSPIRV {
			t.Errorf("%v: WGSL = %v, want %v", tt.backend, got, !tt.wantSPIRV)
		}
	}
}
