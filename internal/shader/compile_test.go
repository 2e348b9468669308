package shader

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

const vertexSource = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs(@location(0) position: vec3<f32>, @location(1) color: vec4<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(position, 1.0);
    out.color = color;
    return out;
}
`

const fragmentSource = `
@fragment
fn ps(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color;
}
`

const structInputSource = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn main(input: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(input.position, input.color.a);
}
`

const warningSource = `
@fragment
fn main() -> @location(0) vec4<f32> {
    var unused: f32 = 1.0;
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

const spirvMagic = 0x07230203

func TestCompileVertex(t *testing.T) {
	m, err := Compile(Source{Name: "vs.wgsl", Code: vertexSource, Entry: "vs", Stage: StageVertex})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(m.SPIRV) == 0 {
		t.Fatal("SPIRV is empty")
	}
	if m.SPIRV[0] != spirvMagic {
		t.Errorf("SPIRV[0] = %#x, want %#x", m.SPIRV[0], spirvMagic)
	}
	if m.WGSL != vertexSource {
		t.Error("WGSL does not hold the input source")
	}
	if !slices.Contains(m.Inputs, 0) || !slices.Contains(m.Inputs, 1) {
		t.Errorf("Inputs = %v, want locations 0 and 1", m.Inputs)
	}
	if err := m.RequireInputs(0, 1); err != nil {
		t.Errorf("RequireInputs(0, 1) error = %v", err)
	}
	if len(m.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %v, want none", m.Diagnostics)
	}
}

func TestCompileFragment(t *testing.T) {
	m, err := Compile(Source{Name: "ps.wgsl", Code: fragmentSource, Entry: "ps", Stage: StageFragment})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if m.Stage != StageFragment {
		t.Errorf("Stage = %v, want fragment", m.Stage)
	}
	if len(m.SPIRV) == 0 || m.SPIRV[0] != spirvMagic {
		t.Error("missing SPIR-V header")
	}
}

func TestCompileStructInputs(t *testing.T) {
	m, err := Compile(Source{Name: "struct.wgsl", Code: structInputSource, Entry: "main", Stage: StageVertex})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if err := m.RequireInputs(0, 1); err != nil {
		t.Errorf("RequireInputs(0, 1) error = %v", err)
	}
}

func TestRequireInputsMissing(t *testing.T) {
	m, err := Compile(Source{Name: "vs.wgsl", Code: vertexSource, Entry: "vs", Stage: StageVertex})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	err = m.RequireInputs(0, 2)
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("RequireInputs(0, 2) error = %v, want ErrCompile", err)
	}
	if !strings.Contains(err.Error(), "@location(2)") {
		t.Errorf("error %q does not name the missing location", err)
	}
}

func TestCompileWarnings(t *testing.T) {
	m, err := Compile(Source{Name: "warn.wgsl", Code: warningSource, Entry: "main", Stage: StageFragment})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(m.Diagnostics) == 0 {
		t.Fatal("expected an unused variable diagnostic")
	}
	d := m.Diagnostics[0]
	if !strings.Contains(d.Message, "unused") {
		t.Errorf("Message = %q, want it to mention the unused variable", d.Message)
	}
	if d.Source != "warn.wgsl" {
		t.Errorf("Source = %q, want %q", d.Source, "warn.wgsl")
	}
	if !strings.HasPrefix(d.String(), "warn.wgsl:") {
		t.Errorf("String() = %q", d.String())
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  Source
	}{
		{"syntax", Source{Name: "bad.wgsl", Code: "fn vs( {", Entry: "vs", Stage: StageVertex}},
		{"missing entry", Source{Name: "vs.wgsl", Code: vertexSource, Entry: "main", Stage: StageVertex}},
		{"wrong stage", Source{Name: "vs.wgsl", Code: vertexSource, Entry: "vs", Stage: StageFragment}},
		{"undefined identifier", Source{Name: "undef.wgsl", Code: `
@fragment
fn ps() -> @location(0) vec4<f32> {
    return missing;
}
`, Entry: "ps", Stage: StageFragment}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile() = %v, want error", m)
			}
			if !errors.Is(err, ErrCompile) {
				t.Errorf("error = %v, want ErrCompile", err)
			}
			if !strings.Contains(err.Error(), tt.src.Name) {
				t.Errorf("error %q does not name the source", err)
			}
		})
	}
}

func TestToWords(t *testing.T) {
	got := toWords([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00})
	want := []uint32{spirvMagic, 1}
	if !slices.Equal(got, want) {
		t.Errorf("toWords() = %#x, want %#x", got, want)
	}
}

func TestStageString(t *testing.T) {
	if StageVertex.String() != "vertex" || StageFragment.String() != "fragment" {
		t.Errorf("unexpected stage names %q %q", StageVertex, StageFragment)
	}
	if got := Stage(9).String(); got != "Stage(9)" {
		t.Errorf("Stage(9).String() = %q", got)
	}
}
