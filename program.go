package present

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/present/backend"
	"github.com/gogpu/present/internal/lifetime"
	"github.com/gogpu/present/internal/shader"
)

// Embedded WGSL shader sources.

//go:embed shaders/triangle_vs.wgsl
var triangleVertexSource string

//go:embed shaders/triangle_ps.wgsl
var trianglePixelSource string

// Entry points of the triangle program.
const (
	VertexEntryPoint   = "vs"
	FragmentEntryPoint = "ps"
)

// Diagnostics are the non-fatal shader compiler messages collected at Init.
type Diagnostics []shader.Diagnostic

// program is the compiled shader pair and the pipeline built from it.
type program struct {
	vs       hal.ShaderModule
	fs       hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline
}

// compileTriangleProgram compiles both stages of the triangle program and
// checks the vertex stage consumes every attribute in VertexLayout.
func compileTriangleProgram() (vs, fs *shader.Module, diags Diagnostics, err error) {
	vs, err = shader.Compile(shader.Source{
		Name:  "triangle_vs.wgsl",
		Code:  triangleVertexSource,
		Entry: VertexEntryPoint,
		Stage: shader.StageVertex,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	fs, err = shader.Compile(shader.Source{
		Name:  "triangle_ps.wgsl",
		Code:  trianglePixelSource,
		Entry: FragmentEntryPoint,
		Stage: shader.StageFragment,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	locations := make([]uint32, len(VertexLayout.Attributes))
	for i, a := range VertexLayout.Attributes {
		locations[i] = a.ShaderLocation
	}
	if err := vs.RequireInputs(locations...); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	diags = append(diags, vs.Diagnostics...)
	diags = append(diags, fs.Diagnostics...)
	for _, d := range diags {
		Logger().Warn("present: shader warning",
			"source", d.Source, "line", d.Line, "column", d.Column, "message", d.Message)
	}
	return vs, fs, diags, nil
}

// shaderSource picks the form of a compiled module the backend accepts.
func shaderSource(variant gputypes.Backend, m *shader.Module) hal.ShaderSource {
	if backend.ConsumesSPIRV(variant) {
		return hal.ShaderSource{SPIRV: m.SPIRV}
	}
	return hal.ShaderSource{WGSL: m.WGSL}
}

// buildProgram creates the shader modules, pipeline layout and render
// pipeline, registering each on stack as it is created.
func buildProgram(device hal.Device, variant gputypes.Backend, format gputypes.TextureFormat,
	vsMod, fsMod *shader.Module, stack *lifetime.Stack) (*program, error) {
	p := &program{}

	vs, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "present.vertex_shader",
		Source: shaderSource(variant, vsMod),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: vertex shader module: %w", ErrResource, err)
	}
	p.vs = vs
	stack.Defer("vertex shader", func() { device.DestroyShaderModule(vs) })

	fs, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "present.fragment_shader",
		Source: shaderSource(variant, fsMod),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fragment shader module: %w", ErrResource, err)
	}
	p.fs = fs
	stack.Defer("fragment shader", func() { device.DestroyShaderModule(fs) })

	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "present.pipeline_layout",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pipeline layout: %w", ErrResource, err)
	}
	p.layout = layout
	stack.Defer("pipeline layout", func() { device.DestroyPipelineLayout(layout) })

	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "present.triangle_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vs,
			EntryPoint: VertexEntryPoint,
			Buffers:    []gputypes.VertexBufferLayout{VertexLayout},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     fs,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    format,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render pipeline: %w", ErrResource, err)
	}
	p.pipeline = pipeline
	stack.Defer("pipeline", func() { device.DestroyRenderPipeline(pipeline) })

	return p, nil
}
