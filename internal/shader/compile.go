// Package shader compiles WGSL sources to SPIR-V with naga and checks the
// compiled entry points against the pipeline that will consume them.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
	"github.com/gogpu/naga/wgsl"
)

// ErrCompile is wrapped by every error returned from Compile.
var ErrCompile = errors.New("shader: compilation failed")

// Stage identifies the pipeline stage an entry point belongs to.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", uint8(s))
	}
}

func (s Stage) ir() ir.ShaderStage {
	if s == StageFragment {
		return ir.StageFragment
	}
	return ir.StageVertex
}

// Diagnostic is a non-fatal message produced while lowering a source.
type Diagnostic struct {
	Source  string
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Source, d.Line, d.Column, d.Message)
}

// Source is one WGSL translation unit with the entry point to compile.
type Source struct {
	Name  string // used in diagnostics and errors
	Code  string
	Entry string
	Stage Stage
}

// Module is a compiled source.
type Module struct {
	Name  string
	Entry string
	Stage Stage
	WGSL  string
	SPIRV []uint32

	// Inputs lists the @location indices consumed by the entry point.
	Inputs []uint32

	Diagnostics []Diagnostic
}

// Compile runs parse, lower, validate and SPIR-V generation on src.
// Lowering warnings do not fail compilation; they are returned in
// Module.Diagnostics. Every other problem is an error wrapping ErrCompile.
func Compile(src Source) (*Module, error) {
	ast, err := naga.Parse(src.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, src.Name, err)
	}

	lowered, err := wgsl.LowerWithWarnings(ast, src.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: lower: %w", ErrCompile, src.Name, err)
	}
	module := lowered.Module

	validationErrors, err := naga.Validate(module)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: validate: %w", ErrCompile, src.Name, err)
	}
	if len(validationErrors) > 0 {
		return nil, fmt.Errorf("%w: %s: validate: %w", ErrCompile, src.Name, &validationErrors[0])
	}

	ep, err := findEntryPoint(module, src.Entry, src.Stage.ir())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, src.Name, err)
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCompile, src.Name, err)
	}

	out := &Module{
		Name:   src.Name,
		Entry:  src.Entry,
		Stage:  src.Stage,
		WGSL:   src.Code,
		SPIRV:  toWords(spirvBytes),
		Inputs: inputLocations(module, ep),
	}
	for _, w := range lowered.Warnings {
		out.Diagnostics = append(out.Diagnostics, Diagnostic{
			Source:  src.Name,
			Line:    w.Span.Start.Line,
			Column:  w.Span.Start.Column,
			Message: w.Message,
		})
	}
	return out, nil
}

// RequireInputs reports an error naming the first location in want that the
// module's entry point does not consume.
func (m *Module) RequireInputs(want ...uint32) error {
	for _, loc := range want {
		found := false
		for _, have := range m.Inputs {
			if have == loc {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s: entry point %q has no input at @location(%d)",
				ErrCompile, m.Name, m.Entry, loc)
		}
	}
	return nil
}

func findEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) (*ir.EntryPoint, error) {
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Name != name {
			continue
		}
		if ep.Stage != stage {
			return nil, fmt.Errorf("entry point %q has the wrong stage", name)
		}
		return ep, nil
	}
	return nil, fmt.Errorf("entry point %q not found", name)
}

// inputLocations collects the user-defined input locations of ep, looking
// through struct-typed arguments.
func inputLocations(module *ir.Module, ep *ir.EntryPoint) []uint32 {
	var locs []uint32
	for _, arg := range ep.Function.Arguments {
		if arg.Binding != nil {
			if loc, ok := location(*arg.Binding); ok {
				locs = append(locs, loc)
			}
			continue
		}
		if int(arg.Type) >= len(module.Types) {
			continue
		}
		st, ok := module.Types[arg.Type].Inner.(ir.StructType)
		if !ok {
			continue
		}
		for _, member := range st.Members {
			if member.Binding == nil {
				continue
			}
			if loc, ok := location(*member.Binding); ok {
				locs = append(locs, loc)
			}
		}
	}
	return locs
}

func location(b ir.Binding) (uint32, bool) {
	switch b := b.(type) {
	case ir.LocationBinding:
		return b.Location, true
	case *ir.LocationBinding:
		return b.Location, true
	}
	return 0, false
}

// toWords reinterprets little-endian SPIR-V bytes as 32-bit words.
func toWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
