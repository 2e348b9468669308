package present

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Vertex is one mesh vertex as laid out in the vertex buffer: three float32
// position components followed by an 8-bit-per-channel RGBA colour.
type Vertex struct {
	Position mgl32.Vec3
	Color    [4]uint8 // R, G, B, A
}

// VertexSize is the stride of one Vertex in the vertex buffer.
const VertexSize = 16

// colorOffset is the byte offset of Vertex.Color.
const colorOffset = 12

// TriangleVertices is the mesh drawn by VariantTriangle.
var TriangleVertices = []Vertex{
	{Position: mgl32.Vec3{-0.5, -0.5, 0}, Color: [4]uint8{0x00, 0x00, 0xFF, 0xFF}}, // blue
	{Position: mgl32.Vec3{0.5, -0.5, 0}, Color: [4]uint8{0x00, 0xFF, 0x00, 0xFF}},  // green
	{Position: mgl32.Vec3{0, 0.5, 0}, Color: [4]uint8{0xFF, 0x00, 0x00, 0xFF}},     // red
}

// TriangleIndices is the winding used to draw TriangleVertices.
var TriangleIndices = []uint16{0, 2, 1}

// VertexLayout maps Vertex bytes onto the vertex shader inputs.
var VertexLayout = gputypes.VertexBufferLayout{
	ArrayStride: VertexSize,
	StepMode:    gputypes.VertexStepModeVertex,
	Attributes: []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: gputypes.VertexFormatUnorm8x4, Offset: colorOffset, ShaderLocation: 1},
	},
}

// copyAlignment is the granularity of queue buffer writes.
const copyAlignment = 4

// EncodeVertices returns the little-endian buffer image of vs.
func EncodeVertices(vs []Vertex) []byte {
	b := make([]byte, len(vs)*VertexSize)
	for i, v := range vs {
		o := i * VertexSize
		for j, f := range v.Position {
			binary.LittleEndian.PutUint32(b[o+j*4:], math.Float32bits(f))
		}
		copy(b[o+colorOffset:o+VertexSize], v.Color[:])
	}
	return b
}

// EncodeIndices returns the little-endian buffer image of 16-bit indices,
// zero-padded to the copy alignment.
func EncodeIndices(idx []uint16) []byte {
	n := len(idx) * 2
	b := make([]byte, alignUp(n, copyAlignment))
	for i, v := range idx {
		binary.LittleEndian.PutUint16(b[i*2:], v)
	}
	return b
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}

// mesh is an uploaded vertex and index buffer pair. Both buffers are
// written once at creation and never modified.
type mesh struct {
	vertices   hal.Buffer
	indices    hal.Buffer
	indexCount uint32
}

// uploadBuffer creates a buffer sized for data and fills it through the queue.
func uploadBuffer(device hal.Device, queue hal.Queue, label string, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrResource, label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("%w: write %s: %w", ErrResource, label, err)
	}
	return buf, nil
}
