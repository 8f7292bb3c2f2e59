package stage

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/vertex-stage/common"
)

// VertexShaderSource is the canonical WGSL source of the vertex transform
// stage. Hosts create their render pipeline's vertex state from this source
// (see NewCanonicalShader); its parsed layouts define the binding contract.
//
//go:embed assets/vertex_transform.wgsl
var VertexShaderSource string

// TransformUniformSource is the canonical WGSL definition of the
// TransformUniform struct. Matches TransformUniform layout exactly
// (192 bytes, 16-byte aligned).
//
//go:embed assets/transform_uniform.wgsl
var TransformUniformSource string

// VertexInputSource is the canonical WGSL definition of the VertexInput
// struct. Matches Vertex layout exactly (20 bytes, tightly packed).
//
//go:embed assets/vertex_input.wgsl
var VertexInputSource string

// TransformUniform is the uniform transform block shared by all invocations
// of a draw call. It is written by the host before the draw and read-only
// during execution; this stage never mutates it.
//
// Matches the WGSL TransformUniform struct layout exactly (see
// TransformUniformSource). Size: 192 bytes — three column-major
// mat4x4<f32> at offsets 0, 64, and 128. The field order is part of the
// binding contract and must not change.
type TransformUniform struct {
	Model common.Mat4 // offset   0: object space -> world space (64 bytes)
	View  common.Mat4 // offset  64: world space -> view/camera space (64 bytes)
	Proj  common.Mat4 // offset 128: view space -> clip space (64 bytes)
}

// Size returns the size of the TransformUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (u *TransformUniform) Size() int {
	return int(unsafe.Sizeof(*u))
}

// Marshal serializes the TransformUniform struct into a byte buffer suitable
// for GPU upload: model at offset 0, view at 64, proj at 128, little-endian.
//
// Returns:
//   - []byte: the 192-byte serialized buffer
func (u *TransformUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(u.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(u.View[i]))
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(u.Proj[i]))
	}
	return buf
}

// AsBytes returns a zero-copy byte view of the uniform block for GPU upload.
// The Mat4 fields are laid out contiguously with no padding, so the view
// matches the Marshal layout on little-endian hosts.
// WARNING: The returned slice shares memory with the struct - do not modify.
//
// Returns:
//   - []byte: the 192-byte view of the uniform block
func (u *TransformUniform) AsBytes() []byte {
	return common.StructToBytes(u)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (20)
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex struct into a byte buffer suitable for GPU
// upload: position at offset 0, texture coordinate at offset 12.
//
// Returns:
//   - []byte: the 20-byte serialized buffer
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, 20)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.TexCoord[1]))
	return buf
}

// MarshalVertices serializes a whole vertex buffer as a zero-copy byte view.
// The Vertex struct is tightly packed (20 bytes, no padding) so the memory
// view matches the per-vertex Marshal layout on little-endian hosts.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - vertices: the vertex records to upload
//
// Returns:
//   - []byte: byte view of the vertex data, or nil if the slice is empty
func MarshalVertices(vertices []Vertex) []byte {
	return common.SliceToBytes(vertices)
}
