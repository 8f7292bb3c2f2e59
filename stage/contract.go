package stage

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/vertex-stage/shader"
)

// Binding contract constants. These are fixed by the downstream pipeline and
// must be reproduced bit-exactly for interoperability: attribute slots 0/1,
// uniform group 0 binding 0, a 20-byte vertex stride, and a 192-byte block.
const (
	// PositionLocation is the attribute slot of the object-space position (vec3<f32>).
	PositionLocation = 0

	// TexCoordLocation is the attribute slot of the texture coordinate (vec2<f32>).
	TexCoordLocation = 1

	// TransformGroup is the bind group index of the transform uniform block.
	TransformGroup = 0

	// TransformBinding is the binding index of the transform uniform block within its group.
	TransformBinding = 0

	// VertexStride is the byte stride of one vertex attribute record.
	VertexStride = 20

	// UniformBlockSize is the byte size of the transform uniform block
	// (three 64-byte mat4x4<f32> under the 16-byte-aligned convention).
	UniformBlockSize = 192

	// EntryPoint is the vertex entry point name of the canonical shader.
	EntryPoint = "vs_main"
)

// NewCanonicalShader parses the embedded canonical WGSL source into a
// shader.Shader. The result always satisfies ValidateContract.
//
// Returns:
//   - shader.Shader: the parsed canonical vertex transform shader
func NewCanonicalShader() shader.Shader {
	return shader.NewShader("vertex_transform", shader.ShaderTypeVertex, VertexShaderSource)
}

// ValidateContract checks a parsed vertex shader against the stage's fixed
// binding contract. Hosts call it while constructing their pipeline so that
// attribute-location or binding-slot mismatches fail pipeline construction
// instead of silently producing garbage geometry at draw time.
//
// Parameters:
//   - s: the parsed vertex shader to check
//
// Returns:
//   - error: nil if the shader matches the contract, otherwise a description
//     of the first mismatch found
func ValidateContract(s shader.Shader) error {
	if s.ShaderType() != shader.ShaderTypeVertex {
		return fmt.Errorf("contract: shader %q is not a vertex shader", s.Key())
	}
	if s.EntryPoint() == "" {
		return fmt.Errorf("contract: shader %q has no @vertex entry point", s.Key())
	}

	if err := validateVertexLayout(s); err != nil {
		return err
	}
	return validateUniformBinding(s)
}

// validateVertexLayout checks attribute slots 0 and 1 against the contract:
// Float32x3 position at offset 0, Float32x2 texture coordinate at offset 12,
// total stride 20.
func validateVertexLayout(s shader.Shader) error {
	layouts := s.VertexLayout(0)
	if len(layouts) != 1 {
		return fmt.Errorf("contract: shader %q declares %d vertex buffer layouts, want 1", s.Key(), len(layouts))
	}

	layout := layouts[0]
	if layout.ArrayStride != VertexStride {
		return fmt.Errorf("contract: vertex stride is %d bytes, want %d", layout.ArrayStride, VertexStride)
	}
	if len(layout.Attributes) != 2 {
		return fmt.Errorf("contract: vertex input has %d attributes, want 2", len(layout.Attributes))
	}

	want := []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: PositionLocation},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: TexCoordLocation},
	}
	for i, attr := range layout.Attributes {
		if attr != want[i] {
			return fmt.Errorf("contract: attribute %d is %+v, want %+v", i, attr, want[i])
		}
	}
	return nil
}

// validateUniformBinding checks that group 0 binding 0 is a uniform buffer
// sized for the 192-byte transform block.
func validateUniformBinding(s shader.Shader) error {
	desc := s.BindGroupLayoutDescriptor(TransformGroup)
	for _, entry := range desc.Entries {
		if entry.Binding != TransformBinding {
			continue
		}
		if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
			return fmt.Errorf("contract: group %d binding %d is not a uniform buffer", TransformGroup, TransformBinding)
		}
		if entry.Buffer.MinBindingSize != UniformBlockSize {
			return fmt.Errorf("contract: uniform block is %d bytes, want %d", entry.Buffer.MinBindingSize, UniformBlockSize)
		}
		return nil
	}
	return fmt.Errorf("contract: missing uniform block at group %d binding %d", TransformGroup, TransformBinding)
}
