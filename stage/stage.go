// Package stage implements the vertex-stage transform unit of a render
// pipeline. It converts per-vertex object-space attributes into a clip-space
// position and forwards the texture coordinate to the next stage unchanged.
//
// The package carries both sides of the stage: the pure CPU reference
// transform (Transform, TransformBatch) and the GPU binding contract — the
// canonical WGSL shader source, the 192-byte uniform block layout, the
// 20-byte vertex record layout, and ValidateContract which checks a parsed
// shader against that contract before any draw is issued.
package stage

import "github.com/Carmen-Shannon/vertex-stage/common"

// Vertex is one vertex attribute record as supplied by the host's geometry
// source: an object-space position and a texture coordinate. Values are
// opaque floating-point data to this stage; there are no range constraints.
type Vertex struct {
	// Position is the vertex position in object space (attribute slot 0).
	Position common.Vec3

	// TexCoord is the texture coordinate (attribute slot 1). Its semantics
	// are owned by the fragment stage; this stage never interprets it.
	TexCoord common.Vec2
}

// Output is the result of one transform invocation: the mandatory
// homogeneous clip-space position consumed by fixed-function rasterization,
// and the interpolant forwarded to the next stage.
type Output struct {
	// ClipPosition is the clip-space position before perspective division.
	ClipPosition common.Vec4

	// TexCoord equals the input texture coordinate exactly (interpolant slot 0).
	TexCoord common.Vec2
}

// Transform runs the vertex transform stage for exactly one vertex.
//
// The position is promoted to homogeneous form with w = 1 and transformed by
// model, then view, then proj — clip = proj * (view * (model * p)). The
// order is semantically required: reversing it produces a different result
// whenever the matrices are not all identity. The texture coordinate is
// copied through unmodified.
//
// The function is deterministic and referentially transparent. It performs
// no validation: a degenerate uniform block (NaN or singular matrices)
// propagates silently into the clip position. The uniform block is read-only
// here and may be shared by any number of concurrent invocations.
//
// Parameters:
//   - u: the bound uniform transform block for the draw call
//   - v: the vertex attribute record for this invocation
//
// Returns:
//   - Output: the clip-space position and passthrough interpolant
func Transform(u *TransformUniform, v Vertex) Output {
	world := u.Model.MulVec4(v.Position.Vec4(1))
	view := u.View.MulVec4(world)
	return Output{
		ClipPosition: u.Proj.MulVec4(view),
		TexCoord:     v.TexCoord,
	}
}
