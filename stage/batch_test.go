package stage

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/vertex-stage/common"
)

// makeVertices generates a deterministic vertex spread covering positive,
// negative, and fractional coordinates.
func makeVertices(n int) []Vertex {
	vertices := make([]Vertex, n)
	for i := range vertices {
		f := float32(i)
		vertices[i] = Vertex{
			Position: common.Vec3{f * 0.5, -f * 0.25, float32(math.Sin(float64(i)))},
			TexCoord: common.Vec2{f / float32(n), 1 - f/float32(n)},
		}
	}
	return vertices
}

func batchUniform() *TransformUniform {
	return &TransformUniform{
		Model: common.ComposeTransform(common.Vec3{1, 0, -2}, common.Vec3{0, 0.5, 0}, common.Vec3{2, 2, 2}),
		View:  common.LookAt(common.Vec3{0, 1, 4}, common.Vec3{}, common.Vec3{0, 1, 0}),
		Proj:  common.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100),
	}
}

func TestTransformBatchSerial(t *testing.T) {
	u := batchUniform()
	vertices := makeVertices(37)

	got := TransformBatch(nil, u, vertices)
	if len(got) != len(vertices) {
		t.Fatalf("output length = %d, want %d", len(got), len(vertices))
	}
	for i, v := range vertices {
		if got[i] != Transform(u, v) {
			t.Fatalf("batch output %d differs from single invocation", i)
		}
	}
}

func TestTransformBatchParallel(t *testing.T) {
	u := batchUniform()
	// Enough vertices to span several pool chunks.
	vertices := makeVertices(3*batchChunkSize + 17)
	pool := NewTransformPool()

	got := TransformBatch(pool, u, vertices)
	if len(got) != len(vertices) {
		t.Fatalf("output length = %d, want %d", len(got), len(vertices))
	}
	for i, v := range vertices {
		if got[i] != Transform(u, v) {
			t.Fatalf("batch output %d differs from single invocation", i)
		}
	}
}

func TestTransformBatchEmpty(t *testing.T) {
	got := TransformBatch(nil, identityUniform(), nil)
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %d entries", len(got))
	}
}

func TestTransformBatchDoesNotMutateUniform(t *testing.T) {
	u := batchUniform()
	before := *u

	TransformBatch(NewTransformPool(), u, makeVertices(2*batchChunkSize))
	if *u != before {
		t.Fatalf("uniform block mutated during batch")
	}
}
