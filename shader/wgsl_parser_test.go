package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

const sampleVertexSource = `// sample stage used by parser tests
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) tex_coords: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) tex_coords: vec2<f32>,
}

struct TransformUniform {
    model: mat4x4<f32>,
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
}

@group(0) @binding(0)
var<uniform> transform: TransformUniform;

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = transform.proj * transform.view * transform.model * vec4<f32>(in.position, 1.0);
    out.tex_coords = in.tex_coords;
    return out;
}
`

func TestParseEntryPoint(t *testing.T) {
	s := NewShader("sample", ShaderTypeVertex, sampleVertexSource)
	if s.EntryPoint() != "vs_main" {
		t.Errorf("vertex entry point = %q, want vs_main", s.EntryPoint())
	}

	frag := NewShader("frag", ShaderTypeFragment, `@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }`)
	if frag.EntryPoint() != "fs_main" {
		t.Errorf("fragment entry point = %q, want fs_main", frag.EntryPoint())
	}

	// A fragment-only source parsed as a vertex shader has no entry point.
	none := NewShader("none", ShaderTypeVertex, `@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }`)
	if none.EntryPoint() != "" {
		t.Errorf("entry point = %q, want empty", none.EntryPoint())
	}
}

func TestParseVertexLayouts(t *testing.T) {
	s := NewShader("sample", ShaderTypeVertex, sampleVertexSource)

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("layout count = %d, want 1 (output struct must be skipped)", len(layouts))
	}

	layout := s.VertexLayout(0)
	if len(layout) != 1 {
		t.Fatalf("buffer count = %d, want 1", len(layout))
	}
	if layout[0].ArrayStride != 20 {
		t.Errorf("stride = %d, want 20", layout[0].ArrayStride)
	}
	if layout[0].StepMode != wgpu.VertexStepModeVertex {
		t.Errorf("step mode = %v, want per-vertex", layout[0].StepMode)
	}

	attrs := layout[0].Attributes
	if len(attrs) != 2 {
		t.Fatalf("attribute count = %d, want 2", len(attrs))
	}
	if attrs[0].Format != wgpu.VertexFormatFloat32x3 || attrs[0].Offset != 0 || attrs[0].ShaderLocation != 0 {
		t.Errorf("attribute 0 = %+v", attrs[0])
	}
	if attrs[1].Format != wgpu.VertexFormatFloat32x2 || attrs[1].Offset != 12 || attrs[1].ShaderLocation != 1 {
		t.Errorf("attribute 1 = %+v", attrs[1])
	}
}

func TestParseBindGroupLayouts(t *testing.T) {
	s := NewShader("sample", ShaderTypeVertex, sampleVertexSource)

	desc := s.BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(desc.Entries))
	}

	entry := desc.Entries[0]
	if entry.Binding != 0 {
		t.Errorf("binding = %d, want 0", entry.Binding)
	}
	if entry.Visibility != wgpu.ShaderStageVertex {
		t.Errorf("visibility = %v, want vertex", entry.Visibility)
	}
	if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("buffer type = %v, want uniform", entry.Buffer.Type)
	}
	// Three mat4x4<f32> fields: 64 * 3.
	if entry.Buffer.MinBindingSize != 192 {
		t.Errorf("min binding size = %d, want 192", entry.Buffer.MinBindingSize)
	}

	if name := s.BindGroupVarName(0, 0); name != "transform" {
		t.Errorf("var name = %q, want transform", name)
	}
	if name := s.BindGroupVarName(3, 0); name != "" {
		t.Errorf("var name for unknown group = %q, want empty", name)
	}
}

func TestParseStorageAndMultipleGroups(t *testing.T) {
	source := `struct Matrices { mats: array<mat4x4<f32>, 2> }
@group(0) @binding(0) var<uniform> transform: Matrices;
@group(1) @binding(2) var<storage, read> positions: array<vec4<f32>, 8>;
@group(1) @binding(3) var<storage, read_write> results: array<vec4<f32>, 8>;
@vertex
fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }`

	s := NewShader("multi", ShaderTypeVertex, source)

	g0 := s.BindGroupLayoutDescriptor(0)
	if len(g0.Entries) != 1 || g0.Entries[0].Buffer.MinBindingSize != 128 {
		t.Errorf("group 0 = %+v, want one 128-byte uniform entry", g0.Entries)
	}

	g1 := s.BindGroupLayoutDescriptor(1)
	if len(g1.Entries) != 2 {
		t.Fatalf("group 1 entry count = %d, want 2", len(g1.Entries))
	}
	if g1.Entries[0].Binding != 2 || g1.Entries[0].Buffer.Type != wgpu.BufferBindingTypeReadOnlyStorage {
		t.Errorf("group 1 entry 0 = %+v", g1.Entries[0])
	}
	if g1.Entries[1].Binding != 3 || g1.Entries[1].Buffer.Type != wgpu.BufferBindingTypeStorage {
		t.Errorf("group 1 entry 1 = %+v", g1.Entries[1])
	}
	if g1.Entries[0].Buffer.MinBindingSize != 128 {
		t.Errorf("fixed array size = %d, want 128", g1.Entries[0].Buffer.MinBindingSize)
	}
}

func TestParseSkipsHandleBindings(t *testing.T) {
	source := `@group(0) @binding(0) var<uniform> transform: mat4x4<f32>;
@group(1) @binding(0) var diffuse: texture_2d<f32>;
@group(1) @binding(1) var diffuse_sampler: sampler;
@vertex
fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }`

	s := NewShader("handles", ShaderTypeVertex, source)

	if len(s.BindGroupLayoutDescriptor(0).Entries) != 1 {
		t.Errorf("group 0 should keep its uniform entry")
	}
	if len(s.BindGroupLayoutDescriptor(1).Entries) != 0 {
		t.Errorf("texture and sampler bindings should be skipped, got %+v", s.BindGroupLayoutDescriptor(1).Entries)
	}
}

func TestCommentStripping(t *testing.T) {
	source := `// line comment with struct Fake { @location(9) x: f32 }
/* block comment
   /* nested */ still a comment
   @group(7) @binding(7) var<uniform> ghost: f32;
*/
struct VertexInput {
    @location(0) position: vec3<f32>, // trailing comment
}
@group(0) @binding(0) var<uniform> transform: mat4x4<f32>;
@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return transform * vec4<f32>(in.position, 1.0);
}`

	s := NewShader("comments", ShaderTypeVertex, source)

	if len(s.VertexLayouts()) != 1 {
		t.Fatalf("layout count = %d, want 1", len(s.VertexLayouts()))
	}
	if s.VertexLayout(0)[0].ArrayStride != 12 {
		t.Errorf("stride = %d, want 12", s.VertexLayout(0)[0].ArrayStride)
	}
	if len(s.BindGroupLayoutDescriptor(7).Entries) != 0 {
		t.Errorf("commented-out binding must be ignored")
	}
	if s.BindGroupLayoutDescriptor(0).Entries[0].Buffer.MinBindingSize != 64 {
		t.Errorf("bare mat4x4 binding size = %d, want 64", s.BindGroupLayoutDescriptor(0).Entries[0].Buffer.MinBindingSize)
	}
}

func TestNestedStructSizes(t *testing.T) {
	// Declaration order is reversed on purpose: Outer references Inner
	// before Inner resolves, exercising the iterative pass.
	source := `struct Outer {
    inner: Inner,
    extra: vec3<f32>,
}
struct Inner {
    a: vec3<f32>,
    b: f32,
}
@group(0) @binding(0) var<uniform> data: Outer;
@vertex
fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }`

	s := NewShader("nested", ShaderTypeVertex, source)

	// Inner: vec3 (12, align 16) + f32 at 12 -> 16 bytes, align 16.
	// Outer: Inner (16) + vec3 at 16 (12) -> 28, rounded to 32.
	if got := s.BindGroupLayoutDescriptor(0).Entries[0].Buffer.MinBindingSize; got != 32 {
		t.Errorf("nested struct size = %d, want 32", got)
	}
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transform.wgsl")
	if err := os.WriteFile(path, []byte(sampleVertexSource), 0o644); err != nil {
		t.Fatalf("write shader source: %v", err)
	}

	s := NewShaderFromPath("from_path", ShaderTypeVertex, path)
	if s.Source() != sampleVertexSource {
		t.Errorf("source does not match file contents")
	}
	if s.EntryPoint() != "vs_main" {
		t.Errorf("entry point = %q, want vs_main", s.EntryPoint())
	}
	if s.VertexLayout(0)[0].ArrayStride != 20 {
		t.Errorf("stride = %d, want 20", s.VertexLayout(0)[0].ArrayStride)
	}
}

func TestNewShaderFromPathPanicsOnMissingFile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unreadable source file")
		}
	}()
	NewShaderFromPath("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
}

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for empty source")
		}
	}()
	NewShader("empty", ShaderTypeVertex, "")
}
