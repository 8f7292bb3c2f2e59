// Package shader provides lightweight WGSL reflection for the vertex
// transform stage: it parses a shader's entry point, vertex-input structs,
// and buffer bindings into the wgpu descriptor types a host pipeline needs
// to bind the stage correctly.
package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which pipeline stage a shader implements.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for per-vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, paired with a vertex shader downstream.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface. It holds the parsed
// layout metadata required for pipeline creation and resource binding.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	vertexLayouts              map[int][]wgpu.VertexBufferLayout
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader exposes the layout metadata parsed from a WGSL source: the entry
// point, vertex buffer layouts, and bind group layout descriptors needed to
// construct a pipeline against the stage's binding contract.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point function name parsed from the source.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main"), or empty if none was found
	EntryPoint() string

	// VertexLayout retrieves the vertex buffer layout for a specific key.
	//
	// Parameters:
	//   - key: the integer key identifying the vertex layout
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layout associated with the key, or nil if not set
	VertexLayout(key int) []wgpu.VertexBufferLayout

	// VertexLayouts retrieves all vertex buffer layouts parsed from the source.
	//
	// Returns:
	//   - map[int][]wgpu.VertexBufferLayout: vertex layouts keyed by sequential index
	VertexLayouts() map[int][]wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for the group, or an empty descriptor if not set
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name for a given group and binding index.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// Module returns the wgpu.ShaderModuleDescriptor built from the source,
	// ready to be handed to device.CreateShaderModule.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the type of the shader (vertex or fragment).
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader creates a Shader by parsing the given WGSL source. The entry
// point, vertex buffer layouts, and bind group layout descriptors are
// extracted eagerly so that layout mismatches surface at construction time,
// before any draw is issued.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and labels
//   - shaderType: the shader type (ShaderTypeVertex or ShaderTypeFragment)
//   - source: the WGSL source code
//
// Returns:
//   - Shader: the parsed shader
func NewShader(key string, shaderType ShaderType, source string) Shader {
	if source == "" {
		panic(fmt.Sprintf("shader: %s must have a non-empty WGSL source", key))
	}
	s := &shader{
		key:        key,
		shaderType: shaderType,
		source:     source,
	}
	s.parseSource()
	return s
}

// NewShaderFromPath creates a Shader by reading WGSL source from a file.
// It panics if the file cannot be read, matching the construction-time
// failure model of NewShader.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and labels
//   - shaderType: the shader type (ShaderTypeVertex or ShaderTypeFragment)
//   - path: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
func NewShaderFromPath(key string, shaderType ShaderType, path string) Shader {
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to read source file %q: %v", path, err))
	}
	return NewShader(key, shaderType, string(data))
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayout(key int) []wgpu.VertexBufferLayout {
	return s.vertexLayouts[key]
}

func (s *shader) VertexLayouts() map[int][]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarNames[group] == nil {
		return ""
	}
	return s.bindingVarNames[group][binding]
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

// parseSource builds the shader module descriptor and extracts layout
// metadata appropriate for the shader type. Vertex shaders get vertex
// buffer layouts parsed; all shader types get bind group layouts parsed.
func (s *shader) parseSource() {
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.entryPoint = parseEntryPoint(s.source, s.shaderType)
	if s.shaderType == ShaderTypeVertex {
		s.vertexLayouts = parseVertexLayouts(s.source)
	} else {
		s.vertexLayouts = make(map[int][]wgpu.VertexBufferLayout)
	}

	visibility := wgpu.ShaderStageVertex
	if s.shaderType == ShaderTypeFragment {
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(s.source, visibility)
}
