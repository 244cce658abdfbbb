package shader

import (
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
)

// shader is the implementation of the Shader interface.
type shader struct {
	key            string
	source         string
	vertexEntry    string
	fragmentEntry  string
	layoutEntries  map[int][]device.BindGroupLayoutEntry
	bindingVarName map[int]map[int]string
	vertexInputs   map[string]device.VertexBufferLayout
	structSizes    map[string]wgslTypeLayout
	declarations   []Annotation
}

// Shader is a pre-processed WGSL module holding both a vertex and a fragment entry point.
// It exposes the buffer bindings, vertex inputs and struct sizes parsed from the source.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source with every annotation expanded
	Source() string

	// VertexEntry returns the name of the @vertex function.
	VertexEntry() string

	// FragmentEntry returns the name of the @fragment function.
	FragmentEntry() string

	// BindGroupLayoutEntries returns the buffer bindings declared in a group, sorted by binding.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - []device.BindGroupLayoutEntry: the entries, or nil if the group is unused
	BindGroupLayoutEntries(group int) []device.BindGroupLayoutEntry

	// Groups returns every bind group index the shader declares, ascending.
	Groups() []int

	// BindGroupVarName retrieves the variable name bound at a group and binding.
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// VertexInput returns the per-vertex layout parsed from a vertex input struct.
	//
	// Parameters:
	//   - structName: the WGSL struct name, e.g. "VertexInput"
	//
	// Returns:
	//   - device.VertexBufferLayout: the packed layout
	//   - bool: false if no such vertex input struct exists
	VertexInput(structName string) (device.VertexBufferLayout, bool)

	// StructSize returns the host-shareable byte size of a struct declared in the source.
	//
	// Returns:
	//   - uint64: the struct size in bytes
	//   - bool: false if the struct is unknown or contains unresolvable types
	StructSize(structName string) (uint64, bool)

	// Declarations returns the group and provider annotations found while pre-processing.
	//
	// Returns:
	//   - []Annotation: the annotations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes and parses a WGSL module.
//
// Parameters:
//   - key: a unique identifier for the shader, used in labels and errors
//   - source: the raw WGSL source, which may contain @wayfare: annotations
//   - options: builder options, e.g. WithStruct to register material structs
//
// Returns:
//   - Shader: the parsed shader
//   - error: error if pre-processing fails or an entry point is missing
func NewShader(key, source string, options ...ShaderBuilderOption) (Shader, error) {
	pp := NewPreProcessor()
	for _, opt := range options {
		opt(pp)
	}

	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}
	s.vertexEntry = parseEntryPoint(processed, vertexEntryRegex)
	s.fragmentEntry = parseEntryPoint(processed, fragmentEntryRegex)
	if s.vertexEntry == "" {
		return nil, fmt.Errorf("shader %s: no @vertex entry point", key)
	}
	if s.fragmentEntry == "" {
		return nil, fmt.Errorf("shader %s: no @fragment entry point", key)
	}

	s.layoutEntries, s.bindingVarName = parseBindGroupLayouts(processed, device.ShaderStageVertex|device.ShaderStageFragment)
	s.vertexInputs = parseVertexInputs(processed)
	s.structSizes = computeStructSizes(parseStructBlocks(stripComments(processed)))
	return s, nil
}

// MustShader is like NewShader but panics on error. It is intended for embedded sources
// that are known to be valid.
func MustShader(key, source string, options ...ShaderBuilderOption) Shader {
	s, err := NewShader(key, source, options...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) VertexEntry() string {
	return s.vertexEntry
}

func (s *shader) FragmentEntry() string {
	return s.fragmentEntry
}

func (s *shader) BindGroupLayoutEntries(group int) []device.BindGroupLayoutEntry {
	return s.layoutEntries[group]
}

func (s *shader) Groups() []int {
	groups := make([]int, 0, len(s.layoutEntries))
	for g := range s.layoutEntries {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.bindingVarName[group] == nil {
		return ""
	}
	return s.bindingVarName[group][binding]
}

func (s *shader) VertexInput(structName string) (device.VertexBufferLayout, bool) {
	l, ok := s.vertexInputs[structName]
	return l, ok
}

func (s *shader) StructSize(structName string) (uint64, bool) {
	l, ok := s.structSizes[structName]
	return l.size, ok
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
