// pre_processor.go implements the Wayfare WGSL shader pre-processor. It scans shader
// source for @wayfare: annotations, replaces them with generated WGSL declarations
// or injected struct source, and collects a declarations list the material layer uses
// to match bindings to the renderer's bind group slots.
package shader

import (
	_ "embed"
	"fmt"
	"strings"
)

// POVUniformSource is the WGSL definition of the POVUniform struct (128 bytes).
//
//go:embed assets/pov_uniform.wgsl
var POVUniformSource string

// ObjectUniformsSource is the WGSL definition of the ObjectUniforms struct (192 bytes).
//
//go:embed assets/object_uniforms.wgsl
var ObjectUniformsSource string

//go:embed assets/vertex_pos_normal_uv.wgsl
var vertexPosNormalUVSource string

//go:embed assets/vertex_pos.wgsl
var vertexPosSource string

// registryEntry pairs a WGSL struct source with the type name emitted in generated declarations.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	structTypes          []AnnotationArg
	addressSpaceRegistry map[AnnotationArg]string

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source containing @wayfare: annotations.
type PreProcessor interface {
	// Process replaces every annotation in source with its WGSL output.
	// Include annotations become the registered struct source, group annotations become
	// @group/@binding declarations, and provider annotations produce no output.
	//
	// Parameters:
	//   - source: the raw WGSL shader source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if any annotation is malformed or references an unknown type
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected by the most recent
	// Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation

	// RegisterStruct adds a struct type that include and group annotations may reference.
	//
	// Parameters:
	//   - arg: the annotation key for the struct
	//   - source: the WGSL struct definition
	//   - typeName: the WGSL type name declared by source
	RegisterStruct(arg AnnotationArg, source, typeName string)
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the built-in struct types registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	p := &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgPOV:               {Source: POVUniformSource, Type: "POVUniform"},
			AnnotationArgObjectUniforms:    {Source: ObjectUniformsSource, Type: "ObjectUniforms"},
			AnnotationArgVertexPosNormalUV: {Source: vertexPosNormalUVSource, Type: "VertexInput"},
			AnnotationArgVertexPos:         {Source: vertexPosSource, Type: "VertexInput"},
		},
		structTypes: append([]AnnotationArg(nil), builtinStructTypes...),
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
	return p
}

func (p *preProcessor) RegisterStruct(arg AnnotationArg, source, typeName string) {
	if _, ok := p.structRegistry[arg]; !ok {
		p.structTypes = append(p.structTypes, arg)
	}
	p.structRegistry[arg] = registryEntry{Source: source, Type: typeName}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1, p.structTypes)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			out = append(out, strings.TrimRight(p.structRegistry[a.Args[0]].Source, "\n"))
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			varName := string(a.Args[1])
			var wgslType string
			if inner, ok := strings.CutPrefix(string(a.Args[2]), "array<"); ok {
				inner = strings.TrimSuffix(inner, ">")
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(inner)].Type)
			} else {
				wgslType = p.structRegistry[a.Args[2]].Type
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, varName, wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
