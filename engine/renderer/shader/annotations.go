// annotations.go defines the annotation types, argument constants, and parser for the
// Wayfare WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @wayfare: that drive struct injection, bind group declaration, and provider
// registration for the renderer's fixed bind group slots.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies a Wayfare annotation within a WGSL comment line.
const annotationPrefix = "@wayfare:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// at the annotation site. It produces no declaration.
	//
	// Syntax: //@wayfare:include <struct_type>
	//
	// Example: //@wayfare:include pov
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and records it in the pre-processor's declarations list.
	//
	// Syntax: //@wayfare:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@wayfare:group 0 0 storage_uniform pov pov
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records which renderer slot owns a hand-written binding.
	// No WGSL is generated; the declaration below the annotation stays as written.
	//
	// Syntax: //@wayfare:provider <group> <binding> <provider_identity>
	//
	// Example: //@wayfare:provider 2 0 params
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @wayfare: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed (include, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "pov")
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - provider: [0] = provider identity (e.g. "params")
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// Struct type arguments. Each maps to a WGSL struct embedded from assets/.
const (
	// AnnotationArgPOV identifies the POVUniform struct shared by every draw at group 0.
	AnnotationArgPOV AnnotationArg = "pov"

	// AnnotationArgObjectUniforms identifies the per-object ObjectUniforms struct at group 1.
	AnnotationArgObjectUniforms AnnotationArg = "object_uniforms"

	// AnnotationArgVertexPosNormalUV identifies the position/normal/uv VertexInput struct.
	AnnotationArgVertexPosNormalUV AnnotationArg = "vertex_pos_normal_uv"

	// AnnotationArgVertexPos identifies the position-only VertexInput struct.
	AnnotationArgVertexPos AnnotationArg = "vertex_pos"
)

// Address space arguments used by @wayfare:group.
const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"
)

// Provider identity arguments. Each names one of the renderer's bind group slots.
const (
	AnnotationArgProviderPOV    AnnotationArg = "pov"
	AnnotationArgProviderObject AnnotationArg = "object"
	AnnotationArgProviderParams AnnotationArg = "params"
	AnnotationArgProviderExtra  AnnotationArg = "extra"
)

// builtinStructTypes lists the struct type arguments registered by every pre-processor.
var builtinStructTypes = []AnnotationArg{
	AnnotationArgPOV,
	AnnotationArgObjectUniforms,
	AnnotationArgVertexPosNormalUV,
	AnnotationArgVertexPos,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgProviderPOV,
	AnnotationArgProviderObject,
	AnnotationArgProviderParams,
	AnnotationArgProviderExtra,
}

// parseAnnotation attempts to parse a single line of WGSL source as a @wayfare: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//   - structTypes: the struct type arguments accepted by include and group
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int, structTypes []AnnotationArg) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @wayfare annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @wayfare include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(structTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @wayfare include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @wayfare group annotation requires exactly five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		groupInt, bindingInt, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @wayfare group annotation", lineNum, args[3])
		}
		typeArg := args[5]
		if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
			typeArg = strings.TrimSuffix(inner, ">")
		}
		if !slices.Contains(structTypes, AnnotationArg(typeArg)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @wayfare group annotation", lineNum, typeArg)
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: @wayfare provider annotation requires three arguments (group, binding, provider identity)", lineNum)
		}
		groupInt, bindingInt, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @wayfare provider annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @wayfare annotation type %q", lineNum, args[0])
	}
}

func parseSlot(group, binding string, lineNum int) (int, int, error) {
	groupInt, err := strconv.Atoi(group)
	if err != nil || groupInt < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q", lineNum, group)
	}
	bindingInt, err := strconv.Atoi(binding)
	if err != nil || bindingInt < 0 {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q", lineNum, binding)
	}
	return groupInt, bindingInt, nil
}
