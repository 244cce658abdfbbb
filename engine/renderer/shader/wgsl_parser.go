package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/wayfare/engine/renderer/device"
)

// wgslVertexFormatMap maps WGSL vertex input types to device vertex formats.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {device.VertexFormatFloat32, 4},
	"vec2f":     {device.VertexFormatFloat32x2, 8},
	"vec2<f32>": {device.VertexFormatFloat32x2, 8},
	"vec3f":     {device.VertexFormatFloat32x3, 12},
	"vec3<f32>": {device.VertexFormatFloat32x3, 12},
	"vec4f":     {device.VertexFormatFloat32x4, 16},
	"vec4<f32>": {device.VertexFormatFloat32x4, 16},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> pov: POVUniform;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexInputs extracts vertex buffer layouts for every pure vertex input struct
// in the source, keyed by struct name.
//
// Parameters:
//   - source: the WGSL source code string
//
// Returns:
//   - map[string]device.VertexBufferLayout: vertex layouts keyed by struct name
func parseVertexInputs(source string) map[string]device.VertexBufferLayout {
	result := make(map[string]device.VertexBufferLayout)
	structs := parseStructBlocks(stripComments(source))

	for _, ps := range structs {
		if !isVertexInputStruct(ps) {
			continue
		}
		layout, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		result[ps.name] = layout
	}
	return result
}

// parseBindGroupLayouts extracts every @group(N) @binding(M) buffer declaration from WGSL
// source and returns the layout entries grouped by group index, sorted by binding.
// Handle types (textures, samplers) are skipped as the engine binds buffers only.
//
// Parameters:
//   - source: the WGSL source code string
//   - visibility: the shader stages each entry is visible to
//
// Returns:
//   - map[int][]device.BindGroupLayoutEntry: layout entries keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
func parseBindGroupLayouts(source string, visibility device.ShaderStage) (map[int][]device.BindGroupLayoutEntry, map[int]map[int]string) {
	groups := make(map[int][]device.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)
	cleaned := stripComments(source)

	structSizes := computeStructSizes(parseStructBlocks(cleaned))

	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)
	for _, match := range matches {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		varName := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		entry, ok := classifyResource(uint32(binding), visibility, addressSpace)
		if !ok {
			continue
		}
		if layout, ok := resolveTypeLayout(typeName, structSizes); ok && layout.size > 0 {
			entry.MinBindingSize = layout.size
		}
		groups[group] = append(groups[group], entry)

		if varNames[group] == nil {
			varNames[group] = make(map[int]string)
		}
		varNames[group][binding] = varName
	}

	for g := range groups {
		entries := groups[g]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
	}
	return groups, varNames
}

// parseEntryPoint extracts the function name annotated with @vertex or @fragment.
// Returns an empty string if no matching entry point is found.
func parseEntryPoint(source string, re *regexp.Regexp) string {
	if match := re.FindStringSubmatch(stripComments(source)); match != nil {
		return match[1]
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
//
// Parameters:
//   - source: WGSL source with comments already stripped
//
// Returns:
//   - []parsedStruct: all struct blocks found in the source
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @location and @builtin attributes along with the field name and type
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var field parsedField
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		field.location = -1
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}
	return fields
}
