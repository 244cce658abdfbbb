package shader

// ShaderBuilderOption configures the pre-processor used by NewShader.
type ShaderBuilderOption func(pp PreProcessor)

// WithStruct registers a struct type that include and group annotations in the shader may use.
//
// Parameters:
//   - arg: the annotation key for the struct
//   - source: the WGSL struct definition
//   - typeName: the WGSL type name declared by source
//
// Returns:
//   - ShaderBuilderOption: a function that registers the struct
func WithStruct(arg AnnotationArg, source, typeName string) ShaderBuilderOption {
	return func(pp PreProcessor) {
		pp.RegisterStruct(arg, source, typeName)
	}
}
