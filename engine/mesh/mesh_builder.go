package mesh

import "context"

// AssetBuilderOption configures an asset created by NewAsset.
type AssetBuilderOption func(a *asset)

// WithData sets fixed geometry as the asset source.
//
// Parameters:
//   - data: the geometry
//
// Returns:
//   - AssetBuilderOption: a function that sets the source
func WithData(data Data) AssetBuilderOption {
	return func(a *asset) {
		a.generator = func(context.Context) (Data, error) {
			return data, nil
		}
	}
}

// WithGenerator sets a function that produces the geometry on first use.
func WithGenerator(gen Generator) AssetBuilderOption {
	return func(a *asset) {
		a.generator = gen
	}
}

// WithLabel sets the debug label used for GPU buffers and errors.
func WithLabel(label string) AssetBuilderOption {
	return func(a *asset) {
		a.label = label
	}
}
