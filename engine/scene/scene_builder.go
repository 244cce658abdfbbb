package scene

// GraphBuilderOption is a functional option for configuring a Graph.
type GraphBuilderOption func(g *graph)

// WithMaxDepth sets the deepest parent chain Update accepts before failing.
//
// Parameters:
//   - depth: the maximum nesting depth, values below 1 are ignored
//
// Returns:
//   - GraphBuilderOption: option function to apply
func WithMaxDepth(depth int) GraphBuilderOption {
	return func(g *graph) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}
