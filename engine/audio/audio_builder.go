package audio

// ServiceBuilderOption configures an audio service before it is created.
type ServiceBuilderOption func(s *audioService)

// WithHeadless skips the speaker. The mix is only produced when Master is pulled, which is how
// tests and the disabled-audio configuration use the service.
//
// Parameters:
//   - headless: whether to run without a speaker
//
// Returns:
//   - ServiceBuilderOption: a function that applies the option
func WithHeadless(headless bool) ServiceBuilderOption {
	return func(s *audioService) {
		s.headless = headless
	}
}

// WithMasterGain overrides the linear master gain, DefaultMasterGain otherwise.
func WithMasterGain(gain float64) ServiceBuilderOption {
	return func(s *audioService) {
		s.masterGain = gain
	}
}

// WithSeed fixes the noise seed so generated channels are reproducible.
func WithSeed(seed uint64) ServiceBuilderOption {
	return func(s *audioService) {
		s.seed = seed
	}
}
