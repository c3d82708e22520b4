package uniform

// StateBuilderOption is a functional option for configuring a State.
type StateBuilderOption func(*state)

// WithValue seeds a single parameter.
//
// Parameters:
//   - name: the parameter name
//   - v: the initial value
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithValue(name string, v float64) StateBuilderOption {
	return func(s *state) {
		s.values[name] = v
	}
}

// WithValues seeds several parameters at once, overriding defaults with the same name.
//
// Parameters:
//   - values: parameter values keyed by name
//
// Returns:
//   - StateBuilderOption: option function to apply
func WithValues(values map[string]float64) StateBuilderOption {
	return func(s *state) {
		for k, v := range values {
			s.values[k] = v
		}
	}
}
