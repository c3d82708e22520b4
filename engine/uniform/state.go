package uniform

import (
	"maps"
	"slices"
	"sync"
)

// state is the implementation of the State interface.
type state struct {
	mu     *sync.Mutex
	values map[string]float64
}

// State is the named set of numeric shader parameters submitted with every frame.
//
// The render loop writes Time each frame, the transition controller replaces preset parameters when
// a transition completes, and tuners write through Tunables between frames.
type State interface {
	// Get returns the value of a parameter and whether it exists.
	//
	// Parameters:
	//   - name: the parameter name
	//
	// Returns:
	//   - float64: the value, or 0 if unknown
	//   - bool: true if the parameter exists
	Get(name string) (float64, bool)

	// Value returns the value of a parameter, or 0 if it does not exist.
	Value(name string) float64

	// Set writes a parameter, creating it if needed.
	//
	// Parameters:
	//   - name: the parameter name
	//   - v: the new value
	Set(name string, v float64)

	// ApplyPreset overwrites every parameter named in params with its preset value.
	// Parameters the preset does not name, including Time, keep their current value.
	//
	// Parameters:
	//   - params: preset parameter values keyed by name
	ApplyPreset(params map[string]float64)

	// Values returns a copy of all parameters.
	//
	// Returns:
	//   - map[string]float64: parameter values keyed by name
	Values() map[string]float64

	// Names returns the parameter names in sorted order.
	Names() []string

	// Tunables returns the enumerated set of externally adjustable parameters.
	//
	// Returns:
	//   - []Tunable: tunable parameters in display order
	Tunables() []Tunable
}

var _ State = &state{}

// NewState creates a State seeded with Defaults.
//
// Parameters:
//   - options: functional options applied after the defaults
//
// Returns:
//   - State: the uniform state
func NewState(options ...StateBuilderOption) State {
	s := &state{
		mu:     &sync.Mutex{},
		values: Defaults(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *state) Get(name string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	return v, ok
}

func (s *state) Value(name string) float64 {
	v, _ := s.Get(name)
	return v
}

func (s *state) Set(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name] = v
}

func (s *state) ApplyPreset(params map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range params {
		if k == Time {
			continue
		}
		s.values[k] = v
	}
}

func (s *state) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

func (s *state) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values))
}

func (s *state) Tunables() []Tunable {
	out := make([]Tunable, 0, len(tunableDefs))
	for _, def := range tunableDefs {
		out = append(out, &tunable{state: s, def: def})
	}
	return out
}
