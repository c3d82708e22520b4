package uniform

import (
	"math"

	"github.com/Carmen-Shannon/oxy-blob/common"
)

// Tunable is an externally adjustable parameter with a bounded range.
// It is the only surface a debug panel or key binding uses to change live values.
type Tunable interface {
	// Name returns the parameter name.
	Name() string

	// Label returns a human readable label, grouped the way a control panel shows it.
	Label() string

	// Get returns the current value.
	Get() float64

	// Set writes a new value clamped to Range and snapped to Step.
	//
	// Parameters:
	//   - v: the requested value
	Set(v float64)

	// Range returns the inclusive bounds.
	//
	// Returns:
	//   - min: lower bound
	//   - max: upper bound
	Range() (min, max float64)

	// Step returns the adjustment increment.
	Step() float64
}

type tunableDef struct {
	name     string
	label    string
	min, max float64
	step     float64
}

var tunableDefs = []tunableDef{
	{name: PositionFrequency, label: "Large Wave / Position Frequency", min: 0, max: 5, step: 0.01},
	{name: PositionStrength, label: "Large Wave / Position Strength", min: 0, max: 2, step: 0.01},
	{name: TimeFrequency, label: "Large Wave / Time Frequency", min: 0, max: 5, step: 0.01},
	{name: SmallWavePositionFrequency, label: "Small Wave / Position Freq", min: 0, max: 10, step: 0.01},
	{name: SmallWavePositionStrength, label: "Small Wave / Position Strength", min: 0, max: 2, step: 0.01},
	{name: SmallWaveTimeFrequency, label: "Small Wave / Time Freq", min: 0, max: 10, step: 0.01},
}

type tunable struct {
	state *state
	def   tunableDef
}

var _ Tunable = &tunable{}

func (t *tunable) Name() string  { return t.def.name }
func (t *tunable) Label() string { return t.def.label }
func (t *tunable) Get() float64  { return t.state.Value(t.def.name) }
func (t *tunable) Step() float64 { return t.def.step }

func (t *tunable) Range() (float64, float64) {
	return t.def.min, t.def.max
}

func (t *tunable) Set(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = common.Clamp(v, t.def.min, t.def.max)
	if t.def.step > 0 {
		v = math.Round(v/t.def.step) * t.def.step
		v = common.Clamp(v, t.def.min, t.def.max)
	}
	t.state.Set(t.def.name, v)
}
