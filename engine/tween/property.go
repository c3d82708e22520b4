package tween

import (
	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/lucasb-eyer/go-colorful"
)

// Property is a mutable value a Task interpolates.
// Begin is called once on the task's first advance; Apply is called on every advance after that.
type Property interface {
	// Begin records the target's current value as the interpolation start.
	Begin()

	// Apply writes the value at eased weight w, where 0 is the start and 1 the end.
	//
	// Parameters:
	//   - w: eased weight
	Apply(w float64)
}

type float64Property struct {
	target   *float64
	from, to float64
}

// Float64 interpolates *target to the given end value.
//
// Parameters:
//   - target: pointer to the value to animate
//   - to: the end value
//
// Returns:
//   - Property: the animatable property
func Float64(target *float64, to float64) Property {
	return &float64Property{target: target, to: to}
}

func (p *float64Property) Begin()          { p.from = *p.target }
func (p *float64Property) Apply(w float64) { *p.target = common.Lerp(p.from, p.to, w) }

type float32Property struct {
	target   *float32
	from, to float32
}

// Float32 interpolates *target to the given end value.
func Float32(target *float32, to float32) Property {
	return &float32Property{target: target, to: to}
}

func (p *float32Property) Begin() { p.from = *p.target }
func (p *float32Property) Apply(w float64) {
	*p.target = float32(common.Lerp(float64(p.from), float64(p.to), w))
}

type funcProperty struct {
	get      func() float64
	set      func(float64)
	from, to float64
}

// Func interpolates a value reachable only through accessors, such as an entry in a uniform map.
//
// Parameters:
//   - get: returns the current value
//   - set: writes a new value
//   - to: the end value
//
// Returns:
//   - Property: the animatable property
func Func(get func() float64, set func(float64), to float64) Property {
	return &funcProperty{get: get, set: set, to: to}
}

func (p *funcProperty) Begin()          { p.from = p.get() }
func (p *funcProperty) Apply(w float64) { p.set(common.Lerp(p.from, p.to, w)) }

type vec3Property struct {
	target   *[3]float32
	from, to [3]float32
}

// Vec3 interpolates all three components of *target with one shared weight.
func Vec3(target *[3]float32, to [3]float32) Property {
	return &vec3Property{target: target, to: to}
}

func (p *vec3Property) Begin() { p.from = *p.target }
func (p *vec3Property) Apply(w float64) {
	for i := range 3 {
		p.target[i] = float32(common.Lerp(float64(p.from[i]), float64(p.to[i]), w))
	}
}

type colorProperty struct {
	target   *colorful.Color
	from, to colorful.Color
}

// Color interpolates *target component-wise in RGB toward the end color.
//
// Parameters:
//   - target: pointer to the color to animate
//   - to: the end color
//
// Returns:
//   - Property: the animatable property
func Color(target *colorful.Color, to colorful.Color) Property {
	return &colorProperty{target: target, to: to}
}

func (p *colorProperty) Begin()          { p.from = *p.target }
func (p *colorProperty) Apply(w float64) { *p.target = common.BlendColor(p.from, p.to, w) }
