package tween

import "math"

// EaseFunc maps linear progress in [0, 1] to an eased weight.
// Weights may leave [0, 1] for overshooting curves; the final step of a task always writes the exact end value.
type EaseFunc func(t float64) float64

// Linear is the identity easing used for every preset transition.
func Linear(t float64) float64 {
	return t
}

// EaseInOutSine accelerates from rest and decelerates into the end value.
func EaseInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// ExpDecay falls from 1 toward 0 exponentially.
func ExpDecay(t float64) float64 {
	return math.Exp(2 * math.Pi * -t)
}

// ExpDrive rises from 0 toward 1 exponentially, reaching ~0.998 at t=1.
func ExpDrive(t float64) float64 {
	return 1 - math.Exp(2*math.Pi*-t)
}
