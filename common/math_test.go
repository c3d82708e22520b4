package common

import (
	"math"
	"testing"
)

func TestMul4Identity(t *testing.T) {
	var id, m, out [16]float32
	Identity(id[:])
	for i := range m {
		m[i] = float32(i)
	}
	Mul4(out[:], id[:], m[:])
	if out != m {
		t.Errorf("I*M = %v, want %v", out, m)
	}
}

func TestTranslateScale(t *testing.T) {
	var m [16]float32
	TranslateScale(m[:], [3]float32{1, 2, 3}, [3]float32{4, 5, 6})
	want := [16]float32{4, 0, 0, 0, 0, 5, 0, 0, 0, 0, 6, 0, 1, 2, 3, 1}
	if m != want {
		t.Errorf("got %v, want %v", m, want)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 3, 0, 0, 0, 0, 1, 0)
	// The eye transforms to the view-space origin.
	x := view[0]*0 + view[4]*0 + view[8]*3 + view[12]
	y := view[1]*0 + view[5]*0 + view[9]*3 + view[13]
	z := view[2]*0 + view[6]*0 + view[10]*3 + view[14]
	if math.Abs(float64(x)) > 1e-6 || math.Abs(float64(y)) > 1e-6 || math.Abs(float64(z)) > 1e-6 {
		t.Errorf("eye in view space = (%v, %v, %v)", x, y, z)
	}
}
