package uniform

// Names of the parameters held in a State. Wave parameters feed the displacement
// vertex shader; material parameters feed the fragment shading.
const (
	Time                       = "uTime"
	PositionFrequency          = "uPositionFrequency"
	PositionStrength           = "uPositionStrength"
	TimeFrequency              = "uTimeFrequency"
	SmallWavePositionFrequency = "uSmallWavePositionFrequency"
	SmallWavePositionStrength  = "uSmallWavePositionStrength"
	SmallWaveTimeFrequency     = "uSmallWaveTimeFrequency"

	Roughness          = "roughness"
	Metalness          = "metalness"
	EnvMapIntensity    = "envMapIntensity"
	Clearcoat          = "clearcoat"
	ClearcoatRoughness = "clearcoatRoughness"
	Transmission       = "transmission"
)

// Defaults are the values a fresh State starts with, before any preset is applied.
func Defaults() map[string]float64 {
	return map[string]float64{
		Time:                       0,
		PositionFrequency:          1.19,
		PositionStrength:           0.69,
		TimeFrequency:              0.51,
		SmallWavePositionFrequency: 1.64,
		SmallWavePositionStrength:  0.13,
		SmallWaveTimeFrequency:     0.41,

		Roughness:          0.3,
		Metalness:          0,
		EnvMapIntensity:    1,
		Clearcoat:          0,
		ClearcoatRoughness: 0,
		Transmission:       0,
	}
}
