package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
)

//go:embed assets/blob.wgsl
var blobShaderSource string

//go:embed assets/label.wgsl
var labelShaderSource string

// GPUBlobUniform mirrors the BlobUniforms struct in blob.wgsl.
//
// Layout (128 bytes):
//
//	offset   0: viewProj                   mat4x4<f32>
//	offset  64: cameraPosition             vec3<f32>
//	offset  76: time                       f32
//	offset  80: positionFrequency .. transmission, 12 x f32
type GPUBlobUniform struct {
	ViewProj                   [16]float32
	CameraPosition             [3]float32
	Time                       float32
	PositionFrequency          float32
	PositionStrength           float32
	TimeFrequency              float32
	SmallWavePositionFrequency float32
	SmallWavePositionStrength  float32
	SmallWaveTimeFrequency     float32
	Roughness                  float32
	Metalness                  float32
	EnvMapIntensity            float32
	Clearcoat                  float32
	ClearcoatRoughness         float32
	Transmission               float32
}

// NewGPUBlobUniform packs the shader parameters and camera of a frame.
// Parameters missing from the frame are written as zero.
//
// Parameters:
//   - f: the frame snapshot
//
// Returns:
//   - GPUBlobUniform: the packed uniform
func NewGPUBlobUniform(f scene.Frame) GPUBlobUniform {
	v := func(name string) float32 {
		return float32(f.Uniforms[name])
	}
	return GPUBlobUniform{
		ViewProj:                   f.ViewProj,
		CameraPosition:             f.CameraPosition,
		Time:                       v(uniform.Time),
		PositionFrequency:          v(uniform.PositionFrequency),
		PositionStrength:           v(uniform.PositionStrength),
		TimeFrequency:              v(uniform.TimeFrequency),
		SmallWavePositionFrequency: v(uniform.SmallWavePositionFrequency),
		SmallWavePositionStrength:  v(uniform.SmallWavePositionStrength),
		SmallWaveTimeFrequency:     v(uniform.SmallWaveTimeFrequency),
		Roughness:                  v(uniform.Roughness),
		Metalness:                  v(uniform.Metalness),
		EnvMapIntensity:            v(uniform.EnvMapIntensity),
		Clearcoat:                  v(uniform.Clearcoat),
		ClearcoatRoughness:         v(uniform.ClearcoatRoughness),
		Transmission:               v(uniform.Transmission),
	}
}

// Size returns the byte size of the uniform as laid out in the shader.
func (u *GPUBlobUniform) Size() int {
	return 128
}

// Marshal serializes the uniform to little-endian bytes for upload.
func (u *GPUBlobUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	off := putFloats(buf, 0, u.ViewProj[:]...)
	off = putFloats(buf, off, u.CameraPosition[:]...)
	putFloats(buf, off,
		u.Time,
		u.PositionFrequency,
		u.PositionStrength,
		u.TimeFrequency,
		u.SmallWavePositionFrequency,
		u.SmallWavePositionStrength,
		u.SmallWaveTimeFrequency,
		u.Roughness,
		u.Metalness,
		u.EnvMapIntensity,
		u.Clearcoat,
		u.ClearcoatRoughness,
		u.Transmission,
	)
	return buf
}

// GPULabelUniform mirrors the LabelUniforms struct in label.wgsl.
//
// Layout (160 bytes):
//
//	offset   0: viewProj   mat4x4<f32>
//	offset  64: model      mat4x4<f32>
//	offset 128: color      vec4<f32>
//	offset 144: progress   f32
//	offset 148: direction  f32
//	offset 152: padding    vec2<f32>
type GPULabelUniform struct {
	ViewProj  [16]float32
	Model     [16]float32
	Color     [4]float32
	Progress  float32
	Direction float32
}

// NewGPULabelUniform builds the uniform for one label. The label quad is a unit square scaled
// to the label's height and the texture's aspect ratio.
//
// Parameters:
//   - f: the frame snapshot
//   - l: the label instance
//   - aspect: the width over height of the label texture
//
// Returns:
//   - GPULabelUniform: the packed uniform
func NewGPULabelUniform(f scene.Frame, l scene.LabelInstance, aspect float32) GPULabelUniform {
	u := GPULabelUniform{
		ViewProj:  f.ViewProj,
		Color:     [4]float32{1, 1, 1, l.Opacity},
		Progress:  float32(f.Progress),
		Direction: float32(f.Direction),
	}
	common.TranslateScale(u.Model[:], l.Position, [3]float32{l.Size * aspect, l.Size, 1})
	return u
}

// Size returns the byte size of the uniform as laid out in the shader.
func (u *GPULabelUniform) Size() int {
	return 160
}

// Marshal serializes the uniform to little-endian bytes for upload. The trailing padding is zero.
func (u *GPULabelUniform) Marshal() []byte {
	buf := make([]byte, u.Size())
	off := putFloats(buf, 0, u.ViewProj[:]...)
	off = putFloats(buf, off, u.Model[:]...)
	off = putFloats(buf, off, u.Color[:]...)
	putFloats(buf, off, u.Progress, u.Direction)
	return buf
}

func putFloats(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}
