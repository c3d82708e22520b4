package renderer

import (
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	blobPipelineKey  = "blob"
	labelPipelineKey = "label"

	// labelSegments is the number of columns in the label strip; the vertex shader bends along them.
	labelSegments = 32
)

// meshVertexLayout matches model.GPUVertex: position, normal, uv.
var meshVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: 32,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
	},
}

var (
	blobUniformLayout = wgpu.BindGroupLayoutDescriptor{
		Label: "Blob Uniforms",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 128),
		},
	}

	// Gradient and environment maps share one layout: texture at 0, sampler at 1.
	blobTextureLayout = wgpu.BindGroupLayoutDescriptor{
		Label: "Blob Texture",
		Entries: []wgpu.BindGroupLayoutEntry{
			textureEntry(0),
			samplerEntry(1),
		},
	}

	labelLayout = wgpu.BindGroupLayoutDescriptor{
		Label: "Label",
		Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, 160),
			textureEntry(1),
			samplerEntry(2),
		},
	}
)

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: visibility,
	}
	entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	entry.Buffer.MinBindingSize = size
	return entry
}

func textureEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
	}
	entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
	return entry
}

func samplerEntry(binding uint32) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: wgpu.ShaderStageFragment,
	}
	entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	return entry
}

// newLabelStrip builds a unit quad centered on the origin, split into columns so it can bend.
// The top edge maps to v = 0 to match image row order.
func newLabelStrip(segments int) ([]model.GPUVertex, []uint32) {
	segments = max(segments, 1)
	vertices := make([]model.GPUVertex, 0, (segments+1)*2)
	for i := 0; i <= segments; i++ {
		u := float32(i) / float32(segments)
		x := u - 0.5
		vertices = append(vertices,
			model.GPUVertex{Position: [3]float32{x, 0.5, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{u, 0}},
			model.GPUVertex{Position: [3]float32{x, -0.5, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{u, 1}},
		)
	}

	indices := make([]uint32, 0, segments*6)
	for i := range segments {
		topLeft := uint32(i * 2)
		bottomLeft := topLeft + 1
		topRight := topLeft + 2
		bottomRight := topLeft + 3
		indices = append(indices, bottomLeft, bottomRight, topRight, bottomLeft, topRight, topLeft)
	}
	return vertices, indices
}
