package renderer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/label"
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrReleased is returned by Renderer operations after Release.
	ErrReleased = errors.New("renderer released")

	// ErrNoMesh is returned by Render when no blob mesh has been uploaded.
	ErrNoMesh = errors.New("no blob mesh initialized")

	// ErrEmptyMesh is returned by InitMesh for a model without vertices or indices.
	ErrEmptyMesh = errors.New("mesh has no geometry")
)

// labelResources holds the GPU state of one rasterized label.
type labelResources struct {
	provider bind_group_provider.BindGroupProvider
	aspect   float32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	blobMesh     bind_group_provider.BindGroupProvider
	blobUniforms bind_group_provider.BindGroupProvider
	placeholder  bind_group_provider.BindGroupProvider
	gradients    map[int]bind_group_provider.BindGroupProvider
	environment  bind_group_provider.BindGroupProvider
	labelMesh    bind_group_provider.BindGroupProvider
	labels       []labelResources

	released bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer draws a scene.Frame: the displaced blob followed by the preset labels.
//
// The Renderer owns every GPU resource it creates. Gradient and environment textures can be swapped
// at any time; until a gradient for a preset is supplied the blob is drawn with a white placeholder.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key ("blob" or "label")
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Resize reconfigures the surface for a new size. Zero or negative sizes are ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. It takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitMesh uploads the blob mesh, replacing any previous one.
	//
	// Parameters:
	//   - m: the model whose vertex and index data to upload
	//
	// Returns:
	//   - error: ErrEmptyMesh for a model without geometry, or an error if buffer creation fails
	InitMesh(m model.Model) error

	// InitLabels rasterizes one label texture per text, in preset order, replacing any previous labels.
	//
	// Parameters:
	//   - texts: the label texts indexed by preset
	//   - options: rasterization options
	//
	// Returns:
	//   - error: an error if rasterization or texture upload fails
	InitLabels(texts []string, options ...label.RasterOption) error

	// SetGradient installs the gradient texture used while the given preset is current.
	//
	// Parameters:
	//   - preset: the preset index
	//   - tex: the gradient pixels
	//
	// Returns:
	//   - error: an error if the texture is empty or upload fails
	SetGradient(preset int, tex common.TextureStagingData) error

	// SetEnvironment replaces the environment map sampled for reflections.
	//
	// Parameters:
	//   - tex: the tone-mapped equirectangular environment pixels
	//
	// Returns:
	//   - error: an error if the texture is empty or upload fails
	SetEnvironment(tex common.TextureStagingData) error

	// Render draws one frame and presents it.
	//
	// Parameters:
	//   - f: the frame snapshot
	//
	// Returns:
	//   - error: ErrReleased, ErrNoMesh, or a wrapped backend error
	Render(f scene.Frame) error

	// Release destroys every GPU resource. Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing into the given window's surface.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the configured Renderer
//   - error: an error if the pipelines or default resources could not be created
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		gradients:     make(map[int]bind_group_provider.BindGroupProvider),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}
	if !msaa.Valid() {
		log.Printf("[Renderer] unsupported MSAA sample count %d, using %d", msaa, MSAA4x)
		msaa = MSAA4x
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if err := r.init(window.Width(), window.Height()); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// newRendererWithBackend builds a Renderer around an existing backend.
func newRendererWithBackend(backend RendererBackend, width, height int, options ...RendererBuilderOption) (*renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		gradients:     make(map[int]bind_group_provider.BindGroupProvider),
		backend:       backend,
	}
	for _, opt := range options {
		opt(r)
	}
	if err := r.init(width, height); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

// init configures the surface, registers both pipelines and creates the placeholder resources.
func (r *renderer) init(width, height int) error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
		log.Printf("[Renderer] present mode %s", *r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(width, height)

	pipelines := []pipeline.Pipeline{
		pipeline.NewPipeline(blobPipelineKey, blobShaderSource,
			pipeline.WithBindGroupLayouts(blobUniformLayout, blobTextureLayout, blobTextureLayout),
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithBlendEnabled(true),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(labelPipelineKey, labelShaderSource,
			pipeline.WithBindGroupLayouts(labelLayout),
			pipeline.WithVertexLayouts(meshVertexLayout),
			pipeline.WithBlendEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithCullMode(wgpu.CullModeNone),
		),
	}
	for _, p := range pipelines {
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register %s pipeline: %w", p.PipelineKey(), err)
		}
		r.pipelineCache[p.PipelineKey()] = p
	}

	r.blobUniforms = bind_group_provider.NewBindGroupProvider("Blob Uniforms")
	if err := r.backend.InitBindGroup(r.blobUniforms, blobUniformLayout, nil, nil); err != nil {
		return fmt.Errorf("blob uniforms: %w", err)
	}

	var err error
	if r.placeholder, err = r.newTextureGroup("Gradient Placeholder", common.SolidTexture(255, 255, 255, 255)); err != nil {
		return err
	}
	if r.environment, err = r.newTextureGroup("Environment", common.SolidTexture(128, 128, 128, 255)); err != nil {
		return err
	}

	r.labelMesh = bind_group_provider.NewBindGroupProvider("Label Mesh")
	vertices, indices := newLabelStrip(labelSegments)
	if err := r.backend.InitMeshBuffers(r.labelMesh, model.MarshalVertices(vertices), model.MarshalIndices(indices), len(indices)); err != nil {
		return fmt.Errorf("label mesh: %w", err)
	}
	return nil
}

// newTextureGroup creates a provider bound to blobTextureLayout holding tex and a repeating sampler.
func (r *renderer) newTextureGroup(name string, tex common.TextureStagingData) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(name)
	if err := r.backend.InitSampler(provider, 1, common.SamplerStagingData{}); err != nil {
		provider.Release()
		return nil, fmt.Errorf("%s sampler: %w", name, err)
	}
	if err := r.updateTextureGroup(provider, tex); err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}

// updateTextureGroup uploads tex into provider and rebuilds its bind group.
func (r *renderer) updateTextureGroup(provider bind_group_provider.BindGroupProvider, tex common.TextureStagingData) error {
	if err := r.backend.InitTextureView(provider, 0, tex); err != nil {
		return fmt.Errorf("%s texture: %w", provider.Label(), err)
	}
	if err := r.backend.InitBindGroup(provider, blobTextureLayout, nil, nil); err != nil {
		return fmt.Errorf("%s bind group: %w", provider.Label(), err)
	}
	return nil
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if width <= 0 || height <= 0 || r.released {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMesh(m model.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}

	if m.VertexCount() == 0 || m.IndexCount() == 0 {
		return fmt.Errorf("upload %s mesh: %w", m.Name(), ErrEmptyMesh)
	}

	provider := bind_group_provider.NewBindGroupProvider(m.Name() + " Mesh")
	if err := r.backend.InitMeshBuffers(provider, m.VertexData(), m.IndexData(), m.IndexCount()); err != nil {
		provider.Release()
		return fmt.Errorf("upload %s mesh: %w", m.Name(), err)
	}

	if r.blobMesh != nil {
		r.blobMesh.Release()
	}
	r.blobMesh = provider
	m.SetMeshProvider(provider)
	log.Printf("[Renderer] uploaded %s mesh: %d vertices, %d triangles, radius %.2f",
		m.Name(), m.VertexCount(), m.IndexCount()/3, m.BoundingRadius())
	return nil
}

func (r *renderer) InitLabels(texts []string, options ...label.RasterOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}

	labels := make([]labelResources, 0, len(texts))
	fail := func(err error) error {
		for _, l := range labels {
			l.provider.Release()
		}
		return err
	}

	for i, text := range texts {
		staging, err := label.Rasterize(text, options...)
		if err != nil {
			return fail(fmt.Errorf("label %d %q: %w", i, text, err))
		}

		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Label %d", i))
		labels = append(labels, labelResources{
			provider: provider,
			aspect:   float32(staging.Width) / float32(staging.Height),
		})

		if err := r.backend.InitTextureView(provider, 1, staging); err != nil {
			return fail(fmt.Errorf("label %d texture: %w", i, err))
		}
		sampler := common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
		}
		if err := r.backend.InitSampler(provider, 2, sampler); err != nil {
			return fail(fmt.Errorf("label %d sampler: %w", i, err))
		}
		if err := r.backend.InitBindGroup(provider, labelLayout, nil, nil); err != nil {
			return fail(fmt.Errorf("label %d bind group: %w", i, err))
		}
	}

	for _, l := range r.labels {
		l.provider.Release()
	}
	r.labels = labels
	return nil
}

func (r *renderer) SetGradient(preset int, tex common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if tex.Empty() {
		return fmt.Errorf("gradient for preset %d has no pixels", preset)
	}

	if provider, ok := r.gradients[preset]; ok {
		return r.updateTextureGroup(provider, tex)
	}
	provider, err := r.newTextureGroup(fmt.Sprintf("Gradient %d", preset), tex)
	if err != nil {
		return err
	}
	r.gradients[preset] = provider
	return nil
}

func (r *renderer) SetEnvironment(tex common.TextureStagingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if tex.Empty() {
		return errors.New("environment map has no pixels")
	}
	return r.updateTextureGroup(r.environment, tex)
}

func (r *renderer) Render(f scene.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if r.blobMesh == nil {
		return ErrNoMesh
	}

	cr, cg, cb := f.Background.LinearRgb()
	r.backend.SetClearColor(wgpu.Color{R: cr, G: cg, B: cb, A: 1})

	blob := NewGPUBlobUniform(f)
	writes := []bind_group_provider.BufferWrite{
		{Provider: r.blobUniforms, Binding: 0, Data: blob.Marshal()},
	}

	visible := make([]bind_group_provider.BindGroupProvider, 0, 2)
	for _, l := range f.Labels {
		if l.Opacity <= 0 || l.Index < 0 || l.Index >= len(r.labels) {
			continue
		}
		res := r.labels[l.Index]
		u := NewGPULabelUniform(f, l, res.aspect)
		writes = append(writes, bind_group_provider.BufferWrite{Provider: res.provider, Binding: 0, Data: u.Marshal()})
		visible = append(visible, res.provider)
	}
	r.backend.WriteBuffers(writes)

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}

	r.backend.DrawCall(r.pipelineCache[blobPipelineKey], r.blobMesh, 1, []bind_group_provider.BindGroupProvider{
		r.blobUniforms,
		r.gradientFor(f.Preset),
		r.environment,
	})
	labelPipeline := r.pipelineCache[labelPipelineKey]
	for _, provider := range visible {
		r.backend.DrawCall(labelPipeline, r.labelMesh, 1, []bind_group_provider.BindGroupProvider{provider})
	}

	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	r.backend.Present()
	return nil
}

func (r *renderer) gradientFor(preset int) bind_group_provider.BindGroupProvider {
	if provider, ok := r.gradients[preset]; ok {
		return provider
	}
	return r.placeholder
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true

	providers := []bind_group_provider.BindGroupProvider{r.blobMesh, r.blobUniforms, r.placeholder, r.environment, r.labelMesh}
	for _, g := range r.gradients {
		providers = append(providers, g)
	}
	for _, l := range r.labels {
		providers = append(providers, l.provider)
	}
	for _, p := range providers {
		if p != nil {
			p.Release()
		}
	}
	r.gradients = nil
	r.labels = nil

	for _, p := range r.pipelineCache {
		p.Release()
	}
	if r.backend != nil {
		r.backend.Release()
	}
	log.Printf("[Renderer] released")
}
