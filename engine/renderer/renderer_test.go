package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/Carmen-Shannon/oxy-blob/common"
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-blob/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-blob/engine/scene"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

type drawRecord struct {
	pipeline string
	mesh     string
	groups   []string
}

// fakeBackend records every call the renderer makes instead of touching a GPU.
type fakeBackend struct {
	configured  [][2]int
	presentMode PresentMode
	registered  []string
	registerErr error
	clearColors []wgpu.Color
	meshes      map[string]int
	textures    map[string]int
	writes      [][]bind_group_provider.BufferWrite
	draws       []drawRecord
	beginErr    error
	begins      int
	ends        int
	presents    int
	released    int
}

var _ RendererBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		meshes:   make(map[string]int),
		textures: make(map[string]int),
	}
}

func (f *fakeBackend) ConfigureSurface(width, height int) {
	f.configured = append(f.configured, [2]int{width, height})
}

func (f *fakeBackend) SetPresentMode(mode PresentMode) { f.presentMode = mode }

func (f *fakeBackend) SetClearColor(c wgpu.Color) { f.clearColors = append(f.clearColors, c) }

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	provider.SetIndexCount(indexCount)
	f.meshes[provider.Label()] = indexCount
	return nil
}

func (f *fakeBackend) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor, map[int]wgpu.BufferUsage, map[int]uint64) error {
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, _ int, stagingData common.TextureStagingData) error {
	if stagingData.Empty() {
		return errors.New("empty texture")
	}
	f.textures[provider.Label()]++
	return nil
}

func (f *fakeBackend) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes)
}

func (f *fakeBackend) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.begins++
	return nil
}

func (f *fakeBackend) DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, _ uint32, groups []bind_group_provider.BindGroupProvider) {
	rec := drawRecord{pipeline: p.PipelineKey(), mesh: mesh.Label()}
	for _, g := range groups {
		rec.groups = append(rec.groups, g.Label())
	}
	f.draws = append(f.draws, rec)
}

func (f *fakeBackend) EndFrame() error {
	f.ends++
	return nil
}

func (f *fakeBackend) Present() { f.presents++ }

func (f *fakeBackend) Release() { f.released++ }

func newTestRenderer(t *testing.T) (*renderer, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	r, err := newRendererWithBackend(backend, 800, 600, WithPresentMode(PresentModeVSync))
	if err != nil {
		t.Fatalf("newRendererWithBackend: %v", err)
	}
	return r, backend
}

func testFrame() scene.Frame {
	return scene.Frame{
		Time:       1.5,
		Background: common.MustParseColor("#ffffff"),
		Uniforms:   uniform.Defaults(),
		Labels: []scene.LabelInstance{
			{Index: 0, Text: "A", Size: 0.2, Opacity: 1},
			{Index: 1, Text: "B", Size: 0.2, Opacity: 0},
			{Index: 2, Text: "C", Size: 0.2, Opacity: 0.5},
		},
	}
}

func TestNewRendererRegistersPipelines(t *testing.T) {
	r, backend := newTestRenderer(t)

	if !reflect.DeepEqual(backend.registered, []string{blobPipelineKey, labelPipelineKey}) {
		t.Fatalf("registered = %v", backend.registered)
	}
	if len(backend.configured) != 1 || backend.configured[0] != [2]int{800, 600} {
		t.Fatalf("configured = %v", backend.configured)
	}
	if backend.presentMode != PresentModeVSync {
		t.Errorf("present mode = %v", backend.presentMode)
	}
	if r.Pipeline(blobPipelineKey) == nil || r.Pipeline(labelPipelineKey) == nil {
		t.Fatal("pipelines not cached")
	}
	if got := backend.meshes["Label Mesh"]; got != labelSegments*6 {
		t.Errorf("label mesh index count = %d", got)
	}
	if backend.textures["Gradient Placeholder"] != 1 || backend.textures["Environment"] != 1 {
		t.Errorf("placeholder textures = %v", backend.textures)
	}
}

func TestNewRendererRegistrationError(t *testing.T) {
	backend := newFakeBackend()
	backend.registerErr = errors.New("no surface")
	if _, err := newRendererWithBackend(backend, 0, 0); !errors.Is(err, backend.registerErr) {
		t.Fatalf("err = %v", err)
	}
	if backend.released != 1 {
		t.Fatalf("backend released %d times", backend.released)
	}
}

func TestRenderRequiresMesh(t *testing.T) {
	r, backend := newTestRenderer(t)
	if err := r.Render(testFrame()); !errors.Is(err, ErrNoMesh) {
		t.Fatalf("err = %v, want ErrNoMesh", err)
	}
	if backend.begins != 0 {
		t.Fatal("frame begun without a mesh")
	}
}

func TestInitMeshRejectsEmptyModel(t *testing.T) {
	r, backend := newTestRenderer(t)
	empty := model.NewModel(model.WithName("empty"))
	if err := r.InitMesh(empty); !errors.Is(err, ErrEmptyMesh) {
		t.Fatalf("InitMesh err = %v, want ErrEmptyMesh", err)
	}
	if _, ok := backend.meshes["empty Mesh"]; ok || empty.MeshProvider() != nil {
		t.Fatal("empty mesh reached the backend")
	}
	if err := r.Render(testFrame()); !errors.Is(err, ErrNoMesh) {
		t.Fatalf("Render err = %v, want ErrNoMesh", err)
	}
}

func TestRenderWritesAreAligned(t *testing.T) {
	r, backend := newTestRenderer(t)
	if err := r.InitMesh(model.NewBlob(1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.InitLabels([]string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Render(testFrame()); err != nil {
		t.Fatal(err)
	}
	if len(backend.writes) != 1 || len(backend.writes[0]) == 0 {
		t.Fatalf("writes = %d batches", len(backend.writes))
	}
	for _, w := range backend.writes[0] {
		if !w.Aligned() {
			t.Errorf("unaligned write to %s: offset %d, %d bytes", w.Provider.Label(), w.Offset, len(w.Data))
		}
	}
}

func TestRenderDrawsBlobThenVisibleLabels(t *testing.T) {
	r, backend := newTestRenderer(t)
	blob := model.NewBlob(1, 1)
	if err := r.InitMesh(blob); err != nil {
		t.Fatal(err)
	}
	if blob.MeshProvider() == nil {
		t.Fatal("mesh provider not attached to the model")
	}
	if err := r.InitLabels([]string{"A", "B", "C"}); err != nil {
		t.Fatal(err)
	}

	if err := r.Render(testFrame()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := []drawRecord{
		{pipeline: blobPipelineKey, mesh: "blob Mesh", groups: []string{"Blob Uniforms", "Gradient Placeholder", "Environment"}},
		{pipeline: labelPipelineKey, mesh: "Label Mesh", groups: []string{"Label 0"}},
		{pipeline: labelPipelineKey, mesh: "Label Mesh", groups: []string{"Label 2"}},
	}
	if !reflect.DeepEqual(backend.draws, want) {
		t.Fatalf("draws = %+v", backend.draws)
	}
	if backend.begins != 1 || backend.ends != 1 || backend.presents != 1 {
		t.Fatalf("begin/end/present = %d/%d/%d", backend.begins, backend.ends, backend.presents)
	}
	if got := backend.clearColors[0]; got != (wgpu.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("clear color = %+v", got)
	}

	writes := backend.writes[0]
	if len(writes) != 3 {
		t.Fatalf("writes = %d, want blob + 2 labels", len(writes))
	}
	if len(writes[0].Data) != 128 || writes[0].Provider.Label() != "Blob Uniforms" {
		t.Errorf("blob write = %d bytes to %s", len(writes[0].Data), writes[0].Provider.Label())
	}
	if len(writes[1].Data) != 160 || len(writes[2].Data) != 160 {
		t.Errorf("label writes = %d, %d bytes", len(writes[1].Data), len(writes[2].Data))
	}
}

func TestRenderUsesPresetGradient(t *testing.T) {
	r, backend := newTestRenderer(t)
	if err := r.InitMesh(model.NewBlob(1, 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetGradient(1, common.SolidTexture(255, 0, 0, 255)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		preset int
		want   string
	}{
		{preset: 1, want: "Gradient 1"},
		{preset: 0, want: "Gradient Placeholder"},
	}
	for _, tt := range tests {
		backend.draws = nil
		f := testFrame()
		f.Preset = tt.preset
		if err := r.Render(f); err != nil {
			t.Fatal(err)
		}
		if got := backend.draws[0].groups[1]; got != tt.want {
			t.Errorf("preset %d gradient = %s, want %s", tt.preset, got, tt.want)
		}
	}

	// Replacing a gradient reuses its provider.
	if err := r.SetGradient(1, common.SolidTexture(0, 255, 0, 255)); err != nil {
		t.Fatal(err)
	}
	if backend.textures["Gradient 1"] != 2 {
		t.Errorf("gradient uploads = %d", backend.textures["Gradient 1"])
	}
}

func TestSetTexturesRejectEmpty(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.SetGradient(0, common.TextureStagingData{}); err == nil {
		t.Error("SetGradient accepted an empty texture")
	}
	if err := r.SetEnvironment(common.TextureStagingData{Width: 2, Height: 2}); err == nil {
		t.Error("SetEnvironment accepted a texture without pixels")
	}
	if err := r.SetEnvironment(common.SolidTexture(1, 2, 3, 255)); err != nil {
		t.Errorf("SetEnvironment: %v", err)
	}
}

func TestInitLabelsRejectsEmptyText(t *testing.T) {
	r, _ := newTestRenderer(t)
	if err := r.InitLabels([]string{"ok", ""}); err == nil {
		t.Fatal("expected error for empty label text")
	}
	if len(r.labels) != 0 {
		t.Fatalf("partial labels kept: %d", len(r.labels))
	}
}

func TestRenderBeginFrameError(t *testing.T) {
	r, backend := newTestRenderer(t)
	if err := r.InitMesh(model.NewBlob(1, 0)); err != nil {
		t.Fatal(err)
	}
	backend.beginErr = errors.New("surface lost")

	if err := r.Render(testFrame()); !errors.Is(err, backend.beginErr) {
		t.Fatalf("err = %v", err)
	}
	if len(backend.draws) != 0 || backend.ends != 0 || backend.presents != 0 {
		t.Fatal("frame continued after BeginFrame failed")
	}
}

func TestResizeIgnoresEmptySurface(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Resize(0, 300)
	r.Resize(640, -1)
	r.Resize(640, 480)
	if len(backend.configured) != 2 || backend.configured[1] != [2]int{640, 480} {
		t.Fatalf("configured = %v", backend.configured)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Release()
	r.Release()
	if backend.released != 1 {
		t.Fatalf("backend released %d times", backend.released)
	}
	if err := r.Render(testFrame()); !errors.Is(err, ErrReleased) {
		t.Errorf("Render err = %v", err)
	}
	if err := r.SetGradient(0, common.SolidTexture(0, 0, 0, 255)); !errors.Is(err, ErrReleased) {
		t.Errorf("SetGradient err = %v", err)
	}
	r.Resize(10, 10)
	if len(backend.configured) != 1 {
		t.Error("Resize reached the backend after Release")
	}
}

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUBlobUniformLayout(t *testing.T) {
	f := testFrame()
	f.CameraPosition = [3]float32{0, 0, 5}
	f.ViewProj[15] = 1
	f.Uniforms[uniform.Time] = 2.5
	f.Uniforms[uniform.Transmission] = 0.75

	u := NewGPUBlobUniform(f)
	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("len = %d", len(buf))
	}

	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{name: "viewProj[15]", offset: 60, want: 1},
		{name: "camera z", offset: 72, want: 5},
		{name: "time", offset: 76, want: 2.5},
		{name: "positionFrequency", offset: 80, want: float32(uniform.Defaults()[uniform.PositionFrequency])},
		{name: "transmission", offset: 124, want: 0.75},
	}
	for _, tt := range tests {
		if got := floatAt(buf, tt.offset); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestGPULabelUniformLayout(t *testing.T) {
	f := testFrame()
	f.Progress = 0.25
	f.Direction = -1
	l := scene.LabelInstance{Position: [3]float32{0, 1, 2}, Size: 0.5, Opacity: 0.4}

	u := NewGPULabelUniform(f, l, 3)
	buf := u.Marshal()
	if len(buf) != u.Size() {
		t.Fatalf("len = %d", len(buf))
	}

	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{name: "model scale x", offset: 64, want: 1.5},
		{name: "model scale y", offset: 64 + 5*4, want: 0.5},
		{name: "model translate y", offset: 64 + 13*4, want: 1},
		{name: "model translate z", offset: 64 + 14*4, want: 2},
		{name: "color r", offset: 128, want: 1},
		{name: "color a", offset: 140, want: 0.4},
		{name: "progress", offset: 144, want: 0.25},
		{name: "direction", offset: 148, want: -1},
		{name: "padding", offset: 152, want: 0},
	}
	for _, tt := range tests {
		if got := floatAt(buf, tt.offset); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewLabelStrip(t *testing.T) {
	vertices, indices := newLabelStrip(4)
	if len(vertices) != 10 || len(indices) != 24 {
		t.Fatalf("vertices = %d, indices = %d", len(vertices), len(indices))
	}
	for i := 0; i < len(indices); i += 3 {
		a, b, c := vertices[indices[i]].Position, vertices[indices[i+1]].Position, vertices[indices[i+2]].Position
		cross := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
		if cross <= 0 {
			t.Fatalf("triangle %d is not counter-clockwise", i/3)
		}
	}
	if vertices[0].TexCoord != [2]float32{0, 0} || vertices[9].TexCoord != [2]float32{1, 1} {
		t.Errorf("corner uvs = %v, %v", vertices[0].TexCoord, vertices[9].TexCoord)
	}
	if v, _ := newLabelStrip(0); len(v) != 4 {
		t.Errorf("zero segments gave %d vertices", len(v))
	}
}

func TestMSAASampleCountValid(t *testing.T) {
	for _, c := range []MSAASampleCount{MSAAOff, MSAA4x, MSAA8x, MSAA16x} {
		if !c.Valid() {
			t.Errorf("%d reported invalid", c)
		}
	}
	for _, c := range []MSAASampleCount{0, 2, 3, 32} {
		if c.Valid() {
			t.Errorf("%d reported valid", c)
		}
	}
}

func TestPresentModeString(t *testing.T) {
	if PresentModeVSync.String() != "vsync" || PresentModeUncapped.String() != "uncapped" {
		t.Fatalf("names = %s, %s", PresentModeVSync, PresentModeUncapped)
	}
	if got := PresentMode(7).String(); got != "PresentMode(7)" {
		t.Fatalf("unknown mode = %s", got)
	}
}
