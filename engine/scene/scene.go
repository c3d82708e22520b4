package scene

import (
	"github.com/Carmen-Shannon/oxy-blob/engine/camera"
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
	"github.com/Carmen-Shannon/oxy-blob/engine/transition"
	"github.com/Carmen-Shannon/oxy-blob/engine/uniform"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultBlobDetail is the icosphere subdivision used when no blob model is supplied.
const DefaultBlobDetail = 70

// LabelInstance is the per-frame render state of one preset label.
type LabelInstance struct {
	// Index is the preset index the label names.
	Index int
	// Text is the preset name.
	Text string
	// Position is the label center in world space.
	Position [3]float32
	// Size is the world-space glyph height.
	Size float32
	// Opacity is the crossfade alpha in [0, 1].
	Opacity float32
}

// Frame is an immutable snapshot of everything the renderer needs to draw one frame.
// It is built on the frame thread after the tween scheduler has advanced.
type Frame struct {
	// Time is the clock reading the frame was built at, in seconds.
	Time float64
	// Background is the clear color.
	Background colorful.Color
	// Uniforms is a copy of the shader parameter values.
	Uniforms map[string]float64
	// ViewProj is the camera view-projection matrix, column-major.
	ViewProj [16]float32
	// CameraPosition is the eye position in world space.
	CameraPosition [3]float32
	// Labels holds one instance per preset, in catalog order.
	Labels []LabelInstance
	// Preset is the settled preset index whose gradient texture colors the blob.
	Preset int
	// Progress is the crossfade progress, 0 when no transition is running.
	Progress float64
	// Direction is the direction of the most recent transition, -1 or +1.
	Direction int
}

// scene is the implementation of the Scene interface.
type scene struct {
	name     string
	cam      camera.Camera
	ctrl     transition.Controller
	uniforms uniform.State
	blob     model.Model
}

// Scene groups the camera, the transition controller, the shader parameters and the blob
// mesh, and snapshots them into a Frame once per tick.
// Not safe for concurrent use; all access happens on the frame thread.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Controller returns the transition controller driving preset changes.
	Controller() transition.Controller

	// Uniforms returns the shader parameter state.
	Uniforms() uniform.State

	// Blob returns the blob model drawn at the origin.
	Blob() model.Model

	// Snapshot captures the current state into a Frame.
	//
	// Parameters:
	//   - now: the clock reading for this frame, in seconds
	//
	// Returns:
	//   - Frame: the frame snapshot
	Snapshot(now float64) Frame
}

var _ Scene = &scene{}

// NewScene creates a Scene from its collaborators.
// Panics if any collaborator is nil.
//
// Parameters:
//   - cam: the camera
//   - ctrl: the transition controller
//   - uniforms: the shader parameter state the controller writes presets into
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(cam camera.Camera, ctrl transition.Controller, uniforms uniform.State, options ...SceneBuilderOption) Scene {
	if cam == nil || ctrl == nil || uniforms == nil {
		panic("scene: camera, controller and uniforms are required")
	}
	s := &scene{
		name:     "blob",
		cam:      cam,
		ctrl:     ctrl,
		uniforms: uniforms,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.blob == nil {
		s.blob = model.NewBlob(1, DefaultBlobDetail)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Controller() transition.Controller {
	return s.ctrl
}

func (s *scene) Uniforms() uniform.State {
	return s.uniforms
}

func (s *scene) Blob() model.Model {
	return s.blob
}

func (s *scene) Snapshot(now float64) Frame {
	st := s.ctrl.State()
	labels := s.ctrl.Labels()

	f := Frame{
		Time:           now,
		Background:     s.ctrl.Background(),
		Uniforms:       s.uniforms.Values(),
		ViewProj:       s.cam.ViewProjectionMatrix(),
		CameraPosition: s.cam.Position(),
		Labels:         make([]LabelInstance, len(labels)),
		Preset:         st.CurrentIndex,
		Progress:       st.Progress,
		Direction:      st.Direction,
	}
	for i, l := range labels {
		f.Labels[i] = LabelInstance{
			Index:    i,
			Text:     l.Text,
			Position: l.Position,
			Size:     l.Size,
			Opacity:  l.Opacity,
		}
	}
	return f
}

// VisibleLabels returns the labels with a non-zero opacity.
func (f Frame) VisibleLabels() []LabelInstance {
	var out []LabelInstance
	for _, l := range f.Labels {
		if l.Opacity > 0 {
			out = append(out, l)
		}
	}
	return out
}
