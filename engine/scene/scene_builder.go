package scene

import (
	"github.com/Carmen-Shannon/oxy-blob/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithName sets the scene's identifier.
//
// Parameters:
//   - name: the scene name
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithName(name string) SceneBuilderOption {
	return func(s *scene) {
		s.name = name
	}
}

// WithBlob sets the blob model instead of building the default icosphere.
//
// Parameters:
//   - m: the blob model
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBlob(m model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.blob = m
	}
}
