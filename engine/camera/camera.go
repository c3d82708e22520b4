package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-blob/common"
)

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera is a fixed perspective camera looking at the blob.
// It recomputes its matrices whenever a setting changes, so the getters are always current.
type Camera interface {
	// Position returns the camera's world-space position.
	Position() [3]float32

	// ViewProjectionMatrix returns the combined view-projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio; values <= 0 or non-finite are ignored
	SetAspect(aspect float32)

	// Resize sets the aspect ratio from viewport dimensions.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - bool: false if either dimension is zero or negative, in which case nothing changes
	Resize(width, height int) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a 75 degree field of view placed three units in front of the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{0, 0, 3},
		up:       [3]float32{0, 1, 0},
		fov:      75.0 * (math.Pi / 180.0), // radians
		aspect:   1.0,
		near:     0.1,
		far:      1000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math.IsInf(float64(aspect), 0) || math.IsNaN(float64(aspect)) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	c.SetAspect(float32(width) / float32(height))
	return true
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex, except during construction.
func (c *cameraImpl) updateMatrices() {
	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)

	common.Perspective(c.projectionMatrix[:],
		c.fov, c.aspect, c.near, c.far,
	)

	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
