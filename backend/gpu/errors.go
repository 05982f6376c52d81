package gpu

import (
	"errors"

	"github.com/inkcore/strokes/backend"
)

// Sentinel errors for the GPU backend, grounded on
// backend/native/errors.go's package-level error set in the teacher.
var (
	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = backend.ErrNotInitialized

	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("gpu: no GPU adapter available")

	// ErrDeviceLost is returned after the device has been lost; the
	// caller must discard this Backend and construct a new one.
	ErrDeviceLost = backend.ErrDeviceLost

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("gpu: invalid dimensions")
)
