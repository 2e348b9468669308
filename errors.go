package present

import "errors"

// Errors returned by Renderer. They are wrapped with context; test for them
// with errors.Is.
var (
	// ErrNoAdapter is returned by Init when no backend is available or every
	// adapter it exposes is a software fallback.
	ErrNoAdapter = errors.New("present: no suitable adapter")

	// ErrFeatureLevel is returned by Init when the selected adapter cannot
	// provide the required limits or refuses to open a device.
	ErrFeatureLevel = errors.New("present: adapter does not meet the required feature level")

	// ErrSurface is returned when the presentation surface cannot be created
	// or configured.
	ErrSurface = errors.New("present: surface")

	// ErrShaderCompile is returned when an embedded shader fails to compile.
	ErrShaderCompile = errors.New("present: shader compilation failed")

	// ErrResource is returned when a GPU buffer, shader module or pipeline
	// cannot be created.
	ErrResource = errors.New("present: resource creation failed")

	// ErrFrame is returned by Render when a frame cannot be acquired,
	// encoded, submitted or presented.
	ErrFrame = errors.New("present: frame failed")

	// ErrInvalidDimensions is returned by Init for a zero width or height.
	ErrInvalidDimensions = errors.New("present: width and height must be positive")

	// ErrAlreadyInitialized is returned by Init on an initialized Renderer.
	ErrAlreadyInitialized = errors.New("present: already initialized")

	// ErrNotInitialized is returned by Resize and Render before Init.
	ErrNotInitialized = errors.New("present: not initialized")

	// ErrShutDown is returned by every operation after Shutdown.
	ErrShutDown = errors.New("present: renderer is shut down")
)
