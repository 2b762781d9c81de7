package renderer

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. It must be mounted on a host
	// that provides a WebGPU surface descriptor, such as a window.Window.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless selects a backend that performs no GPU work and only records what
	// would have been drawn. It mounts on any host.
	BackendTypeHeadless
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. Selected by WithAntialias(true).
	MSAA4x MSAASampleCount = 4
)

// MeshAssets is the CPU-side data a backend needs to create GPU resources for one mesh.
type MeshAssets struct {
	// Label names the mesh in GPU debug labels.
	Label string
	// Data is the built geometry.
	Data geometry.Data
	// Map is the color texture, or nil for the 1x1 white default.
	Map *common.TextureStagingData
	// NormalMap is the tangent-space normal map, or nil for the 1x1 flat default.
	NormalMap *common.TextureStagingData
}

// backendConfig is the creation-time configuration handed to a backend.
type backendConfig struct {
	sampleCount          MSAASampleCount
	presentMode          PresentMode
	forceFallbackAdapter bool
}

// RendererBackend is the interface every backend implements. The Renderer serializes all
// calls; backends need no locking of their own beyond what their API requires.
type RendererBackend interface {
	// Attach binds the backend to the host's drawable surface.
	//
	// Parameters:
	//   - h: the host being mounted on
	//
	// Returns:
	//   - error: error if the host cannot provide a surface for this backend
	Attach(h host.Host) error

	// Configure resizes the drawable surface and any size-dependent attachments.
	//
	// Parameters:
	//   - width: the new width in pixels, greater than zero
	//   - height: the new height in pixels, greater than zero
	//
	// Returns:
	//   - error: error if the surface cannot be configured
	Configure(width, height int) error

	// Upload creates GPU resources for a mesh the first time it is drawn.
	//
	// Parameters:
	//   - id: the mesh ID used to reference the resources in later frames
	//   - assets: the mesh's geometry and textures
	//
	// Returns:
	//   - error: error if resource creation fails
	Upload(id string, assets MeshAssets) error

	// Draw encodes, submits and presents one frame.
	//
	// Parameters:
	//   - frame: the prepared frame; every DrawItem's mesh has been uploaded
	//
	// Returns:
	//   - error: error if the frame could not be drawn
	Draw(frame *Frame) error

	// Release frees every resource held by the backend. The backend is unusable afterwards.
	Release()
}
