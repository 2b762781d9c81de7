package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
	"github.com/Carmen-Shannon/oxy-stages/engine/scene"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
)

var (
	// ErrNotMounted is returned by Render before the renderer's surface is mounted on a host.
	ErrNotMounted = errors.New("renderer: surface not mounted")

	// ErrNotConfigured is returned by Render while the last surface configure has failed.
	ErrNotConfigured = errors.New("renderer: surface not configured")

	// ErrReleased is returned by every operation after Release.
	ErrReleased = errors.New("renderer: released")
)

// FrameStats summarizes the renderer's work.
type FrameStats struct {
	// Frames counts Render calls that reached the backend.
	Frames uint64
	// Skipped counts Render calls dropped because the surface had zero area.
	Skipped uint64
	// DrawCalls is the number of draw calls in the last frame.
	DrawCalls int
	// Triangles is the number of triangles in the last frame.
	Triangles int
	// TotalDrawCalls is the number of draw calls over all frames.
	TotalDrawCalls uint64
	// Uploads is the number of meshes with GPU resources.
	Uploads int
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// creation-time configuration collected from builder options
	antialias            bool
	clearColor           common.Color
	presentMode          PresentMode
	forceFallbackAdapter bool

	loader texture.Loader
	logger logging.Logger

	mounted  bool
	released bool
	width    int
	height   int

	// configErr holds the failure of the latest backend configure, nil once one succeeds.
	configErr error

	// index counts of uploaded meshes keyed by mesh ID
	uploaded map[string]int
	stats    FrameStats
}

// Renderer draws a scene from a camera onto a host-mounted surface.
//
// Configuration (antialiasing, clear color, present mode) is fixed at creation. The surface is
// attached exactly once by mounting the renderer on a host; after that only its size changes.
// All methods are safe to call from the host goroutine; Stats and Size may be called from any.
type Renderer interface {
	host.Surface

	// SetSize resizes the drawable surface. A zero area is recorded but not applied to the
	// backend until a non-zero size arrives; frames rendered meanwhile are skipped.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	SetSize(width, height int)

	// Size returns the last size set.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	Size() (int, int)

	// Render draws every enabled mesh of the scene as seen by the camera, one draw call per
	// mesh. Meshes are uploaded to the GPU the first time they are drawn.
	//
	// Parameters:
	//   - s: the scene to draw
	//   - cam: the viewpoint
	//
	// Returns:
	//   - error: ErrNotMounted before Mount, or the backend's error
	Render(s scene.Scene, cam camera.Camera) error

	// Antialias reports whether multisampling was requested at creation.
	Antialias() bool

	// ClearColor returns the color used to clear the surface when the scene has no background.
	ClearColor() common.Color

	// TextureLoader returns the loader that resolves material textures at upload time.
	TextureLoader() texture.Loader

	// Stats returns a snapshot of the renderer's counters.
	//
	// Returns:
	//   - FrameStats: the counters
	Stats() FrameStats

	// Release frees all backend resources. Subsequent calls to Render return ErrReleased.
	// Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type. No GPU work happens
// until the renderer is mounted on a host.
//
// Parameters:
//   - backendType: the type of rendering backend to use (WGPU or Headless)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		antialias:   true,
		clearColor:  common.Hex(0x000000),
		presentMode: PresentModeVSync,
		uploaded:    make(map[string]int),
	}

	for _, opt := range options {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger)
	if r.loader == nil {
		r.loader = texture.NewLoader(texture.WithLogger(r.logger))
	}

	cfg := backendConfig{
		sampleCount:          MSAAOff,
		presentMode:          r.presentMode,
		forceFallbackAdapter: r.forceFallbackAdapter,
	}
	if r.antialias {
		cfg.sampleCount = MSAA4x
	}

	switch backendType {
	case BackendTypeHeadless:
		r.backend = newHeadlessRendererBackend(cfg)
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(cfg, r.logger)
	}
	return r
}

func (r *renderer) Mount(h host.Host) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if r.mounted {
		return host.ErrSurfaceMounted
	}
	if err := r.backend.Attach(h); err != nil {
		return fmt.Errorf("failed to attach renderer surface: %w", err)
	}
	r.mounted = true
	r.logger.Debugf("renderer surface mounted")

	if r.width > 0 && r.height > 0 {
		return r.configure()
	}
	return nil
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width, r.height = width, height
	if !r.mounted || r.released || width <= 0 || height <= 0 {
		return
	}
	if err := r.configure(); err != nil {
		r.logger.Errorf("%v", err)
	}
}

// configure pushes the current size to the backend and records the outcome.
// The caller holds r.mu.
func (r *renderer) configure() error {
	r.configErr = nil
	if err := r.backend.Configure(r.width, r.height); err != nil {
		r.configErr = fmt.Errorf("failed to configure surface %dx%d: %w", r.width, r.height, err)
		return r.configErr
	}
	return nil
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrReleased
	}
	if !r.mounted {
		return ErrNotMounted
	}
	if r.width <= 0 || r.height <= 0 {
		r.stats.Skipped++
		return nil
	}
	if r.configErr != nil {
		return fmt.Errorf("%w: %w", ErrNotConfigured, r.configErr)
	}

	frame := &Frame{
		Index:    r.stats.Frames,
		Width:    r.width,
		Height:   r.height,
		Clear:    r.clearColor,
		Uniforms: newFrameUniforms(s, cam),
	}
	if bg, ok := s.Background(); ok {
		frame.Clear = bg
	}

	for _, m := range s.Meshes() {
		if !m.Enabled() {
			continue
		}
		indexCount, err := r.ensureUploaded(m)
		if err != nil {
			return err
		}
		frame.Draws = append(frame.Draws, DrawItem{
			MeshID:     m.ID(),
			IndexCount: indexCount,
			Uniforms:   newMeshUniforms(m),
		})
	}

	if err := r.backend.Draw(frame); err != nil {
		return fmt.Errorf("failed to draw frame %d: %w", frame.Index, err)
	}

	r.stats.Frames++
	r.stats.DrawCalls = len(frame.Draws)
	r.stats.Triangles = frame.Triangles()
	r.stats.TotalDrawCalls += uint64(len(frame.Draws))
	return nil
}

func (r *renderer) Antialias() bool {
	return r.antialias
}

func (r *renderer) ClearColor() common.Color {
	return r.clearColor
}

func (r *renderer) TextureLoader() texture.Loader {
	return r.loader
}

func (r *renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.stats
	stats.Uploads = len(r.uploaded)
	return stats
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.backend.Release()
	r.logger.Debugf("renderer released after %d frames", r.stats.Frames)
}

// ensureUploaded builds and uploads a mesh's geometry and textures on first use.
// The caller holds r.mu.
func (r *renderer) ensureUploaded(m mesh.Mesh) (int, error) {
	if n, ok := r.uploaded[m.ID()]; ok {
		return n, nil
	}

	assets := MeshAssets{
		Label: common.Coalesce(m.Name(), m.ID()),
		Data:  m.Geometry().Build(),
	}
	mat := m.Material()
	if src := mat.Map(); src != nil {
		data, err := r.loader.Load(*src)
		if err != nil {
			return 0, fmt.Errorf("mesh %s color map: %w", assets.Label, err)
		}
		assets.Map = data
	}
	if src := mat.NormalMap(); src != nil {
		data, err := r.loader.Load(*src)
		if err != nil {
			return 0, fmt.Errorf("mesh %s normal map: %w", assets.Label, err)
		}
		assets.NormalMap = data
	}

	if err := r.backend.Upload(m.ID(), assets); err != nil {
		return 0, fmt.Errorf("failed to upload mesh %s: %w", assets.Label, err)
	}
	n := len(assets.Data.Indices)
	r.uploaded[m.ID()] = n
	r.logger.Debugf("uploaded mesh %s: %d vertices, %d indices", assets.Label, len(assets.Data.Vertices), n)
	return n, nil
}
