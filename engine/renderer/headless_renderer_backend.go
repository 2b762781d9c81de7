package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-stages/engine/host"
)

type headlessRendererBackendImpl struct {
	cfg backendConfig

	attached   bool
	configured bool
	width      int
	height     int

	// configureErr, when set, fails every Configure call.
	configureErr error

	meshes    map[string]MeshAssets
	frames    uint64
	lastFrame *Frame
	resizes   int
}

var _ RendererBackend = &headlessRendererBackendImpl{}

func newHeadlessRendererBackend(cfg backendConfig) *headlessRendererBackendImpl {
	return &headlessRendererBackendImpl{
		cfg:    cfg,
		meshes: make(map[string]MeshAssets),
	}
}

func (b *headlessRendererBackendImpl) Attach(h host.Host) error {
	if h == nil {
		return errors.New("nil host")
	}
	b.attached = true
	return nil
}

func (b *headlessRendererBackendImpl) Configure(width, height int) error {
	b.configured = false
	b.resizes++
	if b.configureErr != nil {
		return b.configureErr
	}
	b.width, b.height = width, height
	b.configured = true
	return nil
}

func (b *headlessRendererBackendImpl) Upload(id string, assets MeshAssets) error {
	if len(assets.Data.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a triangle list", len(assets.Data.Indices))
	}
	b.meshes[id] = assets
	return nil
}

func (b *headlessRendererBackendImpl) Draw(frame *Frame) error {
	if !b.attached {
		return errors.New("surface not attached")
	}
	if !b.configured {
		return errors.New("surface not configured")
	}
	for _, d := range frame.Draws {
		if _, ok := b.meshes[d.MeshID]; !ok {
			return fmt.Errorf("mesh %s was not uploaded", d.MeshID)
		}
	}
	b.frames++
	b.lastFrame = frame
	return nil
}

func (b *headlessRendererBackendImpl) Release() {
	b.meshes = make(map[string]MeshAssets)
	b.lastFrame = nil
}
