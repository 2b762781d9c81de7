// Package engine wires a stage to a host: it assembles the scene, binds the viewport and runs
// the render loop until the host closes or a frame fails.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-stages/engine/animator"
	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/logging"
	"github.com/Carmen-Shannon/oxy-stages/engine/loop"
	"github.com/Carmen-Shannon/oxy-stages/engine/profiler"
	"github.com/Carmen-Shannon/oxy-stages/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stages/engine/scene"
	"github.com/Carmen-Shannon/oxy-stages/engine/stage"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/Carmen-Shannon/oxy-stages/engine/viewport"
)

// sceneContext implements the Context interface.
// Owns everything one running stage needs: assembly, binder and loop.
type sceneContext struct {
	host     host.Host
	renderer renderer.Renderer
	assembly *stage.Assembly
	binder   viewport.Binder
	loop     loop.Loop

	logger           logging.Logger
	loader           texture.Loader
	profiler         *profiler.Profiler
	profilingEnabled bool
	frameLimit       uint64

	teardownOnce *sync.Once
}

// Context is one stage running on one host. Several contexts may exist at once, each with its
// own host and renderer.
type Context interface {
	// Config returns the stage config the context was built from.
	Config() stage.Config

	// Host returns the host the stage runs on.
	Host() host.Host

	// Scene returns the assembled scene.
	Scene() scene.Scene

	// Camera returns the camera the scene is drawn from.
	Camera() camera.Camera

	// Renderer returns the renderer mounted on the host.
	Renderer() renderer.Renderer

	// Animator returns the animator advanced once per frame.
	Animator() animator.Animator

	// Binder returns the viewport binder keeping camera and renderer sized to the host.
	Binder() viewport.Binder

	// Loop returns the render loop handle.
	Loop() loop.Loop

	// Run pumps the host until ctx is done, the host closes or a frame fails. Must be called
	// on the goroutine that owns the host.
	//
	// Parameters:
	//   - ctx: cancels the run
	//
	// Returns:
	//   - error: the frame error that stopped the loop, ctx.Err() when cancelled, or nil
	Run(ctx context.Context) error

	// Teardown stops the loop and releases the renderer. Safe to call more than once and from
	// any goroutine.
	Teardown()
}

var _ Context = &sceneContext{}

// Setup assembles cfg, binds the renderer to h and starts the render loop. Frames run when the
// host is pumped, either by Run or, for headless hosts, by stepping it directly.
//
// Parameters:
//   - h: the host to run on
//   - r: an unmounted renderer
//   - cfg: the stage to build
//   - options: functional options
//
// Returns:
//   - Context: the running stage
//   - error: build, mount or start error
func Setup(h host.Host, r renderer.Renderer, cfg stage.Config, options ...ContextBuilderOption) (Context, error) {
	if h == nil || r == nil {
		panic("engine: Setup requires a host and a renderer")
	}

	c := &sceneContext{
		host:         h,
		renderer:     r,
		teardownOnce: &sync.Once{},
	}
	for _, opt := range options {
		opt(c)
	}
	c.logger = logging.OrNop(c.logger)
	if c.loader == nil {
		c.loader = r.TextureLoader()
	}

	assembly, err := stage.Build(cfg, c.loader)
	if err != nil {
		return nil, err
	}
	c.assembly = assembly
	c.logger.Infof("stage %q: %d meshes, %d lights, %d textures",
		cfg.Name, len(assembly.Scene.Meshes()), len(assembly.Scene.Lights()), assembly.Textures)

	c.binder = viewport.NewBinder(h, assembly.Camera, r, viewport.WithLogger(c.logger))
	if err := c.binder.Bind(); err != nil {
		return nil, err
	}

	loopOpts := []loop.LoopBuilderOption{loop.WithLogger(c.logger)}
	if c.profilingEnabled {
		if c.profiler == nil {
			c.profiler = profiler.NewProfiler(profiler.WithLogger(c.logger))
		}
		loopOpts = append(loopOpts, loop.WithProfiler(c.profiler))
	}
	c.loop = loop.NewLoop(h, c.frame, loopOpts...)
	if err := c.loop.Start(); err != nil {
		return nil, fmt.Errorf("failed to start render loop: %w", err)
	}
	return c, nil
}

// frame advances every animated mesh, then draws the scene.
func (c *sceneContext) frame(now time.Duration) error {
	c.assembly.Animator.Advance(now)
	if err := c.renderer.Render(c.assembly.Scene, c.assembly.Camera); err != nil {
		return err
	}
	if c.frameLimit > 0 && c.loop.Frames() >= c.frameLimit {
		c.loop.Stop()
	}
	return nil
}

func (c *sceneContext) Config() stage.Config {
	return c.assembly.Config
}

func (c *sceneContext) Host() host.Host {
	return c.host
}

func (c *sceneContext) Scene() scene.Scene {
	return c.assembly.Scene
}

func (c *sceneContext) Camera() camera.Camera {
	return c.assembly.Camera
}

func (c *sceneContext) Renderer() renderer.Renderer {
	return c.renderer
}

func (c *sceneContext) Animator() animator.Animator {
	return c.assembly.Animator
}

func (c *sceneContext) Binder() viewport.Binder {
	return c.binder
}

func (c *sceneContext) Loop() loop.Loop {
	return c.loop
}

func (c *sceneContext) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A stopped loop ends the host pump.
	go func() {
		select {
		case <-c.loop.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()

	err := c.host.Run(runCtx)
	if loopErr := c.loop.Err(); loopErr != nil {
		return fmt.Errorf("render loop stopped: %w", loopErr)
	}
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return nil
	}
	return err
}

func (c *sceneContext) Teardown() {
	c.teardownOnce.Do(func() {
		c.loop.Stop()
		c.renderer.Release()

		c.logger.Debugf("stage %q torn down after %d frames", c.assembly.Config.Name, c.loop.Frames())
	})
}
