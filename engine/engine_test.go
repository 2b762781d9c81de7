package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/renderer"
	"github.com/Carmen-Shannon/oxy-stages/engine/stage"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBuiltin(t *testing.T, name string, h host.Host, opts ...ContextBuilderOption) Context {
	t.Helper()
	cfg, err := stage.Builtin(name)
	require.NoError(t, err)
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, cfg.RendererOptions()...)
	c, err := Setup(h, r, cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Teardown)
	return c
}

func assertVec3InDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "component %d", i)
	}
}

func TestBasicSceneOneFrame(t *testing.T) {
	h := host.NewHeadless(800, 600)
	c := setupBuiltin(t, "basic-scene", h)

	cube := c.Scene().Mesh("cube")
	require.NotNil(t, cube)
	assert.Equal(t, mgl32.Vec3{}, cube.Rotation())
	assert.Equal(t, uint64(0), c.Renderer().Stats().Frames)

	require.Equal(t, 1, h.Step())

	assertVec3InDelta(t, mgl32.Vec3{0.01, 0.01, 0}, cube.Rotation())
	stats := c.Renderer().Stats()
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, 1, stats.DrawCalls)
	assert.Equal(t, uint64(1), stats.TotalDrawCalls)
	assert.Equal(t, 1, h.Pending())
}

func TestBasicSceneManyFrames(t *testing.T) {
	h := host.NewHeadless(800, 600)
	c := setupBuiltin(t, "basic-scene", h)

	for i := 0; i < 100; i++ {
		h.Step()
	}
	cube := c.Scene().Mesh("cube")
	var want float32
	for i := 0; i < 100; i++ {
		want += 0.01
	}
	assert.Equal(t, mgl32.Vec3{want, want, 0}, cube.Rotation())
	assert.Equal(t, uint64(100), c.Loop().Frames())
	assert.Equal(t, uint64(100), c.Renderer().Stats().TotalDrawCalls)
}

func TestLightMaterialResize(t *testing.T) {
	h := host.NewHeadless(1024, 768)
	c := setupBuiltin(t, "light-material", h)

	assert.InDelta(t, 1024.0/768.0, c.Camera().Aspect(), 1e-6)
	w, hh := c.Renderer().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, hh)

	h.Step()
	sphere := c.Scene().Mesh("sphere")
	ground := c.Scene().Mesh("ground")
	sphereRot, groundRot := sphere.Rotation(), ground.Rotation()
	spherePos, groundPos := sphere.Position(), ground.Position()

	// the reactor alone leaves entities untouched
	h.Resize(640, 480)
	c.Binder().Sync()
	assert.Equal(t, sphereRot, sphere.Rotation())
	assert.Equal(t, groundRot, ground.Rotation())
	assert.Equal(t, spherePos, sphere.Position())
	assert.Equal(t, groundPos, ground.Position())

	assert.InDelta(t, 640.0/480.0, c.Camera().Aspect(), 1e-6)
	w, hh = c.Renderer().Size()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, hh)

	// the queued notification plus one frame: only the frame's spin is applied
	h.Step()
	assertVec3InDelta(t, sphereRot.Add(mgl32.Vec3{0, 0.01, 0}), sphere.Rotation())
	assertVec3InDelta(t, groundRot.Add(mgl32.Vec3{0, 0, 0.005}), ground.Rotation())
	assert.Equal(t, spherePos, sphere.Position())
	assert.InDelta(t, 640.0/480.0, c.Camera().Aspect(), 1e-6)
	assert.Equal(t, 2, c.Renderer().Stats().DrawCalls)
}

func TestTexturesStageDraws(t *testing.T) {
	h := host.NewHeadless(1024, 768)
	loader := texture.NewLoader()
	cfg, err := stage.Builtin("textures")
	require.NoError(t, err)
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, renderer.WithTextureLoader(loader))
	c, err := Setup(h, r, cfg, WithTextureLoader(loader))
	require.NoError(t, err)
	defer c.Teardown()

	h.Step()
	stats := r.Stats()
	assert.Equal(t, 5, stats.DrawCalls)
	assert.Equal(t, 5, stats.Uploads)
}

func TestSetupPreloadsIntoRendererLoader(t *testing.T) {
	h := host.NewHeadless(1024, 768)
	loader := texture.NewLoader()
	cfg, err := stage.Builtin("textures")
	require.NoError(t, err)
	r := renderer.NewRenderer(renderer.BackendTypeHeadless, renderer.WithTextureLoader(loader))
	c, err := Setup(h, r, cfg)
	require.NoError(t, err)
	defer c.Teardown()

	require.Same(t, loader, r.TextureLoader())
	maps := 0
	for _, m := range c.Scene().Meshes() {
		if src := m.Material().Map(); src != nil {
			assert.NotNil(t, loader.Get(src.Key()), m.Name())
			maps++
		}
	}
	assert.Equal(t, 5, maps)
}

func TestZeroAreaSkipsFrames(t *testing.T) {
	h := host.NewHeadless(800, 600)
	c := setupBuiltin(t, "basic-scene", h)

	h.Resize(0, 0)
	h.Step()

	stats := c.Renderer().Stats()
	assert.Equal(t, uint64(0), stats.Frames)
	assert.Equal(t, uint64(1), stats.Skipped)
	assert.True(t, c.Loop().Running())
	// animation keeps running while nothing is drawn
	assertVec3InDelta(t, mgl32.Vec3{0.01, 0.01, 0}, c.Scene().Mesh("cube").Rotation())
}

func TestRunFrameLimit(t *testing.T) {
	h := host.NewHeadless(800, 600, host.WithRefreshRate(1000), host.WithFrameLimit(5))
	c := setupBuiltin(t, "basic-scene", h)

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint64(5), c.Loop().Frames())
}

func TestRunStopsOnRenderError(t *testing.T) {
	h := host.NewHeadless(800, 600, host.WithRefreshRate(1000))
	c := setupBuiltin(t, "basic-scene", h)
	c.Renderer().Release()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := c.Run(ctx)
	assert.ErrorIs(t, err, renderer.ErrReleased)
	assert.False(t, c.Loop().Running())
	assert.Equal(t, uint64(1), c.Loop().Frames())
	assert.Equal(t, 0, h.Pending())
}

func TestRunCancelled(t *testing.T) {
	h := host.NewHeadless(800, 600, host.WithRefreshRate(1000))
	c := setupBuiltin(t, "basic-scene", h)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
}

func TestTeardownStopsRun(t *testing.T) {
	h := host.NewHeadless(800, 600, host.WithRefreshRate(1000))
	c := setupBuiltin(t, "basic-scene", h)

	go func() {
		time.Sleep(20 * time.Millisecond)
		c.Teardown()
	}()
	assert.NoError(t, c.Run(context.Background()))
}

func TestTeardown(t *testing.T) {
	h := host.NewHeadless(800, 600)
	c := setupBuiltin(t, "basic-scene", h)
	h.Step()

	c.Teardown()
	c.Teardown()

	assert.False(t, c.Loop().Running())
	assert.Equal(t, 0, h.Pending())
	assert.Equal(t, 0, h.Step())
	assert.ErrorIs(t, c.Renderer().Render(c.Scene(), c.Camera()), renderer.ErrReleased)
}

func TestSetupErrors(t *testing.T) {
	_, err := Setup(host.NewHeadless(1, 1), renderer.NewRenderer(renderer.BackendTypeHeadless), stage.Config{
		Meshes: []stage.MeshConfig{{Geometry: stage.GeometryConfig{Kind: "torus"}}},
	})
	assert.Error(t, err)

	h := host.NewHeadless(800, 600)
	require.NoError(t, h.Mount(renderer.NewRenderer(renderer.BackendTypeHeadless)))
	cfg, err := stage.Builtin("basic-scene")
	require.NoError(t, err)
	_, err = Setup(h, renderer.NewRenderer(renderer.BackendTypeHeadless), cfg)
	assert.ErrorIs(t, err, host.ErrSurfaceMounted)
}

func TestContextsAreIndependent(t *testing.T) {
	h1 := host.NewHeadless(800, 600)
	h2 := host.NewHeadless(1920, 1080)
	c1 := setupBuiltin(t, "basic-scene", h1)
	c2 := setupBuiltin(t, "basic-scene", h2)

	h1.Step()
	h1.Step()
	h2.Step()

	assert.Equal(t, uint64(2), c1.Loop().Frames())
	assert.Equal(t, uint64(1), c2.Loop().Frames())
	assert.InDelta(t, 4.0/3.0, c1.Camera().Aspect(), 1e-6)
	assert.InDelta(t, 16.0/9.0, c2.Camera().Aspect(), 1e-6)
	assert.NotEqual(t, c1.Scene().Mesh("cube").Rotation(), c2.Scene().Mesh("cube").Rotation())
}

func TestFrameLimitStopsLoop(t *testing.T) {
	h := host.NewHeadless(800, 600, host.WithRefreshRate(1000))
	c := setupBuiltin(t, "basic-scene", h, WithFrameLimit(3))

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, uint64(3), c.Loop().Frames())
	assert.Equal(t, uint64(3), c.Renderer().Stats().Frames)
	assert.NoError(t, c.Loop().Err())
}
