package renderer

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/camera"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/host"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
	"github.com/Carmen-Shannon/oxy-stages/engine/scene"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(t *testing.T, meshes ...mesh.Mesh) scene.Scene {
	t.Helper()
	s := scene.NewScene("test")
	for _, m := range meshes {
		require.NoError(t, s.AddMesh(m))
	}
	return s
}

func newCube(name string) mesh.Mesh {
	return mesh.NewMesh(geometry.NewBox(1, 1, 1), material.NewMaterial(), mesh.WithName(name))
}

func newMounted(t *testing.T, w, h int, opts ...RendererBuilderOption) (Renderer, *host.Headless) {
	t.Helper()
	hst := host.NewHeadless(w, h)
	r := NewRenderer(BackendTypeHeadless, opts...)
	require.NoError(t, hst.Mount(r))
	r.SetSize(w, h)
	return r, hst
}

func backendOf(r Renderer) *headlessRendererBackendImpl {
	return r.(*renderer).backend.(*headlessRendererBackendImpl)
}

func TestRenderBeforeMount(t *testing.T) {
	r := NewRenderer(BackendTypeHeadless)
	err := r.Render(newTestScene(t), camera.NewCamera())
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestMountOnce(t *testing.T) {
	r, hst := newMounted(t, 800, 600)
	assert.ErrorIs(t, hst.Mount(r), host.ErrSurfaceMounted)
	assert.ErrorIs(t, r.Mount(host.NewHeadless(1, 1)), host.ErrSurfaceMounted)
}

func TestMountConfiguresPendingSize(t *testing.T) {
	r := NewRenderer(BackendTypeHeadless)
	r.SetSize(640, 480)
	require.NoError(t, r.Mount(host.NewHeadless(640, 480)))

	b := backendOf(r)
	assert.Equal(t, 640, b.width)
	assert.Equal(t, 480, b.height)
	assert.Equal(t, 1, b.resizes)
}

func TestRenderOneDrawCallPerMesh(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	s := newTestScene(t, newCube("a"), newCube("b"))

	require.NoError(t, r.Render(s, camera.NewCamera()))

	stats := r.Stats()
	assert.Equal(t, uint64(1), stats.Frames)
	assert.Equal(t, 2, stats.DrawCalls)
	assert.Equal(t, 24, stats.Triangles)
	assert.Equal(t, 2, stats.Uploads)
}

func TestRenderSkipsDisabledMeshes(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	hidden := newCube("hidden")
	hidden.SetEnabled(false)
	s := newTestScene(t, newCube("shown"), hidden)

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, 1, r.Stats().DrawCalls)
	assert.Equal(t, 1, r.Stats().Uploads)
}

func TestRenderUploadsOnce(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	s := newTestScene(t, newCube("cube"))
	cam := camera.NewCamera()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Render(s, cam))
	}

	stats := r.Stats()
	assert.Equal(t, uint64(5), stats.Frames)
	assert.Equal(t, uint64(5), stats.TotalDrawCalls)
	assert.Equal(t, 1, stats.Uploads)
	assert.Len(t, backendOf(r).meshes, 1)
}

func TestRenderSkipsZeroArea(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	r.SetSize(0, 0)

	require.NoError(t, r.Render(newTestScene(t, newCube("cube")), camera.NewCamera()))
	stats := r.Stats()
	assert.Equal(t, uint64(0), stats.Frames)
	assert.Equal(t, uint64(1), stats.Skipped)

	w, h := r.Size()
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, h)
	// zero area is never pushed to the backend
	assert.Equal(t, 800, backendOf(r).width)
}

func TestSetSizeReconfiguresBackend(t *testing.T) {
	r, _ := newMounted(t, 1024, 768)
	r.SetSize(640, 480)

	b := backendOf(r)
	assert.Equal(t, 640, b.width)
	assert.Equal(t, 480, b.height)
	assert.Equal(t, 2, b.resizes)
}

func TestFailedReconfigureBlocksRender(t *testing.T) {
	r, _ := newMounted(t, 1024, 768)
	s := newTestScene(t, newCube("cube"))
	cam := camera.NewCamera()
	require.NoError(t, r.Render(s, cam))

	oom := errors.New("out of memory")
	backendOf(r).configureErr = oom
	r.SetSize(640, 480)

	err := r.Render(s, cam)
	require.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, err, oom)
	assert.Equal(t, uint64(1), r.Stats().Frames)

	backendOf(r).configureErr = nil
	r.SetSize(640, 480)
	require.NoError(t, r.Render(s, cam))
	assert.Equal(t, uint64(2), r.Stats().Frames)
	assert.Equal(t, 640, backendOf(r).width)
}

func TestHeadlessBackendDrawRequiresConfigure(t *testing.T) {
	b := newHeadlessRendererBackend(backendConfig{})
	require.NoError(t, b.Attach(host.NewHeadless(8, 8)))
	assert.EqualError(t, b.Draw(&Frame{}), "surface not configured")

	b.configureErr = errors.New("lost device")
	assert.Error(t, b.Configure(8, 8))
	assert.EqualError(t, b.Draw(&Frame{}), "surface not configured")

	b.configureErr = nil
	require.NoError(t, b.Configure(8, 8))
	assert.NoError(t, b.Draw(&Frame{}))
}

func TestClearColor(t *testing.T) {
	r, _ := newMounted(t, 800, 600, WithClearColor(common.Hex(0x112233)))
	cam := camera.NewCamera()

	require.NoError(t, r.Render(newTestScene(t), cam))
	assert.Equal(t, common.Hex(0x112233), backendOf(r).lastFrame.Clear)

	s := scene.NewScene("bg", scene.WithBackground(common.Hex(0xff0000)))
	require.NoError(t, r.Render(s, cam))
	assert.Equal(t, common.Hex(0xff0000), backendOf(r).lastFrame.Clear)
}

func TestAntialiasSelectsSampleCount(t *testing.T) {
	on := NewRenderer(BackendTypeHeadless)
	assert.True(t, on.Antialias())
	assert.Equal(t, MSAA4x, backendOf(on).cfg.sampleCount)

	off := NewRenderer(BackendTypeHeadless, WithAntialias(false))
	assert.False(t, off.Antialias())
	assert.Equal(t, MSAAOff, backendOf(off).cfg.sampleCount)
}

func TestRenderResolvesTextures(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	mat := material.NewMaterial(
		material.WithMap(texture.FromProcedural(texture.Procedural{Kind: texture.ProceduralChecker, Size: 8})),
		material.WithNormalMap(texture.FromProcedural(texture.Procedural{Kind: texture.ProceduralFlatNormal, Size: 8})),
	)
	m := mesh.NewMesh(geometry.NewPlane(2, 2), mat)

	require.NoError(t, r.Render(newTestScene(t, m), camera.NewCamera()))

	assets := backendOf(r).meshes[m.ID()]
	require.NotNil(t, assets.Map)
	require.NotNil(t, assets.NormalMap)
	assert.Equal(t, uint32(8), assets.Map.Width)
	assert.True(t, assets.NormalMap.Linear)

	draw := backendOf(r).lastFrame.Draws[0]
	assert.True(t, draw.Uniforms.HasMap)
	assert.True(t, draw.Uniforms.HasNormalMap)
}

func TestRenderTextureFailure(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	mat := material.NewMaterial(material.WithMap(texture.FromPath("does/not/exist.png")))
	err := r.Render(newTestScene(t, mesh.NewMesh(geometry.NewPlane(1, 1), mat)), camera.NewCamera())
	assert.Error(t, err)
	assert.Equal(t, 0, r.Stats().Uploads)
}

func TestRelease(t *testing.T) {
	r, _ := newMounted(t, 800, 600)
	r.Release()
	r.Release()

	assert.ErrorIs(t, r.Render(newTestScene(t), camera.NewCamera()), ErrReleased)
	assert.ErrorIs(t, r.Mount(host.NewHeadless(1, 1)), ErrReleased)
}

func TestFrameUniformsLayout(t *testing.T) {
	u := FrameUniforms{
		ViewProj:  mgl32.Ident4(),
		CameraPos: mgl32.Vec3{1, 2, 3},
		Lights: light.PackLights([]light.Light{
			light.NewAmbient(common.Hex(0xffffff), 0.5),
		}),
	}
	buf := u.Marshal()
	require.Len(t, buf, FrameUniformsSize)
	assert.Equal(t, 240, FrameUniformsSize)

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(1), f32(0))
	assert.Equal(t, float32(1), f32(20))
	assert.Equal(t, float32(1), f32(64))
	assert.Equal(t, float32(3), f32(72))
	assert.InDelta(t, 0.5, f32(80), 1e-6)
}

func TestMeshUniformsLayout(t *testing.T) {
	m := mesh.NewMesh(geometry.NewBox(1, 1, 1), material.NewMaterial(
		material.WithKind(material.KindPhong),
		material.WithColor(common.Hex(0xff0000)),
		material.WithShininess(64),
	), mesh.WithPosition(mgl32.Vec3{4, 5, 6}))

	u := newMeshUniforms(m)
	buf := u.Marshal()
	require.Len(t, buf, MeshUniformsSize)

	f32 := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	u32 := func(off int) uint32 { return binary.LittleEndian.Uint32(buf[off:]) }

	// translation lives in the last column of the model matrix
	assert.Equal(t, float32(4), f32(48))
	assert.Equal(t, float32(6), f32(56))
	// identity normal matrix, one vec4 per column
	assert.Equal(t, float32(1), f32(64))
	assert.Equal(t, float32(1), f32(84))
	assert.Equal(t, float32(1), f32(104))
	assert.Equal(t, float32(1), f32(112))
	assert.Equal(t, float32(0), f32(116))
	assert.Equal(t, uint32(material.KindPhong.Index()), u32(140))
	assert.Equal(t, float32(64), f32(144))
	assert.Equal(t, uint32(0), u32(160))
	assert.Equal(t, uint32(0), u32(164))
}

func TestLitShaderEmbedded(t *testing.T) {
	assert.Contains(t, LitShaderSource, "fn vs_main")
	assert.Contains(t, LitShaderSource, "fn fs_main")
}
