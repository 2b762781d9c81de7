package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/animator"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlStage = `
name = "toml-cube"

[window]
width = 1920
height = 1080

[renderer]
antialias = false
clear_color = "#112233"
present_mode = "uncapped"

[camera]
fov = 60
position = [0, 0, 3]

[rate]
kind = "per-second"
reference_hz = 60

[[lights]]
name = "ambient"
kind = "ambient"
color = "#ffffff"
intensity = 0.5

[[meshes]]
name = "cube"
spin = [0, 0.02, 0]

[meshes.geometry]
kind = "box"

[meshes.material]
kind = "lambert"
color = "#ff0000"
`

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"basic-scene", "light-material", "textures"}, Names())
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("nope")
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestBuiltinStagesBuild(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Builtin(name)
			require.NoError(t, err)
			assert.Equal(t, name, cfg.Name)

			a, err := Build(cfg, texture.NewLoader())
			require.NoError(t, err)
			assert.NotEmpty(t, a.Scene.Meshes())
			assert.NotEmpty(t, a.Scene.Lights())
			assert.NotEmpty(t, a.Animator.Tracks())
		})
	}
}

func TestBasicScene(t *testing.T) {
	cfg, err := Builtin("basic-scene")
	require.NoError(t, err)
	a, err := Build(cfg, nil)
	require.NoError(t, err)

	cube := a.Scene.Mesh("cube")
	require.NotNil(t, cube)
	assert.Equal(t, mgl32.Vec3{}, cube.Position())
	assert.Equal(t, mgl32.Vec3{}, cube.Rotation())
	assert.Equal(t, material.KindStandard, cube.Material().Kind())
	assert.Equal(t, common.Hex(0x00ff00), cube.Material().Color())

	sun := a.Scene.Light("sun")
	require.NotNil(t, sun)
	assert.Equal(t, light.LightTypeDirectional, sun.Type())
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, sun.Position())
	assert.Equal(t, light.LightTypeAmbient, a.Scene.Light("ambient").Type())

	assert.Equal(t, mgl32.Vec3{0, 0, 5}, a.Camera.Position())
	assert.InDelta(t, 4.0/3.0, a.Camera.Aspect(), 1e-6)
	assert.InDelta(t, mgl32.DegToRad(75), a.Camera.Fov(), 1e-6)

	tracks := a.Animator.Tracks()
	require.Len(t, tracks, 1)
	assert.Equal(t, mgl32.Vec3{0.01, 0.01, 0}, tracks[0].Increment)
	assert.Equal(t, animator.RateTypeFixedStep, a.Animator.Rate().Type())
	assert.Len(t, cfg.RendererOptions(), 1)
}

func TestLightMaterialStage(t *testing.T) {
	cfg, err := Builtin("light-material")
	require.NoError(t, err)
	a, err := Build(cfg, nil)
	require.NoError(t, err)

	require.NotNil(t, cfg.Renderer.ClearColor)
	assert.Equal(t, common.Hex(0xeeeeee), *cfg.Renderer.ClearColor)

	ground := a.Scene.Mesh("ground")
	require.NotNil(t, ground)
	assert.InDelta(t, -1.5707964, ground.Rotation().X(), 1e-6)

	tracks := a.Animator.Tracks()
	require.Len(t, tracks, 2)
	assert.Equal(t, mgl32.Vec3{0, 0.01, 0}, tracks[0].Increment)
	assert.Equal(t, mgl32.Vec3{0, 0, 0.005}, tracks[1].Increment)
}

func TestTexturesStage(t *testing.T) {
	cfg, err := Builtin("textures")
	require.NoError(t, err)
	loader := texture.NewLoader()
	a, err := Build(cfg, loader)
	require.NoError(t, err)

	kinds := map[string]material.Kind{
		"standard": material.KindStandard,
		"phong":    material.KindPhong,
		"lambert":  material.KindLambert,
		"physical": material.KindPhysical,
	}
	for name, kind := range kinds {
		m := a.Scene.Mesh(name)
		require.NotNil(t, m, name)
		assert.Equal(t, kind, m.Material().Kind())
		require.NotNil(t, m.Material().Map(), name)
		assert.NotNil(t, loader.Get(m.Material().Map().Key()), "texture decoded during build")
	}
	assert.NotNil(t, a.Scene.Mesh("standard").Material().NormalMap())
	assert.Nil(t, a.Scene.Mesh("phong").Material().NormalMap())
	assert.InDelta(t, 1.0, a.Scene.Mesh("physical").Material().Clearcoat(), 1e-6)
	// ground checker, bricks, bricks-normal, blue checker
	assert.Equal(t, 4, a.Textures)
}

func TestBuildIsIndependentPerCall(t *testing.T) {
	cfg, err := Builtin("basic-scene")
	require.NoError(t, err)
	a, err := Build(cfg, nil)
	require.NoError(t, err)
	b, err := Build(cfg, nil)
	require.NoError(t, err)

	a.Animator.Advance(0)
	assert.Equal(t, mgl32.Vec3{0.01, 0.01, 0}, a.Scene.Mesh("cube").Rotation())
	assert.Equal(t, mgl32.Vec3{}, b.Scene.Mesh("cube").Rotation())
	assert.NotEqual(t, a.Scene.Mesh("cube").ID(), b.Scene.Mesh("cube").ID())
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse([]byte(tomlStage), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, "toml-cube", cfg.Name)
	require.NotNil(t, cfg.Renderer.Antialias)
	assert.False(t, *cfg.Renderer.Antialias)
	assert.Equal(t, common.Hex(0x112233), *cfg.Renderer.ClearColor)
	assert.Len(t, cfg.RendererOptions(), 3)
	assert.Equal(t, animator.RateTypePerSecond, cfg.AnimatorRate().Type())

	a, err := Build(cfg, nil)
	require.NoError(t, err)
	assert.InDelta(t, 16.0/9.0, a.Camera.Aspect(), 1e-6)
	assert.Equal(t, material.KindLambert, a.Scene.Mesh("cube").Material().Kind())
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\nbogus: 1\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("name = \"x\"\nbogus = 1\n"), FormatTOML)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Renderer: RendererConfig{PresentMode: "sometimes"},
		Rate:     RateConfig{Kind: "warp"},
		Lights:   []LightConfig{{Name: "spot", Kind: "spot"}},
		Meshes: []MeshConfig{
			{Name: "a", Geometry: GeometryConfig{Kind: "torus"}},
			{Name: "a", Geometry: GeometryConfig{Kind: "box"}, Material: MaterialConfig{Kind: "toon"}},
			{Name: "b", Geometry: GeometryConfig{Kind: "box"}, Material: MaterialConfig{Map: &texture.Source{}}},
		},
	}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"present mode", "rate", "spot", "torus", "duplicate", "toon", "map"} {
		assert.Contains(t, err.Error(), want)
	}

	_, err = Build(cfg, nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "cube.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(tomlStage), 0o644))
	cfg, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "toml-cube", cfg.Name)

	yamlPath := filepath.Join(dir, "unnamed.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("meshes:\n  - geometry:\n      kind: plane\n"), 0o644))
	cfg, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "unnamed", cfg.Name)

	_, err = Load(filepath.Join(dir, "stage.json"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildReportsTextureFailure(t *testing.T) {
	missing := texture.FromPath("missing.png")
	cfg := Config{
		Name: "broken",
		Meshes: []MeshConfig{{
			Name:     "quad",
			Geometry: GeometryConfig{Kind: "plane"},
			Material: MaterialConfig{Map: &missing},
		}},
	}
	_, err := Build(cfg, texture.NewLoader(texture.WithBaseDir(t.TempDir())))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
