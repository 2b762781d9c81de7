package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/geometry"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/material"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(name string) mesh.Mesh {
	return mesh.NewMesh(geometry.NewBox(1, 1, 1), material.NewMaterial(), mesh.WithName(name))
}

func TestAddAndLookup(t *testing.T) {
	s := NewScene("stage")
	a, b, anon := cube("a"), cube("b"), cube("")

	require.NoError(t, s.AddMesh(a))
	require.NoError(t, s.AddMesh(b))
	require.NoError(t, s.AddMesh(anon))
	require.NoError(t, s.AddMesh(cube("")))

	assert.Equal(t, "stage", s.Name())
	assert.Len(t, s.Meshes(), 4)
	assert.Same(t, a, s.Mesh("a"))
	assert.Same(t, b, s.Mesh("b"))
	assert.Nil(t, s.Mesh("missing"))
	assert.Nil(t, s.Mesh(""))
}

func TestDuplicateNames(t *testing.T) {
	s := NewScene("stage")
	require.NoError(t, s.AddMesh(cube("a")))
	assert.ErrorIs(t, s.AddMesh(cube("a")), ErrDuplicateName)
	assert.Len(t, s.Meshes(), 1)

	require.NoError(t, s.AddLight(light.NewAmbient(common.Hex(0x404040), 1, light.WithName("fill"))))
	assert.ErrorIs(t, s.AddLight(light.NewAmbient(common.Hex(0x404040), 1, light.WithName("fill"))), ErrDuplicateName)
}

func TestMeshesReturnsCopy(t *testing.T) {
	s := NewScene("stage", WithMeshes(cube("a")))
	list := s.Meshes()
	list[0] = nil
	assert.NotNil(t, s.Meshes()[0])
}

func TestAmbientSumsEnabledAmbientLights(t *testing.T) {
	sun := light.NewDirectional(common.Hex(0xffffff), 1, mgl32.Vec3{5, 5, 5}, light.WithName("sun"))
	s := NewScene("stage", WithLights(
		light.NewAmbient(common.Hex(0xffffff), 0.25),
		light.NewAmbient(common.Hex(0xffffff), 0.5),
		sun,
	))

	assert.Equal(t, [3]float32{0.75, 0.75, 0.75}, s.Ambient())
	assert.Same(t, sun, s.Light("sun"))
	assert.Len(t, s.Lights(), 3)
}

func TestBackground(t *testing.T) {
	s := NewScene("stage")
	_, ok := s.Background()
	assert.False(t, ok)

	s.SetBackground(common.Hex(0xeeeeee))
	c, ok := s.Background()
	assert.True(t, ok)
	assert.Equal(t, common.Hex(0xeeeeee), c)

	c, ok = NewScene("other", WithBackground(common.Hex(0x000000))).Background()
	assert.True(t, ok)
	assert.Equal(t, common.Hex(0x000000), c)
}

func TestWithMeshesPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() { NewScene("stage", WithMeshes(cube("a"), cube("a"))) })
}
