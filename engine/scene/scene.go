package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/light"
	"github.com/Carmen-Shannon/oxy-stages/engine/mesh"
)

// ErrDuplicateName is returned when a named mesh or light collides with an existing entry.
var ErrDuplicateName = errors.New("scene: duplicate name")

type scene struct {
	mu *sync.RWMutex

	name string

	meshes       []mesh.Mesh
	meshesByName map[string]mesh.Mesh

	lights       []light.Light
	lightsByName map[string]light.Light

	background    common.Color
	hasBackground bool
}

// Scene is the container of everything drawn in one frame.
// Entries are appended during assembly and are never removed; the render loop only
// mutates the entries themselves.
type Scene interface {
	// Name returns the name of the scene.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// AddMesh appends a mesh. Meshes with an empty name are never indexed.
	//
	// Parameters:
	//   - m: the mesh to add (must not be nil)
	//
	// Returns:
	//   - error: ErrDuplicateName if a mesh with the same non-empty name already exists
	AddMesh(m mesh.Mesh) error

	// AddLight appends a light. Lights with an empty name are never indexed.
	//
	// Parameters:
	//   - l: the light to add (must not be nil)
	//
	// Returns:
	//   - error: ErrDuplicateName if a light with the same non-empty name already exists
	AddLight(l light.Light) error

	// Meshes returns a copy of the mesh list in insertion order.
	//
	// Returns:
	//   - []mesh.Mesh: the meshes
	Meshes() []mesh.Mesh

	// Lights returns a copy of the light list in insertion order.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Mesh looks up a mesh by name.
	//
	// Parameters:
	//   - name: the mesh name
	//
	// Returns:
	//   - mesh.Mesh: the mesh, or nil if not found
	Mesh(name string) mesh.Mesh

	// Light looks up a light by name.
	//
	// Parameters:
	//   - name: the light name
	//
	// Returns:
	//   - light.Light: the light, or nil if not found
	Light(name string) light.Light

	// Ambient returns the summed radiance of all enabled ambient lights.
	//
	// Returns:
	//   - [3]float32: the ambient term as (r, g, b)
	Ambient() [3]float32

	// Background returns the scene's clear color override.
	//
	// Returns:
	//   - common.Color: the background color
	//   - bool: false if the renderer's clear color should be used
	Background() (common.Color, bool)

	// SetBackground overrides the renderer's clear color for this scene.
	//
	// Parameters:
	//   - c: the background color
	SetBackground(c common.Color)
}

var _ Scene = &scene{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:           &sync.RWMutex{},
		name:         name,
		meshesByName: make(map[string]mesh.Mesh),
		lightsByName: make(map[string]light.Light),
	}

	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) AddMesh(m mesh.Mesh) error {
	if m == nil {
		panic("scene: AddMesh requires a non-nil Mesh")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name := m.Name(); name != "" {
		if _, ok := s.meshesByName[name]; ok {
			return fmt.Errorf("mesh %q: %w", name, ErrDuplicateName)
		}
		s.meshesByName[name] = m
	}
	s.meshes = append(s.meshes, m)
	return nil
}

func (s *scene) AddLight(l light.Light) error {
	if l == nil {
		panic("scene: AddLight requires a non-nil Light")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name := l.Name(); name != "" {
		if _, ok := s.lightsByName[name]; ok {
			return fmt.Errorf("light %q: %w", name, ErrDuplicateName)
		}
		s.lightsByName[name] = l
	}
	s.lights = append(s.lights, l)
	return nil
}

func (s *scene) Meshes() []mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]mesh.Mesh, len(s.meshes))
	copy(out, s.meshes)
	return out
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Mesh(name string) mesh.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meshesByName[name]
}

func (s *scene) Light(name string) light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lightsByName[name]
}

func (s *scene) Ambient() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return light.PackLights(s.lights).Ambient
}

func (s *scene) Background() (common.Color, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background, s.hasBackground
}

func (s *scene) SetBackground(c common.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
	s.hasBackground = true
}
