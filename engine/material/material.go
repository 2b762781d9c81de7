// Package material describes how a mesh surface responds to light.
package material

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/Carmen-Shannon/oxy-stages/engine/texture"
)

// Kind selects the shading model.
type Kind string

const (
	// KindBasic ignores lights.
	KindBasic Kind = "basic"
	// KindLambert is diffuse-only shading.
	KindLambert Kind = "lambert"
	// KindPhong adds a Blinn-Phong specular term.
	KindPhong Kind = "phong"
	// KindStandard is metallic-roughness shading.
	KindStandard Kind = "standard"
	// KindPhysical is KindStandard plus a clearcoat layer.
	KindPhysical Kind = "physical"
)

// Kinds lists every shading model in GPU index order.
var Kinds = []Kind{KindBasic, KindLambert, KindPhong, KindStandard, KindPhysical}

// ParseKind validates a shading model name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown material kind %q", s)
}

// Index returns the shader-side identifier of the kind, or -1 if unknown.
func (k Kind) Index() int {
	for i, known := range Kinds {
		if k == known {
			return i
		}
	}
	return -1
}

// Lit reports whether the kind responds to scene lights.
func (k Kind) Lit() bool {
	return k != KindBasic
}

type materialImpl struct {
	name string
	kind Kind

	color    common.Color
	emissive common.Color

	shininess float32
	roughness float32
	metalness float32
	clearcoat float32

	colorMap  *texture.Source
	normalMap *texture.Source
}

// Material is an immutable shading descriptor attached to a mesh.
type Material interface {
	// Name returns the material's identifier.
	Name() string

	// Kind returns the shading model.
	Kind() Kind

	// Color returns the base (diffuse / albedo) color.
	Color() common.Color

	// Emissive returns the color emitted independent of lighting.
	Emissive() common.Color

	// Shininess returns the Blinn-Phong exponent used by KindPhong.
	Shininess() float32

	// Roughness returns the microfacet roughness used by KindStandard and KindPhysical.
	Roughness() float32

	// Metalness returns the metallic factor used by KindStandard and KindPhysical.
	Metalness() float32

	// Clearcoat returns the clearcoat layer strength used by KindPhysical.
	Clearcoat() float32

	// Map returns the color texture source, or nil.
	Map() *texture.Source

	// NormalMap returns the tangent-space normal map source, or nil.
	NormalMap() *texture.Source
}

var _ Material = &materialImpl{}

// NewMaterial creates a Material. Defaults follow common three.js values: white, standard,
// roughness 1, metalness 0, shininess 30.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &materialImpl{
		kind:      KindStandard,
		color:     common.Hex(0xffffff),
		emissive:  common.Color{A: 1},
		shininess: 30,
		roughness: 1,
		metalness: 0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *materialImpl) Name() string {
	return m.name
}

func (m *materialImpl) Kind() Kind {
	return m.kind
}

func (m *materialImpl) Color() common.Color {
	return m.color
}

func (m *materialImpl) Emissive() common.Color {
	return m.emissive
}

func (m *materialImpl) Shininess() float32 {
	return m.shininess
}

func (m *materialImpl) Roughness() float32 {
	return m.roughness
}

func (m *materialImpl) Metalness() float32 {
	return m.metalness
}

func (m *materialImpl) Clearcoat() float32 {
	return m.clearcoat
}

func (m *materialImpl) Map() *texture.Source {
	return m.colorMap
}

func (m *materialImpl) NormalMap() *texture.Source {
	return m.normalMap
}
