package light

import (
	"github.com/Carmen-Shannon/oxy-stages/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeAmbient lights every surface equally regardless of orientation.
	LightTypeAmbient LightType = iota

	// LightTypeDirectional represents a distant source such as the sun. Its position only
	// fixes the direction: light travels from the position toward the origin.
	LightTypeDirectional
)

// String returns the configuration name of the type.
func (t LightType) String() string {
	switch t {
	case LightTypeAmbient:
		return "ambient"
	case LightTypeDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	id        string
	name      string
	lightType LightType
	position  mgl32.Vec3
	color     common.Color
	intensity float32
	enabled   bool
}

// Light defines the interface for a light source in the scene.
//
// Lights are added to the scene once during assembly and packed into the per-frame
// uniform buffer by the renderer via the gpu_types helpers.
type Light interface {
	// ID returns the unique identifier assigned at creation.
	//
	// Returns:
	//   - string: a random UUID
	ID() string

	// Name returns the light's configured name, which may be empty.
	Name() string

	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: ambient or directional
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for ambient lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Direction returns the normalized direction the light travels, from its position
	// toward the origin. Returns the zero vector for ambient lights and for a directional
	// light placed at the origin.
	//
	// Returns:
	//   - mgl32.Vec3: the normalized direction
	Direction() mgl32.Vec3

	// Color returns the light color.
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	Intensity() float32

	// Radiance returns the color premultiplied by the intensity.
	//
	// Returns:
	//   - [3]float32: color * intensity as (r, g, b)
	Radiance() [3]float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - pos: the new position
	SetPosition(pos mgl32.Vec3)

	// SetColor sets the light color.
	SetColor(c common.Color)

	// SetIntensity sets the scalar intensity multiplier.
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light for rendering.
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with white color, intensity 1 and any
// provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		id:        uuid.NewString(),
		lightType: lightType,
		color:     common.Hex(0xffffff),
		intensity: 1.0,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAmbient is shorthand for an ambient light with the given color and intensity.
func NewAmbient(c common.Color, intensity float32, opts ...LightBuilderOption) Light {
	return NewLight(LightTypeAmbient, append([]LightBuilderOption{WithColor(c), WithIntensity(intensity)}, opts...)...)
}

// NewDirectional is shorthand for a directional light shining from pos toward the origin.
func NewDirectional(c common.Color, intensity float32, pos mgl32.Vec3, opts ...LightBuilderOption) Light {
	return NewLight(LightTypeDirectional, append([]LightBuilderOption{WithColor(c), WithIntensity(intensity), WithPosition(pos)}, opts...)...)
}

func (l *lightImpl) ID() string {
	return l.id
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	if l.lightType != LightTypeDirectional || l.position.Len() == 0 {
		return mgl32.Vec3{}
	}
	return l.position.Mul(-1).Normalize()
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Radiance() [3]float32 {
	return l.color.Scale(l.intensity).RGB()
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(pos mgl32.Vec3) {
	l.position = pos
}

func (l *lightImpl) SetColor(c common.Color) {
	l.color = c
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
