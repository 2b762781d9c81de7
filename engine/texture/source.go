// Package texture resolves texture sources into RGBA pixel data ready for GPU upload.
package texture

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-stages/common"
)

// ProceduralKind names a generated texture pattern.
type ProceduralKind string

const (
	// ProceduralChecker is a two-color checkerboard.
	ProceduralChecker ProceduralKind = "checker"
	// ProceduralBricks is a running-bond brick pattern, ColorA bricks on ColorB mortar.
	ProceduralBricks ProceduralKind = "bricks"
	// ProceduralFlatNormal is a tangent-space normal map pointing straight out of the surface.
	ProceduralFlatNormal ProceduralKind = "flat-normal"
	// ProceduralBricksNormal is the normal map of ProceduralBricks with recessed mortar.
	ProceduralBricksNormal ProceduralKind = "bricks-normal"
)

// DefaultSize is the edge length of generated textures when Procedural.Size is unset.
const DefaultSize = 256

// Procedural describes a texture generated in memory instead of read from disk.
type Procedural struct {
	Kind   ProceduralKind `yaml:"kind" toml:"kind"`
	Size   int            `yaml:"size,omitempty" toml:"size,omitempty"`
	Cells  int            `yaml:"cells,omitempty" toml:"cells,omitempty"`
	ColorA common.Color   `yaml:"color_a,omitempty" toml:"color_a,omitempty"`
	ColorB common.Color   `yaml:"color_b,omitempty" toml:"color_b,omitempty"`
}

// Source identifies a texture by file path or procedural recipe. Exactly one of Path and
// Procedural is set.
type Source struct {
	Path       string      `yaml:"path,omitempty" toml:"path,omitempty"`
	Procedural *Procedural `yaml:"procedural,omitempty" toml:"procedural,omitempty"`
}

// FromPath returns a Source that reads an image file.
func FromPath(path string) Source {
	return Source{Path: path}
}

// FromProcedural returns a Source that generates a pattern.
func FromProcedural(p Procedural) Source {
	return Source{Procedural: &p}
}

// Validate reports whether the source names exactly one origin with a known pattern.
func (s Source) Validate() error {
	switch {
	case s.Path != "" && s.Procedural != nil:
		return fmt.Errorf("texture source sets both path %q and procedural", s.Path)
	case s.Path == "" && s.Procedural == nil:
		return fmt.Errorf("texture source is empty")
	case s.Procedural != nil:
		switch s.Procedural.Kind {
		case ProceduralChecker, ProceduralBricks, ProceduralFlatNormal, ProceduralBricksNormal:
		default:
			return fmt.Errorf("unknown procedural texture kind %q", s.Procedural.Kind)
		}
		if s.Procedural.Size < 0 || s.Procedural.Cells < 0 {
			return fmt.Errorf("procedural texture %q has negative dimensions", s.Procedural.Kind)
		}
	}
	return nil
}

// Key returns the cache key of the source. Equal recipes share a key.
func (s Source) Key() string {
	if s.Procedural == nil {
		return "file:" + s.Path
	}
	p := s.Procedural.withDefaults()
	return fmt.Sprintf("proc:%s:%d:%d:%s:%s", p.Kind, p.Size, p.Cells, p.ColorA, p.ColorB)
}

// Linear reports whether the data is non-color (normal maps) and must skip sRGB decoding.
func (s Source) Linear() bool {
	if s.Procedural != nil {
		return strings.HasSuffix(string(s.Procedural.Kind), "normal")
	}
	return strings.Contains(strings.ToLower(s.Path), "normal")
}
