package stage

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a stage file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownStage is returned when a built-in stage name does not exist.
var ErrUnknownStage = errors.New("stage: unknown stage")

//go:embed stages/*.yaml
var builtinFS embed.FS

// FormatFromPath picks the encoding from a file extension.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Format: the encoding
//   - error: error if the extension is not .yaml, .yml or .toml
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported stage file extension %q", filepath.Ext(path))
	}
}

// Parse decodes and validates a stage config. Unknown fields are rejected.
//
// Parameters:
//   - data: the encoded config
//   - format: the encoding
//
// Returns:
//   - Config: the decoded config
//   - error: decode or validation error
func Parse(data []byte, format Format) (Config, error) {
	var cfg Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode yaml stage: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode toml stage: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported stage format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid stage %q: %w", cfg.Name, err)
	}
	return cfg, nil
}

// Load reads a stage config from a .yaml, .yml or .toml file. A missing name defaults to the
// file's base name.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - Config: the decoded config
//   - error: read, decode or validation error
func Load(path string) (Config, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read stage file: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cfg, nil
}

// Names lists the built-in stages in stage order.
func Names() []string {
	entries, err := fs.ReadDir(builtinFS, "stages")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, builtinName(e.Name()))
	}
	return names
}

// Builtin returns an embedded stage by name, e.g. "basic-scene".
//
// Parameters:
//   - name: the stage name
//
// Returns:
//   - Config: the stage config
//   - error: ErrUnknownStage if no such stage exists
func Builtin(name string) (Config, error) {
	entries, err := fs.ReadDir(builtinFS, "stages")
	if err != nil {
		return Config{}, err
	}
	for _, e := range entries {
		if builtinName(e.Name()) != norm(name) {
			continue
		}
		data, err := builtinFS.ReadFile("stages/" + e.Name())
		if err != nil {
			return Config{}, err
		}
		return Parse(data, FormatYAML)
	}
	return Config{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownStage, name, strings.Join(Names(), ", "))
}

// builtinName strips the numeric ordering prefix and extension: "01_basic-scene.yaml" -> "basic-scene".
func builtinName(file string) string {
	base := strings.TrimSuffix(file, filepath.Ext(file))
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[i+1:]
	}
	return base
}
