package themes

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/violetshores/vac-themes/assets"
	"github.com/violetshores/vac-themes/internal/models"
)

type registryFile struct {
	Default string         `yaml:"default"`
	Themes  []models.Theme `yaml:"themes"`
}

// ParseRegistry decodes a YAML theme registry and validates it.
// Unknown keys are rejected so typos in the data file fail at load time.
func ParseRegistry(r io.Reader) (*Registry, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file registryFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoThemes
		}
		return nil, fmt.Errorf("parse themes file: %w", err)
	}

	return NewRegistry(file.Default, file.Themes)
}

// LoadRegistryFile reads a registry from disk.
func LoadRegistryFile(path string) (*Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open themes file: %w", err)
	}
	defer file.Close()

	return ParseRegistry(file)
}

// LoadEmbeddedRegistry returns the registry bundled with the binary.
func LoadEmbeddedRegistry() (*Registry, error) {
	file, err := assets.ThemesFS.Open(assets.ThemesPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded themes file: %w", err)
	}
	defer file.Close()

	return ParseRegistry(file)
}

// LoadRegistry uses path when set, otherwise the embedded registry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return LoadEmbeddedRegistry()
	}
	return LoadRegistryFile(path)
}
