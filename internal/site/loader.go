package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/LeonardoBeccarini/ecohydro/internal/model/entities"
)

// File is the YAML form of a site. Base names a preset to start from; any
// field present in the document overrides the preset value.
//
//	base: hawaii
//	name: hawaii-shallow
//	soil:
//	  depth: 150
type File struct {
	Base string `yaml:"base"`
}

// Parse decodes a YAML site document and validates the result.
func Parse(data []byte) (entities.Site, error) {
	var hdr File
	if err := yaml.Unmarshal(data, &hdr); err != nil {
		return entities.Site{}, fmt.Errorf("parse site: %w", err)
	}

	var s entities.Site
	if hdr.Base != "" {
		base, err := Preset(hdr.Base)
		if err != nil {
			return entities.Site{}, err
		}
		s = base
	}

	// decoding onto the preset keeps every field the document leaves out
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return entities.Site{}, fmt.Errorf("parse site: %w", err)
	}
	if s.Name == "" {
		s.Name = hdr.Base
	}
	if err := s.Validate(); err != nil {
		return entities.Site{}, err
	}
	return s, nil
}

// Load reads and parses a YAML site file.
func Load(path string) (entities.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Site{}, fmt.Errorf("read site file: %w", err)
	}
	return Parse(data)
}

// Resolve returns the site named by preset, or the one in path when path is
// set. Exactly one of the two should be given; path wins otherwise.
func Resolve(preset, path string) (entities.Site, error) {
	if path != "" {
		return Load(path)
	}
	if preset == "" {
		return entities.Site{}, fmt.Errorf("%w: no preset or site file given", ErrUnknownPreset)
	}
	s, err := Preset(preset)
	if err != nil {
		return entities.Site{}, err
	}
	return s, s.Validate()
}

// Marshal renders a site as YAML, the inverse of Parse without a base.
func Marshal(s entities.Site) ([]byte, error) {
	return yaml.Marshal(s)
}
