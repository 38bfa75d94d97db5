package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/archscore/internal/model"
)

// Format is a catalog document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks a format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Decode parses a catalog document.
func Decode(data []byte, f Format) (*model.Catalog, error) {
	var cat model.Catalog
	switch f {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cat); err != nil {
			return nil, fmt.Errorf("decode toml catalog: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cat); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cat); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", f)
	}
	return &cat, nil
}

// Encode serializes a catalog document.
func Encode(cat *model.Catalog, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(cat); err != nil {
			return nil, fmt.Errorf("encode toml catalog: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cat); err != nil {
			return nil, fmt.Errorf("encode yaml catalog: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml catalog: %w", err)
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cat); err != nil {
			return nil, fmt.Errorf("encode json catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown catalog format %q", f)
	}
	return buf.Bytes(), nil
}
