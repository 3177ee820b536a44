package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyPayload   = errors.New("payload is empty")
	ErrInvalidPayload = errors.New("payload is not valid JSON or YAML")
)

// ParseFile reads path and decodes it with ParsePayload. YAML is only
// attempted for .yaml/.yml files.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ParsePayload(data, ext == ".yaml" || ext == ".yml")
}

// ParsePayload decodes raw bytes into generic values: objects become
// map[string]any, arrays []any.
func ParsePayload(data []byte, allowYAML bool) (any, error) {
	trimmed := bytes.TrimLeft(data, "\ufeff\n\r\t ")
	if len(trimmed) == 0 {
		return nil, ErrEmptyPayload
	}

	var payload any
	jsonErr := json.Unmarshal(trimmed, &payload)
	if jsonErr == nil {
		return payload, nil
	}
	if !allowYAML {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, jsonErr)
	}

	if err := yaml.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return normalizeYAML(payload), nil
}

// normalizeYAML converts yaml.v3 output so it matches what encoding/json
// produces: map[string]any everywhere and float64 numbers.
func normalizeYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return v
	}
}
