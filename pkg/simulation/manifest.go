package simulation

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest describes a simulation and its parameters, loaded from
// simulation.yaml
type Manifest struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Version     string      `yaml:"version"`
	Category    string      `yaml:"category"`
	Parameters  []Parameter `yaml:"parameters"`
}

// Parameter defines a configurable parameter for a simulation
type Parameter struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"` // integer, float, string, duration, boolean
	Description string      `yaml:"description"`
	Default     interface{} `yaml:"default"`
	Required    bool        `yaml:"required"`
	Min         interface{} `yaml:"min,omitempty"`
	Max         interface{} `yaml:"max,omitempty"`
	Options     []string    `yaml:"options,omitempty"` // For string enums
}

var parameterTypes = map[string]bool{
	"integer":  true,
	"float":    true,
	"string":   true,
	"duration": true,
	"boolean":  true,
}

// ParseManifest decodes and validates a simulation.yaml document
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse simulation manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for missing names and unknown parameter types
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("simulation name is required")
	}

	seen := make(map[string]bool, len(m.Parameters))
	for _, p := range m.Parameters {
		if p.Name == "" {
			return fmt.Errorf("parameter name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate parameter %s", p.Name)
		}
		seen[p.Name] = true
		if !parameterTypes[p.Type] {
			return fmt.Errorf("parameter %s has unsupported type %q", p.Name, p.Type)
		}
	}
	return nil
}

// Defaults returns every parameter's default converted to its declared type
func (m *Manifest) Defaults() (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(m.Parameters))
	for _, p := range m.Parameters {
		if p.Default == nil {
			continue
		}
		v, err := p.Coerce(p.Default)
		if err != nil {
			return nil, fmt.Errorf("invalid default for %s: %w", p.Name, err)
		}
		params[p.Name] = v
	}
	return params, nil
}

// Coerce converts a decoded YAML value to the parameter's Go type
func (p Parameter) Coerce(value interface{}) (interface{}, error) {
	switch p.Type {
	case "integer":
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			return int(v), nil
		}
	case "float":
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	case "string":
		if v, ok := value.(string); ok {
			return v, nil
		}
	case "boolean":
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case "duration":
		switch v := value.(type) {
		case time.Duration:
			return v, nil
		case string:
			return time.ParseDuration(v)
		}
	}
	return nil, fmt.Errorf("cannot use %v (%T) as %s", value, value, p.Type)
}
