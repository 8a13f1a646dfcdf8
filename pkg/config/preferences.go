package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDirName is the per-user directory under $HOME
const AppDirName = ".air-raid"

// Endpoint is a named live feed the CLI can query
type Endpoint struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

// Preferences holds CLI state that outlives a single run
type Preferences struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	Selected  string     `yaml:"selected,omitempty"`
}

// AppDir returns $HOME/.air-raid
func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, AppDirName), nil
}

// PreferencesPath returns the location of the CLI preferences file
func PreferencesPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadPreferences loads preferences from the default location
func LoadPreferences() (*Preferences, error) {
	path, err := PreferencesPath()
	if err != nil {
		return nil, err
	}
	return LoadPreferencesFromFile(path)
}

// LoadPreferencesFromFile loads preferences from path, returning defaults
// when the file does not exist
func LoadPreferencesFromFile(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultPreferences(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}

// SavePreferencesToFile writes preferences to path, creating its directory
func SavePreferencesToFile(prefs *Preferences, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Endpoint returns the named endpoint, or the selected one when name is empty
func (p *Preferences) Endpoint(name string) (Endpoint, error) {
	if name == "" {
		name = p.Selected
	}
	if name == "" && len(p.Endpoints) > 0 {
		return p.Endpoints[0], nil
	}
	for _, e := range p.Endpoints {
		if e.Name == name {
			return e, nil
		}
	}
	return Endpoint{}, fmt.Errorf("endpoint %q not found", name)
}

func defaultPreferences() *Preferences {
	return &Preferences{
		Endpoints: []Endpoint{
			{Name: "local", Address: "localhost:8080"},
		},
		Selected: "local",
	}
}
