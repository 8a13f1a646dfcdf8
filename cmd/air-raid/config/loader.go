package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

// DefaultFileName is the settings file looked up in the working directory
const DefaultFileName = "air-raid.yaml"

// UserSettingsPath returns $HOME/.air-raid/settings.yaml
func UserSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".air-raid", "settings.yaml"), nil
}

// LoadSettings loads settings from a YAML file. Fields missing from the
// file keep their default values.
func LoadSettings(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("settings file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading settings file: %w", err)
	}

	settings := GetDefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("error parsing settings file: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return settings, nil
}

// LoadSettingsOrDefault loads settings from path or the default locations,
// falling back to defaults. Environment overrides are always applied.
func LoadSettingsOrDefault(path string) (*Settings, error) {
	var settings *Settings
	var err error

	if path != "" {
		settings, err = LoadSettings(path)
		if err != nil {
			logger.Warnf("Could not load settings from %s: %v", path, err)
			settings = nil
		}
	}

	if settings == nil {
		defaultPaths := []string{DefaultFileName}
		if userPath, err := UserSettingsPath(); err == nil {
			defaultPaths = append(defaultPaths, userPath)
		}

		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				settings, err = LoadSettings(p)
				if err == nil {
					logger.Debugf("Loaded settings from: %s", p)
					break
				}
				logger.Warnf("Ignoring settings file %s: %v", p, err)
			}
		}
	}

	if settings == nil {
		logger.Debug("Using default settings")
		settings = GetDefaultSettings()
	}

	MergeWithEnvironment(settings)

	return settings, nil
}

// SaveSettings saves settings to a YAML file
func SaveSettings(settings *Settings, path string) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing settings file: %w", err)
	}

	return nil
}

// MergeWithCLIOverrides applies simulation parameter overrides to the settings
func MergeWithCLIOverrides(settings *Settings, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "speed_multiplier":
			if speed, ok := value.(float64); ok && speed > 0 && speed <= 10 {
				settings.SpeedMultiplier = speed
			}
		case "spawn_cooldown":
			if cooldown, ok := value.(float64); ok && cooldown >= 0 {
				settings.SpawnCooldownSeconds = cooldown
			}
		case "multiple_airplanes":
			if enabled, ok := value.(bool); ok {
				settings.MultipleAirplanesEnabled = enabled
			}
		case "auto_start":
			if enabled, ok := value.(bool); ok {
				settings.AutoStartEnabled = enabled
			}
		case "seed":
			switch seed := value.(type) {
			case int:
				settings.Simulation.Seed = int64(seed)
			case int64:
				settings.Simulation.Seed = seed
			}
		case "tick_rate":
			if rate, ok := value.(int); ok && rate > 0 {
				settings.Simulation.TickRate = rate
			}
		case "feed_enabled":
			if enabled, ok := value.(bool); ok {
				settings.Feed.Enabled = enabled
			}
		case "feed_address":
			if addr, ok := value.(string); ok && addr != "" {
				settings.Feed.Address = addr
			}
		case "record_replay":
			if enabled, ok := value.(bool); ok {
				settings.Replay.Enabled = enabled
			}
		case "replay_path":
			if path, ok := value.(string); ok && path != "" {
				settings.Replay.Path = path
			}
		case "enable_report":
			if enabled, ok := value.(bool); ok {
				settings.Logging.EnableReport = enabled
			}
		case "log_level":
			if level, ok := value.(string); ok && isValid(strings.ToLower(level), validLevels) {
				settings.Logging.Level = strings.ToLower(level)
			}
		}
	}
}

// LoadSettingsWithOverrides loads settings and applies both environment and CLI overrides
func LoadSettingsWithOverrides(path string, cliOverrides map[string]interface{}) (*Settings, error) {
	settings, err := LoadSettingsOrDefault(path)
	if err != nil {
		return nil, err
	}

	if cliOverrides != nil {
		MergeWithCLIOverrides(settings, cliOverrides)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings validation failed after overrides: %w", err)
	}

	return settings, nil
}

// MergeWithEnvironment merges settings with AIRRAID_ environment variables.
// Unparseable values are ignored.
func MergeWithEnvironment(settings *Settings) {
	if speed := os.Getenv("AIRRAID_SPEED_MULTIPLIER"); speed != "" {
		if v, err := strconv.ParseFloat(speed, 64); err == nil && v > 0 && v <= 10 {
			settings.SpeedMultiplier = v
		}
	}

	if cooldown := os.Getenv("AIRRAID_SPAWN_COOLDOWN"); cooldown != "" {
		if v, err := strconv.ParseFloat(cooldown, 64); err == nil && v >= 0 {
			settings.SpawnCooldownSeconds = v
		}
	}

	if multiple := os.Getenv("AIRRAID_MULTIPLE_AIRPLANES"); multiple != "" {
		if v, err := strconv.ParseBool(multiple); err == nil {
			settings.MultipleAirplanesEnabled = v
		}
	}

	if autoStart := os.Getenv("AIRRAID_AUTO_START"); autoStart != "" {
		if v, err := strconv.ParseBool(autoStart); err == nil {
			settings.AutoStartEnabled = v
		}
	}

	if seed := os.Getenv("AIRRAID_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			settings.Simulation.Seed = v
		}
	}

	if addr := os.Getenv("AIRRAID_FEED_ADDRESS"); addr != "" {
		settings.Feed.Address = addr
	}

	if path := os.Getenv("AIRRAID_REPLAY_PATH"); path != "" {
		settings.Replay.Path = path
	}

	if level := os.Getenv("AIRRAID_LOG_LEVEL"); level != "" {
		if isValid(strings.ToLower(level), validLevels) {
			settings.Logging.Level = strings.ToLower(level)
		}
	}
}
