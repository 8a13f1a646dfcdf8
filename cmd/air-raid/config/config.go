package config

import (
	"fmt"
	"math/rand"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
)

// Settings holds the complete air raid configuration
type Settings struct {
	// Core gameplay settings
	SpeedMultiplier          float64        `yaml:"speed_multiplier"`
	MultipleAirplanesEnabled bool           `yaml:"multiple_airplanes_enabled"`
	AutoStartEnabled         bool           `yaml:"auto_start_enabled"`
	SpawnCooldownSeconds     float64        `yaml:"spawn_cooldown_seconds"`
	Behavior                 BehaviorConfig `yaml:"behavior"`

	// Virtual screen
	Screen ScreenConfig `yaml:"screen"`

	// Tick loop settings
	Simulation SimulationSettings `yaml:"simulation"`

	// Sprite frame counts
	Animation AnimationConfig `yaml:"animation"`

	// Snapshot feed
	Feed FeedConfig `yaml:"feed"`

	// Replay recording
	Replay ReplayConfig `yaml:"replay"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// BehaviorConfig toggles optional raider and wing behaviors
type BehaviorConfig struct {
	HoldingPatterns     bool `yaml:"holding_patterns"`
	CircularOrbiting    bool `yaml:"circular_orbiting"`
	EscapeRoutes        bool `yaml:"escape_routes"`
	VariableFlightPaths bool `yaml:"variable_flight_paths"`
}

// ScreenConfig is the virtual screen size in units
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// SimulationSettings holds tick loop settings
type SimulationSettings struct {
	TickRate int   `yaml:"tick_rate"` // ticks per second
	Seed     int64 `yaml:"seed"`      // 0 picks a random seed
}

// AnimationConfig holds sprite sheet frame counts
type AnimationConfig struct {
	FlyFrames       int `yaml:"fly_frames"`
	ExplosionFrames int `yaml:"explosion_frames"`
}

// FeedConfig defines the websocket snapshot feed
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// ReplayConfig defines replay recording
type ReplayConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	EveryNTicks int    `yaml:"every_n_ticks"`
}

// LoggingConfig defines logging and reporting settings
type LoggingConfig struct {
	Level        string `yaml:"level"` // "debug", "info", "warn", "error"
	NoColor      bool   `yaml:"no_color"`
	ReportDir    string `yaml:"report_dir"`
	EnableReport bool   `yaml:"enable_report"`
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks if the settings are valid
func (s *Settings) Validate() error {
	if s.SpeedMultiplier <= 0 || s.SpeedMultiplier > 10 {
		return fmt.Errorf("speed multiplier must be in (0, 10], got %.2f", s.SpeedMultiplier)
	}

	if s.SpawnCooldownSeconds < 0 {
		return fmt.Errorf("spawn cooldown must not be negative")
	}

	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive")
	}

	if s.Simulation.TickRate < 1 || s.Simulation.TickRate > 240 {
		return fmt.Errorf("tick rate must be between 1 and 240, got %d", s.Simulation.TickRate)
	}

	if s.Animation.FlyFrames <= 0 || s.Animation.ExplosionFrames <= 0 {
		return fmt.Errorf("animation frame counts must be positive")
	}

	if s.Feed.Enabled && s.Feed.Address == "" {
		return fmt.Errorf("feed address is required when the feed is enabled")
	}

	if s.Replay.Enabled && s.Replay.Path == "" {
		return fmt.Errorf("replay path is required when replay is enabled")
	}

	if s.Replay.EveryNTicks < 0 {
		return fmt.Errorf("replay frame interval must not be negative")
	}

	if s.Logging.Level != "" && !isValid(s.Logging.Level, validLevels) {
		return fmt.Errorf("unknown log level %q", s.Logging.Level)
	}

	return nil
}

// String returns a human-readable representation of the settings
func (s *Settings) String() string {
	return fmt.Sprintf(`Air Raid Settings:
  Speed Multiplier: %.2f
  Multiple Airplanes: %t
  Auto Start: %t
  Spawn Cooldown: %.1fs

Behavior:
  Holding Patterns: %t
  Circular Orbiting: %t
  Escape Routes: %t
  Variable Flight Paths: %t

Simulation:
  Screen: %.0fx%.0f
  Tick Rate: %d Hz
  Seed: %d

Feed:
  Enabled: %t
  Address: %s

Replay:
  Enabled: %t
  Path: %s

Logging:
  Level: %s
  Report Enabled: %t
  Report Dir: %s`,
		s.SpeedMultiplier,
		s.MultipleAirplanesEnabled,
		s.AutoStartEnabled,
		s.SpawnCooldownSeconds,
		s.Behavior.HoldingPatterns,
		s.Behavior.CircularOrbiting,
		s.Behavior.EscapeRoutes,
		s.Behavior.VariableFlightPaths,
		s.Screen.Width,
		s.Screen.Height,
		s.Simulation.TickRate,
		s.Simulation.Seed,
		s.Feed.Enabled,
		s.Feed.Address,
		s.Replay.Enabled,
		s.Replay.Path,
		s.Logging.Level,
		s.Logging.EnableReport,
		s.Logging.ReportDir,
	)
}

// GetDefaultSettings returns the stock settings
func GetDefaultSettings() *Settings {
	return &Settings{
		SpeedMultiplier:          1.0,
		MultipleAirplanesEnabled: true,
		AutoStartEnabled:         false,
		SpawnCooldownSeconds:     2.5,
		Behavior: BehaviorConfig{
			HoldingPatterns:     true,
			CircularOrbiting:    true,
			EscapeRoutes:        true,
			VariableFlightPaths: true,
		},

		Screen: ScreenConfig{
			Width:  1920,
			Height: 1080,
		},

		Simulation: SimulationSettings{
			TickRate: 60,
			Seed:     0,
		},

		Animation: AnimationConfig{
			FlyFrames:       4,
			ExplosionFrames: 8,
		},

		Feed: FeedConfig{
			Enabled: false,
			Address: ":8080",
		},

		Replay: ReplayConfig{
			Enabled:     false,
			Path:        "./replays/session.airraid",
			EveryNTicks: 1,
		},

		Logging: LoggingConfig{
			Level:        "info",
			NoColor:      false,
			ReportDir:    "./reports/",
			EnableReport: true,
		},
	}
}

// TickInterval returns the simulated seconds per tick
func (s *Settings) TickInterval() float64 {
	if s.Simulation.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1.0 / float64(s.Simulation.TickRate)
}

// ToWorldOptions converts the settings into simulation core options
func (s *Settings) ToWorldOptions() core.Options {
	opts := core.DefaultOptions()
	opts.Screen = core.Vec2{X: s.Screen.Width, Y: s.Screen.Height}
	opts.SpeedMultiplier = s.SpeedMultiplier
	opts.MultipleRaiders = s.MultipleAirplanesEnabled
	opts.AutoStart = s.AutoStartEnabled
	opts.SpawnCooldown = s.SpawnCooldownSeconds
	opts.Behavior = core.Behavior{
		HoldingPatterns:     s.Behavior.HoldingPatterns,
		CircularOrbiting:    s.Behavior.CircularOrbiting,
		EscapeRoutes:        s.Behavior.EscapeRoutes,
		VariableFlightPaths: s.Behavior.VariableFlightPaths,
	}
	opts.FlyFrames = s.Animation.FlyFrames
	opts.ExplosionFrames = s.Animation.ExplosionFrames

	opts.Seed = s.Simulation.Seed
	if opts.Seed == 0 {
		opts.Seed = rand.Int63()
	}
	return opts
}

func isValid(value string, valid []string) bool {
	for _, v := range valid {
		if value == v {
			return true
		}
	}
	return false
}
