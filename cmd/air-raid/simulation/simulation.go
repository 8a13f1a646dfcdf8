package simulation

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/config"
	"github.com/picogrid/air-raid-simulation/cmd/air-raid/controllers"
	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/cmd/air-raid/reporting"
	"github.com/picogrid/air-raid-simulation/pkg/feed"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
	"github.com/picogrid/air-raid-simulation/pkg/replay"
	"github.com/picogrid/air-raid-simulation/pkg/simulation"
)

//go:embed simulation.yaml
var manifestYAML []byte

const (
	// statusEvery is how many ticks pass between metric samples and raider traces
	statusEvery = 60

	// progressEvery is how many ticks pass between fast-forward progress lines
	progressEvery = 30 * statusEvery
)

// AirRaidSimulation runs the air raid core under a tick loop with optional
// autopilot, feed and replay recording
type AirRaidSimulation struct {
	config   SimulationConfig
	settings *config.Settings

	world      *core.World
	queue      *core.InputQueue
	autopilot  *controllers.RaidController
	combatLog  *reporting.CombatLogger
	feedServer *feed.Server
	recorder   *replay.Recorder

	// out receives combat log lines; nil means the terminal
	out io.Writer

	mu         sync.RWMutex
	lastStatus core.Status
	reportPath string

	stopChan chan struct{}
	stopOnce sync.Once
}

// SimulationConfig holds the resolved run parameters
type SimulationConfig struct {
	Duration     time.Duration
	Realtime     bool
	Autopilot    bool
	Seed         int64
	SettingsPath string
	FeedEnabled  bool
	RecordReplay bool
}

// NewAirRaidSimulation creates a new instance of the air raid simulation
func NewAirRaidSimulation() simulation.Simulation {
	return &AirRaidSimulation{
		stopChan: make(chan struct{}),
	}
}

// Name returns the simulation name
func (s *AirRaidSimulation) Name() string {
	return "Air Raid Defense"
}

// Description returns the simulation description
func (s *AirRaidSimulation) Description() string {
	return "Tick-driven air raid with flak towers, a refuelling defense wing and homing missiles"
}

// Configure sets up the simulation with provided parameters
func (s *AirRaidSimulation) Configure(params map[string]interface{}) error {
	logger.Info("Configuring air raid simulation...")

	s.config = SimulationConfig{
		Duration:  5 * time.Minute,
		Realtime:  true,
		Autopilot: true,
	}

	if val, ok := params["duration"].(time.Duration); ok {
		s.config.Duration = val
	}
	if val, ok := params["realtime"].(bool); ok {
		s.config.Realtime = val
	}
	if val, ok := params["autopilot"].(bool); ok {
		s.config.Autopilot = val
	}
	switch val := params["seed"].(type) {
	case int:
		s.config.Seed = int64(val)
	case int64:
		s.config.Seed = val
	case float64:
		s.config.Seed = int64(val)
	}
	if val, ok := params["settings_path"].(string); ok {
		s.config.SettingsPath = val
	}

	overrides := make(map[string]interface{})
	if s.config.Seed != 0 {
		overrides["seed"] = s.config.Seed
	}
	if val, ok := params["feed_enabled"].(bool); ok {
		s.config.FeedEnabled = val
		overrides["feed_enabled"] = val
	}
	if val, ok := params["record_replay"].(bool); ok {
		s.config.RecordReplay = val
		overrides["record_replay"] = val
	}
	if val, ok := params["log_level"].(string); ok {
		overrides["log_level"] = val
	}

	if s.config.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %s", s.config.Duration)
	}

	settings, err := config.LoadSettingsWithOverrides(s.config.SettingsPath, overrides)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	s.settings = settings

	if settings.Logging.Level != "" {
		logger.SetLevel(logger.ParseLevel(settings.Logging.Level))
	}
	if settings.Logging.NoColor {
		logger.SetNoColor(true)
	}

	// Auto start hands the controls to the autopilot even when it was not asked for.
	if settings.AutoStartEnabled {
		s.config.Autopilot = true
	}

	logger.Infof("Configuration: %s simulated, realtime=%t, autopilot=%t, %d Hz",
		s.config.Duration, s.config.Realtime, s.config.Autopilot, settings.Simulation.TickRate)
	logger.Debug(settings.String())

	return nil
}

// Run executes the simulation until the configured duration has been
// simulated, Stop is called, or ctx is cancelled
func (s *AirRaidSimulation) Run(ctx context.Context) error {
	if s.settings == nil {
		return fmt.Errorf("simulation not configured")
	}
	logger.Infof("Starting %s simulation", s.Name())

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize simulation: %w", err)
	}
	defer s.closeRecorder()

	return s.runSimulationLoop(ctx)
}

// initialize builds the world and every collaborator the settings ask for
func (s *AirRaidSimulation) initialize(ctx context.Context) error {
	opts := s.settings.ToWorldOptions()
	s.world = core.NewWorld(opts)
	s.queue = core.NewInputQueue(core.DefaultQueueLimit)
	s.combatLog = reporting.NewCombatLogger(s.out, s.settings.Logging.Level == "debug")
	s.setStatus(s.world.Status())

	logger.Infof("Battlefield %.0fx%.0f, seed %d, session %s",
		opts.Screen.X, opts.Screen.Y, opts.Seed, s.combatLog.SessionID())

	if s.config.Autopilot {
		cfg := controllers.DefaultRaidConfig()
		cfg.Seed = opts.Seed
		cfg.Single = !opts.MultipleRaiders
		s.autopilot = controllers.NewRaidController(s.queue, cfg)
		s.autopilot.Initialize(opts.Screen)
	}

	if s.settings.Replay.Enabled {
		header := replay.Header{
			Seed:           opts.Seed,
			Width:          opts.Screen.X,
			Height:         opts.Screen.Y,
			TickRate:       s.settings.Simulation.TickRate,
			SettingsDigest: settingsDigest(s.settings),
			CreatedAt:      time.Now(),
		}
		rec, err := replay.Create(s.settings.Replay.Path, header)
		if err != nil {
			return err
		}
		s.recorder = rec
		logger.Infof("Recording replay to %s", s.settings.Replay.Path)
	}

	if s.settings.Feed.Enabled {
		s.feedServer = feed.NewServer(s.settings.Feed.Address, s)
		logger.Networkf("Feed serving ws://%s/ws", s.settings.Feed.Address)
		go func() {
			if err := s.feedServer.Start(ctx); err != nil {
				logger.Errorf("Feed stopped: %v", err)
			}
		}()
	}

	return nil
}

// runSimulationLoop executes the main tick loop
func (s *AirRaidSimulation) runSimulationLoop(ctx context.Context) error {
	logger.Info("Starting main simulation loop...")

	dt := s.settings.TickInterval()
	limit := s.config.Duration.Seconds()

	var tickC <-chan time.Time
	if s.config.Realtime {
		ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
		tickC = ticker.C
	}

	for s.world.Now() < limit {
		if tickC != nil {
			select {
			case <-ctx.Done():
				logger.Info("Simulation cancelled by context")
				s.finish()
				return ctx.Err()
			case <-s.stopChan:
				logger.Info("Simulation stopped by user")
				s.finish()
				return nil
			case <-tickC:
			}
		} else {
			select {
			case <-ctx.Done():
				logger.Info("Simulation cancelled by context")
				s.finish()
				return ctx.Err()
			case <-s.stopChan:
				logger.Info("Simulation stopped by user")
				s.finish()
				return nil
			default:
			}
		}

		if err := s.step(dt); err != nil {
			logger.Errorf("Error executing tick %d: %v", s.world.Ticks(), err)
		}
	}

	logger.Info("Simulation duration reached")
	s.finish()
	return nil
}

// step runs one tick and hands its results to every consumer
func (s *AirRaidSimulation) step(dt float64) error {
	s.world.Step(s.queue, dt)

	status := s.world.Status()
	s.setStatus(status)
	s.combatLog.Record(s.world.DrainEvents())

	ticks := s.world.Ticks()
	if ticks%statusEvery == 0 {
		s.combatLog.UpdateStatus(status, s.world.Stats())
		s.combatLog.TraceRaiders(status.SimTime, s.world.Raiders())
		logger.Debug(status.String())
	}
	if !s.config.Realtime && ticks%progressEvery == 0 {
		logger.Progressf("Fast-forwarded %s of %s", s.world.SimTime().Round(time.Second), s.config.Duration)
	}

	if s.autopilot != nil {
		s.autopilot.Update(status)
	}

	var errs []error
	if s.feedServer != nil {
		if err := s.feedServer.Publish(ticks, s.world.Now(), s.world.Snapshot()); err != nil {
			errs = append(errs, err)
		}
	}
	if s.recorder != nil {
		every := uint64(s.settings.Replay.EveryNTicks)
		if every == 0 || ticks%every == 0 {
			err := s.recorder.Record(ticks, s.world.Now(), status.Score, status.Raiders, s.world.Snapshot())
			if err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// finish prints the combat summary and writes the session report
func (s *AirRaidSimulation) finish() {
	s.combatLog.UpdateStatus(s.world.Status(), s.world.Stats())
	s.combatLog.PrintSummary()

	logger.LogSubSection("Session")
	logger.LogKeyValue("Simulated", s.world.SimTime().Round(time.Millisecond))
	logger.LogKeyValue("Ticks", s.world.Ticks())
	logger.LogKeyValue("Final score", s.world.Score())
	if s.autopilot != nil {
		logger.LogKeyValue("Autopilot inputs", s.autopilot.InputsPushed())
	}

	var artifacts []string
	if s.recorder != nil {
		logger.Infof("Replay captured %d frames", s.recorder.Frames())
		artifacts = append(artifacts, s.settings.Replay.Path)
	}

	if s.settings.Logging.EnableReport {
		if path, ok := s.saveReport(); ok {
			artifacts = append(artifacts, path)
		}
	}

	if len(artifacts) > 0 {
		logger.LogList("Artifacts:", artifacts)
	}
}

func (s *AirRaidSimulation) saveReport() (string, bool) {
	generator := reporting.NewReportGenerator(s.combatLog, reporting.ReportConfig{
		OutputDir:   s.settings.Logging.ReportDir,
		Format:      "json",
		DetailLevel: "summary",
		Settings: map[string]interface{}{
			"speed_multiplier":   s.settings.SpeedMultiplier,
			"multiple_airplanes": s.settings.MultipleAirplanesEnabled,
			"spawn_cooldown":     s.settings.SpawnCooldownSeconds,
			"tick_rate":          s.settings.Simulation.TickRate,
			"seed":               s.world.Options().Seed,
			"autopilot":          s.config.Autopilot,
		},
	})

	report := generator.GenerateReport(s.world.Score(), s.world.Stats())
	var path string
	err := logger.WithSpinner("Saving session report", func() error {
		var err error
		path, err = generator.SaveReport(report)
		return err
	})
	if err != nil {
		return "", false
	}

	s.mu.Lock()
	s.reportPath = path
	s.mu.Unlock()
	logger.Infof("Simulation completed. Outcome: %s", report.Summary.Outcome)
	return path, true
}

func (s *AirRaidSimulation) closeRecorder() {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Close(); err != nil {
		logger.Errorf("Failed to close replay: %v", err)
	}
}

// Stop gracefully shuts down the simulation
func (s *AirRaidSimulation) Stop() error {
	logger.Info("Stopping air raid simulation...")
	s.stopOnce.Do(func() { close(s.stopChan) })
	return nil
}

// HandleInput queues a click received from a feed client
func (s *AirRaidSimulation) HandleInput(in feed.InputMessage) error {
	var button core.Button
	switch strings.ToLower(in.Button) {
	case "left", "primary":
		button = core.ButtonPrimary
	case "right", "secondary":
		button = core.ButtonSecondary
	default:
		return fmt.Errorf("unknown button %q", in.Button)
	}

	if !s.queue.Push(core.Input{
		Button: button,
		Point:  core.Vec2{X: in.X, Y: in.Y},
		Ctrl:   in.Ctrl,
		Shift:  in.Shift,
	}) {
		return fmt.Errorf("input queue full")
	}
	return nil
}

// Status returns the status captured at the end of the last tick
func (s *AirRaidSimulation) Status() interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus
}

func (s *AirRaidSimulation) setStatus(status core.Status) {
	s.mu.Lock()
	s.lastStatus = status
	s.mu.Unlock()
}

// ReportPath returns where the session report was written, if anywhere
func (s *AirRaidSimulation) ReportPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportPath
}

func settingsDigest(settings *config.Settings) string {
	sum := sha256.Sum256([]byte(settings.String()))
	return fmt.Sprintf("%x", sum[:8])
}

// init registers the simulation
func init() {
	manifest, err := simulation.ParseManifest(manifestYAML)
	if err != nil {
		logger.Errorf("Failed to parse air raid manifest: %v", err)
		return
	}
	if err := simulation.DefaultRegistry.Register(manifest, NewAirRaidSimulation); err != nil {
		logger.Errorf("Failed to register air raid simulation: %v", err)
	}
}
