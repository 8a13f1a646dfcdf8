package controllers

import (
	"math/rand"
	"sync"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

// RaidConfig tunes the autopilot
type RaidConfig struct {
	Towers     int     // towers placed before the first wave, clamped to [0, MaxTowers]
	Waves      int     // number of raider waves; 0 keeps launching until stopped
	WaveSize   int     // raiders requested per wave
	FirstWave  float64 // simulated seconds before the first wave
	WaveDelay  float64 // simulated seconds between wave starts
	LaunchWing bool    // request the defense wing whenever it is affordable
	WingRetry  float64 // simulated seconds between wing requests
	Single     bool    // wait for the sky to clear before each raider
	Seed       int64
}

// DefaultRaidConfig returns the autopilot defaults
func DefaultRaidConfig() RaidConfig {
	return RaidConfig{
		Towers:     3,
		Waves:      0,
		WaveSize:   4,
		FirstWave:  1,
		WaveDelay:  15,
		LaunchWing: true,
		WingRetry:  2,
	}
}

// RaidController drives a session without a human at the controls. It only
// ever talks to the world through the input queue.
type RaidController struct {
	config RaidConfig
	queue  *core.InputQueue
	rng    *rand.Rand
	screen core.Vec2
	log    logger.Logger

	mu            sync.Mutex
	initialized   bool
	wavesLaunched int
	nextWaveAt    float64
	pendingSpawns int
	lastWingAt    float64
	wingRequested bool
	inputsPushed  int
}

// NewRaidController creates an autopilot that pushes into queue
func NewRaidController(queue *core.InputQueue, config RaidConfig) *RaidController {
	if config.Towers < 0 {
		config.Towers = 0
	}
	if config.Towers > core.MaxTowers {
		config.Towers = core.MaxTowers
	}
	if config.WaveSize < 1 {
		config.WaveSize = 1
	}
	if config.WingRetry <= 0 {
		config.WingRetry = 2
	}
	return &RaidController{
		config:     config,
		queue:      queue,
		rng:        rand.New(rand.NewSource(config.Seed)),
		log:        logger.WithPrefix("autopilot"),
		nextWaveAt: config.FirstWave,
	}
}

// Initialize queues the opening tower placements across the lower half of
// the screen
func (c *RaidController) Initialize(screen core.Vec2) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.screen = screen
	c.initialized = true

	for i := 0; i < c.config.Towers; i++ {
		x := screen.X * float64(i+1) / float64(c.config.Towers+1)
		y := screen.Y * 0.7
		c.push(core.Input{Button: core.ButtonPrimary, Point: core.Vec2{X: x, Y: y}, Ctrl: true})
	}
	c.log.Infof("placing %d towers", c.config.Towers)
}

// Update inspects the latest status and queues whatever the autopilot wants
// to do next. Call it once per tick after the world has advanced.
func (c *RaidController) Update(status core.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	now := status.SimTime

	if !c.wavesDone() && now >= c.nextWaveAt {
		c.wavesLaunched++
		c.pendingSpawns += c.config.WaveSize
		c.nextWaveAt = now + c.config.WaveDelay
		c.log.Infof("wave %d inbound (%d raiders)", c.wavesLaunched, c.config.WaveSize)
	}

	// One raider per tick at most; the cooldown gates the rest.
	if c.pendingSpawns > 0 && status.SpawnCooldown <= 0 && (!c.config.Single || status.Raiders == 0) {
		c.push(core.Input{Button: core.ButtonPrimary, Point: c.randomTarget()})
		c.pendingSpawns--
	}

	if status.WingActive {
		c.wingRequested = false
	}
	if c.config.LaunchWing && !status.WingActive && status.Score >= core.WingCost &&
		(!c.wingRequested || now-c.lastWingAt >= c.config.WingRetry) {
		point := core.Vec2{X: c.screen.X / 2, Y: c.screen.Y / 2}
		c.push(core.Input{Button: core.ButtonPrimary, Point: point, Shift: true})
		c.wingRequested = true
		c.lastWingAt = now
		c.log.Infof("requesting defense wing at score %d", status.Score)
	}
}

// Done reports whether every configured wave has been fully requested
func (c *RaidController) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wavesDone() && c.pendingSpawns == 0
}

// InputsPushed returns how many inputs the autopilot has queued
func (c *RaidController) InputsPushed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputsPushed
}

func (c *RaidController) wavesDone() bool {
	return c.config.Waves > 0 && c.wavesLaunched >= c.config.Waves
}

func (c *RaidController) push(in core.Input) {
	if c.queue.Push(in) {
		c.inputsPushed++
	} else {
		c.log.Warn("input queue full, dropping autopilot input")
	}
}

func (c *RaidController) randomTarget() core.Vec2 {
	return core.Vec2{
		X: c.screen.X * (0.15 + 0.7*c.rng.Float64()),
		Y: c.screen.Y * (0.2 + 0.6*c.rng.Float64()),
	}
}
