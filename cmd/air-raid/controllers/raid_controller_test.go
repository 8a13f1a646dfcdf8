package controllers

import (
	"math/rand"
	"testing"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
)

const testDT = 1.0 / 60

func newTestWorld(initialScore int) *core.World {
	opts := core.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(7))
	opts.InitialScore = initialScore
	return core.NewWorld(opts)
}

func run(w *core.World, q *core.InputQueue, c *RaidController, ticks int) {
	for i := 0; i < ticks; i++ {
		w.Step(q, testDT)
		c.Update(w.Status())
	}
}

func TestInitializePlacesTowers(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{0, 0},
		{2, 2},
		{4, 4},
		{9, core.MaxTowers},
	}

	for _, tt := range tests {
		q := core.NewInputQueue(0)
		cfg := DefaultRaidConfig()
		cfg.Towers = tt.requested
		c := NewRaidController(q, cfg)

		w := newTestWorld(0)
		c.Initialize(w.Options().Screen)
		w.Step(q, testDT)

		if got := len(w.Towers()); got != tt.expected {
			t.Errorf("Towers=%d: expected %d towers, got %d", tt.requested, tt.expected, got)
		}
	}
}

func TestWavesRespectSpawnCooldown(t *testing.T) {
	q := core.NewInputQueue(0)
	cfg := DefaultRaidConfig()
	cfg.Towers = 0
	cfg.Waves = 1
	cfg.WaveSize = 2
	cfg.FirstWave = 0
	cfg.LaunchWing = false
	c := NewRaidController(q, cfg)

	w := newTestWorld(0)
	c.Initialize(w.Options().Screen)

	// Two seconds in only the first raider can have cleared the cooldown.
	run(w, q, c, 120)
	if got := w.Stats().RaidersSpawned; got != 1 {
		t.Fatalf("Expected 1 raider after 2s, got %d", got)
	}
	if c.Done() {
		t.Error("Expected a raider still pending")
	}

	run(w, q, c, 120)
	if got := w.Stats().RaidersSpawned; got != 2 {
		t.Errorf("Expected 2 raiders after 4s, got %d", got)
	}
	if !c.Done() {
		t.Error("Expected the single wave to be done")
	}

	for _, r := range w.Raiders() {
		screen := w.Options().Screen
		if r.Target.X < screen.X*0.15 || r.Target.X > screen.X*0.85 {
			t.Errorf("Expected target inside the central band, got %v", r.Target)
		}
	}
}

func TestSingleRaiderWaitsForClearSky(t *testing.T) {
	q := core.NewInputQueue(0)
	cfg := DefaultRaidConfig()
	cfg.Towers = 0
	cfg.Waves = 1
	cfg.WaveSize = 2
	cfg.FirstWave = 0
	cfg.LaunchWing = false
	cfg.Single = true
	c := NewRaidController(q, cfg)

	opts := core.DefaultOptions()
	opts.Rand = rand.New(rand.NewSource(7))
	opts.MultipleRaiders = false
	w := core.NewWorld(opts)
	c.Initialize(opts.Screen)

	run(w, q, c, 300)
	if got := w.Stats().RaidersSpawned; got != 1 {
		t.Errorf("Expected the second raider held back, got %d spawned", got)
	}
	for _, e := range w.DrainEvents() {
		if e.Type == core.EventSpawnRejected {
			t.Errorf("Expected no rejected spawns, got %+v", e)
		}
	}
}

func TestWingRequestedWhenAffordable(t *testing.T) {
	q := core.NewInputQueue(0)
	cfg := DefaultRaidConfig()
	cfg.Towers = 0
	cfg.Waves = 1
	cfg.WaveSize = 1
	c := NewRaidController(q, cfg)

	w := newTestWorld(core.WingCost)
	c.Initialize(w.Options().Screen)
	run(w, q, c, 10)

	if got := w.Stats().WingsLaunched; got != 1 {
		t.Fatalf("Expected 1 wing launched, got %d", got)
	}
	if w.Wing() == nil || !w.Wing().Active {
		t.Error("Expected an active wing")
	}

	run(w, q, c, 10)
	if got := w.Stats().WingsLaunched; got != 1 {
		t.Errorf("Expected no second wing while one is active, got %d", got)
	}
}

func TestWingNotRequestedBelowCost(t *testing.T) {
	q := core.NewInputQueue(0)
	cfg := DefaultRaidConfig()
	cfg.Towers = 0
	cfg.Waves = 1
	c := NewRaidController(q, cfg)

	w := newTestWorld(core.WingCost - 1)
	c.Initialize(w.Options().Screen)
	run(w, q, c, 10)

	if got := w.Stats().WingsLaunched; got != 0 {
		t.Errorf("Expected no wing below cost, got %d", got)
	}
}

func TestUpdateBeforeInitializeIsIgnored(t *testing.T) {
	q := core.NewInputQueue(0)
	c := NewRaidController(q, DefaultRaidConfig())
	c.Update(core.Status{SimTime: 100, Score: core.WingCost})

	if q.Len() != 0 {
		t.Errorf("Expected no inputs before Initialize, got %d", q.Len())
	}
}
