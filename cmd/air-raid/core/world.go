package core

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// referenceFrameRate is the tick rate that per-frame constants are tuned for
const referenceFrameRate = 60.0

// Behavior toggles optional flight behaviors
type Behavior struct {
	HoldingPatterns     bool
	CircularOrbiting    bool
	EscapeRoutes        bool
	VariableFlightPaths bool
}

// Options configures a World
type Options struct {
	Screen          Vec2
	SpeedMultiplier float64
	MultipleRaiders bool
	AutoStart       bool
	SpawnCooldown   float64
	Behavior        Behavior
	FlyFrames       int
	ExplosionFrames int
	Seed            int64
	InitialScore    int

	// Rand overrides the source seeded from Seed
	Rand *rand.Rand
}

// DefaultOptions returns the options of a stock 1920x1080 session
func DefaultOptions() Options {
	return Options{
		Screen:          Vec2{X: 1920, Y: 1080},
		SpeedMultiplier: 1.0,
		MultipleRaiders: true,
		SpawnCooldown:   2.5,
		Behavior: Behavior{
			HoldingPatterns:     true,
			CircularOrbiting:    true,
			EscapeRoutes:        true,
			VariableFlightPaths: true,
		},
		FlyFrames:       4,
		ExplosionFrames: 8,
		Seed:            1,
	}
}

// World owns every entity collection, the score and the simulated clock.
// It is not safe for concurrent use: one goroutine owns it and feeds it
// inputs between ticks.
type World struct {
	opts  Options
	rng   *rand.Rand
	now   float64
	ticks uint64
	score int

	// accumulated reference frames toward the next animation step
	flyClock       float64
	explosionClock float64

	raiders     []*Raider
	raiderIndex map[uuid.UUID]*Raider
	bombs       []*Bomb
	towers      []*Tower
	flak        []*Flak
	wing        *Formation
	missiles    []*Missile
	explosions  []*Explosion

	lastSpawn float64
	events    []Event
	stats     Stats
}

// NewWorld creates an empty world
func NewWorld(opts Options) *World {
	defaults := DefaultOptions()
	if opts.Screen.X <= 0 || opts.Screen.Y <= 0 {
		opts.Screen = defaults.Screen
	}
	if opts.SpeedMultiplier <= 0 {
		opts.SpeedMultiplier = defaults.SpeedMultiplier
	}
	if opts.SpawnCooldown < 0 {
		opts.SpawnCooldown = 0
	}
	if opts.FlyFrames <= 0 {
		opts.FlyFrames = defaults.FlyFrames
	}
	if opts.ExplosionFrames <= 0 {
		opts.ExplosionFrames = defaults.ExplosionFrames
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	return &World{
		opts:        opts,
		rng:         rng,
		score:       opts.InitialScore,
		raiderIndex: make(map[uuid.UUID]*Raider),
		lastSpawn:   math.Inf(-1),
	}
}

// Step applies every queued input and then advances one tick
func (w *World) Step(queue *InputQueue, dt float64) {
	if queue != nil {
		for _, in := range queue.Drain() {
			w.Apply(in)
		}
	}
	w.Tick(dt)
}

// Tick advances the simulation by dt seconds
func (w *World) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	w.now += dt
	w.ticks++

	w.updateRaiders(dt)
	w.updateBombs()
	w.updateTowers()
	w.updateFlak(dt)
	w.updateWing(dt)
	w.updateMissiles(dt)
	w.advanceAnimations(dt)
	w.cleanup()
}

// Apply performs the command an input maps to. Call it only between ticks.
func (w *World) Apply(in Input) {
	switch in.Command() {
	case CommandPlaceTower:
		w.PlaceTower(in.Point)
	case CommandSpawnWing:
		w.SpawnDefenseWing(in.Point)
	default:
		w.SpawnRaider(in.Point)
	}
}

// SpawnRaider admits a new raider targeting point, subject to the spawn
// cooldown and the single-raider setting.
func (w *World) SpawnRaider(target Vec2) (*Raider, bool) {
	if w.now-w.lastSpawn < w.opts.SpawnCooldown {
		w.emit(Event{Type: EventSpawnRejected, Position: target, Reason: ReasonCooldown})
		return nil, false
	}
	if !w.opts.MultipleRaiders && len(w.raiders) > 0 {
		w.emit(Event{Type: EventSpawnRejected, Position: target, Reason: ReasonSingleRaider})
		return nil, false
	}
	return w.spawnRaider(target), true
}

func (w *World) cleanup() {
	raiders := w.raiders[:0]
	for _, r := range w.raiders {
		if r.State == RaiderEscaping && w.offScreen(r.Position, removalMargin) {
			delete(w.raiderIndex, r.ID)
			reason := ReasonEscaped
			if r.killed {
				reason = ReasonShotDown
			} else {
				w.stats.RaidersEscaped++
			}
			w.emit(Event{Type: EventRaiderRemoved, EntityID: r.ID, Reason: reason})
			continue
		}
		raiders = append(raiders, r)
	}
	clear(w.raiders[len(raiders):])
	w.raiders = raiders

	w.bombs = compact(w.bombs, (*Bomb).finished)
	w.flak = compact(w.flak, (*Flak).spent)
	w.missiles = compact(w.missiles, (*Missile).spent)
	w.explosions = compact(w.explosions, func(e *Explosion) bool { return !e.Playing })

	if w.wing != nil && w.readyForTeardown(w.wing) {
		w.wing.Active = false
		w.emit(Event{Type: EventWingReleased, EntityID: w.wing.ID})
		w.wing = nil
	}
}

// compact removes the elements for which done reports true, preserving order
func compact[T any](items []*T, done func(*T) bool) []*T {
	kept := items[:0]
	for _, item := range items {
		if !done(item) {
			kept = append(kept, item)
		}
	}
	clear(items[len(kept):])
	return kept
}

func (w *World) speed(base float64) float64 {
	return base * w.opts.SpeedMultiplier
}

// frameScale converts a tick duration into reference frames
func frameScale(dt float64) float64 {
	return dt * referenceFrameRate
}

// Now returns the simulated time in seconds
func (w *World) Now() float64 { return w.now }

// Ticks returns the number of ticks run
func (w *World) Ticks() uint64 { return w.ticks }

// Score returns the current score
func (w *World) Score() int { return w.score }

// Stats returns cumulative session counters
func (w *World) Stats() Stats { return w.stats }

// Options returns the options the world was built with
func (w *World) Options() Options { return w.opts }

// Raiders returns the live raiders in spawn order
func (w *World) Raiders() []*Raider { return w.raiders }

// Raider looks up a live raider by ID
func (w *World) Raider(id uuid.UUID) (*Raider, bool) {
	r, ok := w.raiderIndex[id]
	return r, ok
}

// Bombs returns the pending and exploding bombs
func (w *World) Bombs() []*Bomb { return w.bombs }

// Towers returns the towers, oldest first
func (w *World) Towers() []*Tower { return w.towers }

// Flak returns the live tower projectiles
func (w *World) Flak() []*Flak { return w.flak }

// Missiles returns the live wing projectiles
func (w *World) Missiles() []*Missile { return w.missiles }

// Wing returns the active formation, or nil
func (w *World) Wing() *Formation { return w.wing }

// SimTime returns the simulated time as a duration
func (w *World) SimTime() time.Duration {
	return time.Duration(w.now * float64(time.Second))
}
