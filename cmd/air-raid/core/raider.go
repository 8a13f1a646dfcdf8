package core

import (
	"math"

	"github.com/google/uuid"
)

// RaiderState is a phase of the raider lifecycle
type RaiderState string

// Raider Status Lifecycle
const (
	RaiderSpawning       RaiderState = "SPAWNING"
	RaiderFlying         RaiderState = "FLYING"
	RaiderTargeting      RaiderState = "TARGETING"
	RaiderBombing        RaiderState = "BOMBING"
	RaiderClearingArea   RaiderState = "CLEARING_AREA"
	RaiderHoldingPattern RaiderState = "HOLDING_PATTERN"
	RaiderEscaping       RaiderState = "ESCAPING"
	RaiderShotDown       RaiderState = "SHOT_DOWN"
)

// Base speeds per reference frame, before the speed multiplier
const (
	FlyingSpeed    = 0.036
	TargetingSpeed = 0.030
	BombingSpeed   = 0.024
	EscapeSpeed    = 0.048

	initialRaiderSpeed = 0.030
)

const (
	InitialBombs = 3

	ClearingDuration = 2.5
	ShotDownDuration = 1.0

	flyingGainX   = 50
	flyingGainY   = 25
	targetingGain = 60
	clearingGain  = 50
	escapeGain    = 70

	speedBlendRate    = 0.08
	speedSnapEpsilon  = 0.001
	angleBlendRate    = 0.15
	rotationThreshold = 1.0
	headingEpsilon    = 1e-6

	centerLineThreshold = 50
	bombingDistance     = 40
	arrivalDistance     = 5

	spawnMargin   = 50
	removalMargin = 100
	parkingOffset = -1000

	orbitsBeforeReattack = 1
)

// HoldingPattern holds a raider's loiter orbit around its target
type HoldingPattern struct {
	Radius          float64
	OrbitSpeed      float64
	Direction       float64
	StartAngle      float64
	Angle           float64
	Travel          float64
	CompletedOrbits int
}

// Raider is an offensive aircraft flying bombing runs against a fixed point
type Raider struct {
	ID               uuid.UUID
	Position         Vec2
	PreviousPosition Vec2
	Target           Vec2
	SpawnPoint       Vec2
	FlightAngle      float64
	TargetAngle      float64
	CurrentSpeed     float64
	TargetSpeed      float64
	BombsRemaining   int
	BombsDropped     int
	Holding          HoldingPattern
	State            RaiderState
	LastStateChange  float64
	Heading          Vec2
	FlyFrame         int
	Visible          bool

	clearHeading Vec2
	killed       bool
}

// Engageable reports whether defenses may still target the raider
func (r *Raider) Engageable() bool {
	return r.State != RaiderShotDown && r.State != RaiderEscaping
}

// GetMetadata returns raider properties for logging
func (r *Raider) GetMetadata() map[string]interface{} {
	return map[string]interface{}{
		"state":           string(r.State),
		"bombs_remaining": r.BombsRemaining,
		"bombs_dropped":   r.BombsDropped,
		"target_x":        r.Target.X,
		"target_y":        r.Target.Y,
		"speed":           r.CurrentSpeed,
	}
}

func (w *World) newHoldingPattern() HoldingPattern {
	if !w.opts.Behavior.VariableFlightPaths {
		return HoldingPattern{Radius: 150, OrbitSpeed: 0.03 * 0.75, Direction: 1}
	}
	h := HoldingPattern{
		Radius:    120 + w.rng.Float64()*80,
		Direction: 1,
	}
	if w.rng.Float64() < 0.5 {
		h.Direction = -1
	}
	h.OrbitSpeed = (0.02 + w.rng.Float64()*0.02) * 0.75
	return h
}

// spawnRaider creates a raider at the screen edge opposite its target
// without admission checks. A target on the center line draws raiders
// from the right edge.
func (w *World) spawnRaider(target Vec2) *Raider {
	y := w.rng.Float64() * w.opts.Screen.Y
	spawn := Vec2{X: -spawnMargin, Y: y}
	if target.X <= w.opts.Screen.X/2 {
		spawn = Vec2{X: w.opts.Screen.X + spawnMargin, Y: y}
	}

	r := &Raider{
		ID:               uuid.New(),
		Position:         spawn,
		PreviousPosition: spawn,
		Target:           target,
		SpawnPoint:       spawn,
		CurrentSpeed:     w.speed(initialRaiderSpeed),
		TargetSpeed:      w.speed(initialRaiderSpeed),
		BombsRemaining:   InitialBombs,
		Holding:          w.newHoldingPattern(),
		State:            RaiderSpawning,
		LastStateChange:  w.now,
		Visible:          true,
	}
	w.addRaider(r)
	w.lastSpawn = w.now
	w.stats.RaidersSpawned++
	w.emit(Event{Type: EventRaiderSpawned, EntityID: r.ID, Position: spawn, State: r.State})
	return r
}

func (w *World) addRaider(r *Raider) {
	w.raiders = append(w.raiders, r)
	w.raiderIndex[r.ID] = r
}

func (w *World) setRaiderState(r *Raider, state RaiderState) {
	if r.State == state {
		return
	}
	r.State = state
	r.LastStateChange = w.now
	w.emit(Event{Type: EventRaiderState, EntityID: r.ID, Position: r.Position, State: state})
}

func (w *World) updateRaiders(dt float64) {
	scale := frameScale(dt)
	for _, r := range w.raiders {
		w.updateRaider(r, scale)
	}
}

func (w *World) updateRaider(r *Raider, scale float64) {
	r.PreviousPosition = r.Position
	r.CurrentSpeed = easeSpeed(r.CurrentSpeed, r.TargetSpeed)

	switch r.State {
	case RaiderSpawning:
		w.setRaiderState(r, RaiderFlying)
	case RaiderFlying:
		w.updateFlying(r, scale)
	case RaiderTargeting:
		w.updateTargeting(r, scale)
	case RaiderBombing:
		w.dropBomb(r)
	case RaiderClearingArea:
		w.updateClearing(r, scale)
	case RaiderHoldingPattern:
		w.updateHolding(r, scale)
	case RaiderEscaping:
		w.updateEscaping(r, scale)
	case RaiderShotDown:
		w.updateShotDown(r)
	}

	r.updateRotation()
}

func (w *World) updateFlying(r *Raider, scale float64) {
	r.TargetSpeed = w.speed(FlyingSpeed)
	centerX := w.opts.Screen.X / 2
	if math.Abs(r.Position.X-centerX) < centerLineThreshold {
		w.setRaiderState(r, RaiderTargeting)
		return
	}

	delta := Vec2{X: centerX, Y: r.Target.Y}.Sub(r.Position)
	dist := delta.Len()
	if dist <= arrivalDistance {
		return
	}
	step := r.CurrentSpeed * scale
	r.Position = r.Position.Add(Vec2{
		X: delta.X / dist * step * flyingGainX,
		Y: delta.Y / dist * step * flyingGainY,
	})
}

func (w *World) updateTargeting(r *Raider, scale float64) {
	r.TargetSpeed = w.speed(TargetingSpeed)
	if r.Position.DistanceTo(r.Target) < bombingDistance {
		w.setRaiderState(r, RaiderBombing)
		return
	}
	r.Position = stepToward(r.Position, r.Target, r.CurrentSpeed*targetingGain*scale, arrivalDistance)
}

func (w *World) dropBomb(r *Raider) {
	r.TargetSpeed = w.speed(BombingSpeed)
	if r.BombsRemaining <= 0 {
		w.setRaiderState(r, RaiderEscaping)
		return
	}

	r.BombsRemaining--
	r.BombsDropped++
	w.createBomb(r)

	r.clearHeading = r.Heading
	w.setRaiderState(r, RaiderClearingArea)
}

func (w *World) updateClearing(r *Raider, scale float64) {
	r.TargetSpeed = w.speed(BombingSpeed)

	if w.now-r.LastStateChange >= ClearingDuration {
		switch {
		case r.BombsRemaining > 0 && w.opts.Behavior.HoldingPatterns:
			w.setRaiderState(r, RaiderHoldingPattern)
			r.enterHolding()
		case r.BombsRemaining > 0:
			w.setRaiderState(r, RaiderTargeting)
		default:
			w.setRaiderState(r, RaiderEscaping)
		}
		return
	}

	dir := r.clearHeading
	if dir.Len() < headingEpsilon {
		away := r.Position.Sub(r.Target)
		if away.Len() <= arrivalDistance {
			return
		}
		dir = away.Normalize()
	}
	r.Position = r.Position.Add(dir.Scale(r.CurrentSpeed * clearingGain * scale))
}

func (r *Raider) enterHolding() {
	angle := r.Position.Bearing(r.Target)
	r.Holding.Angle = angle
	r.Holding.StartAngle = angle
	r.Holding.Travel = 0
	r.Holding.CompletedOrbits = 0
}

func (w *World) updateHolding(r *Raider, scale float64) {
	h := &r.Holding
	delta := h.OrbitSpeed * h.Direction * scale
	h.Angle += delta
	h.Travel += math.Abs(delta)

	r.Position = Vec2{
		X: r.Target.X + h.Radius*math.Cos(h.Angle),
		Y: r.Target.Y + h.Radius*math.Sin(h.Angle),
	}

	if h.Travel >= 2*math.Pi {
		h.CompletedOrbits++
		h.StartAngle = h.Angle
		h.Travel = 0
		if h.CompletedOrbits >= orbitsBeforeReattack {
			h.CompletedOrbits = 0
			w.setRaiderState(r, RaiderTargeting)
		}
	}
}

func (w *World) updateEscaping(r *Raider, scale float64) {
	r.TargetSpeed = w.speed(EscapeSpeed)
	dir := w.exitDirection(r.Position)
	if !w.opts.Behavior.EscapeRoutes && !r.killed {
		if away := r.Position.Sub(r.Target).Normalize(); away.Len() > 0 {
			dir = away
		}
	}
	r.Position = r.Position.Add(dir.Scale(r.CurrentSpeed * escapeGain * scale))
}

func (w *World) updateShotDown(r *Raider) {
	r.TargetSpeed = 0
	if w.now-r.LastStateChange < ShotDownDuration {
		return
	}
	w.setRaiderState(r, RaiderEscaping)
	r.Position = Vec2{X: parkingOffset, Y: parkingOffset}
	r.PreviousPosition = r.Position
}

func (w *World) shootDown(r *Raider) {
	w.setRaiderState(r, RaiderShotDown)
	r.TargetSpeed = 0
	r.Visible = false
	r.killed = true
}

func (r *Raider) updateRotation() {
	movement := r.Position.Sub(r.PreviousPosition)
	if movement.Len() > headingEpsilon {
		r.Heading = movement.Normalize()
	}
	if movement.Len() > rotationThreshold {
		r.TargetAngle = headingDegrees(movement)
	}
	r.FlightAngle = easeAngle(r.FlightAngle, r.TargetAngle, angleBlendRate)
}

// exitDirection returns the outward normal of the screen edge nearest pos.
// Ties resolve left, right, top, bottom.
func (w *World) exitDirection(pos Vec2) Vec2 {
	edges := []struct {
		dist float64
		dir  Vec2
	}{
		{pos.X, Vec2{X: -1}},
		{w.opts.Screen.X - pos.X, Vec2{X: 1}},
		{pos.Y, Vec2{Y: -1}},
		{w.opts.Screen.Y - pos.Y, Vec2{Y: 1}},
	}
	best := edges[0]
	for _, e := range edges[1:] {
		if e.dist < best.dist {
			best = e
		}
	}
	return best.dir
}

func (w *World) offScreen(pos Vec2, margin float64) bool {
	return pos.X < -margin || pos.X > w.opts.Screen.X+margin ||
		pos.Y < -margin || pos.Y > w.opts.Screen.Y+margin
}
