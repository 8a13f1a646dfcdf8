package core

import (
	"math"

	"github.com/google/uuid"
)

// WingState is a phase of a wing aircraft's lifecycle
type WingState string

// Wing Aircraft Status Lifecycle
const (
	WingPatrolling WingState = "PATROLLING"
	WingEngaging   WingState = "ENGAGING"
	WingFiring     WingState = "FIRING"
	WingRefueling  WingState = "REFUELING"
)

const (
	WingSize = 3

	// CruiseSpeed is 10% faster than a raider's base speed, and firing
	// speed 10% slower than cruise.
	CruiseSpeed = FlyingSpeed * 1.1
	FiringSpeed = CruiseSpeed * 0.9

	InitialFuel     = 120.0
	EngagementRange = 512.0
	ExtendedRange   = 1024.0
	MissileInterval = 0.5

	PatrolRadius = 200.0

	formationSpacing   = 60.0
	patrolGain         = 30
	engageGain         = 35
	firingGain         = 40
	refuelGain         = 70
	patrolAngleStep    = 0.01
	centerTransition   = 0.02
	centerSnapDistance = 5.0
)

// slotOffsets is the V layout: leader at the origin, wingmen behind and outward
var slotOffsets = [WingSize]Vec2{
	{X: 0, Y: 0},
	{X: -formationSpacing, Y: formationSpacing},
	{X: formationSpacing, Y: formationSpacing},
}

// WingAircraft is one defensive fighter of a formation
type WingAircraft struct {
	ID               uuid.UUID
	Position         Vec2
	PreviousPosition Vec2
	Slot             Vec2
	FlightAngle      float64
	TargetAngle      float64
	CurrentSpeed     float64
	TargetSpeed      float64
	CruiseSpeed      float64
	FiringSpeed      float64
	Fuel             float64
	Target           uuid.UUID
	State            WingState
	LastShot         float64
	LastStateChange  float64
	FlyFrame         int
}

// Formation is the three-aircraft defense wing and its patrol geometry
type Formation struct {
	ID             uuid.UUID
	Center         Vec2
	TargetCenter   Vec2
	PatrolPoint    Vec2
	PatrolAngle    float64
	PatrolRadius   float64
	Aircraft       [WingSize]*WingAircraft
	Active         bool
	Transitioning  bool
	TransitionRate float64
}

// WingAction is the outcome of a wing spawn request
type WingAction int

const (
	WingRejected WingAction = iota
	WingSpawned
	WingRelocated
)

func (a WingAction) String() string {
	switch a {
	case WingSpawned:
		return "spawned"
	case WingRelocated:
		return "relocated"
	default:
		return "rejected"
	}
}

// SpawnDefenseWing relocates the active formation's patrol center, or
// buys a new formation at point when the score allows it.
func (w *World) SpawnDefenseWing(point Vec2) WingAction {
	if w.wing != nil && w.wing.Active {
		w.wing.TargetCenter = point
		w.wing.Transitioning = true
		w.emit(Event{Type: EventWingRelocated, EntityID: w.wing.ID, Position: point})
		return WingRelocated
	}

	if !w.trySpend(WingCost) {
		w.emit(Event{Type: EventWingRejected, Position: point, Reason: ReasonInsufficientFund})
		return WingRejected
	}

	w.wing = w.newFormation(point)
	w.stats.WingsLaunched++
	w.emit(Event{Type: EventWingSpawned, EntityID: w.wing.ID, Position: point, Points: -WingCost})
	return WingSpawned
}

func (w *World) newFormation(point Vec2) *Formation {
	f := &Formation{
		ID:             uuid.New(),
		Center:         point,
		TargetCenter:   point,
		PatrolPoint:    point,
		PatrolRadius:   PatrolRadius,
		Active:         true,
		TransitionRate: centerTransition,
	}
	for i, offset := range slotOffsets {
		pos := point.Add(offset)
		f.Aircraft[i] = &WingAircraft{
			ID:               uuid.New(),
			Position:         pos,
			PreviousPosition: pos,
			Slot:             offset,
			CurrentSpeed:     w.speed(CruiseSpeed),
			TargetSpeed:      w.speed(CruiseSpeed),
			CruiseSpeed:      w.speed(CruiseSpeed),
			FiringSpeed:      w.speed(FiringSpeed),
			Fuel:             InitialFuel,
			State:            WingPatrolling,
			LastShot:         math.Inf(-1),
			LastStateChange:  w.now,
		}
	}
	return f
}

func (w *World) updateWing(dt float64) {
	f := w.wing
	if f == nil || !f.Active {
		return
	}

	for _, a := range f.Aircraft {
		if a.State != WingRefueling {
			a.Fuel = math.Max(0, a.Fuel-dt)
		}
	}

	if f.allNeedRefuel() && !f.allRefueling() {
		for _, a := range f.Aircraft {
			w.setAircraftState(a, WingRefueling)
			a.Target = uuid.Nil
		}
		w.emit(Event{Type: EventWingRefueling, EntityID: f.ID, Position: f.Center})
	}

	scale := frameScale(dt)
	for _, a := range f.Aircraft {
		w.updateAircraft(f, a, scale)
	}
	f.updatePatrol(scale, w.opts.Behavior.CircularOrbiting)
}

func (f *Formation) allNeedRefuel() bool {
	for _, a := range f.Aircraft {
		if a.Fuel > 0 && a.State != WingRefueling {
			return false
		}
	}
	return true
}

func (f *Formation) allRefueling() bool {
	for _, a := range f.Aircraft {
		if a.State != WingRefueling {
			return false
		}
	}
	return true
}

func (w *World) setAircraftState(a *WingAircraft, state WingState) {
	if a.State == state {
		return
	}
	a.State = state
	a.LastStateChange = w.now
}

func (w *World) updateAircraft(f *Formation, a *WingAircraft, scale float64) {
	a.PreviousPosition = a.Position
	a.CurrentSpeed = easeSpeed(a.CurrentSpeed, a.TargetSpeed)

	switch a.State {
	case WingPatrolling:
		w.aircraftPatrol(f, a, scale)
	case WingEngaging:
		w.aircraftEngage(a, scale)
	case WingFiring:
		w.aircraftFire(a, scale)
	case WingRefueling:
		a.TargetSpeed = a.CruiseSpeed
		dir := w.exitDirection(a.Position)
		a.Position = a.Position.Add(dir.Scale(a.CurrentSpeed * refuelGain * scale))
	}

	movement := a.Position.Sub(a.PreviousPosition)
	if movement.Len() > rotationThreshold {
		a.TargetAngle = headingDegrees(movement)
	}
	a.FlightAngle = easeAngle(a.FlightAngle, a.TargetAngle, angleBlendRate)
}

func (w *World) aircraftPatrol(f *Formation, a *WingAircraft, scale float64) {
	a.TargetSpeed = a.CruiseSpeed
	if target := w.nearestRaider(a.Position, math.Inf(1)); target != nil {
		a.Target = target.ID
		w.setAircraftState(a, WingEngaging)
		w.emit(Event{Type: EventAircraftEngage, EntityID: a.ID, SourceID: target.ID, Position: a.Position})
		return
	}
	slot := f.PatrolPoint.Add(a.Slot)
	a.Position = stepToward(a.Position, slot, a.CurrentSpeed*patrolGain*scale, arrivalDistance)
}

func (w *World) aircraftEngage(a *WingAircraft, scale float64) {
	a.TargetSpeed = a.CruiseSpeed
	target := w.targetable(a.Target)
	if target == nil {
		a.Target = uuid.Nil
		w.setAircraftState(a, WingPatrolling)
		return
	}
	if a.Position.DistanceTo(target.Position) <= EngagementRange {
		w.setAircraftState(a, WingFiring)
		return
	}
	a.Position = stepToward(a.Position, target.Position, a.CurrentSpeed*engageGain*scale, arrivalDistance)
}

func (w *World) aircraftFire(a *WingAircraft, scale float64) {
	a.TargetSpeed = a.FiringSpeed
	target := w.targetable(a.Target)
	if target == nil {
		a.Target = uuid.Nil
		w.setAircraftState(a, WingPatrolling)
		return
	}
	if a.Position.DistanceTo(target.Position) > ExtendedRange {
		w.setAircraftState(a, WingEngaging)
		return
	}
	if w.now-a.LastShot >= MissileInterval {
		w.launchMissile(a.ID, a.Position, target)
		a.LastShot = w.now
	}
	a.Position = stepToward(a.Position, target.Position, a.CurrentSpeed*firingGain*scale, arrivalDistance)
}

func (f *Formation) updatePatrol(scale float64, circular bool) {
	delta := f.TargetCenter.Sub(f.Center)
	if dist := delta.Len(); dist < centerSnapDistance {
		f.Center = f.TargetCenter
		f.Transitioning = false
	} else {
		step := math.Min(dist, f.TransitionRate*referenceFrameRate*scale)
		f.Center = f.Center.Add(delta.Scale(step / dist))
		f.Transitioning = true
	}

	f.PatrolAngle += patrolAngleStep * scale
	f.PatrolPoint = f.Center
	if circular {
		f.PatrolPoint = f.Center.Add(Vec2{
			X: f.PatrolRadius * math.Cos(f.PatrolAngle),
			Y: f.PatrolRadius * math.Sin(f.PatrolAngle),
		})
	}
}

// readyForTeardown reports whether every aircraft is refueling and has
// cleared the screen.
func (w *World) readyForTeardown(f *Formation) bool {
	if !f.allRefueling() {
		return false
	}
	for _, a := range f.Aircraft {
		if !w.offScreen(a.Position, removalMargin) {
			return false
		}
	}
	return true
}
