package core

import "github.com/google/uuid"

const (
	MissileSpeed       = 32.0
	MissileRange       = 1024.0
	MissileHitDistance = 15.0
)

// Missile is a wing-fired homing projectile. Its velocity is re-aimed at
// the live target every tick.
type Missile struct {
	ID        uuid.UUID
	ShooterID uuid.UUID
	Target    uuid.UUID
	Start     Vec2
	Position  Vec2
	Velocity  Vec2
	Retired   bool
}

func (w *World) launchMissile(shooter uuid.UUID, from Vec2, target *Raider) *Missile {
	m := &Missile{
		ID:        uuid.New(),
		ShooterID: shooter,
		Target:    target.ID,
		Start:     from,
		Position:  from,
		Velocity:  target.Position.Sub(from).Normalize().Scale(MissileSpeed),
	}
	w.missiles = append(w.missiles, m)
	w.emit(Event{Type: EventMissileFired, EntityID: m.ID, SourceID: shooter, Position: from})
	return m
}

func (w *World) updateMissiles(dt float64) {
	scale := frameScale(dt)
	for _, m := range w.missiles {
		if m.Retired {
			continue
		}
		target := w.targetable(m.Target)
		if target == nil {
			m.Retired = true
			continue
		}

		toTarget := target.Position.Sub(m.Position)
		m.Velocity = toTarget.Normalize().Scale(MissileSpeed)
		step := m.Velocity.Scale(scale)
		if dist := toTarget.Len(); step.Len() >= dist {
			// closing the final gap lands on the target instead of overshooting
			m.Position = target.Position
		} else {
			m.Position = m.Position.Add(step)
		}

		if m.Position.DistanceTo(target.Position) <= MissileHitDistance {
			w.awardKill(target, KillByWing, m.ShooterID)
			m.Retired = true
		}
	}
}

// spent measures range as the straight line from launch, not the chase path
func (m *Missile) spent() bool {
	return m.Retired || m.Start.DistanceTo(m.Position) > MissileRange
}
