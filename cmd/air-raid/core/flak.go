package core

import "github.com/google/uuid"

const (
	FlakSpeed       = 8.0
	FlakHitDistance = 20.0
	FlakMaxTravel   = 800.0
)

// Flak is a non-homing tower round. Its velocity is fixed at launch.
type Flak struct {
	ID        uuid.UUID
	TowerID   uuid.UUID
	Target    uuid.UUID
	Start     Vec2
	Position  Vec2
	Velocity  Vec2
	Travelled float64
	Retired   bool
}

func (w *World) launchFlak(t *Tower, target *Raider) *Flak {
	dir := target.Position.Sub(t.Position).Normalize()
	f := &Flak{
		ID:       uuid.New(),
		TowerID:  t.ID,
		Target:   target.ID,
		Start:    t.Position,
		Position: t.Position,
		Velocity: dir.Scale(FlakSpeed),
	}
	w.flak = append(w.flak, f)
	w.emit(Event{Type: EventFlakFired, EntityID: f.ID, SourceID: t.ID, Position: t.Position})
	return f
}

func (w *World) updateFlak(dt float64) {
	scale := frameScale(dt)
	for _, f := range w.flak {
		if f.Retired {
			continue
		}
		target := w.targetable(f.Target)
		if target == nil {
			f.Retired = true
			continue
		}

		// the hit test covers the whole step
		from := f.Position
		step := f.Velocity.Scale(scale)
		f.Position = from.Add(step)
		f.Travelled += step.Len()

		if target.Position.SegmentDistance(from, f.Position) <= FlakHitDistance {
			w.awardKill(target, KillByTower, f.TowerID)
			f.Retired = true
		}
	}
}

func (f *Flak) spent() bool {
	return f.Retired || f.Travelled > FlakMaxTravel
}
