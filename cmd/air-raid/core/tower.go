package core

import (
	"math"

	"github.com/google/uuid"
)

const (
	MaxTowers     = 4
	TowerRange    = 512.0
	TowerFireRate = 1.0

	// minimum seconds between target switches for a tower holding a target
	targetSwitchInterval = 1.0
)

// Tower is a static flak emplacement. It never moves after placement.
type Tower struct {
	ID               uuid.UUID
	Position         Vec2
	Range            float64
	FireRate         float64
	LastShot         float64
	LastTargetChange float64
	Target           uuid.UUID
}

// PlaceTower adds a tower at pos, evicting the oldest one when the cap is reached
func (w *World) PlaceTower(pos Vec2) *Tower {
	if len(w.towers) >= MaxTowers {
		evicted := w.towers[0]
		w.towers = w.towers[1:]
		w.emit(Event{Type: EventTowerEvicted, EntityID: evicted.ID, Position: evicted.Position})
	}

	t := &Tower{
		ID:               uuid.New(),
		Position:         pos,
		Range:            TowerRange,
		FireRate:         TowerFireRate,
		LastShot:         math.Inf(-1),
		LastTargetChange: math.Inf(-1),
	}
	w.towers = append(w.towers, t)
	w.emit(Event{Type: EventTowerPlaced, EntityID: t.ID, Position: pos})
	return t
}

func (w *World) updateTowers() {
	for _, t := range w.towers {
		w.updateTower(t)
	}
}

func (w *World) updateTower(t *Tower) {
	if t.Target != uuid.Nil && w.targetable(t.Target) == nil {
		t.Target = uuid.Nil
	}

	selected := uuid.Nil
	if best := w.nearestRaider(t.Position, t.Range); best != nil {
		selected = best.ID
	}
	if selected != t.Target && (t.Target == uuid.Nil || w.now-t.LastTargetChange >= targetSwitchInterval) {
		t.Target = selected
		t.LastTargetChange = w.now
	}

	target := w.targetable(t.Target)
	if target == nil {
		return
	}
	if w.now-t.LastShot >= 1/t.FireRate {
		w.launchFlak(t, target)
		t.LastShot = w.now
	}
}

// nearestRaider returns the closest engageable raider within maxRange of
// from. Equidistant raiders resolve to the earliest spawned.
func (w *World) nearestRaider(from Vec2, maxRange float64) *Raider {
	var best *Raider
	bestDist := math.Inf(1)
	for _, r := range w.raiders {
		if !r.Engageable() {
			continue
		}
		d := from.DistanceTo(r.Position)
		if d <= maxRange && d < bestDist {
			best = r
			bestDist = d
		}
	}
	return best
}

// targetable resolves a raider handle, returning nil when the raider is
// gone or no longer engageable.
func (w *World) targetable(id uuid.UUID) *Raider {
	if id == uuid.Nil {
		return nil
	}
	r, ok := w.raiderIndex[id]
	if !ok || !r.Engageable() {
		return nil
	}
	return r
}
