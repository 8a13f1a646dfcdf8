package core

import "github.com/google/uuid"

// BombDescentDuration is the delay in seconds between release and detonation
const BombDescentDuration = 2.0

// Bomb is a delayed, cosmetic detonation at a raider's target point
type Bomb struct {
	ID       uuid.UUID
	RaiderID uuid.UUID
	Position Vec2
	DropTime float64
	Descent  float64
	Exploded bool
	Playing  bool
	Frame    int
}

func (w *World) createBomb(r *Raider) *Bomb {
	b := &Bomb{
		ID:       uuid.New(),
		RaiderID: r.ID,
		Position: r.Target,
		DropTime: w.now,
		Descent:  BombDescentDuration,
	}
	w.bombs = append(w.bombs, b)
	w.stats.BombsDropped++
	w.emit(Event{Type: EventBombDropped, EntityID: b.ID, SourceID: r.ID, Position: b.Position})
	return b
}

func (w *World) updateBombs() {
	for _, b := range w.bombs {
		if b.Exploded || w.now-b.DropTime < b.Descent {
			continue
		}
		b.Exploded = true
		b.Playing = true
		b.Frame = 0
		w.emit(Event{Type: EventBombDetonated, EntityID: b.ID, SourceID: b.RaiderID, Position: b.Position})
	}
}

// finished reports whether the bomb has detonated and its animation is done
func (b *Bomb) finished() bool {
	return b.Exploded && !b.Playing
}
