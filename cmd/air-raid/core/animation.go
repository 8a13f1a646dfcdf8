package core

import "github.com/google/uuid"

// Animation intervals in reference frames. Flight cycles advance every 8
// frames and explosions every 5, whatever the tick rate.
const (
	flyFrameInterval       = 8.0
	explosionFrameInterval = 5.0

	clockEpsilon = 1e-9
)

// Explosion is a kill visual at a fixed point
type Explosion struct {
	ID       uuid.UUID
	Position Vec2
	Frame    int
	Playing  bool
}

func (w *World) spawnExplosion(pos Vec2) {
	w.explosions = append(w.explosions, &Explosion{
		ID:       uuid.New(),
		Position: pos,
		Playing:  true,
	})
}

func (w *World) advanceAnimations(dt float64) {
	scale := frameScale(dt)
	w.flyClock += scale
	w.explosionClock += scale

	for w.flyClock+clockEpsilon >= flyFrameInterval {
		w.flyClock -= flyFrameInterval
		for _, r := range w.raiders {
			if r.Visible {
				r.FlyFrame = (r.FlyFrame + 1) % w.opts.FlyFrames
			}
		}
		if w.wing != nil {
			for _, a := range w.wing.Aircraft {
				a.FlyFrame = (a.FlyFrame + 1) % w.opts.FlyFrames
			}
		}
	}

	for w.explosionClock+clockEpsilon >= explosionFrameInterval {
		w.explosionClock -= explosionFrameInterval
		for _, b := range w.bombs {
			if b.Playing {
				b.Frame, b.Playing = w.nextExplosionFrame(b.Frame)
			}
		}
		for _, e := range w.explosions {
			if e.Playing {
				e.Frame, e.Playing = w.nextExplosionFrame(e.Frame)
			}
		}
	}
}

func (w *World) nextExplosionFrame(frame int) (int, bool) {
	frame++
	if frame >= w.opts.ExplosionFrames {
		return w.opts.ExplosionFrames - 1, false
	}
	return frame, true
}
