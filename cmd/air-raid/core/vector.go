package core

import "math"

// Vec2 represents a point or direction in virtual-screen space
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Add returns the sum of two vectors
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns v minus other
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies both components by s
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Len returns the euclidean length
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector, or the zero vector for degenerate input
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// DistanceTo returns the distance between two points
func (v Vec2) DistanceTo(other Vec2) float64 {
	return v.Sub(other).Len()
}

// Bearing returns the angle in radians of the vector from origin to v
func (v Vec2) Bearing(origin Vec2) float64 {
	d := v.Sub(origin)
	return math.Atan2(d.Y, d.X)
}

// SegmentDistance returns the distance from v to the closest point of the
// segment a-b
func (v Vec2) SegmentDistance(a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return v.DistanceTo(a)
	}
	t := ((v.X-a.X)*ab.X + (v.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return v.DistanceTo(a.Add(ab.Scale(t)))
}

// stepToward moves pos by step units toward dest. Points already within
// stopWithin of dest are returned unchanged.
func stepToward(pos, dest Vec2, step, stopWithin float64) Vec2 {
	delta := dest.Sub(pos)
	dist := delta.Len()
	if dist <= stopWithin || dist == 0 {
		return pos
	}
	return pos.Add(delta.Scale(step / dist))
}

func headingDegrees(delta Vec2) float64 {
	return math.Atan2(delta.Y, delta.X) * 180 / math.Pi
}

// wrapDegrees maps an angle into (-180, 180]
func wrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// easeAngle moves current toward target by rate of the shortest angular gap
func easeAngle(current, target, rate float64) float64 {
	diff := wrapDegrees(target - current)
	return wrapDegrees(current + diff*rate)
}

// easeSpeed blends current toward target, snapping once the gap is negligible
func easeSpeed(current, target float64) float64 {
	if math.Abs(target-current) <= speedSnapEpsilon {
		return target
	}
	current += (target - current) * speedBlendRate
	if math.Abs(target-current) < speedSnapEpsilon {
		return target
	}
	return current
}
