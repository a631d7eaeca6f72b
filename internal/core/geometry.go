package core

// PointSegmentDistance returns the shortest distance from point p to the
// line segment a-b. A degenerate segment (a == b) falls back to plain
// point distance, so a threat sitting exactly on its target never causes
// a division by zero.
func PointSegmentDistance(p, a, b Vector2D) float64 {
	ab := b.Sub(a)
	lengthSq := ab.Dot(ab)
	if lengthSq == 0 {
		return p.DistanceTo(a)
	}

	// Project p onto the segment, clamping to [0, 1]
	t := p.Sub(a).Dot(ab) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := a.Add(ab.Scale(t))
	return p.DistanceTo(closest)
}

// Clamp restricts v to the inclusive range [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
