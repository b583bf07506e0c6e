package planner

import "math"

// FirstHit walks the segment p1->p2 in unit steps and returns the first cell
// whose intensity is at or below threshold. Sampling covers steps
// 0..floor(length)-1, so p1 is checked and p2 is not. Leaving the map
// ends the walk without a hit.
func FirstHit(m *OccupancyMap, p1, p2 Point, threshold int) (Cell, bool) {
	const step = 1.0

	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	l := math.Sqrt(dx*dx + dy*dy)
	if l == 0 {
		return Cell{}, false
	}
	dx /= l
	dy /= l

	maxSteps := int(l / step)
	for i := 0; i < maxSteps; i++ {
		t := float64(i) * step
		c := Point{X: p1.X + dx*t, Y: p1.Y + dy*t}.Cell()

		v, inside := m.Value(c.X, c.Y)
		if !inside {
			return Cell{}, false
		}
		if int(v) <= threshold {
			return c, true
		}
	}
	return Cell{}, false
}

// IsOccluded reports whether the straight segment p1->p2 crosses an occupied cell.
func IsOccluded(m *OccupancyMap, p1, p2 Point, threshold int) bool {
	_, hit := FirstHit(m, p1, p2, threshold)
	return hit
}

// IsOccluded checks the segment against the map's own threshold.
func (m *OccupancyMap) IsOccluded(p1, p2 Point) bool {
	return IsOccluded(m, p1, p2, m.threshold)
}
