package planner

import (
	"fmt"
	"math"
)

// DefaultSmoothIterations caps the relaxation when no iteration count is given.
const DefaultSmoothIterations = 1000

// SmoothOptions weighs the two terms of the relaxation.
type SmoothOptions struct {
	// Alpha pulls each point back toward its original position.
	Alpha float64 `json:"alpha"`
	// Beta pulls each point toward the midpoint of its neighbours.
	Beta float64 `json:"beta"`
	// Iterations bounds the number of sweeps; <= 0 means DefaultSmoothIterations.
	Iterations int `json:"iterations"`
	// Tolerance stops early once a sweep moves all points by less than this in total.
	Tolerance float64 `json:"tolerance"`
}

// Validate rejects negative or non-finite weights, and weights for which
// the relaxation does not converge: alpha must not exceed 1 and
// alpha+4*beta must stay below 2.
func (o SmoothOptions) Validate() error {
	for _, w := range []struct {
		name  string
		value float64
	}{
		{"alpha", o.Alpha},
		{"beta", o.Beta},
		{"tolerance", o.Tolerance},
	} {
		if w.value < 0 || math.IsNaN(w.value) || math.IsInf(w.value, 0) {
			return fmt.Errorf("%w: %s must be a finite value >= 0, got %v", ErrInvalidConfiguration, w.name, w.value)
		}
	}
	if o.Alpha > 1 {
		return fmt.Errorf("%w: alpha must be <= 1, got %v", ErrInvalidConfiguration, o.Alpha)
	}
	if o.Alpha+4*o.Beta >= 2 {
		return fmt.Errorf("%w: alpha+4*beta must be < 2, got %v", ErrInvalidConfiguration, o.Alpha+4*o.Beta)
	}
	return nil
}

// SmoothPath relaxes the interior points of path; the endpoints never move.
// Every sweep computes all new positions from the previous sweep's values:
//
//	new[i] = s[i] + alpha*(orig[i]-s[i]) + beta*(s[i-1]+s[i+1]-2*s[i])
//
// Paths shorter than three points come back unchanged together with
// ErrDegenerateSmoothingInput.
func SmoothPath(path []Point, opts SmoothOptions) ([]Point, error) {
	smoothed := make([]Point, len(path))
	copy(smoothed, path)

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(path) < 3 {
		return smoothed, ErrDegenerateSmoothingInput
	}

	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultSmoothIterations
	}

	next := make([]Point, len(path))
	next[0], next[len(path)-1] = path[0], path[len(path)-1]

	for iter := 0; iter < iterations; iter++ {
		change := 0.0
		for i := 1; i < len(path)-1; i++ {
			s, prev, succ, orig := smoothed[i], smoothed[i-1], smoothed[i+1], path[i]
			next[i] = Point{
				X: s.X + opts.Alpha*(orig.X-s.X) + opts.Beta*(prev.X+succ.X-2*s.X),
				Y: s.Y + opts.Alpha*(orig.Y-s.Y) + opts.Beta*(prev.Y+succ.Y-2*s.Y),
			}
			change += next[i].Distance(s)
		}
		smoothed, next = next, smoothed

		if change <= opts.Tolerance {
			break
		}
	}
	return smoothed, nil
}
