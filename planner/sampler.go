package planner

import (
	"math/rand"
	"time"
)

// sampleSource yields candidate positions inside the map bounds.
type sampleSource interface {
	Next() Point
}

type uniformSource struct {
	rng    *rand.Rand
	bounds Bounds
}

func (s *uniformSource) Next() Point {
	b := s.bounds
	return Point{
		X: float64(b.MinX) + s.rng.Float64()*float64(b.MaxX-b.MinX),
		Y: float64(b.MinY) + s.rng.Float64()*float64(b.MaxY-b.MinY),
	}
}

// haltonSource walks the (2,3) Halton sequence, skipping index 0.
type haltonSource struct {
	k      int
	bounds Bounds
}

func (s *haltonSource) Next() Point {
	s.k++
	b := s.bounds
	return Point{
		X: float64(b.MinX) + halton(s.k, 2)*float64(b.MaxX-b.MinX),
		Y: float64(b.MinY) + halton(s.k, 3)*float64(b.MaxY-b.MinY),
	}
}

// halton returns the radical inverse of k in the given base, in [0,1).
func halton(k, base int) float64 {
	f, r := 1.0, 0.0
	for k > 0 {
		f /= float64(base)
		r += f * float64(k%base)
		k /= base
	}
	return r
}

func newSampleSource(cfg Config, bounds Bounds) sampleSource {
	if cfg.Sampler == SamplerHalton {
		return &haltonSource{bounds: bounds}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &uniformSource{rng: rand.New(rand.NewSource(seed)), bounds: bounds}
}
