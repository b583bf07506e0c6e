package planner

import (
	"fmt"
	"math"
)

// Mode selects how roadmap nodes are generated.
type Mode string

const (
	// ModeGrid lays nodes on a regular lattice.
	ModeGrid Mode = "grid"
	// ModeSample draws nodes at random (PRM).
	ModeSample Mode = "sample"
)

// Connectivity selects grid-mode neighbour connectivity.
type Connectivity int

const (
	// Conn4 connects lattice neighbours N, E, S, W.
	Conn4 Connectivity = 4
	// Conn8 also connects diagonal lattice neighbours.
	Conn8 Connectivity = 8
)

// Sampler selects the PRM sample sequence.
type Sampler string

const (
	// SamplerUniform draws independent uniform samples from a seeded source.
	SamplerUniform Sampler = "uniform"
	// SamplerHalton walks the base 2/3 Halton sequence; it needs no seed.
	SamplerHalton Sampler = "halton"
)

// DefaultOccupancyThreshold classifies intensities at or below it as occupied.
const DefaultOccupancyThreshold = 235

// Config holds every parameter BuildGraph needs.
type Config struct {
	Mode Mode `json:"mode"`

	// Grid mode.
	GridStepSize int          `json:"gridStepSize,omitempty"`
	Connectivity Connectivity `json:"connectivity,omitempty"`

	// Sample mode.
	SampleCount   int     `json:"sampleCount,omitempty"`
	MaxEdgeLength float64 `json:"maxEdgeLength,omitempty"`
	Sampler       Sampler `json:"sampler,omitempty"`
	// Seed makes uniform sampling reproducible; 0 seeds from the clock.
	Seed int64 `json:"seed,omitempty"`

	OccupancyThreshold int `json:"occupancyThreshold"`
}

// DefaultConfig returns a 4-connected grid configuration with unit step.
func DefaultConfig() Config {
	return Config{
		Mode:               ModeGrid,
		GridStepSize:       1,
		Connectivity:       Conn4,
		SampleCount:        500,
		MaxEdgeLength:      50,
		Sampler:            SamplerUniform,
		OccupancyThreshold: DefaultOccupancyThreshold,
	}
}

// Validate checks the fields relevant to the selected mode.
func (c Config) Validate() error {
	if c.OccupancyThreshold < 0 || c.OccupancyThreshold > 255 {
		return fmt.Errorf("%w: occupancy threshold %d outside 0..255", ErrInvalidConfiguration, c.OccupancyThreshold)
	}
	switch c.Mode {
	case ModeGrid:
		if c.GridStepSize <= 0 {
			return fmt.Errorf("%w: grid step size must be positive, got %d", ErrInvalidConfiguration, c.GridStepSize)
		}
		if c.Connectivity != Conn4 && c.Connectivity != Conn8 {
			return fmt.Errorf("%w: connectivity must be 4 or 8, got %d", ErrInvalidConfiguration, c.Connectivity)
		}
	case ModeSample:
		if c.SampleCount <= 0 {
			return fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidConfiguration, c.SampleCount)
		}
		if c.MaxEdgeLength <= 0 || math.IsNaN(c.MaxEdgeLength) {
			return fmt.Errorf("%w: max edge length must be positive, got %v", ErrInvalidConfiguration, c.MaxEdgeLength)
		}
		if c.Sampler != SamplerUniform && c.Sampler != SamplerHalton {
			return fmt.Errorf("%w: unknown sampler %q", ErrInvalidConfiguration, c.Sampler)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfiguration, c.Mode)
	}
	return nil
}

// edgeThreshold is the strict upper bound on edge length for this config.
// Grid thresholds sit just above one (or one diagonal) lattice step.
func (c Config) edgeThreshold() float64 {
	if c.Mode == ModeSample {
		return c.MaxEdgeLength
	}
	step := float64(c.GridStepSize) * 1.01
	if c.Connectivity == Conn8 {
		return step * math.Sqrt2
	}
	return step
}
