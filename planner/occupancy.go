package planner

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// OccupancyMap is an immutable grayscale raster. Values at or below
// Threshold are occupied; everything outside Bounds is occupied too.
type OccupancyMap struct {
	width, height int
	cells         []uint8
	threshold     int
}

// NewOccupancyMap wraps row-major cells (index y*width+x). The slice is copied.
func NewOccupancyMap(width, height int, cells []uint8, threshold int) (*OccupancyMap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("planner: map size %dx%d must be positive", width, height)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("planner: map has %d cells, want %d", len(cells), width*height)
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: occupancy threshold %d outside 0..255", ErrInvalidConfiguration, threshold)
	}
	owned := make([]uint8, len(cells))
	copy(owned, cells)
	return &OccupancyMap{width: width, height: height, cells: owned, threshold: threshold}, nil
}

// NewFreeMap returns a map with every cell free.
func NewFreeMap(width, height int) *OccupancyMap {
	cells := make([]uint8, width*height)
	for i := range cells {
		cells[i] = 255
	}
	m, err := NewOccupancyMap(width, height, cells, DefaultOccupancyThreshold)
	if err != nil {
		panic(err)
	}
	return m
}

// Bounds returns [0,width) x [0,height).
func (m *OccupancyMap) Bounds() Bounds {
	return Bounds{MaxX: m.width, MaxY: m.height}
}

// Threshold returns the occupancy threshold.
func (m *OccupancyMap) Threshold() int { return m.threshold }

// WithThreshold returns a view of the same cells classified with another threshold.
func (m *OccupancyMap) WithThreshold(threshold int) *OccupancyMap {
	if threshold == m.threshold {
		return m
	}
	return &OccupancyMap{width: m.width, height: m.height, cells: m.cells, threshold: threshold}
}

// Value returns the raw intensity at (x,y) and false when out of bounds.
func (m *OccupancyMap) Value(x, y int) (uint8, bool) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0, false
	}
	return m.cells[y*m.width+x], true
}

// IsOccupied reports true when (x,y) is out of bounds or at/below the threshold.
func (m *OccupancyMap) IsOccupied(x, y int) bool {
	v, ok := m.Value(x, y)
	if !ok {
		return true
	}
	return int(v) <= m.threshold
}

// IsOccupiedAt rounds p to the nearest cell and checks it.
func (m *OccupancyMap) IsOccupiedAt(p Point) bool {
	c := p.Cell()
	return m.IsOccupied(c.X, c.Y)
}

// FreeCells counts the free cells in the map.
func (m *OccupancyMap) FreeCells() int {
	n := 0
	for _, v := range m.cells {
		if int(v) > m.threshold {
			n++
		}
	}
	return n
}

// WithBlocked returns a copy with every listed cell set to 0 (occupied).
// Cells outside the bounds are ignored.
func (m *OccupancyMap) WithBlocked(cells []Cell) *OccupancyMap {
	owned := make([]uint8, len(m.cells))
	copy(owned, m.cells)
	b := m.Bounds()
	for _, c := range cells {
		if b.Contains(c) {
			owned[c.Y*m.width+c.X] = 0
		}
	}
	return &OccupancyMap{width: m.width, height: m.height, cells: owned, threshold: m.threshold}
}

// Digest fingerprints the map size and cell values. The threshold is not
// part of it; roadmaps record that in their Config.
func (m *OccupancyMap) Digest() string {
	h := sha256.New()
	var size [16]byte
	binary.LittleEndian.PutUint64(size[:8], uint64(m.width))
	binary.LittleEndian.PutUint64(size[8:], uint64(m.height))
	h.Write(size[:])
	h.Write(m.cells)
	return hex.EncodeToString(h.Sum(nil))
}
