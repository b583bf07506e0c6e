package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOccluded_ClearLines(t *testing.T) {
	m := NewFreeMap(10, 10)

	cases := [][2]Point{
		{{0, 0}, {9, 9}},
		{{0, 9}, {9, 0}},
		{{3, 0}, {3, 9}},
		{{0, 4.4}, {8.7, 4.4}},
	}
	for _, c := range cases {
		assert.False(t, IsOccluded(m, c[0], c[1], DefaultOccupancyThreshold), "%v -> %v", c[0], c[1])
		assert.False(t, IsOccluded(m, c[1], c[0], DefaultOccupancyThreshold), "%v -> %v", c[1], c[0])
	}
}

func TestIsOccluded_WallBetween(t *testing.T) {
	m := mapFromRows(t,
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
		".....#....",
	)

	assert.True(t, m.IsOccluded(Point{1, 5}, Point{8, 5}))
	assert.True(t, m.IsOccluded(Point{8, 2}, Point{0, 7}))
	assert.False(t, m.IsOccluded(Point{0, 0}, Point{4, 9}))

	hit, ok := FirstHit(m, Point{1, 5}, Point{8, 5}, m.Threshold())
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 5, Y: 5}, hit)
}

func TestIsOccluded_ZeroLength(t *testing.T) {
	m := mapFromRows(t, "#")
	assert.False(t, m.IsOccluded(Point{0, 0}, Point{0, 0}))
}

func TestIsOccluded_EndpointNotSampled(t *testing.T) {
	m := mapFromRows(t, "...#.")

	// Steps 0 and 1 land on x=1 and x=2; the occupied endpoint x=3 is never sampled.
	assert.False(t, m.IsOccluded(Point{1, 0}, Point{3, 0}))
	// Walking the other way samples the occupied start cell first.
	hit, ok := FirstHit(m, Point{3, 0}, Point{1, 0}, m.Threshold())
	assert.True(t, ok)
	assert.Equal(t, Cell{X: 3, Y: 0}, hit)
}

func TestIsOccluded_LeavingMapIsClear(t *testing.T) {
	m := mapFromRows(t,
		"....",
		"....",
	)
	// Out-of-bounds cells are occupied for IsOccupied, but the line check
	// stops at the border and reports clear.
	assert.True(t, m.IsOccupied(-3, 0))
	assert.False(t, m.IsOccluded(Point{2, 0}, Point{-6, 0}))
}

func TestIsOccluded_ThresholdIsInclusive(t *testing.T) {
	cells := []uint8{255, 235, 255, 255}
	m, err := NewOccupancyMap(4, 1, cells, 235)
	assert.NoError(t, err)
	assert.True(t, m.IsOccluded(Point{0, 0}, Point{3, 0}))
	assert.False(t, IsOccluded(m, Point{0, 0}, Point{3, 0}, 234))
}

func TestOccupancyMap(t *testing.T) {
	m := mapFromRows(t,
		"#..",
		"..#",
	)
	assert.Equal(t, Bounds{MaxX: 3, MaxY: 2}, m.Bounds())
	assert.True(t, m.IsOccupied(0, 0))
	assert.False(t, m.IsOccupied(1, 0))
	assert.True(t, m.IsOccupied(2, 1))
	assert.True(t, m.IsOccupied(3, 0))
	assert.True(t, m.IsOccupied(0, -1))
	assert.False(t, m.IsOccupiedAt(Point{1.4, 0.2}))
	assert.True(t, m.IsOccupiedAt(Point{1.6, 0.6}))
	assert.Equal(t, 4, m.FreeCells())

	_, err := NewOccupancyMap(2, 2, []uint8{1, 2, 3}, 10)
	assert.Error(t, err)
	_, err = NewOccupancyMap(1, 1, []uint8{1}, 300)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestOccupancyMap_WithBlocked(t *testing.T) {
	m := NewFreeMap(4, 4)
	blocked := m.WithBlocked([]Cell{{1, 1}, {2, 1}, {9, 9}, {-1, 0}})

	assert.Equal(t, 14, blocked.FreeCells())
	assert.True(t, blocked.IsOccluded(Point{0, 1}, Point{3, 1}))
	assert.Equal(t, 16, m.FreeCells())
	assert.Equal(t, m.Threshold(), blocked.Threshold())
}
