package planner

import "math"

// Point is a position in map (pixel) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell is an integer raster coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Cell rounds the point to the nearest raster cell.
func (p Point) Cell() Cell {
	return Cell{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Point returns the cell centre as a Point.
func (c Cell) Point() Point {
	return Point{X: float64(c.X), Y: float64(c.Y)}
}

// Bounds is the half-open rectangle [MinX,MaxX) x [MinY,MaxY).
type Bounds struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

// Contains reports whether the cell lies inside the bounds.
func (b Bounds) Contains(c Cell) bool {
	return c.X >= b.MinX && c.X < b.MaxX && c.Y >= b.MinY && c.Y < b.MaxY
}
