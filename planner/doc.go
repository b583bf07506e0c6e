// Package planner builds roadmaps over 2D occupancy rasters and plans
// paths on them.
//
// A roadmap is either a regular lattice or a set of sampled points (PRM)
// in free space, with an edge between two nodes whenever they are closer
// than the edge threshold and the straight segment between them crosses
// no occupied cell. Search is best-first with a weighted straight-line
// heuristic: weight 0 is Dijkstra, weight 1 is A*. Found paths can be
// smoothed and simplified.
//
// Positions are pixel coordinates: X is the column, Y the row.
package planner
