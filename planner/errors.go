package planner

import "errors"

var (
	// ErrInvalidConfiguration is returned by BuildGraph for unusable parameters.
	ErrInvalidConfiguration = errors.New("planner: invalid configuration")
	// ErrNoPathFound means the search frontier emptied before reaching the goal.
	ErrNoPathFound = errors.New("planner: no path found")
	// ErrDegenerateSmoothingInput means the path has no interior point to smooth.
	ErrDegenerateSmoothingInput = errors.New("planner: path too short to smooth")
	// ErrClosestNodeUndefined means the graph has no nodes.
	ErrClosestNodeUndefined = errors.New("planner: graph has no nodes")
	// ErrBrokenParentChain means the goal's parent chain does not end at the start.
	ErrBrokenParentChain = errors.New("planner: parent chain does not reach start")
	// ErrNodeIndex means a node index is outside 0..N-1.
	ErrNodeIndex = errors.New("planner: node index out of range")
	// ErrInvalidGraph is returned when a loaded graph breaks an adjacency invariant.
	ErrInvalidGraph = errors.New("planner: invalid graph")
)
