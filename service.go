package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"path-planner/logger"
	"path-planner/mapio"
	"path-planner/planner"
	"path-planner/store"
)

var (
	errGraphNotBuilt = errors.New("roadmap not built")
	errGraphExists   = errors.New("roadmap already exists")
)

// service holds the loaded map and the current roadmap. The roadmap is
// swapped as a whole on rebuild, so readers holding an old one keep a
// consistent view.
type service struct {
	settings  settings
	occ       *planner.OccupancyMap
	transform mapio.Transform
	plans     *store.Store

	// buildMu serialises builds so concurrent requests never build twice.
	buildMu sync.Mutex

	mu     sync.RWMutex
	graph  *planner.Graph
	groups []int
}

func newService(occ *planner.OccupancyMap, s settings, plans *store.Store) (*service, error) {
	tr, err := mapio.ForMap(occ, s.Resolution)
	if err != nil {
		return nil, err
	}
	return &service{settings: s, occ: occ, transform: tr, plans: plans}, nil
}

// current returns the roadmap and its component labels.
func (s *service) current() (*planner.Graph, []int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph, s.groups
}

func (s *service) install(g *planner.Graph) {
	groups := planner.LabelConnectivity(g)

	s.mu.Lock()
	s.graph, s.groups = g, groups
	s.mu.Unlock()

	logger.Info("Roadmap installed", "nodes", g.Len(), "edges", g.EdgeCount(), "groups", planner.GroupCount(groups))
}

// build builds a roadmap for cfg and installs it. Unless force is set it
// fails with errGraphExists when a roadmap is already installed.
func (s *service) build(cfg planner.Config, save, force bool) (*planner.Graph, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if g, _ := s.current(); g != nil && !force {
		return nil, errGraphExists
	}

	g, err := planner.BuildGraph(s.occ, cfg)
	if err != nil {
		return nil, err
	}
	s.install(g)

	if save && s.settings.GraphFile != "" {
		if err := planner.SaveGraph(g, s.settings.GraphFile); err != nil {
			logger.Warn("Failed to save roadmap", "err", err)
		}
	}
	return g, nil
}

// loadOrBuild reuses the cached roadmap when it was built from this map
// with the startup configuration, otherwise builds and caches a new one.
func (s *service) loadOrBuild() error {
	if file := s.settings.GraphFile; file != "" {
		g, err := planner.LoadGraph(file)
		switch {
		case err != nil:
			logger.Info("No usable cached roadmap", "file", file, "err", err)
		case g.Bounds != s.occ.Bounds() || g.MapDigest != s.occ.Digest():
			logger.Warn("Cached roadmap is for another map, rebuilding", "file", file)
		case g.Config != s.settings.Graph:
			logger.Warn("Cached roadmap has another configuration, rebuilding", "file", file)
		default:
			s.install(g)
			return nil
		}
	}
	_, err := s.build(s.settings.Graph, true, true)
	return err
}

// routeQuery is a resolved route request in pixel coordinates.
type routeQuery struct {
	Start, Goal     planner.Point
	Search          planner.SearchOptions
	Smooth          planner.SmoothOptions
	SimplifyEpsilon float64
}

// routeResult carries a finished plan. Path is nil when no route exists.
type routeResult struct {
	ID         string
	Path       *planner.Path
	Smoothed   []planner.Point
	Simplified []planner.Point
	Message    string
}

// plan searches, smooths and records a route. Missing paths are reported
// in the result, not as an error.
func (s *service) plan(ctx context.Context, q routeQuery) (*routeResult, error) {
	g, _ := s.current()
	if g == nil {
		return nil, errGraphNotBuilt
	}

	start := time.Now()
	res := &routeResult{}
	path, err := planner.FindPath(g, q.Start, q.Goal, q.Search)
	switch {
	case errors.Is(err, planner.ErrNoPathFound), errors.Is(err, planner.ErrClosestNodeUndefined):
		res.Message = err.Error()
	case err != nil:
		return nil, err
	default:
		res.Path = path
		res.Smoothed, err = planner.SmoothPath(path.Points(), q.Smooth)
		if err != nil && !errors.Is(err, planner.ErrDegenerateSmoothingInput) {
			return nil, err
		}
		if q.SimplifyEpsilon > 0 {
			res.Simplified = planner.SimplifyPath(res.Smoothed, q.SimplifyEpsilon)
		}
	}

	logger.Info("Route planned",
		"start", fmt.Sprintf("(%.1f, %.1f)", q.Start.X, q.Start.Y),
		"goal", fmt.Sprintf("(%.1f, %.1f)", q.Goal.X, q.Goal.Y),
		"found", res.Path != nil,
		"elapsed", time.Since(start).Round(time.Microsecond),
	)

	if s.plans != nil {
		rec := &store.PlanRecord{
			StartX:          q.Start.X,
			StartY:          q.Start.Y,
			GoalX:           q.Goal.X,
			GoalY:           q.Goal.Y,
			Found:           res.Path != nil,
			Message:         res.Message,
			HeuristicWeight: q.Search.HeuristicWeight,
		}
		if res.Path != nil {
			rec.NodeCount = len(res.Path.Nodes)
			rec.Expanded = res.Path.Expanded
			rec.Cost = res.Path.Cost
			if err := rec.SetPath(res.Smoothed); err != nil {
				return nil, err
			}
		}
		if err := s.plans.Save(ctx, rec); err != nil {
			logger.Warn("Failed to record plan", "err", err)
		} else {
			res.ID = rec.ID
		}
	}
	return res, nil
}
