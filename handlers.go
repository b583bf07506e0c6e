package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/paulmach/orb/geojson"

	"path-planner/logger"
	"path-planner/planner"
	"path-planner/store"
)

// newApp wires the HTTP routes onto a fiber app.
func newApp(s *service) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	if s.settings.Debug {
		app.Use(fiberlogger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)

	api.Post("/graph", s.handleBuildGraph)
	api.Get("/graph/lines", s.handleGraphLines)
	api.Get("/graph/connectivity", s.handleConnectivity)

	api.Post("/route", s.handleRoute)
	api.Get("/plans/recent", s.handleRecentPlans)
	api.Get("/plans/:id", s.handleGetPlan)

	return app
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// GET /api/health
func (s *service) handleHealth(c *fiber.Ctx) error {
	g, groups := s.current()
	status := "ready"
	if g == nil {
		status = "waiting for roadmap"
	}

	return c.JSON(fiber.Map{
		"status":   status,
		"hasGraph": g != nil,
		"numNodes": g.Len(),
		"numEdges": edgeCount(g),
		"groups":   planner.GroupCount(groups),
		"time":     time.Now().Format(time.RFC3339),
	})
}

func edgeCount(g *planner.Graph) int {
	if g == nil {
		return 0
	}
	return g.EdgeCount()
}

type buildRequest struct {
	planner.Config
	Force bool `json:"force"`
	Save  bool `json:"save"`
}

// POST /api/graph
func (s *service) handleBuildGraph(c *fiber.Ctx) error {
	req := buildRequest{Config: s.settings.Graph}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	g, err := s.build(req.Config, req.Save, req.Force)
	switch {
	case errors.Is(err, errGraphExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "roadmap already exists",
			"message": "Set 'force: true' to rebuild.",
		})
	case errors.Is(err, planner.ErrInvalidConfiguration):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		logger.Error("Roadmap build failed", "err", err)
		return fail(c, fiber.StatusInternalServerError, "roadmap build failed")
	}

	_, groups := s.current()
	return c.JSON(fiber.Map{
		"success":  true,
		"numNodes": g.Len(),
		"numEdges": g.EdgeCount(),
		"groups":   planner.GroupCount(groups),
		"bounds":   g.Bounds,
		"config":   g.Config,
	})
}

// GET /api/graph/lines[?format=geojson]
func (s *service) handleGraphLines(c *fiber.Ctx) error {
	g, groups := s.current()
	if g == nil {
		return fail(c, fiber.StatusBadRequest, "roadmap not built, call POST /api/graph first")
	}

	if c.Query("format") == "geojson" {
		return c.JSON(planner.GraphFeatures(g, groups))
	}

	lines := g.GraphLines()
	return c.JSON(fiber.Map{
		"success":  true,
		"lines":    lines,
		"numNodes": g.Len(),
		"numEdges": len(lines),
	})
}

// GET /api/graph/connectivity
func (s *service) handleConnectivity(c *fiber.Ctx) error {
	g, groups := s.current()
	if g == nil {
		return fail(c, fiber.StatusBadRequest, "roadmap not built, call POST /api/graph first")
	}

	sizes := make([]int, planner.GroupCount(groups))
	for _, id := range groups {
		sizes[id]++
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"numGroups":  len(sizes),
		"groupSizes": sizes,
		"groups":     groups,
	})
}

type routeRequest struct {
	Start planner.Point `json:"start"`
	Goal  planner.Point `json:"goal"`
	// Frame is "pixel" (default) or "world".
	Frame           string                 `json:"frame"`
	HeuristicWeight *float64               `json:"heuristicWeight,omitempty"`
	Smooth          *planner.SmoothOptions `json:"smooth,omitempty"`
	SimplifyEpsilon float64                `json:"simplifyEpsilon,omitempty"`
}

type routeResponse struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message,omitempty"`
	PlanID     string          `json:"planId,omitempty"`
	Path       []planner.Point `json:"path,omitempty"`
	Smoothed   []planner.Point `json:"smoothed,omitempty"`
	Simplified []planner.Point `json:"simplified,omitempty"`
	World      []planner.Point `json:"world,omitempty"`
	Cost       float64         `json:"cost,omitempty"`
	Length     float64         `json:"length,omitempty"`
	Expanded   int             `json:"expanded,omitempty"`
}

// POST /api/route[?format=geojson]
func (s *service) handleRoute(c *fiber.Ctx) error {
	var req routeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}

	q := routeQuery{
		Start:           req.Start,
		Goal:            req.Goal,
		Search:          s.settings.Search,
		Smooth:          s.settings.Smooth,
		SimplifyEpsilon: req.SimplifyEpsilon,
	}
	switch req.Frame {
	case "", "pixel":
	case "world":
		q.Start = s.transform.WorldToPixel(req.Start)
		q.Goal = s.transform.WorldToPixel(req.Goal)
	default:
		return fail(c, fiber.StatusBadRequest, "frame must be 'pixel' or 'world'")
	}
	if req.HeuristicWeight != nil {
		q.Search.HeuristicWeight = *req.HeuristicWeight
	}
	if req.Smooth != nil {
		q.Smooth = *req.Smooth
		if err := q.Smooth.Validate(); err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
	}

	res, err := s.plan(c.UserContext(), q)
	switch {
	case errors.Is(err, errGraphNotBuilt):
		return fail(c, fiber.StatusBadRequest, "roadmap not built, call POST /api/graph first")
	case errors.Is(err, planner.ErrInvalidConfiguration):
		return fail(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		logger.Error("Route planning failed", "err", err)
		return fail(c, fiber.StatusInternalServerError, "route planning failed")
	}

	if c.Query("format") == "geojson" {
		return c.JSON(routeFeatures(res))
	}

	resp := routeResponse{PlanID: res.ID}
	if res.Path == nil {
		resp.Message = res.Message
		return c.JSON(resp)
	}

	resp.Success = true
	resp.Path = res.Path.Points()
	resp.Smoothed = res.Smoothed
	resp.Simplified = res.Simplified
	resp.World = s.transform.PathToWorld(res.Smoothed)
	resp.Cost = res.Path.Cost
	resp.Length = planner.PathLength(res.Smoothed)
	resp.Expanded = res.Path.Expanded
	return c.JSON(resp)
}

// routeFeatures exports a plan as GeoJSON in pixel coordinates: one
// LineString each for the raw, smoothed and (when present) simplified path.
// A plan without a path gives an empty collection.
func routeFeatures(res *routeResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if res.Path == nil {
		return fc
	}
	raw := planner.PathFeature(res.Path.Points(), "raw")
	raw.Properties["cost"] = res.Path.Cost
	fc.Append(raw)
	fc.Append(planner.PathFeature(res.Smoothed, "smoothed"))
	if len(res.Simplified) > 0 {
		fc.Append(planner.PathFeature(res.Simplified, "simplified"))
	}
	if res.ID != "" {
		for _, f := range fc.Features {
			f.Properties["planId"] = res.ID
		}
	}
	return fc
}

// GET /api/plans/recent?limit=N
func (s *service) handleRecentPlans(c *fiber.Ctx) error {
	if s.plans == nil {
		return fail(c, fiber.StatusServiceUnavailable, "plan history disabled")
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	plans, err := s.plans.Recent(c.UserContext(), limit)
	if err != nil {
		logger.Error("Failed to fetch plans", "err", err)
		return fail(c, fiber.StatusInternalServerError, "failed to fetch plans")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(plans),
		"plans":   plans,
	})
}

// GET /api/plans/:id
func (s *service) handleGetPlan(c *fiber.Ctx) error {
	if s.plans == nil {
		return fail(c, fiber.StatusServiceUnavailable, "plan history disabled")
	}

	rec, err := s.plans.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "plan not found")
	}
	if err != nil {
		logger.Error("Failed to fetch plan", "err", err)
		return fail(c, fiber.StatusInternalServerError, "failed to fetch plan")
	}

	path, err := rec.Path()
	if err != nil {
		logger.Error("Stored plan has a corrupt path", "id", rec.ID, "err", err)
		return fail(c, fiber.StatusInternalServerError, "failed to decode plan path")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"plan":    rec,
		"path":    path,
		"world":   s.transform.PathToWorld(path),
	})
}
