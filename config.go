package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"path-planner/logger"
	"path-planner/mapio"
	"path-planner/planner"
)

// settings is everything the server reads from the environment at startup.
type settings struct {
	MapFile    string
	Resolution float64
	// KeepOutDir holds GeoJSON polygons rasterised onto the map as obstacles.
	KeepOutDir string

	Graph  planner.Config
	Search planner.SearchOptions
	Smooth planner.SmoothOptions

	// GraphFile caches the roadmap between runs when set.
	GraphFile   string
	DatabaseDSN string
	Port        string
	Debug       bool
}

func loadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func getEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("Ignoring malformed number", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("Ignoring malformed integer", "key", key, "value", value)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	if value == "true" || value == "false" {
		return value == "true"
	}

	return defaultValue
}

// loadSettings reads the environment and validates every option group.
func loadSettings() (settings, error) {
	graph := planner.DefaultConfig()
	if getEnvBool("USE_PRM", false) {
		graph.Mode = planner.ModeSample
	}
	graph.OccupancyThreshold = getEnvInt("OCCUPANCY_THRESHOLD", graph.OccupancyThreshold)
	graph.GridStepSize = getEnvInt("GRID_STEP_SIZE", graph.GridStepSize)
	graph.Connectivity = planner.Connectivity(getEnvInt("CONNECTIVITY", int(graph.Connectivity)))
	graph.SampleCount = getEnvInt("PRM_NUM_NODES", graph.SampleCount)
	graph.MaxEdgeLength = getEnvFloat("PRM_MAX_EDGE_LENGTH", graph.MaxEdgeLength)
	graph.Sampler = planner.Sampler(getEnvString("PRM_SAMPLER", string(graph.Sampler)))
	graph.Seed = int64(getEnvInt("PRM_SEED", int(graph.Seed)))

	s := settings{
		MapFile:    getEnvString("MAP_FILE", "map.png"),
		Resolution: getEnvFloat("MAP_RESOLUTION", mapio.DefaultResolution),
		KeepOutDir: getEnvString("KEEPOUT_DIR", ""),
		Graph:      graph,
		Search: planner.SearchOptions{
			HeuristicWeight: getEnvFloat("HEURISTIC_WEIGHT", 1),
		},
		Smooth: planner.SmoothOptions{
			Alpha:      getEnvFloat("ALPHA", 0.1),
			Beta:       getEnvFloat("BETA", 0.3),
			Iterations: getEnvInt("SMOOTH_ITERATIONS", planner.DefaultSmoothIterations),
			Tolerance:  getEnvFloat("SMOOTH_TOLERANCE", 1e-4),
		},
		GraphFile:   getEnvString("GRAPH_FILE", ""),
		DatabaseDSN: getEnvString("DATABASE_DSN", "plans.db"),
		Port:        getEnvString("PORT", "8080"),
		Debug:       getEnvBool("DEBUG", false),
	}

	if err := s.Graph.Validate(); err != nil {
		return s, err
	}
	if err := s.Smooth.Validate(); err != nil {
		return s, err
	}
	if w := s.Search.HeuristicWeight; w < 0 {
		return s, fmt.Errorf("%w: HEURISTIC_WEIGHT must be >= 0, got %v", planner.ErrInvalidConfiguration, w)
	}
	if s.Resolution <= 0 {
		return s, fmt.Errorf("%w: MAP_RESOLUTION must be > 0, got %v", planner.ErrInvalidConfiguration, s.Resolution)
	}
	return s, nil
}
