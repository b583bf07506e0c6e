package planner

import (
	"encoding/json"
	"fmt"
	"os"

	"path-planner/logger"
)

// SaveGraph serializes and saves the graph to a JSON file
func SaveGraph(g *Graph, filename string) error {
	logger.Info("Saving roadmap", "file", filename)

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Info("Roadmap saved", "bytes", len(data))
	return nil
}

// LoadGraph reads a graph written by SaveGraph and checks its invariants.
func LoadGraph(filename string) (*Graph, error) {
	logger.Info("Loading roadmap", "file", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	g := &Graph{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	logger.Info("Roadmap loaded", "nodes", g.Len(), "edges", g.EdgeCount())
	return g, nil
}
