package mapio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"path-planner/logger"
	"path-planner/planner"
)

// LoadKeepOutZones reads every *.geojson file in dir and returns their
// polygons. Files that cannot be read or parsed are skipped with a warning.
func LoadKeepOutZones(dir string) ([]orb.Polygon, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.geojson"))
	if err != nil {
		return nil, err
	}

	var zones []orb.Polygon
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Warn("Failed to read keep-out file", "file", file, "err", err)
			continue
		}
		polygons, err := ParseKeepOutZones(data)
		if err != nil {
			logger.Warn("Failed to parse keep-out file", "file", file, "err", err)
			continue
		}
		logger.Debug("Loaded keep-out zones", "file", filepath.Base(file), "polygons", len(polygons))
		zones = append(zones, polygons...)
	}

	logger.Info("Keep-out zones loaded", "files", len(files), "polygons", len(zones))
	return zones, nil
}

// ParseKeepOutZones extracts Polygon and MultiPolygon geometries from a
// GeoJSON feature collection. Other geometry types are ignored.
func ParseKeepOutZones(data []byte) ([]orb.Polygon, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w", err)
	}

	var polygons []orb.Polygon
	for _, f := range fc.Features {
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, geom)
		case orb.MultiPolygon:
			polygons = append(polygons, geom...)
		}
	}
	return polygons, nil
}

// ApplyKeepOut returns a copy of m with every cell whose centre lies inside
// one of the zones marked occupied. Zones are in world coordinates.
func ApplyKeepOut(m *planner.OccupancyMap, zones []orb.Polygon, tr Transform) *planner.OccupancyMap {
	if len(zones) == 0 {
		return m
	}

	var blocked []planner.Cell
	for _, zone := range zones {
		poly := toPixelPolygon(zone, tr)
		bound := poly.Bound()
		for y := int(math.Floor(bound.Min.Y())); y <= int(math.Ceil(bound.Max.Y())); y++ {
			for x := int(math.Floor(bound.Min.X())); x <= int(math.Ceil(bound.Max.X())); x++ {
				if planar.PolygonContains(poly, orb.Point{float64(x), float64(y)}) {
					blocked = append(blocked, planner.Cell{X: x, Y: y})
				}
			}
		}
	}

	logger.Debug("Keep-out zones rasterised", "zones", len(zones), "cells", len(blocked))
	return m.WithBlocked(blocked)
}

func toPixelPolygon(zone orb.Polygon, tr Transform) orb.Polygon {
	poly := make(orb.Polygon, len(zone))
	for i, ring := range zone {
		poly[i] = make(orb.Ring, len(ring))
		for j, p := range ring {
			px := tr.WorldToPixel(planner.Point{X: p.X(), Y: p.Y()})
			poly[i][j] = orb.Point{px.X, px.Y}
		}
	}
	return poly
}
