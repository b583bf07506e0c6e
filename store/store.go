// Package store keeps a history of planned routes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"path-planner/logger"
	"path-planner/planner"
)

// ErrNotFound is returned by Get for an unknown plan ID.
var ErrNotFound = errors.New("plan not found")

// PlanRecord is one route request and its outcome.
type PlanRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	GoalX  float64 `json:"goal_x"`
	GoalY  float64 `json:"goal_y"`

	Found           bool    `json:"found"`
	Message         string  `json:"message,omitempty"`
	NodeCount       int     `json:"node_count"`
	Expanded        int     `json:"expanded"`
	Cost            float64 `json:"cost"`
	HeuristicWeight float64 `json:"heuristic_weight"`

	// PathJSON is the smoothed path, encoded as a JSON point array.
	PathJSON string `gorm:"type:text" json:"-"`
}

// Path decodes the stored path.
func (r *PlanRecord) Path() ([]planner.Point, error) {
	if r.PathJSON == "" {
		return nil, nil
	}
	var points []planner.Point
	if err := json.Unmarshal([]byte(r.PathJSON), &points); err != nil {
		return nil, fmt.Errorf("failed to decode path of plan %s: %w", r.ID, err)
	}
	return points, nil
}

// SetPath encodes points into PathJSON.
func (r *PlanRecord) SetPath(points []planner.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	r.PathJSON = string(data)
	return nil
}

// Store wraps the plan history database.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the schema. A "mysql://" prefix selects
// MySQL; anything else is treated as a SQLite file name (":memory:" works).
func Open(dsn string) (*Store, error) {
	var dialector gorm.Dialector
	driver := "sqlite"
	if rest, ok := strings.CutPrefix(dsn, "mysql://"); ok {
		dialector = mysql.Open(rest)
		driver = "mysql"
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if err := db.AutoMigrate(&PlanRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger.Info("Plan store ready", "driver", driver)
	return &Store{db: db}, nil
}

// Save inserts rec, assigning an ID when it has none.
func (s *Store) Save(ctx context.Context, rec *PlanRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Get loads a single plan by ID.
func (s *Store) Get(ctx context.Context, id string) (*PlanRecord, error) {
	var rec PlanRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &rec, nil
}

// Recent returns up to limit plans, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]PlanRecord, error) {
	var recs []PlanRecord
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
