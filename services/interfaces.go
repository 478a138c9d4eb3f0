package services

import (
	"time"

	"github.com/gcbaptista/go-query-planner/internal/filtercache"
	"github.com/gcbaptista/go-query-planner/model"
)

// PlanResult describes the plan built for one query specification.
type PlanResult struct {
	PlanID    string            `json:"plan_id" yaml:"plan_id"`     // unique UUID for this plan
	Kind      string            `json:"kind" yaml:"kind"`           // "constant_score", "filtered" or "query" when the root is not a plan node
	Canonical string            `json:"canonical" yaml:"canonical"` // canonical string of the root query
	Plan      model.Description `json:"plan" yaml:"plan"`
	Took      time.Duration     `json:"took" yaml:"took"` // nanoseconds
	// Query is the parsed root, not serialized.
	Query model.Query `json:"-" yaml:"-"`
}

// Planner turns query specifications into plans.
type Planner interface {
	Plan(source []byte) (PlanResult, error)
}

// FilterCacheManager exposes the shared filter cache.
type FilterCacheManager interface {
	CacheStats() filtercache.Stats
	ClearCache()
}

// QueryPlanner is the full surface served over HTTP and the CLI.
type QueryPlanner interface {
	Planner
	FilterCacheManager
}
