// Package metrics exposes Prometheus collectors for plan construction and the filter cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlansBuilt counts plans by the kind of root node ("constant_score", "filtered" or "query").
	PlansBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_planner_plans_built_total",
			Help: "Total number of query plans built",
		},
		[]string{"kind"},
	)
	// PlanFailures counts specifications rejected while parsing.
	PlanFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_planner_plan_failures_total",
			Help: "Total number of query specifications that failed to plan",
		},
		[]string{"reason"},
	)
	// PlanDuration is the time spent turning a specification into a plan.
	PlanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "query_planner_plan_duration_seconds",
			Help:    "Time spent parsing and planning a query specification",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)
	// FilterCacheRequests counts cache lookups by outcome ("hit", "miss" or "bypass").
	FilterCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_planner_filter_cache_requests_total",
			Help: "Total number of filter cache requests",
		},
		[]string{"result"},
	)
	// FilterCacheEntries is the number of filters held by all caches of the
	// process. Caches move it by the entries they add and drop, never Set it.
	FilterCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "query_planner_filter_cache_entries",
			Help: "Number of filters held in the filter caches",
		},
	)
)
