// Package queryutil holds structural predicates over query nodes.
package queryutil

import "github.com/gcbaptista/go-query-planner/model"

// IsMatchAllQuery reports whether query matches every document with a uniform
// score. The test is structural and ignores boosts, so a match_all query with
// any boost qualifies, as does a constant score query over a match_all filter.
func IsMatchAllQuery(query model.Query) bool {
	switch q := query.(type) {
	case *model.MatchAllQuery:
		return true
	case *model.ConstantScoreQuery:
		return IsMatchAllFilter(q.Filter)
	default:
		return false
	}
}

// IsMatchAllFilter reports whether filter accepts every document. Wrapping
// filters that expose Unwrap, such as cached filters, are looked through.
func IsMatchAllFilter(filter model.Filter) bool {
	for {
		switch f := filter.(type) {
		case *model.MatchAllFilter:
			return true
		case interface{ Unwrap() model.Filter }:
			filter = f.Unwrap()
		default:
			return false
		}
	}
}
