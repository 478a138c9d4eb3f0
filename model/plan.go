package model

import "fmt"

// Plan is the result of combining a query with a filter. It is a closed set:
// only *ConstantScoreQuery and *FilteredQuery implement it, so a type switch
// over a Plan with both cases is exhaustive.
type Plan interface {
	Query
	planNode()
}

// PlanKind names the variant of a Plan.
type PlanKind string

const (
	PlanKindConstantScore PlanKind = "constant_score"
	PlanKindFiltered      PlanKind = "filtered"
)

// PlanKindOf reports which variant plan is.
func PlanKindOf(plan Plan) PlanKind {
	switch plan.(type) {
	case *ConstantScoreQuery:
		return PlanKindConstantScore
	case *FilteredQuery:
		return PlanKindFiltered
	default:
		panic(fmt.Sprintf("model: unexpected plan node %T", plan))
	}
}

// ConstantScoreQuery matches the documents accepted by Filter and gives each of
// them a score equal to its boost. No scoring machinery runs.
type ConstantScoreQuery struct {
	boosted
	Filter Filter
}

// NewConstantScoreQuery creates a constant score plan over filter.
func NewConstantScoreQuery(filter Filter, boost float64) *ConstantScoreQuery {
	return &ConstantScoreQuery{boosted: boosted{boost}, Filter: filter}
}

func (q *ConstantScoreQuery) planNode() {}

func (q *ConstantScoreQuery) QueryType() QueryType { return QueryTypeConstantScore }

func (q *ConstantScoreQuery) String() string {
	return "constant_score(" + q.Filter.String() + ")" + q.boostSuffix()
}

func (q *ConstantScoreQuery) Describe() Description {
	return Description{
		Type:     "constant_score",
		Boost:    q.boost,
		Children: []Description{withRole(q.Filter.Describe(), "filter")},
	}
}

// FilteredQuery matches documents accepted by both Query and Filter. The score
// of a match is the score of Query scaled by the boost of the plan node.
type FilteredQuery struct {
	boosted
	Query  Query
	Filter Filter
}

// NewFilteredQuery creates a filtered plan.
func NewFilteredQuery(query Query, filter Filter, boost float64) *FilteredQuery {
	return &FilteredQuery{boosted: boosted{boost}, Query: query, Filter: filter}
}

func (q *FilteredQuery) planNode() {}

func (q *FilteredQuery) QueryType() QueryType { return QueryTypeFiltered }

func (q *FilteredQuery) String() string {
	return "filtered(" + q.Query.String() + ", " + q.Filter.String() + ")" + q.boostSuffix()
}

func (q *FilteredQuery) Describe() Description {
	return Description{
		Type:  "filtered",
		Boost: q.boost,
		Children: []Description{
			withRole(q.Query.Describe(), "query"),
			withRole(q.Filter.Describe(), "filter"),
		},
	}
}
