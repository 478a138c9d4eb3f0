// Package model defines the plan fragments produced by the query parsers:
// scored queries, unscored filters, and the plan nodes that combine them.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// QueryType identifies the kind of query node.
type QueryType int

const (
	QueryTypeMatchAll QueryType = iota
	QueryTypeTerm
	QueryTypeBool
	QueryTypeConstantScore
	QueryTypeFiltered
)

var queryTypeNames = map[QueryType]string{
	QueryTypeMatchAll:      "match_all",
	QueryTypeTerm:          "term",
	QueryTypeBool:          "bool",
	QueryTypeConstantScore: "constant_score",
	QueryTypeFiltered:      "filtered",
}

func (t QueryType) String() string {
	if name, ok := queryTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Query is a scored predicate over documents. Every query carries a mutable
// boost multiplier that scales the score it produces.
type Query interface {
	QueryType() QueryType
	Boost() float64
	SetBoost(boost float64)
	// String returns the canonical form of the query, boost included when it is not 1.
	String() string
	Describe() Description
}

// DefaultBoost is the boost a query starts with.
const DefaultBoost = 1.0

type boosted struct {
	boost float64
}

func (b *boosted) Boost() float64 { return b.boost }

func (b *boosted) SetBoost(boost float64) { b.boost = boost }

func (b *boosted) boostSuffix() string {
	if b.boost == DefaultBoost {
		return ""
	}
	return "^" + strconv.FormatFloat(b.boost, 'f', -1, 64)
}

// MatchAllQuery matches every document with the same score.
type MatchAllQuery struct {
	boosted
}

// NewMatchAllQuery creates a match-all query with the default boost.
func NewMatchAllQuery() *MatchAllQuery {
	return &MatchAllQuery{boosted{DefaultBoost}}
}

func (q *MatchAllQuery) QueryType() QueryType { return QueryTypeMatchAll }

func (q *MatchAllQuery) String() string { return "match_all" + q.boostSuffix() }

func (q *MatchAllQuery) Describe() Description {
	return Description{Type: "match_all", Boost: q.boost}
}

// TermQuery matches documents whose field holds exactly Value.
type TermQuery struct {
	boosted
	Field string
	Value interface{}
}

// NewTermQuery creates a term query with the default boost.
func NewTermQuery(field string, value interface{}) *TermQuery {
	return &TermQuery{boosted: boosted{DefaultBoost}, Field: field, Value: value}
}

func (q *TermQuery) QueryType() QueryType { return QueryTypeTerm }

func (q *TermQuery) String() string {
	return fmt.Sprintf("term(%s:%s)%s", q.Field, FormatValue(q.Value), q.boostSuffix())
}

func (q *TermQuery) Describe() Description {
	return Description{Type: "term", Boost: q.boost, Field: q.Field, Value: q.Value}
}

// Occur says how a clause of a BoolQuery takes part in matching.
type Occur string

const (
	OccurMust   Occur = "must"
	OccurShould Occur = "should"
)

// BoolClause is a single clause of a BoolQuery.
type BoolClause struct {
	Occur Occur
	Query Query
}

// BoolQuery combines sub-queries. Must clauses are all required, and when there
// are no must clauses at least one should clause has to match.
type BoolQuery struct {
	boosted
	Clauses []BoolClause
}

// NewBoolQuery creates a bool query with the default boost.
func NewBoolQuery(clauses ...BoolClause) *BoolQuery {
	return &BoolQuery{boosted: boosted{DefaultBoost}, Clauses: clauses}
}

func (q *BoolQuery) QueryType() QueryType { return QueryTypeBool }

func (q *BoolQuery) String() string {
	parts := make([]string, len(q.Clauses))
	for i, clause := range q.Clauses {
		prefix := ""
		if clause.Occur == OccurMust {
			prefix = "+"
		}
		parts[i] = prefix + clause.Query.String()
	}
	return "bool(" + strings.Join(parts, " ") + ")" + q.boostSuffix()
}

func (q *BoolQuery) Describe() Description {
	d := Description{Type: "bool", Boost: q.boost}
	for _, clause := range q.Clauses {
		child := clause.Query.Describe()
		child.Occur = string(clause.Occur)
		d.Children = append(d.Children, child)
	}
	return d
}

// FormatValue renders a term value the way canonical strings show it.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
