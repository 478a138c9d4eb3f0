package model

import (
	"fmt"
	"strings"
)

// FilterType identifies the kind of filter node.
type FilterType int

const (
	FilterTypeMatchAll FilterType = iota
	FilterTypeTerm
	FilterTypeTerms
	FilterTypeRange
	FilterTypeExists
	FilterTypeAnd
	FilterTypeOr
	FilterTypeNot
	FilterTypeQuery
	FilterTypeCached
)

// Filter is an unscored predicate over documents. String returns the canonical
// form of the filter: two filters with equal strings select the same documents,
// which is what the filter cache relies on when no cache key is supplied.
type Filter interface {
	FilterType() FilterType
	String() string
	Describe() Description
}

// MatchAllFilter accepts every document.
type MatchAllFilter struct{}

func NewMatchAllFilter() *MatchAllFilter { return &MatchAllFilter{} }

func (f *MatchAllFilter) FilterType() FilterType { return FilterTypeMatchAll }

func (f *MatchAllFilter) String() string { return "match_all" }

func (f *MatchAllFilter) Describe() Description { return Description{Type: "match_all"} }

// TermFilter accepts documents whose field holds exactly Value.
type TermFilter struct {
	Field string
	Value interface{}
}

func NewTermFilter(field string, value interface{}) *TermFilter {
	return &TermFilter{Field: field, Value: value}
}

func (f *TermFilter) FilterType() FilterType { return FilterTypeTerm }

func (f *TermFilter) String() string {
	return fmt.Sprintf("term(%s:%s)", f.Field, FormatValue(f.Value))
}

func (f *TermFilter) Describe() Description {
	return Description{Type: "term", Field: f.Field, Value: f.Value}
}

// TermsFilter accepts documents whose field holds any of Values.
type TermsFilter struct {
	Field  string
	Values []interface{}
}

func NewTermsFilter(field string, values ...interface{}) *TermsFilter {
	return &TermsFilter{Field: field, Values: values}
}

func (f *TermsFilter) FilterType() FilterType { return FilterTypeTerms }

func (f *TermsFilter) String() string {
	return fmt.Sprintf("terms(%s:%s)", f.Field, FormatValue(f.Values))
}

func (f *TermsFilter) Describe() Description {
	return Description{Type: "terms", Field: f.Field, Value: f.Values}
}

// RangeFilter accepts documents whose field falls between From and To.
// A nil bound is open.
type RangeFilter struct {
	Field        string
	From         interface{}
	To           interface{}
	IncludeLower bool
	IncludeUpper bool
}

func (f *RangeFilter) FilterType() FilterType { return FilterTypeRange }

func (f *RangeFilter) String() string {
	lower, upper := "{", "}"
	if f.IncludeLower {
		lower = "["
	}
	if f.IncludeUpper {
		upper = "]"
	}
	return fmt.Sprintf("range(%s:%s%s TO %s%s)", f.Field, lower, formatBound(f.From), formatBound(f.To), upper)
}

func (f *RangeFilter) Describe() Description {
	return Description{Type: "range", Field: f.Field, Value: f.String()}
}

func formatBound(bound interface{}) string {
	if bound == nil {
		return "*"
	}
	return FormatValue(bound)
}

// ExistsFilter accepts documents that have a value for Field.
type ExistsFilter struct {
	Field string
}

func NewExistsFilter(field string) *ExistsFilter { return &ExistsFilter{Field: field} }

func (f *ExistsFilter) FilterType() FilterType { return FilterTypeExists }

func (f *ExistsFilter) String() string { return "exists(" + f.Field + ")" }

func (f *ExistsFilter) Describe() Description { return Description{Type: "exists", Field: f.Field} }

// AndFilter accepts documents accepted by all of its filters.
type AndFilter struct {
	Filters []Filter
}

func NewAndFilter(filters ...Filter) *AndFilter { return &AndFilter{Filters: filters} }

func (f *AndFilter) FilterType() FilterType { return FilterTypeAnd }

func (f *AndFilter) String() string { return "and(" + joinFilters(f.Filters) + ")" }

func (f *AndFilter) Describe() Description { return describeFilters("and", f.Filters) }

// OrFilter accepts documents accepted by any of its filters.
type OrFilter struct {
	Filters []Filter
}

func NewOrFilter(filters ...Filter) *OrFilter { return &OrFilter{Filters: filters} }

func (f *OrFilter) FilterType() FilterType { return FilterTypeOr }

func (f *OrFilter) String() string { return "or(" + joinFilters(f.Filters) + ")" }

func (f *OrFilter) Describe() Description { return describeFilters("or", f.Filters) }

// NotFilter accepts documents rejected by Filter.
type NotFilter struct {
	Filter Filter
}

func NewNotFilter(filter Filter) *NotFilter { return &NotFilter{Filter: filter} }

func (f *NotFilter) FilterType() FilterType { return FilterTypeNot }

func (f *NotFilter) String() string { return "not(" + f.Filter.String() + ")" }

func (f *NotFilter) Describe() Description { return describeFilters("not", []Filter{f.Filter}) }

// QueryFilter uses the documents matched by a query as a filter, dropping its score.
type QueryFilter struct {
	Query Query
}

func NewQueryFilter(query Query) *QueryFilter { return &QueryFilter{Query: query} }

func (f *QueryFilter) FilterType() FilterType { return FilterTypeQuery }

func (f *QueryFilter) String() string { return "query(" + f.Query.String() + ")" }

func (f *QueryFilter) Describe() Description {
	return Description{Type: "query", Children: []Description{withRole(f.Query.Describe(), "query")}}
}

func joinFilters(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, filter := range filters {
		parts[i] = filter.String()
	}
	return strings.Join(parts, ", ")
}

func describeFilters(kind string, filters []Filter) Description {
	d := Description{Type: kind}
	for _, filter := range filters {
		d.Children = append(d.Children, filter.Describe())
	}
	return d
}
