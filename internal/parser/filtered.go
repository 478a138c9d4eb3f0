package parser

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/internal/plan"
	"github.com/gcbaptista/go-query-planner/model"
)

// FilteredQueryName is the clause name of the filtered query.
const FilteredQueryName = "filtered"

// filteredField enumerates the keys a filtered body can carry.
type filteredField int

const (
	filteredFieldUnknown filteredField = iota
	filteredFieldQuery
	filteredFieldFilter
	filteredFieldBoost
	filteredFieldCache
	filteredFieldCacheKey
)

func lookupFilteredField(name string) filteredField {
	switch name {
	case "query":
		return filteredFieldQuery
	case "filter":
		return filteredFieldFilter
	case "boost":
		return filteredFieldBoost
	case "_cache":
		return filteredFieldCache
	case "_cache_key", "_cacheKey":
		return filteredFieldCacheKey
	default:
		return filteredFieldUnknown
	}
}

// FilteredQueryParser reads
//
//	{"query": {...}, "filter": {...}, "boost": 1.0, "_cache": false, "_cache_key": "..."}
//
// and builds a constant score or filtered plan from it. query and filter are
// required; the other keys are optional and unknown keys are ignored.
type FilteredQueryParser struct{}

func (p *FilteredQueryParser) Names() []string { return []string{FilteredQueryName} }

func (p *FilteredQueryParser) Parse(pc *ParseContext) (model.Query, error) {
	spec := plan.NewFilteredSpec()

	err := pc.ReadFields(FilteredQueryName, func(name string) error {
		return p.readField(pc, lookupFilteredField(name), name, &spec)
	})
	if err != nil {
		return nil, err
	}

	if spec.Query == nil {
		return nil, errors.NewMissingRequiredFieldError(FilteredQueryName, "query")
	}
	if spec.Filter == nil {
		return nil, errors.NewMissingRequiredFieldError(FilteredQueryName, "filter")
	}

	return plan.NewBuilder(pc).Build(spec), nil
}

// readField consumes the value of one key. A value whose kind does not fit
// the key (a scalar query, an object boost, any array) is skipped rather than
// rejected, the same as an unknown key.
func (p *FilteredQueryParser) readField(pc *ParseContext, field filteredField, name string, spec *plan.FilteredSpec) error {
	it := pc.Iterator()
	next := it.WhatIsNext()
	isObject := next == jsoniter.ObjectValue
	isScalar := next == jsoniter.StringValue || next == jsoniter.NumberValue || next == jsoniter.BoolValue

	switch {
	case field == filteredFieldQuery && isObject:
		query, err := pc.ParseInnerQuery()
		if err != nil {
			return err
		}
		spec.Query = query
	case field == filteredFieldFilter && isObject:
		filter, err := pc.ParseInnerFilter()
		if err != nil {
			return err
		}
		spec.Filter = filter
	case field == filteredFieldBoost && isScalar:
		boost, err := pc.ReadFloat(FilteredQueryName, name)
		if err != nil {
			return err
		}
		spec.Boost = boost
	case field == filteredFieldCache && isScalar:
		cache, err := pc.ReadBool(FilteredQueryName, name)
		if err != nil {
			return err
		}
		spec.Cache = cache
	case field == filteredFieldCacheKey && isScalar:
		// Kept even when _cache is false; the builder then ignores it.
		text, err := pc.ReadText(FilteredQueryName, name)
		if err != nil {
			return err
		}
		key := model.NewCacheKey(text)
		spec.CacheKey = &key
	case field == filteredFieldUnknown:
		it.Skip()
	default:
		it.Skip()
	}
	return pc.CheckSyntax(FilteredQueryName)
}
