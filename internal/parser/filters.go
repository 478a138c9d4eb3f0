package parser

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/model"
)

// MatchAllFilterParser reads {}.
type MatchAllFilterParser struct{}

func (p *MatchAllFilterParser) Names() []string { return []string{"match_all", "matchAll"} }

func (p *MatchAllFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	if err := pc.ExpectObject("match_all"); err != nil {
		return nil, err
	}
	pc.Iterator().Skip()
	return model.NewMatchAllFilter(), pc.CheckSyntax("match_all")
}

// TermFilterParser reads {"field": value}. Keys starting with an underscore,
// such as _cache or _name, are ignored.
type TermFilterParser struct{}

func (p *TermFilterParser) Names() []string { return []string{"term"} }

func (p *TermFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	const name = "term"
	var filter *model.TermFilter

	err := readFieldClauses(pc, name, func(field string) error {
		if filter != nil {
			return errors.NewParsingError(name, "does not support multiple fields, found [%s] and [%s]", filter.Field, field)
		}
		value, err := pc.ReadValue(name, field)
		if err != nil {
			return err
		}
		filter = model.NewTermFilter(field, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, errors.NewParsingError(name, "no field specified")
	}
	return filter, nil
}

// TermsFilterParser reads {"field": [v1, v2, ...]}. execution and underscore
// prefixed keys are ignored.
type TermsFilterParser struct{}

func (p *TermsFilterParser) Names() []string { return []string{"terms", "in"} }

func (p *TermsFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	const name = "terms"
	var filter *model.TermsFilter

	err := readFieldClauses(pc, name, func(field string) error {
		if field == "execution" {
			pc.Iterator().Skip()
			return nil
		}
		if filter != nil {
			return errors.NewParsingError(name, "does not support multiple fields, found [%s] and [%s]", filter.Field, field)
		}
		values, err := pc.ReadValues(name, field)
		if err != nil {
			return err
		}
		filter = model.NewTermsFilter(field, values...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, errors.NewParsingError(name, "no field specified")
	}
	return filter, nil
}

// RangeFilterParser reads {"field": {"gte": a, "lt": b}}. from, to,
// include_lower and include_upper are accepted as well; gt, gte, lt and lte
// set both the bound and its inclusiveness.
type RangeFilterParser struct{}

func (p *RangeFilterParser) Names() []string { return []string{"range"} }

func (p *RangeFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	const name = "range"
	var filter *model.RangeFilter

	err := readFieldClauses(pc, name, func(field string) error {
		if filter != nil {
			return errors.NewParsingError(name, "does not support multiple fields, found [%s] and [%s]", filter.Field, field)
		}
		filter = &model.RangeFilter{Field: field, IncludeLower: true, IncludeUpper: true}
		return readRangeBounds(pc, filter)
	})
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, errors.NewParsingError(name, "no field specified")
	}
	return filter, nil
}

func readRangeBounds(pc *ParseContext, filter *model.RangeFilter) error {
	const name = "range"
	return pc.ReadFields(name, func(key string) error {
		var err error
		switch key {
		case "from":
			filter.From, err = readBound(pc, key)
		case "to":
			filter.To, err = readBound(pc, key)
		case "include_lower", "includeLower":
			filter.IncludeLower, err = pc.ReadBool(name, key)
		case "include_upper", "includeUpper":
			filter.IncludeUpper, err = pc.ReadBool(name, key)
		case "gt":
			filter.From, err = readBound(pc, key)
			filter.IncludeLower = false
		case "gte", "ge":
			filter.From, err = readBound(pc, key)
			filter.IncludeLower = true
		case "lt":
			filter.To, err = readBound(pc, key)
			filter.IncludeUpper = false
		case "lte", "le":
			filter.To, err = readBound(pc, key)
			filter.IncludeUpper = true
		default:
			return errors.NewParsingError(name, "[range] filter does not support [%s]", key)
		}
		return err
	})
}

// readBound reads a range bound; null leaves the bound open.
func readBound(pc *ParseContext, key string) (interface{}, error) {
	if pc.Iterator().ReadNil() {
		return nil, nil
	}
	return pc.ReadValue("range", key)
}

// ExistsFilterParser reads {"field": "name"}.
type ExistsFilterParser struct{}

func (p *ExistsFilterParser) Names() []string { return []string{"exists"} }

func (p *ExistsFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	const name = "exists"

	field := ""
	err := pc.ReadFields(name, func(key string) error {
		if key != "field" {
			pc.Iterator().Skip()
			return nil
		}
		text, err := pc.ReadText(name, key)
		field = text
		return err
	})
	if err != nil {
		return nil, err
	}
	if field == "" {
		return nil, errors.NewMissingRequiredFieldError(name, "field")
	}
	return model.NewExistsFilter(field), nil
}

// BoolFilterKind selects how a BoolFilterParser combines its filters.
type BoolFilterKind string

const (
	BoolFilterAnd BoolFilterKind = "and"
	BoolFilterOr  BoolFilterKind = "or"
)

// BoolFilterParser reads either an array of filters or {"filters": [...]}.
type BoolFilterParser struct {
	Kind BoolFilterKind
}

func (p *BoolFilterParser) Names() []string { return []string{string(p.Kind)} }

func (p *BoolFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	name := string(p.Kind)
	it := pc.Iterator()

	var (
		filters []model.Filter
		found   bool
		err     error
	)
	switch next := it.WhatIsNext(); next {
	case jsoniter.ArrayValue:
		filters, err = p.readFilters(pc)
		found = true
	case jsoniter.ObjectValue:
		err = pc.ReadFields(name, func(key string) error {
			if key != "filters" {
				it.Skip()
				return nil
			}
			var readErr error
			filters, readErr = p.readFilters(pc)
			found = readErr == nil
			return readErr
		})
	default:
		it.Skip()
		return nil, errors.NewParsingError(name, "expected an array or an object, found %s", valueTypeName(next))
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.NewMissingRequiredFieldError(name, "filters")
	}

	if p.Kind == BoolFilterOr {
		return model.NewOrFilter(filters...), nil
	}
	return model.NewAndFilter(filters...), nil
}

func (p *BoolFilterParser) readFilters(pc *ParseContext) ([]model.Filter, error) {
	name := string(p.Kind)
	it := pc.Iterator()
	if next := it.WhatIsNext(); next != jsoniter.ArrayValue {
		it.Skip()
		return nil, errors.NewParsingError(name, "[filters] expects an array, found %s", valueTypeName(next))
	}

	filters := make([]model.Filter, 0)
	for it.ReadArray() {
		filter, err := pc.ParseInnerFilter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	return filters, pc.CheckSyntax(name)
}

// NotFilterParser reads {"filter": {...}}.
type NotFilterParser struct{}

func (p *NotFilterParser) Names() []string { return []string{"not"} }

func (p *NotFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	const name = "not"

	var inner model.Filter
	err := pc.ReadFields(name, func(key string) error {
		if key != "filter" {
			pc.Iterator().Skip()
			return nil
		}
		filter, err := pc.ParseInnerFilter()
		inner = filter
		return err
	})
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, errors.NewMissingRequiredFieldError(name, "filter")
	}
	return model.NewNotFilter(inner), nil
}

// QueryFilterParser wraps a query, {"query": {"term": {...}}}.
type QueryFilterParser struct{}

func (p *QueryFilterParser) Names() []string { return []string{"query"} }

func (p *QueryFilterParser) Parse(pc *ParseContext) (model.Filter, error) {
	query, err := pc.ParseInnerQuery()
	if err != nil {
		return nil, err
	}
	return model.NewQueryFilter(query), nil
}

// readFieldClauses iterates a filter body and calls read for every key that
// is neither empty nor starts with an underscore. read must consume the key's
// value.
func readFieldClauses(pc *ParseContext, name string, read func(field string) error) error {
	return pc.ReadFields(name, func(key string) error {
		if key == "" || strings.HasPrefix(key, "_") {
			pc.Iterator().Skip()
			return nil
		}
		return read(key)
	})
}
