package parser

import (
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/internal/tokenizer"
	"github.com/gcbaptista/go-query-planner/model"
)

// MatchAllQueryParser reads {} or {"boost": n}.
type MatchAllQueryParser struct{}

func (p *MatchAllQueryParser) Names() []string { return []string{"match_all", "matchAll"} }

func (p *MatchAllQueryParser) Parse(pc *ParseContext) (model.Query, error) {
	const name = "match_all"
	query := model.NewMatchAllQuery()
	err := pc.ReadFields(name, func(field string) error {
		if field != "boost" {
			pc.Iterator().Skip()
			return nil
		}
		boost, err := pc.ReadFloat(name, field)
		if err != nil {
			return err
		}
		query.SetBoost(boost)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return query, nil
}

// TermQueryParser reads {"field": value} or {"field": {"value": value, "boost": n}}.
type TermQueryParser struct{}

func (p *TermQueryParser) Names() []string { return []string{"term"} }

func (p *TermQueryParser) Parse(pc *ParseContext) (model.Query, error) {
	const name = "term"
	field, value, boost, err := readSingleFieldValue(pc, name, "value", "term")
	if err != nil {
		return nil, err
	}
	query := model.NewTermQuery(field, value)
	query.SetBoost(boost)
	return query, nil
}

// MatchQueryParser reads {"field": "text"} or
// {"field": {"query": "text", "operator": "and", "boost": n}}. The text is
// analyzed into terms; several terms become a bool query whose clauses are
// all required with operator "and" and optional with "or" (the default).
type MatchQueryParser struct {
	analyzer *tokenizer.Analyzer
}

// NewMatchQueryParser creates a match parser that analyzes text with analyzer
// instead of tokenizer.Standard.
func NewMatchQueryParser(analyzer tokenizer.Analyzer) *MatchQueryParser {
	return &MatchQueryParser{analyzer: &analyzer}
}

func (p *MatchQueryParser) Names() []string { return []string{"match"} }

func (p *MatchQueryParser) Parse(pc *ParseContext) (model.Query, error) {
	const name = "match"

	var fieldName, text string
	occur := model.OccurShould
	boost := model.DefaultBoost

	err := readSingleField(pc, name, func(field string) error {
		fieldName = field
		it := pc.Iterator()
		if it.WhatIsNext() != jsoniter.ObjectValue {
			var err error
			text, err = pc.ReadText(name, field)
			return err
		}
		return pc.ReadFields(name, func(key string) error {
			var err error
			switch key {
			case "query":
				text, err = pc.ReadText(name, key)
			case "boost":
				boost, err = pc.ReadFloat(name, key)
			case "operator":
				var operator string
				operator, err = pc.ReadText(name, key)
				if err == nil {
					occur, err = occurForOperator(operator)
				}
			default:
				it.Skip()
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	analyzer := tokenizer.Standard
	if p.analyzer != nil {
		analyzer = *p.analyzer
	}
	terms := analyzer.Analyze(text)

	if len(terms) == 1 {
		query := model.NewTermQuery(fieldName, terms[0])
		query.SetBoost(boost)
		return query, nil
	}

	clauses := make([]model.BoolClause, len(terms))
	for i, term := range terms {
		clauses[i] = model.BoolClause{Occur: occur, Query: model.NewTermQuery(fieldName, term)}
	}
	query := model.NewBoolQuery(clauses...)
	query.SetBoost(boost)
	return query, nil
}

func occurForOperator(operator string) (model.Occur, error) {
	switch strings.ToLower(operator) {
	case "or":
		return model.OccurShould, nil
	case "and":
		return model.OccurMust, nil
	default:
		return "", errors.NewParsingError("match", "unknown operator [%s]", operator)
	}
}

// ConstantScoreQueryParser reads {"filter": {...}, "boost": n} with the same
// optional _cache and _cache_key keys as the filtered query.
type ConstantScoreQueryParser struct{}

func (p *ConstantScoreQueryParser) Names() []string {
	return []string{"constant_score", "constantScore"}
}

func (p *ConstantScoreQueryParser) Parse(pc *ParseContext) (model.Query, error) {
	const name = "constant_score"
	var (
		filter   model.Filter
		boost    = model.DefaultBoost
		cache    bool
		cacheKey *model.CacheKey
	)

	err := pc.ReadFields(name, func(field string) error {
		var err error
		switch field {
		case "filter":
			filter, err = pc.ParseInnerFilter()
		case "boost":
			boost, err = pc.ReadFloat(name, field)
		case "_cache":
			cache, err = pc.ReadBool(name, field)
		case "_cache_key", "_cacheKey":
			var text string
			if text, err = pc.ReadText(name, field); err == nil {
				key := model.NewCacheKey(text)
				cacheKey = &key
			}
		default:
			pc.Iterator().Skip()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, errors.NewMissingRequiredFieldError(name, "filter")
	}

	if cache {
		filter = pc.CacheFilter(filter, cacheKey)
	}
	return model.NewConstantScoreQuery(filter, boost), nil
}

// readSingleFieldValue reads {"field": value} or {"field": {"<valueKey>": value, "boost": n}},
// the shape shared by term queries and term filters.
func readSingleFieldValue(pc *ParseContext, name string, valueKeys ...string) (string, interface{}, float64, error) {
	var (
		fieldName string
		value     interface{}
		boost     = model.DefaultBoost
	)

	err := readSingleField(pc, name, func(field string) error {
		fieldName = field
		if pc.Iterator().WhatIsNext() != jsoniter.ObjectValue {
			var err error
			value, err = pc.ReadValue(name, field)
			return err
		}
		return pc.ReadFields(name, func(key string) error {
			var err error
			switch {
			case containsString(valueKeys, key):
				value, err = pc.ReadValue(name, key)
			case key == "boost":
				boost, err = pc.ReadFloat(name, key)
			default:
				pc.Iterator().Skip()
			}
			return err
		})
	})
	if err != nil {
		return "", nil, 0, err
	}
	if value == nil {
		return "", nil, 0, errors.NewParsingError(name, "no value specified for field [%s]", fieldName)
	}
	return fieldName, value, boost, nil
}

// readSingleField hands the only key of an object keyed by field name to read.
func readSingleField(pc *ParseContext, name string, read func(field string) error) error {
	var fieldName string
	err := pc.ReadFields(name, func(field string) error {
		switch {
		case fieldName != "":
			return errors.NewParsingError(name, "does not support multiple fields, found [%s] and [%s]", fieldName, field)
		case field == "":
			return errors.NewParsingError(name, "no field specified")
		}
		fieldName = field
		return read(field)
	})
	if err != nil {
		return err
	}
	if fieldName == "" {
		return errors.NewParsingError(name, "no field specified")
	}
	return nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
