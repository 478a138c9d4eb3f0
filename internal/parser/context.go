// Package parser reads declarative query specifications from a JSON token
// stream and turns them into plan fragments.
package parser

import (
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/internal/plan"
	"github.com/gcbaptista/go-query-planner/model"
)

// ParseContext carries the token stream and collaborators for one parse. It is
// not safe for concurrent use; create one per specification.
type ParseContext struct {
	iter     *jsoniter.Iterator
	registry *Registry
	cacher   plan.FilterCacher
}

// NewParseContext creates a context reading source. cacher may be nil, in
// which case filters asked to be cached are used as they are.
func NewParseContext(source []byte, registry *Registry, cacher plan.FilterCacher) *ParseContext {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &ParseContext{
		iter:     jsoniter.ParseBytes(jsoniter.ConfigCompatibleWithStandardLibrary, source),
		registry: registry,
		cacher:   cacher,
	}
}

// ParseQuery parses a complete query object such as {"filtered": {...}}.
func ParseQuery(source []byte, registry *Registry, cacher plan.FilterCacher) (model.Query, error) {
	pc := NewParseContext(source, registry, cacher)
	query, err := pc.ParseInnerQuery()
	if err != nil {
		return nil, err
	}
	// Only whitespace may follow; reaching the end of input sets io.EOF.
	if next := pc.iter.WhatIsNext(); next != jsoniter.InvalidValue || pc.iter.Error != io.EOF {
		return nil, errors.NewParsingError("", "unexpected content after the query object")
	}
	return query, nil
}

// Iterator exposes the token stream to parsers.
func (pc *ParseContext) Iterator() *jsoniter.Iterator { return pc.iter }

// CacheFilter implements plan.FilterCacher by delegating to the configured cache.
func (pc *ParseContext) CacheFilter(filter model.Filter, key *model.CacheKey) model.Filter {
	if pc.cacher == nil {
		return filter
	}
	return pc.cacher.CacheFilter(filter, key)
}

// ParseInnerQuery reads an object of the form {"<name>": <body>} and hands the
// body to the query parser registered under name.
func (pc *ParseContext) ParseInnerQuery() (model.Query, error) {
	var query model.Query
	err := pc.parseClause("query", func(name string) error {
		parser, ok := pc.registry.QueryParser(name)
		if !ok {
			return errors.NewUnknownParserError("query", name)
		}
		var err error
		query, err = parser.Parse(pc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return query, nil
}

// ParseInnerFilter reads an object of the form {"<name>": <body>} and hands the
// body to the filter parser registered under name.
func (pc *ParseContext) ParseInnerFilter() (model.Filter, error) {
	var filter model.Filter
	err := pc.parseClause("filter", func(name string) error {
		parser, ok := pc.registry.FilterParser(name)
		if !ok {
			return errors.NewUnknownParserError("filter", name)
		}
		var err error
		filter, err = parser.Parse(pc)
		return err
	})
	if err != nil {
		return nil, err
	}
	return filter, nil
}

// parseClause dispatches the single key of a clause object to parse. The
// object must hold exactly one key; "" is a key like any other.
func (pc *ParseContext) parseClause(kind string, parse func(name string) error) error {
	if next := pc.iter.WhatIsNext(); next != jsoniter.ObjectValue {
		pc.iter.Skip()
		return errors.NewParsingError("", "expected a %s object, found %s", kind, valueTypeName(next))
	}
	var (
		name     string
		seen     bool
		parseErr error
	)
	pc.iter.ReadObjectCB(func(_ *jsoniter.Iterator, field string) bool {
		if seen {
			parseErr = errors.NewParsingError(name, "malformed clause, expected end of object but found [%s]", field)
			return false
		}
		name, seen = field, true
		parseErr = parse(field)
		return parseErr == nil && pc.iter.Error == nil
	})
	if parseErr != nil {
		return parseErr
	}
	if err := pc.CheckSyntax(name); err != nil {
		return err
	}
	if !seen {
		return errors.NewParsingError("", "empty %s clause", kind)
	}
	return nil
}

// ReadFields calls read with every key of the object at the current position.
// read must consume the value of the key it is given. Iteration stops at the
// first error, which is returned as is.
func (pc *ParseContext) ReadFields(queryName string, read func(field string) error) error {
	if err := pc.ExpectObject(queryName); err != nil {
		return err
	}
	var readErr error
	pc.iter.ReadObjectCB(func(_ *jsoniter.Iterator, field string) bool {
		readErr = read(field)
		return readErr == nil && pc.iter.Error == nil
	})
	if readErr != nil {
		return readErr
	}
	return pc.CheckSyntax(queryName)
}

// ExpectObject fails unless the next value is an object. ReadFields calls it
// before iterating.
func (pc *ParseContext) ExpectObject(queryName string) error {
	if next := pc.iter.WhatIsNext(); next != jsoniter.ObjectValue {
		pc.iter.Skip()
		return errors.NewParsingError(queryName, "expected an object, found %s", valueTypeName(next))
	}
	return nil
}

// CheckSyntax converts a token stream error into a ParsingError for queryName.
func (pc *ParseContext) CheckSyntax(queryName string) error {
	if pc.iter.Error == nil {
		return nil
	}
	return errors.NewParsingError(queryName, "%v", pc.iter.Error)
}

// ReadFloat reads a number, or a string holding a number.
func (pc *ParseContext) ReadFloat(queryName, field string) (float64, error) {
	switch next := pc.iter.WhatIsNext(); next {
	case jsoniter.NumberValue:
		value := pc.iter.ReadFloat64()
		return value, pc.CheckSyntax(queryName)
	case jsoniter.StringValue:
		text := pc.iter.ReadString()
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, errors.NewParsingError(queryName, "[%s] expects a number, got [%s]", field, text)
		}
		return value, nil
	default:
		pc.iter.Skip()
		return 0, errors.NewParsingError(queryName, "[%s] expects a number, found %s", field, valueTypeName(next))
	}
}

// ReadBool reads a boolean, a "true"/"false" string, or a number (non-zero is true).
func (pc *ParseContext) ReadBool(queryName, field string) (bool, error) {
	switch next := pc.iter.WhatIsNext(); next {
	case jsoniter.BoolValue:
		return pc.iter.ReadBool(), nil
	case jsoniter.StringValue:
		text := pc.iter.ReadString()
		value, err := strconv.ParseBool(text)
		if err != nil {
			return false, errors.NewParsingError(queryName, "[%s] expects a boolean, got [%s]", field, text)
		}
		return value, nil
	case jsoniter.NumberValue:
		value := pc.iter.ReadFloat64()
		return value != 0, pc.CheckSyntax(queryName)
	default:
		pc.iter.Skip()
		return false, errors.NewParsingError(queryName, "[%s] expects a boolean, found %s", field, valueTypeName(next))
	}
}

// ReadText reads any scalar as text.
func (pc *ParseContext) ReadText(queryName, field string) (string, error) {
	switch next := pc.iter.WhatIsNext(); next {
	case jsoniter.StringValue:
		return pc.iter.ReadString(), nil
	case jsoniter.NumberValue:
		number := pc.iter.ReadNumber()
		return number.String(), pc.CheckSyntax(queryName)
	case jsoniter.BoolValue:
		return strconv.FormatBool(pc.iter.ReadBool()), nil
	default:
		pc.iter.Skip()
		return "", errors.NewParsingError(queryName, "[%s] expects a string, found %s", field, valueTypeName(next))
	}
}

// ReadValue reads a scalar term value: a string, a float64 or a bool.
func (pc *ParseContext) ReadValue(queryName, field string) (interface{}, error) {
	switch next := pc.iter.WhatIsNext(); next {
	case jsoniter.StringValue:
		return pc.iter.ReadString(), nil
	case jsoniter.NumberValue:
		value := pc.iter.ReadFloat64()
		return value, pc.CheckSyntax(queryName)
	case jsoniter.BoolValue:
		return pc.iter.ReadBool(), nil
	default:
		pc.iter.Skip()
		return nil, errors.NewParsingError(queryName, "[%s] expects a scalar value, found %s", field, valueTypeName(next))
	}
}

// ReadValues reads an array of scalar values.
func (pc *ParseContext) ReadValues(queryName, field string) ([]interface{}, error) {
	if next := pc.iter.WhatIsNext(); next != jsoniter.ArrayValue {
		pc.iter.Skip()
		return nil, errors.NewParsingError(queryName, "[%s] expects an array, found %s", field, valueTypeName(next))
	}
	values := make([]interface{}, 0)
	for pc.iter.ReadArray() {
		value, err := pc.ReadValue(queryName, field)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, pc.CheckSyntax(queryName)
}

func valueTypeName(t jsoniter.ValueType) string {
	switch t {
	case jsoniter.StringValue:
		return "string"
	case jsoniter.NumberValue:
		return "number"
	case jsoniter.NilValue:
		return "null"
	case jsoniter.BoolValue:
		return "boolean"
	case jsoniter.ArrayValue:
		return "array"
	case jsoniter.ObjectValue:
		return "object"
	default:
		return "invalid token"
	}
}
