package parser

import "github.com/gcbaptista/go-query-planner/model"

// QueryParser parses the body of a named query clause.
type QueryParser interface {
	// Names lists the clause names the parser is registered under.
	Names() []string
	// Parse reads the body of the clause from pc. The iterator is positioned on
	// the body value and must be left just after it.
	Parse(pc *ParseContext) (model.Query, error)
}

// FilterParser parses the body of a named filter clause.
type FilterParser interface {
	Names() []string
	Parse(pc *ParseContext) (model.Filter, error)
}

// Registry maps clause names to parsers. Register everything before the
// registry is shared; lookups are safe for concurrent use afterwards.
type Registry struct {
	queries map[string]QueryParser
	filters map[string]FilterParser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		queries: make(map[string]QueryParser),
		filters: make(map[string]FilterParser),
	}
}

// DefaultRegistry creates a registry with every built-in parser.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.RegisterQueryParser(&MatchAllQueryParser{})
	r.RegisterQueryParser(&TermQueryParser{})
	r.RegisterQueryParser(&MatchQueryParser{})
	r.RegisterQueryParser(&ConstantScoreQueryParser{})
	r.RegisterQueryParser(&FilteredQueryParser{})

	r.RegisterFilterParser(&MatchAllFilterParser{})
	r.RegisterFilterParser(&TermFilterParser{})
	r.RegisterFilterParser(&TermsFilterParser{})
	r.RegisterFilterParser(&RangeFilterParser{})
	r.RegisterFilterParser(&ExistsFilterParser{})
	r.RegisterFilterParser(&BoolFilterParser{Kind: BoolFilterAnd})
	r.RegisterFilterParser(&BoolFilterParser{Kind: BoolFilterOr})
	r.RegisterFilterParser(&NotFilterParser{})
	r.RegisterFilterParser(&QueryFilterParser{})

	return r
}

// RegisterQueryParser registers p under all of its names, replacing earlier registrations.
func (r *Registry) RegisterQueryParser(p QueryParser) {
	for _, name := range p.Names() {
		r.queries[name] = p
	}
}

// RegisterFilterParser registers p under all of its names, replacing earlier registrations.
func (r *Registry) RegisterFilterParser(p FilterParser) {
	for _, name := range p.Names() {
		r.filters[name] = p
	}
}

// QueryParser returns the query parser registered under name.
func (r *Registry) QueryParser(name string) (QueryParser, bool) {
	p, ok := r.queries[name]
	return p, ok
}

// FilterParser returns the filter parser registered under name.
func (r *Registry) FilterParser(name string) (FilterParser, bool) {
	p, ok := r.filters[name]
	return p, ok
}
