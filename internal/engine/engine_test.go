package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-query-planner/config"
	"github.com/gcbaptista/go-query-planner/internal/errors"
	"github.com/gcbaptista/go-query-planner/internal/filtercache"
	"github.com/gcbaptista/go-query-planner/internal/logger"
	"github.com/gcbaptista/go-query-planner/internal/parser"
	"github.com/gcbaptista/go-query-planner/model"
	"github.com/gcbaptista/go-query-planner/services"
)

var _ services.QueryPlanner = (*Engine)(nil)

func newTestEngine(cacheSize int) *Engine {
	settings := config.DefaultSettings()
	settings.FilterCacheSize = cacheSize
	return NewEngine(settings, logger.Discard())
}

func TestEngine_PlanConstantScore(t *testing.T) {
	eng := newTestEngine(10)

	result, err := eng.Plan([]byte(`{"filtered": {"query": {"match_all": {}}, "filter": {"term": {"a": 1}}, "boost": 2.0}}`))
	require.NoError(t, err)

	assert.Equal(t, string(model.PlanKindConstantScore), result.Kind)
	assert.Equal(t, "constant_score(term(a:1))^2", result.Canonical)
	assert.Equal(t, "constant_score", result.Plan.Type)
	assert.Equal(t, 2.0, result.Plan.Boost)
	_, err = uuid.Parse(result.PlanID)
	assert.NoError(t, err)
}

func TestEngine_PlanFilteredSharesCachedFilter(t *testing.T) {
	eng := newTestEngine(10)
	source := []byte(`{"filtered": {"query": {"term": {"b": 2}}, "filter": {"term": {"a": 1}}, "_cache": true, "_cache_key": "k1"}}`)

	first, err := eng.Plan(source)
	require.NoError(t, err)
	second, err := eng.Plan(source)
	require.NoError(t, err)

	assert.Equal(t, string(model.PlanKindFiltered), first.Kind)
	assert.Equal(t, "filtered(term(b:2), cached(term(a:1)))", first.Canonical)
	assert.NotEqual(t, first.PlanID, second.PlanID)

	firstFilter := first.Query.(*model.FilteredQuery).Filter
	secondFilter := second.Query.(*model.FilteredQuery).Filter
	assert.Same(t, firstFilter, secondFilter)

	stats := eng.CacheStats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)

	require.Len(t, first.Plan.Children, 2)
	assert.Equal(t, "filter", first.Plan.Children[1].Role)
	assert.Equal(t, "key:k1", first.Plan.Children[1].CacheKey)
}

func TestEngine_PlainQueryRoot(t *testing.T) {
	eng := newTestEngine(10)

	result, err := eng.Plan([]byte(`{"term": {"a": "x"}}`))
	require.NoError(t, err)
	assert.Equal(t, KindQuery, result.Kind)
	assert.Equal(t, "term(a:x)", result.Canonical)
}

func TestEngine_PlanErrors(t *testing.T) {
	eng := newTestEngine(10)

	_, err := eng.Plan([]byte(`{"filtered": {"filter": {"term": {"a": 1}}}}`))
	assert.ErrorIs(t, err, errors.ErrMalformedSpecification)
	assert.Equal(t, "malformed", failureReason(err))

	_, err = eng.Plan([]byte(`{"fuzzy": {}}`))
	assert.ErrorIs(t, err, errors.ErrUnknownQueryType)
	assert.Equal(t, "unknown_type", failureReason(err))

	assert.Equal(t, 0, eng.CacheStats().Entries)
}

func TestEngine_ClearCache(t *testing.T) {
	eng := newTestEngine(10)
	_, err := eng.Plan([]byte(`{"constant_score": {"filter": {"exists": {"field": "a"}}, "_cache": true}}`))
	require.NoError(t, err)
	require.Equal(t, 1, eng.CacheStats().Entries)

	eng.ClearCache()

	assert.Equal(t, filtercache.Stats{MaxEntries: 10}, eng.CacheStats())
}

func TestEngine_ConcurrentPlans(t *testing.T) {
	eng := newTestEngine(100)
	source := []byte(`{"filtered": {"query": {"match": {"title": "the matrix"}}, "filter": {"range": {"year": {"gte": 1999}}}, "_cache": true}}`)

	const workers = 32
	filters := make([]model.Filter, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := eng.Plan(source)
			if !assert.NoError(t, err) {
				return
			}
			filters[i] = result.Query.(*model.FilteredQuery).Filter
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, filters[0], filters[i])
	}
	assert.Equal(t, 1, eng.CacheStats().Entries)
}

// prefixQueryParser reads {"field": "prefix"} into a term on the prefix.
type prefixQueryParser struct{}

func (p *prefixQueryParser) Names() []string { return []string{"prefix"} }

func (p *prefixQueryParser) Parse(pc *parser.ParseContext) (model.Query, error) {
	var query model.Query
	err := pc.ReadFields("prefix", func(field string) error {
		text, err := pc.ReadText("prefix", field)
		query = model.NewTermQuery(field, text+"*")
		return err
	})
	if err != nil {
		return nil, err
	}
	return query, nil
}

func TestEngine_CustomParserThroughRegistry(t *testing.T) {
	eng := newTestEngine(10)

	_, err := eng.Plan([]byte(`{"filtered": {"query": {"prefix": {"title": "mat"}}, "filter": {"term": {"a": 1}}}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownQueryType)

	eng.Registry().RegisterQueryParser(&prefixQueryParser{})

	result, err := eng.Plan([]byte(`{"filtered": {"query": {"prefix": {"title": "mat"}}, "filter": {"term": {"a": 1}}}}`))
	require.NoError(t, err)
	assert.Equal(t, string(model.PlanKindFiltered), result.Kind)
	assert.Equal(t, "filtered(term(title:mat*), term(a:1))", result.Canonical)
}

func TestEngine_MatchStopWordsFromSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MatchStopWords = []string{"the"}
	eng := NewEngine(settings, logger.Discard())

	result, err := eng.Plan([]byte(`{"match": {"title": "The Matrix"}}`))
	require.NoError(t, err)
	assert.Equal(t, "term(title:matrix)", result.Canonical)

	result, err = newTestEngine(10).Plan([]byte(`{"match": {"title": "The Matrix"}}`))
	require.NoError(t, err)
	assert.Equal(t, "bool(term(title:the) term(title:matrix))", result.Canonical)
}
