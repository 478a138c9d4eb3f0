package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-query-planner/internal/errors"
)

func TestApplyDefaults(t *testing.T) {
	settings := PlannerSettings{LogLevel: "DEBUG"}
	settings.ApplyDefaults()

	assert.Equal(t, DefaultPort, settings.Port)
	assert.Equal(t, DefaultFilterCacheSize, settings.FilterCacheSize)
	assert.Equal(t, int64(DefaultMaxRequestBytes), settings.MaxRequestBytes)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, DefaultLogFormat, settings.LogFormat)
	assert.Nil(t, settings.MatchStopWords)

	settings = PlannerSettings{MatchStopWords: []string{" The ", "A"}}
	settings.ApplyDefaults()
	assert.Equal(t, []string{"the", "a"}, settings.MatchStopWords)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		settings       PlannerSettings
		expectedErrors int
	}{
		{
			name:           "defaults are valid",
			settings:       DefaultSettings(),
			expectedErrors: 0,
		},
		{
			name: "negative sizes",
			settings: PlannerSettings{
				Port: "8080", FilterCacheSize: -1, MaxRequestBytes: -1, LogLevel: "info", LogFormat: "json",
			},
			expectedErrors: 2,
		},
		{
			name: "unknown log level and format",
			settings: PlannerSettings{
				Port: "8080", FilterCacheSize: 10, MaxRequestBytes: 10, LogLevel: "verbose", LogFormat: "xml",
			},
			expectedErrors: 2,
		},
		{
			name: "blank stop word",
			settings: PlannerSettings{
				Port: "8080", FilterCacheSize: 10, MaxRequestBytes: 10, LogLevel: "info", LogFormat: "text",
				MatchStopWords: []string{"the", "", " "},
			},
			expectedErrors: 1,
		},
		{
			name: "blank port",
			settings: PlannerSettings{
				Port: "  ", FilterCacheSize: 10, MaxRequestBytes: 10, LogLevel: "warn", LogFormat: "text",
			},
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := tt.settings.Validate()
			assert.Len(t, problems, tt.expectedErrors, "problems: %v", problems)
		})
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := "port: \"9090\"\nfilter_cache_size: 50\nlog_format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("QUERY_PLANNER_FILTER_CACHE_SIZE", "75")
	t.Setenv("QUERY_PLANNER_LOG_LEVEL", "debug")

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", settings.Port)
	assert.Equal(t, 75, settings.FilterCacheSize, "environment wins over the file")
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
	assert.Equal(t, int64(DefaultMaxRequestBytes), settings.MaxRequestBytes)
}

func TestLoad_InvalidSettings(t *testing.T) {
	t.Setenv("QUERY_PLANNER_LOG_FORMAT", "xml")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "log_format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_MatchStopWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planner.yaml")
	content := "match_stop_words:\n  - The\n  - of\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"the", "of"}, settings.MatchStopWords)

	t.Setenv("QUERY_PLANNER_MATCH_STOP_WORDS", "a,an")
	settings, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "an"}, settings.MatchStopWords, "environment wins over the file")
}
