package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gcbaptista/go-query-planner/internal/errors"
)

// EnvPrefix prefixes environment overrides, e.g. QUERY_PLANNER_FILTER_CACHE_SIZE.
const EnvPrefix = "QUERY_PLANNER"

// Load reads settings from the file at path (YAML or JSON, optional when path
// is empty) and from QUERY_PLANNER_* environment variables, which win over the
// file. Defaults are applied and the result is validated.
func Load(path string) (PlannerSettings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("port", defaults.Port)
	v.SetDefault("filter_cache_size", defaults.FilterCacheSize)
	v.SetDefault("max_request_bytes", defaults.MaxRequestBytes)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("match_stop_words", []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return PlannerSettings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var settings PlannerSettings
	if err := v.Unmarshal(&settings); err != nil {
		return PlannerSettings{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return PlannerSettings{}, errors.NewValidationError("config", strings.Join(problems, "; "))
	}
	return settings, nil
}
