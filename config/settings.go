// Package config provides configuration structures for the query planner.
// It defines the planner settings, their defaults and validation.
package config

import (
	"strings"
)

const (
	DefaultPort            = "8080"
	DefaultFilterCacheSize = 1000
	DefaultMaxRequestBytes = 1 << 20 // 1MB
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

// PlannerSettings contains all configuration options for a planner instance.
type PlannerSettings struct {
	Port            string `json:"port" yaml:"port" mapstructure:"port"`                                        // HTTP listen port
	FilterCacheSize int    `json:"filter_cache_size" yaml:"filter_cache_size" mapstructure:"filter_cache_size"` // Maximum number of shared cached filters
	MaxRequestBytes int64  `json:"max_request_bytes" yaml:"max_request_bytes" mapstructure:"max_request_bytes"` // Largest accepted request body
	LogLevel        string `json:"log_level" yaml:"log_level" mapstructure:"log_level"`                         // debug, info, warn or error
	LogFormat       string `json:"log_format" yaml:"log_format" mapstructure:"log_format"`                      // text or json

	// MatchStopWords are dropped from match query text before it becomes terms.
	MatchStopWords []string `json:"match_stop_words,omitempty" yaml:"match_stop_words,omitempty" mapstructure:"match_stop_words"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() PlannerSettings {
	var settings PlannerSettings
	settings.ApplyDefaults()
	return settings
}

// ApplyDefaults applies default values to unset settings
func (settings *PlannerSettings) ApplyDefaults() {
	if strings.TrimSpace(settings.Port) == "" {
		settings.Port = DefaultPort
	}
	if settings.FilterCacheSize == 0 {
		settings.FilterCacheSize = DefaultFilterCacheSize
	}
	if settings.MaxRequestBytes == 0 {
		settings.MaxRequestBytes = DefaultMaxRequestBytes
	}
	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}
	if settings.LogFormat == "" {
		settings.LogFormat = DefaultLogFormat
	}
	settings.LogLevel = strings.ToLower(settings.LogLevel)
	settings.LogFormat = strings.ToLower(settings.LogFormat)

	if len(settings.MatchStopWords) == 0 {
		settings.MatchStopWords = nil
	}
	for i, word := range settings.MatchStopWords {
		settings.MatchStopWords[i] = strings.ToLower(strings.TrimSpace(word))
	}
}

// Validate returns one message per invalid setting. It expects defaults to be applied.
func (settings *PlannerSettings) Validate() []string {
	var errors []string

	if strings.TrimSpace(settings.Port) == "" {
		errors = append(errors, "port cannot be empty")
	}
	if settings.FilterCacheSize < 0 {
		errors = append(errors, "filter_cache_size cannot be negative")
	}
	if settings.MaxRequestBytes < 0 {
		errors = append(errors, "max_request_bytes cannot be negative")
	}

	for _, word := range settings.MatchStopWords {
		if strings.TrimSpace(word) == "" {
			errors = append(errors, "match_stop_words cannot contain empty words")
			break
		}
	}

	switch settings.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, "Invalid log_level '"+settings.LogLevel+"' (must be 'debug', 'info', 'warn' or 'error')")
	}

	switch settings.LogFormat {
	case "text", "json":
	default:
		errors = append(errors, "Invalid log_format '"+settings.LogFormat+"' (must be 'text' or 'json')")
	}

	return errors
}
