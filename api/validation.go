// Package api provides the HTTP surface of the query planner.
package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Output formats accepted by the plan endpoint.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// PlanRequest is the body of POST /_plan.
type PlanRequest struct {
	// Query is kept raw and handed to the planner's own token stream parser.
	Query json.RawMessage `json:"query"`
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidatePlanRequest checks that a query object was provided. Its content is
// validated by the planner.
func ValidatePlanRequest(req *PlanRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil {
		result.AddError("body", "Request body is required")
		return result
	}

	query := bytes.TrimSpace(req.Query)
	switch {
	case len(query) == 0 || bytes.Equal(query, []byte("null")):
		result.AddError("query", "Query is required")
	case query[0] != '{':
		result.AddError("query", "Query must be a JSON object")
	}

	return result
}

// ValidateFormat normalizes the requested output format, defaulting to JSON.
func ValidateFormat(format string) (string, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case "", FormatJSON:
		return FormatJSON, result
	case FormatYAML, "yml":
		return FormatYAML, result
	default:
		result.AddError("format", "Unsupported format '"+format+"' (must be 'json' or 'yaml')")
		return "", result
	}
}
