package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors())
	assert.Equal(t, []ValidationError{{Field: "field1", Message: "error message"}}, result.Errors)
}

func TestValidatePlanRequest(t *testing.T) {
	tests := []struct {
		name        string
		request     *PlanRequest
		expectValid bool
	}{
		{"nil request", nil, false},
		{"missing query", &PlanRequest{}, false},
		{"null query", &PlanRequest{Query: json.RawMessage("null")}, false},
		{"array query", &PlanRequest{Query: json.RawMessage(" [1] ")}, false},
		{"string query", &PlanRequest{Query: json.RawMessage(`"match_all"`)}, false},
		{"object query", &PlanRequest{Query: json.RawMessage(`{"match_all": {}}`)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidatePlanRequest(tt.request)
			assert.Equal(t, tt.expectValid, !result.HasErrors(), "errors: %v", result.Errors)
		})
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		valid    bool
	}{
		{"", FormatJSON, true},
		{"JSON", FormatJSON, true},
		{"yaml", FormatYAML, true},
		{" yml ", FormatYAML, true},
		{"xml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, result := ValidateFormat(tt.input)
			assert.Equal(t, tt.expected, format)
			assert.Equal(t, tt.valid, !result.HasErrors())
		})
	}
}
