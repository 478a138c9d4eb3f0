package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrMalformedSpecification is returned when a query specification cannot be turned into a plan
	ErrMalformedSpecification = errors.New("malformed specification")

	// ErrUnknownQueryType is returned when no parser is registered for a query or filter name
	ErrUnknownQueryType = errors.New("unknown query type")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// MissingRequiredFieldError is returned when a query object closes without a mandatory element
type MissingRequiredFieldError struct {
	QueryName string
	Field     string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("[%s] requires '%s' element", e.QueryName, e.Field)
}

func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMalformedSpecification
}

// NewMissingRequiredFieldError creates a new MissingRequiredFieldError
func NewMissingRequiredFieldError(queryName, field string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{QueryName: queryName, Field: field}
}

// ParsingError represents a syntax or value error inside a named query or filter
type ParsingError struct {
	QueryName string
	Message   string
}

func (e *ParsingError) Error() string {
	if e.QueryName != "" {
		return fmt.Sprintf("[%s] failed to parse: %s", e.QueryName, e.Message)
	}
	return fmt.Sprintf("failed to parse: %s", e.Message)
}

func (e *ParsingError) Is(target error) bool {
	return target == ErrMalformedSpecification
}

// NewParsingError creates a new ParsingError
func NewParsingError(queryName, format string, args ...interface{}) *ParsingError {
	return &ParsingError{QueryName: queryName, Message: fmt.Sprintf(format, args...)}
}

// UnknownParserError is returned when a query or filter name has no registered parser
type UnknownParserError struct {
	Kind string // "query" or "filter"
	Name string
}

func (e *UnknownParserError) Error() string {
	return fmt.Sprintf("no %s registered for [%s]", e.Kind, e.Name)
}

func (e *UnknownParserError) Is(target error) bool {
	return target == ErrUnknownQueryType
}

// NewUnknownParserError creates a new UnknownParserError
func NewUnknownParserError(kind, name string) *UnknownParserError {
	return &UnknownParserError{Kind: kind, Name: name}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
