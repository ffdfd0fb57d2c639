package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arthur-debert/nanofire/nanofire"
)

// CLIError represents a user-friendly CLI error with context and suggestions
type CLIError struct {
	Operation   string   // The operation that failed (e.g., "set", "list", "get")
	Cause       string   // The underlying cause (e.g., "document not found")
	Details     string   // Additional technical details
	Suggestions []string // Helpful suggestions for the user
	Underlying  error    // Original error for debugging
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var msg strings.Builder

	if e.Operation != "" {
		msg.WriteString(fmt.Sprintf("Failed to %s", e.Operation))
	} else {
		msg.WriteString("Operation failed")
	}
	if e.Cause != "" {
		msg.WriteString(fmt.Sprintf(": %s", e.Cause))
	}
	if e.Details != "" {
		msg.WriteString(fmt.Sprintf(" (%s)", e.Details))
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			msg.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return msg.String()
}

// Unwrap returns the underlying error for error chain compatibility
func (e *CLIError) Unwrap() error {
	return e.Underlying
}

// NewValidationError creates an error for malformed arguments
func NewValidationError(operation, field, value string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("invalid %s: %q", field, value),
		Suggestions: suggestions,
		Underlying:  nanofire.ErrInvalidArgument,
	}
}

// NewNotFoundError creates an error for missing documents
func NewNotFoundError(operation, path string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("document %q not found", path),
		Suggestions: suggestions,
		Underlying:  nanofire.ErrNotFound,
	}
}

// NewConfigError creates an error for configuration issues
func NewConfigError(operation, issue string, suggestions ...string) *CLIError {
	return &CLIError{
		Operation:   operation,
		Cause:       fmt.Sprintf("configuration error: %s", issue),
		Suggestions: suggestions,
	}
}

// NewStoreError creates an error for failures reported by the database
func NewStoreError(operation string, underlying error, suggestions ...string) *CLIError {
	cause := "store operation failed"
	details := ""

	if underlying != nil {
		details = underlying.Error()

		errStr := strings.ToLower(details)
		switch {
		case errors.Is(underlying, nanofire.ErrNotFound):
			cause = "no matching document"
		case errors.Is(underlying, nanofire.ErrInvalidArgument):
			cause = "invalid data provided"
		case strings.Contains(errStr, "permission denied"):
			cause = "insufficient permissions to access database"
		case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "failed to acquire lock"):
			cause = "database is currently locked by another process"
		case strings.Contains(errStr, "connection refused"):
			cause = "database server unreachable"
		}
	}

	return &CLIError{
		Operation:   operation,
		Cause:       cause,
		Details:     details,
		Suggestions: suggestions,
		Underlying:  underlying,
	}
}

// NewFilterError creates an error for a malformed --where or --order flag
func NewFilterError(operation, filter, issue string) *CLIError {
	return &CLIError{
		Operation: operation,
		Cause:     fmt.Sprintf("invalid filter %q: %s", filter, issue),
		Suggestions: []string{
			"Use format: --where field:operator:value (value is JSON, bare words are strings)",
			"Available operators: ==, !=, >, >=, <, <=, in, not-in, array-contains, array-contains-any",
			"Use format: --order field or --order field:desc",
		},
		Underlying: nanofire.ErrInvalidArgument,
	}
}

// WrapError wraps an existing error with CLI-friendly context
func WrapError(operation string, err error, suggestions ...string) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		if cliErr.Operation == "" {
			cliErr.Operation = operation
		}
		return cliErr
	}

	return NewStoreError(operation, err, suggestions...)
}

// CommonSuggestions are shared hints for error messages
var CommonSuggestions = struct {
	CheckBackend string
	CheckPath    string
	CheckID      string
	CheckConfig  string
	CheckJSON    string
	RunHelp      string
}{
	CheckBackend: "Verify --backend is one of: json, sqlite, pgx, postgres, memory",
	CheckPath:    "Verify --path or --dsn points to a reachable database",
	CheckID:      "Verify the document id exists (try the 'list' command first)",
	CheckConfig:  "Check your configuration file or NANOFIRE_* environment variables",
	CheckJSON:    `Documents are JSON objects, e.g. '{"name":"Mike","age":39}'`,
	RunHelp:      "Run command with --help for usage information",
}
