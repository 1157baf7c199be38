package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput        = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON       = errors.New("invalid JSON format")
	ErrInvalidYAML       = errors.New("invalid YAML format")
	ErrMultipleDocuments = errors.New("multiple documents found, only one is allowed")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileEmpty         = errors.New("file is empty")
	ErrNoInput           = errors.New("no input provided: please specify a file or pipe data to stdin with -")
	ErrNotFound          = errors.New("pointer does not address a value")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeResolve    ErrorType = "resolve"
	ErrorTypeExpression ErrorType = "expression"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeConfig     ErrorType = "config"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to decoding a document
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewResolveError creates a new error related to pointer resolution
func NewResolveError(message string, err error) *AppError {
	return newError(ErrorTypeResolve, message, err)
}

// NewExpressionError creates a new error related to expression evaluation
func NewExpressionError(message string, err error) *AppError {
	return newError(ErrorTypeExpression, message, err)
}

// NewOutputError creates a new error related to rendering output
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", appErr.Message)
		case ErrorTypeResolve:
			return fmt.Sprintf("Pointer error: %s", appErr.Message)
		case ErrorTypeExpression:
			return fmt.Sprintf("Expression error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	switch {
	case errors.Is(err, ErrEmptyInput):
		return "Error: The input is empty. Please provide a JSON or YAML document."
	case errors.Is(err, ErrInvalidJSON):
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	case errors.Is(err, ErrInvalidYAML):
		return "Error: The input contains invalid YAML. Please check your YAML syntax."
	case errors.Is(err, ErrMultipleDocuments):
		return "Error: Multiple documents found. Please provide a single document."
	case errors.Is(err, ErrFileNotFound):
		return "Error: The specified file could not be found. Please check the file path."
	case errors.Is(err, ErrFileEmpty):
		return "Error: The specified file is empty."
	case errors.Is(err, ErrNoInput):
		return "Error: No input provided. Please specify a file, or - to read stdin."
	case errors.Is(err, ErrNotFound):
		return "Error: The pointer does not address a value in the document."
	case errors.Is(err, ErrUnsupportedFormat):
		return "Error: Unsupported format."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
