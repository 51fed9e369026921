package script

import (
	"errors"
	"fmt"
)

// ParseErrorCode categorizes parse failures.
type ParseErrorCode string

const (
	// ErrCodeEmptyInput indicates the input was empty after normalization.
	ErrCodeEmptyInput ParseErrorCode = "EMPTY_INPUT"

	// ErrCodeUnbalanced indicates mismatched brackets or braces.
	ErrCodeUnbalanced ParseErrorCode = "UNBALANCED"

	// ErrCodeEmptyCombinator indicates an any/all body with no parsable child.
	ErrCodeEmptyCombinator ParseErrorCode = "EMPTY_COMBINATOR"

	// ErrCodeMissingKeyword indicates a required keyword (e.g. "then") was absent.
	ErrCodeMissingKeyword ParseErrorCode = "MISSING_KEYWORD"

	// ErrCodeUnknownAction indicates an unrecognized action type.
	ErrCodeUnknownAction ParseErrorCode = "UNKNOWN_ACTION"

	// ErrCodeMissingValue indicates a required value was absent.
	ErrCodeMissingValue ParseErrorCode = "MISSING_VALUE"

	// ErrCodeBadValue indicates a value that does not match its grammar.
	ErrCodeBadValue ParseErrorCode = "BAD_VALUE"

	// ErrCodeDepthExceeded indicates nesting beyond the parser's depth guard.
	ErrCodeDepthExceeded ParseErrorCode = "DEPTH_EXCEEDED"
)

// ParseError is returned for any malformed condition or action source.
// Parse failures are always recoverable: callers treat the result as absent
// and decide their own fallback.
type ParseError struct {
	Code    ParseErrorCode
	Message string
	Input   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (input=%q)", e.Code, e.Message, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsParseError reports whether err is (or wraps) a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

func parseErrorf(code ParseErrorCode, input, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
	}
}
