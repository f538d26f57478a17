package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a generator failure.
type ErrorCode string

const (
	ErrNoCode             ErrorCode = "NO_CODE"
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrNetworkUnreachable ErrorCode = "NETWORK_UNREACHABLE"
	ErrTimeout            ErrorCode = "TIMEOUT"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrRateLimited        ErrorCode = "RATE_LIMITED"
	ErrQuotaExhausted     ErrorCode = "QUOTA_EXHAUSTED"
	ErrNoProvider         ErrorCode = "NO_PROVIDER_CONFIGURED"
	ErrEmptyResponse      ErrorCode = "EMPTY_RESPONSE"
	ErrUnknown            ErrorCode = "UNKNOWN"
)

// GeneratorError is a structured failure with a code and, for remote
// failures, the provider that produced it.
type GeneratorError struct {
	Code     ErrorCode
	Message  string
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *GeneratorError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s (provider %s)", e.Code, e.Message, e.Provider)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *GeneratorError) Unwrap() error {
	return e.Err
}

// NewNoCode creates the error returned for an empty selection.
func NewNoCode() *GeneratorError {
	return &GeneratorError{
		Code:    ErrNoCode,
		Message: "no code to analyze",
	}
}

// NewInvalidRequest creates an error for malformed input.
func NewInvalidRequest(msg string) *GeneratorError {
	return &GeneratorError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNoProvider creates the error returned when no remote provider is configured.
func NewNoProvider() *GeneratorError {
	return &GeneratorError{
		Code:    ErrNoProvider,
		Message: "no remote provider configured",
	}
}

// NewEmptyResponse creates the error for blank provider output.
func NewEmptyResponse(provider string) *GeneratorError {
	return &GeneratorError{
		Code:     ErrEmptyResponse,
		Message:  "provider returned no usable text",
		Provider: provider,
	}
}

// NewProviderFailure wraps a remote failure under the given code.
func NewProviderFailure(code ErrorCode, provider string, err error) *GeneratorError {
	msg := "remote synthesis failed"
	if err != nil {
		msg = err.Error()
	}
	return &GeneratorError{
		Code:     code,
		Message:  msg,
		Provider: provider,
		Err:      err,
	}
}

// Is checks if err is a GeneratorError with the given code.
func Is(err error, code ErrorCode) bool {
	var gErr *GeneratorError
	if errors.As(err, &gErr) {
		return gErr.Code == code
	}
	return false
}

// CodeOf returns the code of a GeneratorError, or ErrUnknown for other errors.
func CodeOf(err error) ErrorCode {
	var gErr *GeneratorError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	return ErrUnknown
}

var userMessages = map[ErrorCode]string{
	ErrNoCode:             "Please select some code first!",
	ErrInvalidRequest:     "The request was invalid.",
	ErrNetworkUnreachable: "Could not reach the AI service. Check your network connection.",
	ErrTimeout:            "The AI service did not answer in time. Try again later.",
	ErrUnauthorized:       "The AI service rejected the API key. Check your credentials.",
	ErrRateLimited:        "The AI service is rate limiting requests. Wait a moment and retry.",
	ErrQuotaExhausted:     "The AI service quota is exhausted for this API key.",
	ErrNoProvider:         "No AI provider is configured. Set an API key to enable remote synthesis.",
	ErrEmptyResponse:      "The AI service returned an empty answer.",
	ErrUnknown:            "Remote synthesis failed for an unknown reason.",
}

// UserMessage returns the human-readable message shown for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	code := CodeOf(err)
	msg := userMessages[code]
	if code == ErrInvalidRequest {
		var gErr *GeneratorError
		if errors.As(err, &gErr) && gErr.Message != "" {
			return msg + " " + gErr.Message
		}
	}
	return msg
}
