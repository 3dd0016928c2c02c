package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeUnknownBuffer   = "unknown_buffer"
	ErrCodeProtectedBuffer = "protected_buffer"
	ErrCodeBadUsage        = "bad_usage"
	ErrCodeDeliveryFailed  = "delivery_failed"
)

var (
	ErrUnknownBuffer   = errors.New("unknown buffer")
	ErrProtectedBuffer = errors.New("protected buffer")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
