package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType classifies an application error
type ErrorType string

const (
	// ErrTypeConnection covers failures reaching the remote cache backend
	ErrTypeConnection ErrorType = "connection"
	// ErrTypeTimeout covers deadline expiry on remote operations
	ErrTypeTimeout ErrorType = "timeout"
	// ErrTypeSerialization covers value encode/decode failures at the L2 boundary
	ErrTypeSerialization ErrorType = "serialization"
	// ErrTypeConfig covers invalid or missing configuration
	ErrTypeConfig ErrorType = "config"
	// ErrTypeNotFound covers lookups of absent resources
	ErrTypeNotFound ErrorType = "not_found"
	// ErrTypeCapacity covers bounded-store overflow conditions
	ErrTypeCapacity ErrorType = "capacity"
	// ErrTypeInternal covers unexpected internal failures
	ErrTypeInternal ErrorType = "internal"
)

// AppError is the structured error type used across the engine. Op names the
// operation that failed (e.g. "l2.get"), Context carries diagnostic key/values.
type AppError struct {
	Type    ErrorType              `json:"type"`
	Op      string                 `json:"op,omitempty"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	parts := make([]string, 0, 4)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	parts = append(parts, string(e.Type), e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ctxParts := make([]string, 0, len(keys))
		for _, k := range keys {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(ctxParts, ", ")))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type, so that
// errors.Is(err, &AppError{Type: ErrTypeTimeout}) works across wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// WithOp records the failing operation
func (e *AppError) WithOp(op string) *AppError {
	e.Op = op
	return e
}

// WithContext adds a diagnostic key/value pair
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ConnectionError creates a new connection error
func ConnectionError(msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeConnection, Message: msg, Cause: cause}
}

// TimeoutError creates a new timeout error for the named operation
func TimeoutError(op string, cause error) *AppError {
	return &AppError{Type: ErrTypeTimeout, Op: op, Message: "deadline exceeded", Cause: cause}
}

// SerializationError creates a new serialization error
func SerializationError(msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeSerialization, Message: msg, Cause: cause}
}

// ConfigError creates a new configuration error
func ConfigError(msg string) *AppError {
	return &AppError{Type: ErrTypeConfig, Message: msg}
}

// NotFoundError creates a new not found error
func NotFoundError(resource string) *AppError {
	return &AppError{Type: ErrTypeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// CapacityError creates a new capacity error
func CapacityError(msg string) *AppError {
	return &AppError{Type: ErrTypeCapacity, Message: msg}
}

// InternalError creates a new internal error
func InternalError(msg string, cause error) *AppError {
	return &AppError{Type: ErrTypeInternal, Message: msg, Cause: cause}
}

// IsType checks if an error (anywhere in its chain) is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Type == errType
}

// GetType returns the error type, ErrTypeInternal for foreign errors
func GetType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return ErrTypeInternal
	}
	return appErr.Type
}
