// Package errors provides the structured error type used across viewcraft
// for category-based classification of registration, lookup, middleware,
// and engine failures.
package errors

import (
	"errors"
	"fmt"
)

// Category classifies a viewcraft error.
type Category string

const (
	// CategoryConfig marks invalid arguments to registration APIs.
	// These are programmer errors and surface immediately.
	CategoryConfig Category = "config"

	// CategoryNotFound marks unresolved lookups: unknown collections,
	// unresolved document keys, or an extension with no registered engine.
	CategoryNotFound Category = "notfound"

	// CategoryMiddleware marks a handler aborting a hook chain.
	CategoryMiddleware Category = "middleware"

	// CategoryEngine marks a compile or render failure in an engine adapter.
	CategoryEngine Category = "engine"
)

// ContextFields carries structured context for an Error.
type ContextFields map[string]any

// Error is a structured error with category and optional cause.
type Error struct {
	Category Category
	Message  string
	Cause    error
	Context  ContextFields
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap exposes the cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates an Error with the given category.
func New(category Category, message string) *Error {
	return &Error{Category: category, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(category Category, format string, args ...any) *Error {
	return &Error{Category: category, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that wraps an existing error.
func Wrap(err error, category Category, message string) *Error {
	return &Error{Category: category, Message: message, Cause: err}
}

// Config creates a configuration error.
func Config(message string) *Error {
	return New(CategoryConfig, message)
}

// Configf creates a formatted configuration error.
func Configf(format string, args ...any) *Error {
	return Newf(CategoryConfig, format, args...)
}

// NotFound creates a lookup error.
func NotFound(format string, args ...any) *Error {
	return Newf(CategoryNotFound, format, args...)
}

// Middleware wraps a handler error.
func Middleware(err error, hook string, path string) *Error {
	e := Wrap(err, CategoryMiddleware, fmt.Sprintf("handler failed for hook %q", hook))
	return e.WithContext("path", path)
}

// Engine wraps an adapter compile/render error.
func Engine(err error, message string) *Error {
	return Wrap(err, CategoryEngine, message)
}

// IsCategory reports whether err (or anything it wraps) belongs to category.
func IsCategory(err error, category Category) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Category == category
	}
	return false
}

// IsConfig reports whether err is a configuration error.
func IsConfig(err error) bool { return IsCategory(err, CategoryConfig) }

// IsNotFound reports whether err is a lookup error.
func IsNotFound(err error) bool { return IsCategory(err, CategoryNotFound) }

// IsEngine reports whether err is an engine adapter error.
func IsEngine(err error) bool { return IsCategory(err, CategoryEngine) }

// IsMiddleware reports whether err is a middleware error.
func IsMiddleware(err error) bool { return IsCategory(err, CategoryMiddleware) }
