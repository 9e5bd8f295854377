package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryWidget    Category = "widget"
	CategoryDOM       Category = "dom"
	CategoryLifecycle Category = "lifecycle"
	CategoryProtocol  Category = "protocol"
	CategoryCLI       Category = "cli"
)

// WidgetError is a structured error with a code, node context and suggestion.
type WidgetError struct {
	// Code is a unique error identifier (e.g., "W101").
	Code string

	// Category is the error type (config, widget, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Tag is the element tag of the node involved, if any.
	Tag string

	// Key is the property key involved, if any.
	Key string

	// Widget is the name of the widget factory involved, if any.
	Widget string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *WidgetError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Key != "" {
		msg += fmt.Sprintf(" (key %q)", e.Key)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WidgetError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a *WidgetError with the same code.
func (e *WidgetError) Is(target error) bool {
	t, ok := target.(*WidgetError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithTag records the element tag of the failing node.
func (e *WidgetError) WithTag(tag string) *WidgetError {
	e.Tag = tag
	return e
}

// WithKey records the property key that failed.
func (e *WidgetError) WithKey(key string) *WidgetError {
	e.Key = key
	return e
}

// WithWidget records the widget factory name.
func (e *WidgetError) WithWidget(name string) *WidgetError {
	e.Widget = name
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WidgetError) WithSuggestion(s string) *WidgetError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *WidgetError) WithDetail(d string) *WidgetError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *WidgetError) Wrap(err error) *WidgetError {
	e.Wrapped = err
	return e
}

// New creates a WidgetError from a registered error code.
func New(code string) *WidgetError {
	template, ok := registry[code]
	if !ok {
		return &WidgetError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WidgetError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new WidgetError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *WidgetError {
	return &WidgetError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a WidgetError.
// Errors that already are (or wrap) a WidgetError are returned as is.
func FromError(err error, code string) *WidgetError {
	if err == nil {
		return nil
	}
	var we *WidgetError
	if stderrors.As(err, &we) {
		return we
	}
	return New(code).Wrap(err)
}

// CategoryOf returns the category of the first WidgetError in err's chain.
func CategoryOf(err error) Category {
	var we *WidgetError
	if stderrors.As(err, &we) {
		return we.Category
	}
	return ""
}

// Code returns the code of the first WidgetError in err's chain.
func Code(err error) string {
	var we *WidgetError
	if stderrors.As(err, &we) {
		return we.Code
	}
	return ""
}
