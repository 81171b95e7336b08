// Package errors classifies generation failures and drives the bounded
// re-draw loop of the generator.
//
// The package implements a layered approach:
//   - Categorization: decide whether drawing again can help
//   - Retry: re-run a failed attempt up to a fixed number of times
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Category represents how an error should be handled.
type Category int

const (
	// CategoryRecoverable indicates a fresh draw will likely succeed.
	// Examples: a shower that ran out of phase space, a cluster below
	// the two-hadron threshold, a user veto of the parton level.
	CategoryRecoverable Category = iota

	// CategoryTerminal indicates retrying cannot help.
	// Examples: cancelled context, recovered panic, inconsistent setup.
	CategoryTerminal
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryRecoverable:
		return "recoverable"
	case CategoryTerminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with its category and context.
type CategorizedError struct {
	// Err is the underlying error.
	Err error

	// Category indicates how this error should be handled.
	Category Category

	// Attempts is the number of attempts that have been made.
	Attempts int

	// Context describes what operation was being attempted.
	Context string
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (category: %s, attempts: %d)",
			e.Context, e.Err, e.Category, e.Attempts)
	}
	return fmt.Sprintf("%s (category: %s, attempts: %d)",
		e.Err, e.Category, e.Attempts)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error {
	return e.Err
}

// NewCategorized creates a new categorized error.
func NewCategorized(err error, category Category, context string) *CategorizedError {
	return &CategorizedError{
		Err:      err,
		Category: category,
		Context:  context,
	}
}

// Recoverable marks err as worth another draw.
func Recoverable(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryRecoverable, context)
}

// Terminal marks err as final for the current event.
func Terminal(err error, context string) *CategorizedError {
	return NewCategorized(err, CategoryTerminal, context)
}

// Categorize determines how an error should be handled.
//
// Stage failures are recoverable unless marked otherwise: a failed draw is
// the normal reason to draw again.
func Categorize(err error) Category {
	if err == nil {
		return CategoryTerminal // shouldn't happen, fail safe
	}

	// Check for already-categorized errors
	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr.Category
	}

	// Context errors end the run
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryTerminal
	}

	return CategoryRecoverable
}

// IsRetryable reports whether the error should be retried.
func IsRetryable(err error) bool {
	return Categorize(err) == CategoryRecoverable
}
