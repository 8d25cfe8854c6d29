package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrInvariant  = errors.New("invariant violation")
)

// ValidationError lists every problem found while building an entity.
type ValidationError struct {
	Entity   string
	Problems []string
}

func NewValidationError(entity string, problems ...string) *ValidationError {
	return &ValidationError{Entity: entity, Problems: problems}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add records a problem.
func (e *ValidationError) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Err returns e when it holds problems and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// NotFoundError names a missing entity by id, or by Key for lookups that
// do not use the id.
type NotFoundError struct {
	Entity string
	ID     int64
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q: not found", e.Entity, e.Key)
	}
	return fmt.Sprintf("%s %d: not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InvariantViolation rejects an operation that would break a state rule,
// such as starting a second open session on one task.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariant }
