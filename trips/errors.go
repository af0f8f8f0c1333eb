/*
errors.go - Centralized error types for the trip engine

PURPOSE:
  All error classifications in one place. Callers dispatch with errors.Is
  against the sentinels; the structured types carry field/id context and
  unwrap to the matching sentinel.

ERROR CATEGORIES:
  1. Validation errors - malformed field on create/edit/import
  2. Lookup errors     - trip id absent from the vehicle's collection
  3. Kind errors       - kind-specific operation applied to the wrong kind
  4. Transition errors - status change attempted from a terminal state
  5. Argument errors   - derived-calculation input out of domain
  6. Persistence errors - store load/save failure, surfaced without retry

USAGE:
  if errors.Is(err, trips.ErrNotFound) { ... }

  var verr *trips.ValidationError
  if errors.As(err, &verr) { log.Printf("bad field %s", verr.Field) }
*/
package trips

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidation is returned when a trip field fails validation.
	// No partial mutation is ever committed on validation failure.
	ErrValidation = errors.New("validation error")

	// ErrNotFound is returned when an operation references a trip id that is
	// absent from the vehicle's collection.
	ErrNotFound = errors.New("trip not found")

	// ErrTypeMismatch is returned when an operation valid for one trip kind
	// is applied to the other kind's id (e.g. pause on a punctual trip).
	ErrTypeMismatch = errors.New("trip kind mismatch")

	// ErrInvalidTransition is returned when a punctual status change is
	// attempted from a terminal state. Transitions are one-way.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidArgument is returned when a derived-calculation input is out
	// of domain (e.g. non-positive charging power).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrPersistence is returned when the store fails to load or save.
	// The engine performs no retry and leaves in-memory state untouched.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError identifies the offending field. Data is never silently
// coerced or dropped; the error names exactly what was rejected.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError identifies the missing trip.
type NotFoundError struct {
	VehicleID string
	TripID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("trip %s not found for vehicle %s", e.TripID, e.VehicleID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TypeMismatchError records which kind the operation needed and which it got.
type TypeMismatchError struct {
	TripID string
	Want   Kind
	Got    Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("trip %s is %s, operation requires %s", e.TripID, e.Got, e.Want)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// InvalidTransitionError records the rejected status change.
type InvalidTransitionError struct {
	TripID string
	From   Status
	To     Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("trip %s: cannot transition %s -> %s", e.TripID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op        string // "load" or "save"
	VehicleID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed for vehicle %s: %v", e.Op, e.VehicleID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid caller input
// rather than an engine or storage fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTypeMismatch) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidArgument)
}
