package service

import "fmt"

// The service layer surfaces one of the typed errors below for every failed
// call. The HTTP layer maps them to status codes; services themselves never
// think in status codes.
//
// Deliberate asymmetry: on read paths a caller who lacks visibility gets the
// same NotFoundError as for a genuinely absent resource, so existence never
// leaks. Write paths on a visible resource use ForbiddenError instead.

// ValidationError reports malformed input. Field names the offending command
// field where one can be singled out.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return "validation failed: " + e.Message
}

// NotFoundError reports a resource that is absent or invisible to the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError reports an action denied by a role or ownership rule on a
// resource the caller could otherwise see.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// ConflictError reports a uniqueness violation or a delete blocked by
// referential usage.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// DatabaseError wraps a persistence gateway failure, including a failed step
// of a multi-step write after compensation ran.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database failure during %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// UnauthorizedError reports a missing or unverifiable caller identity. It is
// mostly raised at the HTTP boundary, rarely inside this layer.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}
