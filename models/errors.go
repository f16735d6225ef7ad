package models

import "fmt"

// ErrorValidation is returned for malformed or too short input.
type ErrorValidation struct{ Message string }

func (e ErrorValidation) Error() string { return e.Message }

type ErrorUnauthorized struct{ Message string }

func (e ErrorUnauthorized) Error() string { return e.Message }

type ErrorForbidden struct{ Message string }

func (e ErrorForbidden) Error() string { return e.Message }

type ErrorNotFound struct{ Message string }

func (e ErrorNotFound) Error() string { return e.Message }

// ErrorInvalidState is returned when an action is not allowed for the
// roadmap's current lifecycle state.
type ErrorInvalidState struct{ Message string }

func (e ErrorInvalidState) Error() string { return e.Message }

// ErrorConflict is returned when a pending draft already exists or the
// roadmap changed underneath the request.
type ErrorConflict struct{ Message string }

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e ErrorInternalServer) Unwrap() error { return e.Err }
