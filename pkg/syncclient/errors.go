package syncclient

import "fmt"

// ValidationError is a 400: a required field was missing or malformed. The
// message is field-level and safe to show next to the offending input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "validation failed"
	}
	return e.Message
}

// NotFoundError is a 404: the id is unknown or not owned by the caller. The
// server deliberately does not say which.
type NotFoundError struct{}

func (e *NotFoundError) Error() string { return "not found" }

// AuthError is a 401: no session or an expired one. Callers redirect to login.
type AuthError struct{}

func (e *AuthError) Error() string { return "login required" }

// NetworkError wraps a transport failure. No automatic retry is performed.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }
