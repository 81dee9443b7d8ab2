package api

import "fmt"

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindAPI means the server answered with a non-2xx status.
	KindAPI ErrorKind = iota
	// KindNetwork means no response arrived, including timeouts.
	KindNetwork
	// KindRequest means the request could not be built or the body not decoded.
	KindRequest
)

// Error is returned by every Client method except HealthCheck. Message is
// already formatted for users.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func apiError(status int, reason string) *Error {
	return &Error{Kind: KindAPI, Status: status, Message: "API Error: " + reason}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "Network Error: Unable to connect to API server", Err: err}
}

func requestError(err error) *Error {
	return &Error{Kind: KindRequest, Message: fmt.Sprintf("Request Error: %v", err), Err: err}
}
