package api

import "fmt"

// The error types below form the request error taxonomy shared by the HTTP
// handlers and the tool provider. Handlers detect them with errors.As and map
// them to status codes (HTTP) or conversational prompts (tools).

// ClientInputError indicates a missing or invalid required field in the
// request. Maps to 400.
type ClientInputError struct {
	// Message names the offending field(s), e.g. "Missing sessionId or token".
	Message string
}

func (e *ClientInputError) Error() string {
	return e.Message
}

// NewClientInputError creates a ClientInputError with a formatted message.
func NewClientInputError(format string, args ...interface{}) *ClientInputError {
	return &ClientInputError{Message: fmt.Sprintf(format, args...)}
}

// NotAuthenticatedError indicates that a session id did not resolve to an
// auth record in the session store. Distinct from ClientInputError: the
// request was well-formed but the caller is not (or no longer) logged in.
// Maps to 401.
type NotAuthenticatedError struct {
	SessionID string

	// Reason overrides the default message, e.g. "No session ID found" when
	// the request carried no session id at all.
	Reason string
}

func (e *NotAuthenticatedError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "Not authenticated"
}

// NotFoundError indicates that a requested record does not exist, either in
// the session store (poll before save, or after expiry) or upstream.
// Maps to 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "Not found"
	}
	return e.Message
}

// StoreUnavailableError indicates the session store is not configured or not
// reachable. The request fails fast; no retry is attempted. Maps to 500.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	if e.Err == nil {
		return "Session store not configured"
	}
	return fmt.Sprintf("Session store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// UpstreamError indicates the remote commerce API returned a non-2xx response
// or the transport failed. The response detail is carried for diagnostics.
// Maps to 500.
type UpstreamError struct {
	Operation  string // e.g. "fetch cart", "submit order"
	StatusCode int    // 0 on transport failure
	Detail     string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Failed to %s: upstream returned %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("Failed to %s: %v", e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
