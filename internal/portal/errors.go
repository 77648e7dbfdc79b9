package portal

import (
	"errors"
	"fmt"
)

// AuthError reports rejected credentials or an expired session. The client
// never re-authenticates on its own; callers decide whether to retry with a
// fresh login.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// NetworkError reports a transport failure after retries were exhausted.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network: %v", e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// DataError reports a malformed or incomplete portal response. Field names
// the offending value when known.
type DataError struct {
	Field string
	Err   error
}

func (e *DataError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("data: %s: %v", e.Field, e.Err)
	case e.Field != "":
		return "data: missing or invalid field " + e.Field
	default:
		return fmt.Sprintf("data: %v", e.Err)
	}
}

func (e *DataError) Unwrap() error { return e.Err }

// HTTPError carries a non-2xx portal response. It is folded into AuthError
// for 401/403 before leaving the client.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string { return fmt.Sprintf("HTTP %d", e.Status) }

// IsAuth reports whether err is an AuthError anywhere in its chain.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsNetwork reports whether err is a NetworkError anywhere in its chain.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsData reports whether err is a DataError anywhere in its chain.
func IsData(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
