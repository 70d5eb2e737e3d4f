// Package errs classifies remote-call failures for the sync client.
// A transport failure and an explicit success:false response surface as
// distinct types so callers can tell the network from the backend, while the
// recoverability split feeds the optional replay retry policy.
package errs

import "fmt"

// TransportError is a network or HTTP-level failure: the request never
// produced a decodable response envelope.
type TransportError struct {
	Op  string // remote action, e.g. "getHabits"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps a network-level failure for the given action.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// UpstreamError is a well-formed response whose body flags failure, or an
// HTTP status outside the success range.
type UpstreamError struct {
	Op      string
	Status  int    // HTTP status (0 when the envelope itself carried the failure)
	Message string // upstream-provided message
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream error (HTTP %d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: upstream error: %s", e.Op, e.Message)
}

// Recoverable reports whether err may succeed on a plain retry. Transport
// errors are presumed transient; upstream rejections are not, except for
// timeout and throttling statuses.
func Recoverable(err error) bool {
	switch e := err.(type) {
	case *TransportError:
		return true
	case *UpstreamError:
		switch {
		case e.Status == 408 || e.Status == 429:
			return true
		case e.Status >= 500:
			return true
		default:
			return false
		}
	default:
		return false
	}
}
