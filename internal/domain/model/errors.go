package model

import (
	"errors"
	"fmt"
)

// Error kinds reported by ErrorKind.
const (
	KindValidation = "validation"
	KindTransport  = "transport"
	KindRemote     = "remote"
	KindDecode     = "decode"
	KindUnknown    = "unknown"
)

// ValidationError reports a missing or invalid required input detected
// before a prediction is dispatched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports that the remote scoring service could not be reached.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote scoring service unreachable at %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports a non-success HTTP status from the remote scoring service.
type RemoteError struct {
	Body       string
	StatusCode int
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote scoring service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote scoring service returned status %d: %s", e.StatusCode, e.Body)
}

// DecodeError reports a response body that does not match the PredictionResult schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed prediction response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrorKind classifies err into one of the Kind* constants.
func ErrorKind(err error) string {
	var (
		validationErr *ValidationError
		transportErr  *TransportError
		remoteErr     *RemoteError
		decodeErr     *DecodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &remoteErr):
		return KindRemote
	case errors.As(err, &decodeErr):
		return KindDecode
	default:
		return KindUnknown
	}
}
