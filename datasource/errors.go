package datasource

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed weather request
type ErrorKind int

const (
	// KindUnknown is reported by KindOf for errors that did not come from a fetch
	KindUnknown ErrorKind = iota
	NetworkError
	HTTPStatusError
	DecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "networkError"
	case HTTPStatusError:
		return "httpStatusError"
	case DecodeError:
		return "decodeError"
	default:
		return "unknown"
	}
}

// RequestError is the failure value produced by every provider
type RequestError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int    // set for HTTPStatusError
	Message    string // provider-supplied error text, if any
	Err        error
}

// Sentinels for errors.Is; they match any RequestError of the same kind
var (
	ErrNetwork    = &RequestError{Kind: NetworkError}
	ErrHTTPStatus = &RequestError{Kind: HTTPStatusError}
	ErrDecode     = &RequestError{Kind: DecodeError}
)

func (e *RequestError) Error() string {
	var msg string
	switch e.Kind {
	case HTTPStatusError:
		msg = fmt.Sprintf("%s: unexpected status %d", e.Kind, e.StatusCode)
		if e.Message != "" {
			msg += ": " + e.Message
		}
	default:
		msg = e.Kind.String()
		if e.Err != nil {
			msg += ": " + e.Err.Error()
		}
	}
	if e.Provider != "" {
		return e.Provider + ": " + msg
	}
	return msg
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	t, ok := target.(*RequestError)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of a RequestError anywhere in err's chain
func KindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return KindUnknown
}

// StatusCodeOf returns the upstream status of an HTTPStatusError, or 0
func StatusCodeOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Kind == HTTPStatusError {
		return reqErr.StatusCode
	}
	return 0
}

func networkError(provider string, err error) *RequestError {
	return &RequestError{Kind: NetworkError, Provider: provider, Err: err}
}

func statusError(provider string, status int, message string) *RequestError {
	return &RequestError{Kind: HTTPStatusError, Provider: provider, StatusCode: status, Message: message}
}

func decodeError(provider string, err error) *RequestError {
	return &RequestError{Kind: DecodeError, Provider: provider, Err: err}
}
