package content

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoContent = errors.New("no content")
)

// IsNoContent checks whether the error signals an entity absent from
// every source.
func IsNoContent(err error) bool {
	return errors.Cause(err) == ErrNoContent
}

// ErrorKind classifies remote content client failures.
type ErrorKind int

const (
	KindHTTP ErrorKind = iota
	KindNetwork
	KindTimeout
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// RemoteError is the tagged outcome of a failed remote call. Status is
// set only for the http kind.
type RemoteError struct {
	Kind   ErrorKind
	Status int
	Op     string
	Cause  error
}

func (e RemoteError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s: http status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Cause)
	}
}

func remoteKind(err error, kind ErrorKind) bool {
	if r, ok := errors.Cause(err).(RemoteError); ok {
		return r.Kind == kind
	}
	return false
}

func IsTimeout(err error) bool {
	return remoteKind(err, KindTimeout)
}

func IsNetwork(err error) bool {
	return remoteKind(err, KindNetwork)
}

func IsMalformed(err error) bool {
	return remoteKind(err, KindMalformed)
}

// StatusCode returns the http status of a remote error, or 0.
func StatusCode(err error) int {
	if r, ok := errors.Cause(err).(RemoteError); ok {
		return r.Status
	}
	return 0
}

// ValidationError marks input rejected before any network or storage
// call is made.
type ValidationError struct {
	Field string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation: missing %s", e.Field)
}

// IsValidation checks whether the error is a local input validation
// failure.
func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(ValidationError)
	return ok
}
