package remote

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Kind classifies a remote store failure so callers can choose an actionable
// message instead of a generic one.
type Kind int

const (
	KindUnknown Kind = iota
	// KindPermissionDenied means the store rejected the caller's credentials
	// or role. Mirrors clear the affected snapshot; writers surface it
	// distinctly.
	KindPermissionDenied
	// KindUnavailable covers transient transport failures. Snapshots stay
	// stale, writes report failure with no partial effect assumed.
	KindUnavailable
	// KindInvalid is a local validation failure detected before any remote
	// call was attempted.
	KindInvalid
)

// ErrInFlight is returned when a write is rejected because another write
// against the same entity has not resolved yet.
var ErrInFlight = errors.New("write already in flight")

// Error carries a classified store failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// WrapKind attaches an explicit classification to err.
func WrapKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// Invalid builds a local validation failure.
func Invalid(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalid, Err: fmt.Errorf(format, args...)}
}

// Classify inspects err, including anything it wraps, and returns its kind.
// Postgres errors are mapped by SQLSTATE: 42501 (insufficient_privilege) and
// class 28 (invalid authorization) are permission failures; class 08
// (connection exception) and 57P01 (admin shutdown) are transient.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "42501", pqErr.Code.Class() == "28":
			return KindPermissionDenied
		case pqErr.Code.Class() == "08", pqErr.Code == "57P01":
			return KindUnavailable
		}
	}
	return KindUnknown
}

// IsPermissionDenied reports whether err classifies as an authorization
// failure.
func IsPermissionDenied(err error) bool {
	return Classify(err) == KindPermissionDenied
}

// HTTPStatus maps a classified failure to the response code handlers use.
func HTTPStatus(err error) int {
	if errors.Is(err, ErrInFlight) {
		return http.StatusConflict
	}
	switch Classify(err) {
	case KindInvalid:
		return http.StatusBadRequest
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
