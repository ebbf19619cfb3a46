package serrors

import "errors"

// Kind is a semantic error category. Only values created by NewKind implement it,
// which keeps ordinary errors from being mistaken for a category.
type Kind interface {
	error
	isKind()
}

type kind struct{ name string }

func (k kind) Error() string { return k.name }
func (k kind) isKind()       {}

// NewKind returns a new category sentinel named name.
func NewKind(name string) Kind { return kind{name: name} }

// Categories shared by the cleaner, its transports and its storage.
var (
	ErrNotFound     = NewKind("NOT_FOUND")
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	ErrForbidden    = NewKind("FORBIDDEN")
	// ErrBadRequest marks malformed client input: unreadable bodies, broken documents.
	ErrBadRequest = NewKind("BAD_REQUEST")
	ErrConflict   = NewKind("CONFLICT")
	ErrInternal   = NewKind("INTERNAL")
	ErrTimeout    = NewKind("TIMEOUT")
	// ErrUnavailable marks a dependency that is down for now and may come back.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrRateLimited marks a refusal by a remote API asking the caller to slow down.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrTooLarge marks a request body or document over its configured limit.
	ErrTooLarge = NewKind("TOO_LARGE")
	// ErrUnsupported marks a well-formed request for an unknown document type or export format.
	ErrUnsupported = NewKind("UNSUPPORTED")
	// ErrConfiguration marks unusable settings or reference data; it is fatal at startup.
	ErrConfiguration = NewKind("CONFIGURATION")
)

// KindOf returns the category carried anywhere in err's chain. Errors without
// one are ErrInternal; a nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return nil
	}

	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return ErrInternal
}
