// Package apperr defines the typed error taxonomy shared by the core
// packages and the transport layer. Errors are raised at the point of
// detection and propagated unmodified; the HTTP layer maps each kind to
// a status code and a uniform {name, message, errors?} body.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions that carry no extra data.
var (
	// ErrNotLogged means no authenticated actor is present.
	ErrNotLogged = errors.New("authentication required")

	// ErrNotAuthorized means the actor's role is insufficient.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrLastManager means an attempt to remove the sole remaining
	// manager of a groupbuy.
	ErrLastManager = errors.New("cannot remove the last manager")

	// ErrInvalidRecipient means the messaging role-pair constraint was
	// violated on the recipient side.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrInvalidSenderOrReceiver means the sender is not part of the
	// groupbuy.
	ErrInvalidSenderOrReceiver = errors.New("invalid sender or receiver")
)

// ValidationError reports malformed or missing input with per-field
// detail. Always recoverable by the caller correcting input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

// Validation builds a ValidationError for a single field.
func Validation(field, detail string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: detail}}
}

// DuplicateError reports a uniqueness constraint violation.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

// InvalidStateTransitionError reports a groupbuy status transition
// requested from a non-source state. ValidSource names the single legal
// source status when one exists; it is empty for the cancel branch.
type InvalidStateTransitionError struct {
	Current     string
	Target      string
	ValidSource string
}

func (e *InvalidStateTransitionError) Error() string {
	switch {
	case e.Target == "cancelled":
		return fmt.Sprintf("groupbuy in status %q isn't suitable to be cancelled", e.Current)
	case e.ValidSource == "":
		return fmt.Sprintf("cannot go to %q from %q", e.Target, e.Current)
	default:
		return fmt.Sprintf("cannot go to %q from %q, only from %q", e.Target, e.Current, e.ValidSource)
	}
}

// NotFoundError reports a missing groupbuy/order/item/user/message.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NotFound builds a NotFoundError.
func NotFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// UnexpectedError wraps unknown failures from collaborators. Treated as
// non-recoverable for the current request.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// Unexpected wraps err as an UnexpectedError unless it already belongs
// to the taxonomy, in which case it passes through unchanged.
func Unexpected(err error) error {
	if err == nil {
		return nil
	}
	if Name(err) != "UnexpectedError" {
		return err
	}
	return &UnexpectedError{Err: err}
}

// Name returns the taxonomy name for err, used as the "name" field of
// error responses. Unknown errors report as UnexpectedError.
func Name(err error) string {
	var (
		validation *ValidationError
		duplicate  *DuplicateError
		transition *InvalidStateTransitionError
		notFound   *NotFoundError
		unexpected *UnexpectedError
	)
	switch {
	case errors.As(err, &validation):
		return "ValidationError"
	case errors.As(err, &duplicate):
		return "DuplicateError"
	case errors.As(err, &transition):
		return "InvalidStateTransition"
	case errors.As(err, &notFound):
		return "NotFound"
	case errors.Is(err, ErrNotAuthorized):
		return "NotAuthorized"
	case errors.Is(err, ErrNotLogged):
		return "NotLogged"
	case errors.Is(err, ErrLastManager):
		return "LastManagerError"
	case errors.Is(err, ErrInvalidRecipient):
		return "InvalidRecipient"
	case errors.Is(err, ErrInvalidSenderOrReceiver):
		return "InvalidSenderOrReceiver"
	case errors.As(err, &unexpected):
		return "UnexpectedError"
	default:
		return "UnexpectedError"
	}
}
