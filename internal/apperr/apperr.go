// Package apperr classifies the errors the post lifecycle core can surface,
// so handlers and callers can react to the kind without string matching.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation is bad caller input. No state was changed.
	KindValidation Kind = iota
	// KindNotFound means the target post or article does not exist or is
	// soft-deleted.
	KindNotFound
	// KindConflict means the requested transition violates the post state
	// machine (publish or delete an already-posted post).
	KindConflict
	// KindCollaborator is any failure, including timeouts, from an external
	// collaborator (generative service, secret store, posting service).
	KindCollaborator
	// KindRun is a failure before per-item processing starts in a batch run;
	// it is fatal for that run as a whole.
	KindRun
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
