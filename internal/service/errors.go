package service

import (
	"errors"
	"strings"
)

// Kind classifies service errors so transports can map them to status codes
// without knowing individual sentinels.
type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindConflict
	KindNotFound
	KindForbidden
)

// Error is a classified, client-safe service error.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrInvalidCredentials = &Error{Kind: KindAuth, Msg: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindAuth, Msg: "expired or invalid"}
	ErrAlreadyLoggedIn    = &Error{Kind: KindAuth, Msg: "already logged in"}

	ErrEmailTaken       = &Error{Kind: KindConflict, Msg: "email already registered"}
	ErrDisplayNameTaken = &Error{Kind: KindConflict, Msg: "display name already taken"}
	ErrDuplicateLike    = &Error{Kind: KindConflict, Msg: "duplicate like"}

	ErrAccountNotFound = &Error{Kind: KindNotFound, Msg: "account not found"}
	ErrPostNotFound    = &Error{Kind: KindNotFound, Msg: "post not found"}
	ErrLikeNotFound    = &Error{Kind: KindNotFound, Msg: "account has not liked this post"}

	ErrNotPostAuthor = &Error{Kind: KindForbidden, Msg: "only the author can modify this post"}
)

// ValidationError lists every rule a request broke, in the order checked.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return KindValidation
	}
	return KindInternal
}

// rules accumulates violations so callers report all of them at once.
type rules struct {
	violations []string
}

func (r *rules) check(ok bool, msg string) {
	if !ok {
		r.violations = append(r.violations, msg)
	}
}

func (r *rules) err() error {
	if len(r.violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: r.violations}
}
