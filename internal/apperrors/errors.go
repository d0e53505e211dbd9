// Package apperrors defines the closed set of error kinds used across the
// application and their single mapping to HTTP status codes. Handlers never
// inspect error message text; the kind travels on the error value itself.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation covers malformed or missing input.
	KindValidation
	// KindAuth covers bad credentials or a missing/invalid token.
	KindAuth
	// KindForbidden covers wrong user type or non-ownership.
	KindForbidden
	// KindNotFound covers missing entities.
	KindNotFound
	// KindConflict covers uniqueness violations.
	KindConflict
	// KindUpstream covers failed calls to OAuth providers.
	KindUpstream
)

// Error carries a kind and a user-facing message. The wrapped cause, if any,
// is kept for logging and errors.Is/As chains.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinel comparisons like
// errors.Is(err, apperrors.ErrNotFound) work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an error of the given kind with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a kinded error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind sentinels for errors.Is checks.
var (
	ErrValidation = New(KindValidation, "잘못된 요청입니다.")
	ErrAuth       = New(KindAuth, "인증이 필요합니다.")
	ErrForbidden  = New(KindForbidden, "권한이 없습니다.")
	ErrNotFound   = New(KindNotFound, "찾을 수 없습니다.")
	ErrConflict   = New(KindConflict, "이미 등록된 정보입니다.")
	ErrUpstream   = New(KindUpstream, "외부 서비스 요청에 실패했습니다.")
)

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message extracts the user-facing message from an error chain. Unclassified
// errors get a generic message so internals never leak to clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "서버 오류가 발생했습니다."
}

// HTTPStatus maps an error to its transport status code. This is the only
// place a kind turns into a status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
