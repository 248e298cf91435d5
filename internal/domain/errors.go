package domain

import "errors"

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindConflict
	KindNotFound
	KindRateLimited
)

// Error is a classified domain error. Code is stable and machine readable;
// Msg is safe to show to clients.
type Error struct {
	Kind Kind
	Code string
	Msg  string

	// generic errors match every error sharing their Code.
	generic bool
}

func (e *Error) Error() string { return e.Msg }

// Is lets errors built with Invalid or NotFound satisfy
// errors.Is(err, ErrInvalidInput) and errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code != e.Code {
		return false
	}
	return t.generic || t.Msg == e.Msg
}

var (
	ErrInvalidInput = &Error{Kind: KindValidation, Code: "invalid_input", Msg: "invalid input", generic: true}
	ErrInvalidRange = &Error{Kind: KindValidation, Code: "invalid_range", Msg: "endsAt must be after startsAt"}
	ErrWeakPassword = &Error{Kind: KindValidation, Code: "invalid_input", Msg: "password must be at least 8 characters"}
	ErrInvalidRole  = &Error{Kind: KindValidation, Code: "invalid_input", Msg: "role must be one of admin, instructor, student"}

	ErrInvalidCredentials  = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Msg: "invalid credentials"}
	ErrUnauthenticated     = &Error{Kind: KindAuthentication, Code: "unauthenticated", Msg: "missing or invalid access token"}
	ErrInvalidRefreshToken = &Error{Kind: KindAuthentication, Code: "invalid_refresh_token", Msg: "invalid refresh token"}
	ErrRefreshTokenExpired = &Error{Kind: KindAuthentication, Code: "refresh_token_expired", Msg: "refresh token expired"}

	ErrForbidden = &Error{Kind: KindAuthorization, Code: "forbidden", Msg: "forbidden"}

	ErrDuplicateEmail     = &Error{Kind: KindConflict, Code: "duplicate_email", Msg: "email already in use"}
	ErrInstructorConflict = &Error{Kind: KindConflict, Code: "instructor_conflict", Msg: "instructor is already booked for that time"}
	ErrVehicleConflict    = &Error{Kind: KindConflict, Code: "vehicle_conflict", Msg: "vehicle is already booked for that time"}
	ErrTooManyAttempts    = &Error{Kind: KindRateLimited, Code: "too_many_requests", Msg: "too many login attempts, try again later"}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "not_found", Msg: "not found", generic: true}
	ErrInternal           = &Error{Kind: KindInternal, Code: "internal", Msg: "internal error"}
)

// Invalid returns a validation error with a custom message.
func Invalid(msg string) error {
	return &Error{Kind: KindValidation, Code: ErrInvalidInput.Code, Msg: msg}
}

// NotFound returns a not-found error naming the missing entity.
func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Code: ErrNotFound.Code, Msg: what + " not found"}
}

// AsError extracts the classified error; anything unclassified is internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return ErrInternal
}
