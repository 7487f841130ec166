// Package errors defines the error taxonomy shared by services and handlers.
// Every expected failure is an AppError carrying its kind, HTTP status and a
// message that is safe to show to the caller.
package errors

import (
	stderrors "errors"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindConflict       Kind = "CONFLICT_ERROR"
	KindAuthentication Kind = "AUTHENTICATION_ERROR"
	KindForbidden      Kind = "FORBIDDEN_ERROR"
	KindNotFound       Kind = "NOT_FOUND_ERROR"
	KindUpstream       Kind = "UPSTREAM_ERROR"
)

// AppError is implemented by every error that may be rendered to a client.
type AppError interface {
	error
	Kind() Kind
	HTTPCode() int
	Message() string
	Details() any
}

// BaseError is the stock AppError implementation
type BaseError struct {
	kind     Kind
	httpCode int
	message  string
	details  any
	cause    error
}

func NewBaseError(kind Kind, httpCode int, message string) *BaseError {
	return &BaseError{kind: kind, httpCode: httpCode, message: message}
}

func (e *BaseError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *BaseError) Kind() Kind      { return e.kind }
func (e *BaseError) HTTPCode() int   { return e.httpCode }
func (e *BaseError) Message() string { return e.message }
func (e *BaseError) Details() any    { return e.details }
func (e *BaseError) Unwrap() error   { return e.cause }

// Is matches errors of the same kind and message so that copies made by
// WithDetails/WithCause still satisfy errors.Is against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// WithDetails returns a copy carrying field-level details for the client.
func (e *BaseError) WithDetails(details any) *BaseError {
	cp := *e
	cp.details = details
	return &cp
}

// WithStatus returns a copy rendered with a different HTTP status.
func (e *BaseError) WithStatus(code int) *BaseError {
	cp := *e
	cp.httpCode = code
	return &cp
}

// WithCause returns a copy that wraps cause (with a stack trace) for logging.
// The cause is never rendered to the client.
func (e *BaseError) WithCause(cause error) *BaseError {
	cp := *e
	cp.cause = pkgerrors.WithStack(cause)
	return &cp
}

func Validation(message string) *BaseError {
	return NewBaseError(KindValidation, http.StatusBadRequest, message)
}

func Conflict(message string) *BaseError {
	return NewBaseError(KindConflict, http.StatusBadRequest, message)
}

func Authentication(message string) *BaseError {
	return NewBaseError(KindAuthentication, http.StatusBadRequest, message)
}

func Forbidden(message string) *BaseError {
	return NewBaseError(KindForbidden, http.StatusForbidden, message)
}

func NotFound(message string) *BaseError {
	return NewBaseError(KindNotFound, http.StatusNotFound, message)
}

func Upstream(message string) *BaseError {
	return NewBaseError(KindUpstream, http.StatusInternalServerError, message)
}

// Predefined errors
var (
	ErrMissingFields      = Validation("Something is missing")
	ErrInvalidRole        = Validation("Role must be student or recruiter")
	ErrMissingID          = Validation("Missing required parameters: id.")
	ErrInvalidPayload     = Validation("invalid payload")
	ErrEmailTaken         = Conflict("User already exist with this email.")
	ErrConcurrentUpdate   = Conflict("Profile was modified concurrently, please retry.")
	ErrInvalidCredentials = Authentication("Incorrect email or password.")
	ErrRoleMismatch       = Authentication("Account doesn't exist with current role.")
	ErrUnauthenticated    = Authentication("User not authenticated").WithStatus(http.StatusUnauthorized)
	ErrUserNotFound       = NotFound("User not found.")
	ErrMediaUpload        = Upstream("Failed to upload file")

	ErrJobNotFound         = NotFound("Job not found.")
	ErrApplicationNotFound = NotFound("Application not found.")
	ErrAlreadyApplied      = Conflict("You have already applied for this job")
	ErrRecruiterOnly       = Forbidden("Only recruiters can perform this action")
	ErrStudentOnly         = Forbidden("Only students can apply for jobs")
	ErrNotJobOwner         = Forbidden("You do not own this job")
	ErrInvalidStatus       = Validation("Status must be pending, accepted or rejected")
)

// As finds the first AppError in err's chain.
func As(err error) (AppError, bool) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Wrap annotates err with a stack trace and message.
func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

// Wrapf annotates err with a stack trace and a formatted message.
func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}
