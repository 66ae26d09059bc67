package domain

import "errors"

// Error kinds. Every error surfaced by the core unwraps to exactly one of these,
// which is what the HTTP layer maps to a status code.
var (
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation error")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("access forbidden")
	ErrWriteConflict         = errors.New("write conflict")
	ErrInfrastructure        = errors.New("infrastructure failure")
)

// Error carries a user-facing message together with its kind and, optionally,
// the underlying cause (never rendered to clients).
type Error struct {
	Kind    error
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation builds a ValidationError with the given message.
func Validation(msg string) error {
	return newError(ErrValidation, msg)
}

// NotFound builds a NotFound error with the given message.
func NotFound(msg string) error {
	return newError(ErrNotFound, msg)
}

// Forbidden builds a Forbidden error with the given message.
func Forbidden(msg string) error {
	return newError(ErrForbidden, msg)
}

// Infrastructure wraps a store/transport failure. The message shown to clients
// is generic; cause is kept for logs.
func Infrastructure(msg string, cause error) error {
	return &Error{Kind: ErrInfrastructure, Message: msg, cause: cause}
}

// Message returns the client-safe message of err, or "" when err carries none.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

var (
	ErrProductNotFound    = newError(ErrNotFound, "Product Not Found")
	ErrCategoryNotFound   = newError(ErrNotFound, "Category Not Found")
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrBadCredentials     = newError(ErrInvalidCredentials, "Invalid Email or Password")
	ErrOldPasswordWrong   = newError(ErrInvalidCredentials, "Old Password is Incorrect")
	ErrPasswordMismatch   = newError(ErrValidation, "Password does not match")
	ErrMissingCredentials = newError(ErrValidation, "Please Enter Email & Password")
	ErrEmailTaken         = newError(ErrValidation, "Email already registered")
	ErrCategoryExists     = newError(ErrValidation, "Category already exists")
	ErrResetTokenInvalid  = newError(ErrInvalidOrExpiredToken, "Reset Password Token is invalid or has been expired")
	ErrLoginRequired      = newError(ErrUnauthenticated, "Please Login to access this resource")
	ErrReviewConflict     = newError(ErrWriteConflict, "Product was modified concurrently, please retry")
)
