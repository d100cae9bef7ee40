package domain

import "errors"

var (
	ErrContentNotFound = errors.New("content not found")
	ErrSlugTaken       = errors.New("slug already in use")
	ErrValidation      = errors.New("validation failed")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access forbidden")

	ErrInvalidPosition  = errors.New("invalid menu position")
	ErrFixedMenuRemoved = errors.New("fixed menu items cannot be removed")

	ErrEmptyUpload        = errors.New("no file uploaded")
	ErrFileTooLarge       = errors.New("file exceeds maximum upload size")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
)

// ValidationError carries a human-readable reason and unwraps to ErrValidation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for building a ValidationError.
func Invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
