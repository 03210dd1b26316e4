package domain

import "errors"

// Sentinel errors for the failure modes a caller is expected to branch on.
// Services wrap these with context; the API layer maps them to HTTP status
// codes in exactly one place. Use errors.Is to test for them.
var (
	// ErrUnauthenticated means the operation requires an active principal
	// and none is present.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrForbidden means the acting principal is not the record's author.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the id does not resolve to a stored record.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the document store or the network failed.
	ErrUnavailable = errors.New("store unavailable")

	// ErrUploadFailed means the blob write (or the read feeding it) failed.
	// Non-fatal: the caller keeps its local image and may retry.
	ErrUploadFailed = errors.New("upload failed")

	// ErrValidation means a required field is missing or malformed. Raised
	// before any remote call is made.
	ErrValidation = errors.New("validation failed")

	// ErrEmailTaken means registration hit an existing account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any login failure so the
	// response does not reveal whether the email exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
