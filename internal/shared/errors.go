package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login or refresh failure. It deliberately
	// covers unknown email, wrong password and every refresh-token problem so
	// callers cannot tell which check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists indicates a registration attempt with a taken email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates the subject of a verified token no longer resolves.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound indicates a task absent or owned by another user.
	ErrTaskNotFound = errors.New("task not found")
	// ErrTagNotFound indicates a tag absent or owned by another user.
	ErrTagNotFound = errors.New("tag not found")
	// ErrTagExists indicates a duplicate tag name for the same user.
	ErrTagExists = errors.New("tag already exists")
	// ErrUnauthorized indicates a missing or rejected bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation indicates structurally invalid input.
	ErrValidation = errors.New("validation failed")
)
