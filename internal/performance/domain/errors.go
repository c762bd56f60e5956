package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrUserExists      = errors.New("user already exists")
	ErrTaskExists      = errors.New("task already exists")
	ErrForbidden       = errors.New("action not permitted for this role")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidRole     = errors.New("invalid role")
	ErrInvalidSeverity = errors.New("invalid severity")
	ErrInvalidDate     = errors.New("invalid date")
	ErrNotScorable     = errors.New("role has no performance score")
	ErrValidation      = errors.New("validation failed")
)
