package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrDuplicateRole      = errors.New("role already exists")
	ErrForbidden          = errors.New("access forbidden")
	ErrProtectedResource  = errors.New("protected resource")
	ErrInvalidPermission  = errors.New("invalid permission")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrConfiguration      = errors.New("configuration error")
)

// ErrWrongPassword is returned when an authenticated user supplies a wrong
// current password. It matches ErrInvalidCredentials under errors.Is.
var ErrWrongPassword = fmt.Errorf("%w: current password does not match", ErrInvalidCredentials)
