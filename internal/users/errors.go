package users

import "errors"

var (
	ErrDuplicateUsername  = errors.New("Username already registered")
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidCredentials = errors.New("Invalid username or password")
	ErrNotApproved        = errors.New("Account pending administrator approval")
	ErrInvalidRole        = errors.New("Invalid role")
	ErrMissingFields      = errors.New("All fields are required")
)
