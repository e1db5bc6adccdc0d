package store

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrItemNotFound         = errors.New("queue item not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionNotFound      = errors.New("session not found")
	ErrInvalidServiceTime   = errors.New("avg service time must be positive")
)
