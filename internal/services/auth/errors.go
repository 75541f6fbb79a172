package auth

import "errors"

var (
	ErrUserExists         = errors.New("User already exists")
	ErrInvalidRole        = errors.New("role must be patient or doctor")
	ErrInvalidCredentials = errors.New("Email or password is incorrect")
	ErrInactive           = errors.New("account is disabled")
)
