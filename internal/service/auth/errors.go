package auth

import "errors"

var (
	ErrEmptyCredentials = errors.New("username and password are required")
	ErrUserNotFound     = errors.New("user not found")
	ErrRoleMismatch     = errors.New("selected role does not match the user")
	ErrSessionNotFound  = errors.New("session not found")
)
