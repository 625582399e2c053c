package store

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers get no signal to enumerate accounts with.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrUserExists    = errors.New("username or email already exists")
	ErrProjectExists = errors.New("project name already in use")
	ErrNotFound      = errors.New("not found")
)
