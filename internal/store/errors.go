package store

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")
)
