package user

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUnknownRole     = errors.New("unknown role")
)
