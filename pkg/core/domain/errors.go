package domain

import "errors"

var (
	ErrNotFound            = errors.New("bookmark not found")
	ErrNoSession           = errors.New("no authenticated user")
	ErrEmptyField          = errors.New("title and url are required")
	ErrInvalidURL          = errors.New("url is not a valid link")
	ErrBusy                = errors.New("a sign-in request is already pending")
	ErrUnsupportedProvider = errors.New("unsupported sign-in provider")
	ErrInvalidState        = errors.New("invalid oauth state")
	ErrForbidden           = errors.New("access denied")
	ErrInvalidSession      = errors.New("invalid or expired session")
)
