package user

import "errors"

var (
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrActorMismatch           = errors.New("authenticated employee does not match the request")
	ErrInvalidRole             = errors.New("invalid role")
)
