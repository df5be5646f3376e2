package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeCodeExists = errors.New("employee code already exists")
	ErrEmailExists        = errors.New("email already registered")
	ErrLocationNotFound   = errors.New("location not found")
	ErrManagerNotFound    = errors.New("manager not found")
	ErrSelfManager        = errors.New("employee cannot be their own manager")
	ErrUnauthorized       = errors.New("unauthorized to access this employee")
)
