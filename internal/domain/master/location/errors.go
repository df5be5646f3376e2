package location

import (
	"errors"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
)

var (
	// ErrLocationNotFound is shared with the employee domain so both map to the same 404.
	ErrLocationNotFound   = employee.ErrLocationNotFound
	ErrLocationNameExists = errors.New("location with this name already exists")
)
