package location

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
)

// LocationRepository stores office locations. Employees reference them by
// id and read them back through employee.LocationRepository.
type LocationRepository interface {
	employee.LocationRepository
	List(ctx context.Context) ([]employee.Location, error)
	Create(ctx context.Context, loc employee.Location) (employee.Location, error)
	Update(ctx context.Context, loc employee.Location) (employee.Location, error)
}
