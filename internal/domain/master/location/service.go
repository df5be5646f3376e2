package location

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type LocationService interface {
	List(ctx context.Context) ([]employee.LocationResponse, error)
	Create(ctx context.Context, actor user.Actor, req CreateLocationRequest) (employee.LocationResponse, error)
	Update(ctx context.Context, actor user.Actor, req UpdateLocationRequest) (employee.LocationResponse, error)
}
