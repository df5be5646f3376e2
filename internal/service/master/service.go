package master

import (
	"context"
	"log/slog"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/master/location"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// LocationServiceImpl manages the office locations that anchor employee
// time zones, holiday calendars and geofences.
type LocationServiceImpl struct {
	locationRepo location.LocationRepository
}

func NewLocationService(locationRepo location.LocationRepository) *LocationServiceImpl {
	return &LocationServiceImpl{locationRepo: locationRepo}
}

// List implements location.LocationService.
func (s *LocationServiceImpl) List(ctx context.Context) ([]employee.LocationResponse, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		resp = append(resp, employee.ToLocationResponse(loc))
	}
	return resp, nil
}

// Create implements location.LocationService.
func (s *LocationServiceImpl) Create(ctx context.Context, actor user.Actor, req location.CreateLocationRequest) (employee.LocationResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionMasterManage) {
		return employee.LocationResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return employee.LocationResponse{}, err
	}

	created, err := s.locationRepo.Create(ctx, req.Entity())
	if err != nil {
		return employee.LocationResponse{}, err
	}

	slog.Info("location created", "location_id", created.ID, "name", created.Name, "by", actor.EmployeeID)
	return employee.ToLocationResponse(created), nil
}

// Update implements location.LocationService. Employees pick up the new
// timezone and geofence on their next read.
func (s *LocationServiceImpl) Update(ctx context.Context, actor user.Actor, req location.UpdateLocationRequest) (employee.LocationResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionMasterManage) {
		return employee.LocationResponse{}, user.ErrInsufficientPermissions
	}
	if err := req.Validate(); err != nil {
		return employee.LocationResponse{}, err
	}

	current, err := s.locationRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.LocationResponse{}, err
	}

	updated, err := s.locationRepo.Update(ctx, req.Apply(current))
	if err != nil {
		return employee.LocationResponse{}, err
	}

	slog.Info("location updated", "location_id", updated.ID, "by", actor.EmployeeID)
	return employee.ToLocationResponse(updated), nil
}
