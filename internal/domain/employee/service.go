package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	GetEmployee(ctx context.Context, actor user.Actor, id int64) (EmployeeResponse, error)

	// ListEmployees lists employees with filters (HR/Admin/Manager)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// CreateEmployee creates a new employee (HR/Admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates master data (HR/Admin only)
	UpdateEmployee(ctx context.Context, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
}
