package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns the employee joined with its location.
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetActive(ctx context.Context) ([]Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id int64, req UpdateEmployeeRequest) error
	ExistsByCodeOrEmail(ctx context.Context, employeeCode, email string, excludeID *int64) (codeTaken bool, emailTaken bool, err error)
}

type LocationRepository interface {
	GetByID(ctx context.Context, id int64) (Location, error)
}
