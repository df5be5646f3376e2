package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	locationRepo employee.LocationRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, locationRepo employee.LocationRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		locationRepo: locationRepo,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, actor user.Actor, id int64) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if !canView(actor, emp) {
		return employee.EmployeeResponse{}, employee.ErrUnauthorized
	}

	return employee.ToResponse(emp), nil
}

// canView allows self, HR/admin, payroll, and the employee's direct manager.
func canView(actor user.Actor, emp employee.Employee) bool {
	if actor.CanActFor(emp.ID) || actor.Role == user.RolePayroll {
		return true
	}
	return emp.ManagerID != nil && *emp.ManagerID == actor.EmployeeID
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	filter.Normalize()

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	resp := employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
		Employees:  make([]employee.EmployeeResponse, 0, len(employees)),
	}
	for _, emp := range employees {
		resp.Employees = append(resp.Employees, employee.ToResponse(emp))
	}
	return resp, nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkUnique(ctx, req.EmployeeCode, req.Email, nil); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := s.checkReferences(ctx, nil, req.ManagerID, req.LocationID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		EmployeeCode:     strings.TrimSpace(req.EmployeeCode),
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Email:            req.Email,
		Gender:           employee.Gender(req.Gender),
		Role:             user.RoleEmployee,
		ManagerID:        req.ManagerID,
		EmploymentStatus: employee.EmploymentStatusActive,
		LocationID:       req.LocationID,
		ShiftStart:       "09:00",
		ShiftEnd:         "18:00",
		MonthlySalary:    req.MonthlySalary,
		Allowances:       decimal.Zero,
	}
	if req.Role != "" {
		newEmployee.Role = user.Role(req.Role)
	}
	if req.ShiftStart != "" {
		newEmployee.ShiftStart = req.ShiftStart
	}
	if req.ShiftEnd != "" {
		newEmployee.ShiftEnd = req.ShiftEnd
	}
	if req.Allowances != nil {
		newEmployee.Allowances = *req.Allowances
	}
	if req.DateOfJoining != nil {
		doj, err := time.Parse("2006-01-02", *req.DateOfJoining)
		if err != nil {
			return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "date_of_joining", Message: "date_of_joining must be in YYYY-MM-DD format"}}
		}
		newEmployee.DateOfJoining = &doj
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.EmployeeCode)
	return employee.ToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &email
		if err := s.checkUnique(ctx, "", email, &id); err != nil {
			return employee.EmployeeResponse{}, err
		}
	}
	if err := s.checkReferences(ctx, &id, req.ManagerID, req.LocationID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	start, end := current.ShiftStart, current.ShiftEnd
	if req.ShiftStart != nil {
		start = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		end = *req.ShiftEnd
	}
	if end <= start {
		return employee.EmployeeResponse{}, validator.ValidationErrors{{Field: "shift_end", Message: "shift_end must be after shift_start"}}
	}

	if err := s.employeeRepo.Update(ctx, id, req); err != nil {
		return employee.EmployeeResponse{}, err
	}

	updated, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(updated), nil
}

func (s *EmployeeServiceImpl) checkUnique(ctx context.Context, code, email string, excludeID *int64) error {
	codeTaken, emailTaken, err := s.employeeRepo.ExistsByCodeOrEmail(ctx, code, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check employee uniqueness: %w", err)
	}
	if codeTaken {
		return employee.ErrEmployeeCodeExists
	}
	if emailTaken {
		return employee.ErrEmailExists
	}
	return nil
}

func (s *EmployeeServiceImpl) checkReferences(ctx context.Context, selfID, managerID, locationID *int64) error {
	if managerID != nil {
		if selfID != nil && *managerID == *selfID {
			return employee.ErrSelfManager
		}
		if _, err := s.employeeRepo.GetByID(ctx, *managerID); err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrManagerNotFound
			}
			return err
		}
	}
	if locationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *locationID); err != nil {
			return err
		}
	}
	return nil
}
