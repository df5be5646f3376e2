package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	Search           string
	EmploymentStatus *EmploymentStatus
	ManagerID        *int64
	Page             int
	PageSize         int
}

func (f *EmployeeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}

type CreateEmployeeRequest struct {
	EmployeeCode  string           `json:"employee_code" validate:"required,max=32"`
	FirstName     string           `json:"first_name" validate:"required,max=100"`
	LastName      string           `json:"last_name" validate:"max=100"`
	Email         string           `json:"email" validate:"required,email"`
	Gender        string           `json:"gender" validate:"required,oneof=MALE FEMALE OTHER"`
	Role          string           `json:"role" validate:"omitempty,oneof=EMPLOYEE MANAGER HR ADMIN PAYROLL SUPER_ADMIN"`
	ManagerID     *int64           `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
	LocationID    *int64           `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	ShiftStart    string           `json:"shift_start" validate:"omitempty,clock"`
	ShiftEnd      string           `json:"shift_end" validate:"omitempty,clock"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	Allowances    *decimal.Decimal `json:"allowances,omitempty"`
	DateOfJoining *string          `json:"date_of_joining,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.MonthlySalary != nil && r.MonthlySalary.IsNegative() {
		errs.Add("monthly_salary", "monthly_salary must not be negative")
	}
	if r.Allowances != nil && r.Allowances.IsNegative() {
		errs.Add("allowances", "allowances must not be negative")
	}
	if r.ShiftStart != "" && r.ShiftEnd != "" && r.ShiftEnd <= r.ShiftStart {
		errs.Add("shift_end", "shift_end must be after shift_start")
	}
	return errs.Err()
}

// UpdateEmployeeRequest patches master data; nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	FirstName        *string          `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName         *string          `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email            *string          `json:"email,omitempty" validate:"omitempty,email"`
	Gender           *string          `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Role             *string          `json:"role,omitempty" validate:"omitempty,oneof=EMPLOYEE MANAGER HR ADMIN PAYROLL SUPER_ADMIN"`
	ManagerID        *int64           `json:"manager_id,omitempty" validate:"omitempty,gt=0"`
	EmploymentStatus *string          `json:"employment_status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE ON_LEAVE"`
	LocationID       *int64           `json:"location_id,omitempty" validate:"omitempty,gt=0"`
	ShiftStart       *string          `json:"shift_start,omitempty" validate:"omitempty,clock"`
	ShiftEnd         *string          `json:"shift_end,omitempty" validate:"omitempty,clock"`
	MonthlySalary    *decimal.Decimal `json:"monthly_salary,omitempty"`
	Allowances       *decimal.Decimal `json:"allowances,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}

	var errs validator.ValidationErrors
	if r.MonthlySalary != nil && r.MonthlySalary.IsNegative() {
		errs.Add("monthly_salary", "monthly_salary must not be negative")
	}
	if r.Allowances != nil && r.Allowances.IsNegative() {
		errs.Add("allowances", "allowances must not be negative")
	}
	return errs.Err()
}

type LocationResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CountryCode  string  `json:"country_code"`
	Timezone     string  `json:"timezone"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radius_meters"`
}

type EmployeeResponse struct {
	ID               int64             `json:"id"`
	EmployeeCode     string            `json:"employee_code"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	FullName         string            `json:"full_name"`
	Email            string            `json:"email"`
	Gender           Gender            `json:"gender"`
	Role             user.Role         `json:"role"`
	ManagerID        *int64            `json:"manager_id"`
	EmploymentStatus EmploymentStatus  `json:"employment_status"`
	Location         *LocationResponse `json:"location,omitempty"`
	ShiftStart       string            `json:"shift_start"`
	ShiftEnd         string            `json:"shift_end"`
	MonthlySalary    *decimal.Decimal  `json:"monthly_salary"`
	Allowances       decimal.Decimal   `json:"allowances"`
	DateOfJoining    *string           `json:"date_of_joining"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:               e.ID,
		EmployeeCode:     e.EmployeeCode,
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		FullName:         e.FullName(),
		Email:            e.Email,
		Gender:           e.Gender,
		Role:             e.Role,
		ManagerID:        e.ManagerID,
		EmploymentStatus: e.EmploymentStatus,
		ShiftStart:       e.ShiftStart,
		ShiftEnd:         e.ShiftEnd,
		MonthlySalary:    e.MonthlySalary,
		Allowances:       e.Allowances,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.DateOfJoining != nil {
		d := e.DateOfJoining.Format("2006-01-02")
		resp.DateOfJoining = &d
	}
	if e.Location != nil {
		loc := ToLocationResponse(*e.Location)
		resp.Location = &loc
	}
	return resp
}

func ToLocationResponse(l Location) LocationResponse {
	return LocationResponse{
		ID:           l.ID,
		Name:         l.Name,
		CountryCode:  l.CountryCode,
		Timezone:     l.Timezone,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
	}
}
