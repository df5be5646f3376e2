package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.employee_code, e.first_name, e.last_name, e.email, e.gender, e.role, e.manager_id,
		e.employment_status, e.location_id, to_char(e.shift_start, 'HH24:MI'), to_char(e.shift_end, 'HH24:MI'),
		e.monthly_salary, e.allowances, e.date_of_joining, e.created_at, e.updated_at,
		l.id, l.name, l.country_code, l.timezone, l.latitude, l.longitude, l.radius_meters
	FROM employees e
	LEFT JOIN locations l ON l.id = e.location_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		emp          employee.Employee
		locID        *int64
		locName      *string
		locCountry   *string
		locTimezone  *string
		locLatitude  *float64
		locLongitude *float64
		locRadius    *int
	)

	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Gender, &emp.Role, &emp.ManagerID,
		&emp.EmploymentStatus, &emp.LocationID, &emp.ShiftStart, &emp.ShiftEnd,
		&emp.MonthlySalary, &emp.Allowances, &emp.DateOfJoining, &emp.CreatedAt, &emp.UpdatedAt,
		&locID, &locName, &locCountry, &locTimezone, &locLatitude, &locLongitude, &locRadius,
	)
	if err != nil {
		return employee.Employee{}, err
	}

	if locID != nil {
		emp.Location = &employee.Location{
			ID:           *locID,
			Name:         *locName,
			CountryCode:  strings.TrimSpace(*locCountry),
			Timezone:     *locTimezone,
			Latitude:     *locLatitude,
			Longitude:    *locLongitude,
			RadiusMeters: *locRadius,
		}
	}

	return emp, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	emp, err := scanEmployee(q.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee %d: %w", id, err)
	}
	return emp, nil
}

// GetActive implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActive(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, employeeSelect+` WHERE e.employment_status = $1 ORDER BY e.id`, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(e.first_name || ' ' || e.last_name ILIKE $%d OR e.employee_code ILIKE $%d OR e.email ILIKE $%d)", argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.EmploymentStatus != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.employment_status = $%d", argIdx))
		args = append(args, *filter.EmploymentStatus)
		argIdx++
	}
	if filter.ManagerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.manager_id = $%d", argIdx))
		args = append(args, *filter.ManagerID)
		argIdx++
	}

	whereSQL := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM employees e WHERE ` + whereSQL
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := employeeSelect + ` WHERE ` + whereSQL + fmt.Sprintf(" ORDER BY e.employee_code LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			employee_code, first_name, last_name, email, gender, role, manager_id,
			employment_status, location_id, shift_start, shift_end, monthly_salary, allowances, date_of_joining
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10::time, $11::time, $12, $13, $14
		)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		newEmployee.EmployeeCode, newEmployee.FirstName, newEmployee.LastName, newEmployee.Email,
		newEmployee.Gender, newEmployee.Role, newEmployee.ManagerID,
		newEmployee.EmploymentStatus, newEmployee.LocationID, newEmployee.ShiftStart, newEmployee.ShiftEnd,
		newEmployee.MonthlySalary, newEmployee.Allowances, newEmployee.DateOfJoining,
	).Scan(&id)
	if err != nil {
		return employee.Employee{}, mapEmployeeWriteError(err)
	}

	return e.GetByID(ctx, id)
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id int64, req employee.UpdateEmployeeRequest) error {
	q := GetQuerier(ctx, e.db)

	updates := make(map[string]interface{})

	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		updates["email"] = strings.ToLower(*req.Email)
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.ManagerID != nil {
		updates["manager_id"] = *req.ManagerID
	}
	if req.EmploymentStatus != nil {
		updates["employment_status"] = *req.EmploymentStatus
	}
	if req.LocationID != nil {
		updates["location_id"] = *req.LocationID
	}
	if req.ShiftStart != nil {
		updates["shift_start"] = *req.ShiftStart
	}
	if req.ShiftEnd != nil {
		updates["shift_end"] = *req.ShiftEnd
	}
	if req.MonthlySalary != nil {
		updates["monthly_salary"] = *req.MonthlySalary
	}
	if req.Allowances != nil {
		updates["allowances"] = *req.Allowances
	}

	if len(updates) == 0 {
		return nil
	}

	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	for col, val := range updates {
		cast := ""
		if col == "shift_start" || col == "shift_end" {
			cast = "::time"
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d%s", col, argIdx, cast))
		args = append(args, val)
		argIdx++
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argIdx)
	args = append(args, id)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapEmployeeWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// ExistsByCodeOrEmail implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ExistsByCodeOrEmail(ctx context.Context, employeeCode, email string, excludeID *int64) (bool, bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT
			EXISTS(SELECT 1 FROM employees WHERE employee_code = $1 AND ($3::bigint IS NULL OR id <> $3)),
			EXISTS(SELECT 1 FROM employees WHERE LOWER(email) = LOWER($2) AND ($3::bigint IS NULL OR id <> $3))
	`

	var codeTaken, emailTaken bool
	if err := q.QueryRow(ctx, query, employeeCode, email, excludeID).Scan(&codeTaken, &emailTaken); err != nil {
		return false, false, fmt.Errorf("failed to check employee uniqueness: %w", err)
	}

	return codeTaken, emailTaken, nil
}

func mapEmployeeWriteError(err error) error {
	if name, ok := constraintViolation(err, pgUniqueViolation); ok {
		switch name {
		case "employees_employee_code_key":
			return employee.ErrEmployeeCodeExists
		case "employees_email_key":
			return employee.ErrEmailExists
		}
	}
	if name, ok := constraintViolation(err, pgForeignKeyViolation); ok {
		switch name {
		case "employees_manager_id_fkey":
			return employee.ErrManagerNotFound
		case "employees_location_id_fkey":
			return employee.ErrLocationNotFound
		}
	}
	return fmt.Errorf("failed to write employee: %w", err)
}
