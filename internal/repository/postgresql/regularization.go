package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type regularizationRepositoryImpl struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.RegularizationRepository {
	return &regularizationRepositoryImpl{db: db}
}

const regularizationSelect = `
	SELECT ar.id, ar.employee_id, ar.attendance_record_id, ar.attendance_date,
		ar.original_clock_in, ar.original_clock_out, ar.requested_clock_in, ar.requested_clock_out,
		ar.reason, ar.status, ar.stage,
		ar.manager_approver_id, ar.manager_comment, ar.manager_acted_at,
		ar.hr_approver_id, ar.hr_comment, ar.hr_acted_at,
		ar.created_at, ar.updated_at,
		e.first_name || ' ' || e.last_name, e.employee_code, e.manager_id
	FROM attendance_regularizations ar
	JOIN employees e ON e.id = ar.employee_id
`

func scanRegularization(row pgx.Row) (regularization.Regularization, error) {
	var r regularization.Regularization
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.AttendanceRecordID, &r.AttendanceDate,
		&r.OriginalClockIn, &r.OriginalClockOut, &r.RequestedClockIn, &r.RequestedClockOut,
		&r.Reason, &r.Status, &r.Stage,
		&r.ManagerApproverID, &r.ManagerComment, &r.ManagerActedAt,
		&r.HRApproverID, &r.HRComment, &r.HRActedAt,
		&r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeName, &r.EmployeeCode, &r.ManagerID,
	)
	return r, err
}

// Create implements regularization.RegularizationRepository.
func (r *regularizationRepositoryImpl) Create(ctx context.Context, reg regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_regularizations (
			employee_id, attendance_record_id, attendance_date,
			original_clock_in, original_clock_out, requested_clock_in, requested_clock_out,
			reason, status, stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		reg.EmployeeID, reg.AttendanceRecordID, reg.AttendanceDate,
		reg.OriginalClockIn, reg.OriginalClockOut, reg.RequestedClockIn, reg.RequestedClockOut,
		reg.Reason, reg.Status, reg.Stage,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err, "uk_regularization_pending") {
			return regularization.Regularization{}, regularization.ErrPendingExists
		}
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return regularization.Regularization{}, attendance.ErrAttendanceNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements regularization.RegularizationRepository.
func (r *regularizationRepositoryImpl) GetByID(ctx context.Context, id int64) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	reg, err := scanRegularization(q.QueryRow(ctx, regularizationSelect+" WHERE ar.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return regularization.Regularization{}, regularization.ErrRegularizationNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to get regularization %d: %w", id, err)
	}
	return reg, nil
}

// List implements regularization.RegularizationRepository.
func (r *regularizationRepositoryImpl) List(ctx context.Context, filter regularization.RegularizationFilter) ([]regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.ManagerID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.manager_id = $%d", argIdx))
		args = append(args, *filter.ManagerID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Stage != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("ar.stage = $%d", argIdx))
		args = append(args, *filter.Stage)
	}

	query := regularizationSelect + " WHERE " + strings.Join(whereClauses, " AND ") + " ORDER BY ar.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list regularizations: %w", err)
	}
	defer rows.Close()

	out := make([]regularization.Regularization, 0)
	for rows.Next() {
		reg, err := scanRegularization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, reg)
	}

	return out, rows.Err()
}

// ApplyTransition implements regularization.RegularizationRepository.
func (r *regularizationRepositoryImpl) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	return applyTwoStageTransition(ctx, GetQuerier(ctx, r.db), "attendance_regularizations", id, t)
}
