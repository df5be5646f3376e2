package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestSelect = `
	SELECT lr.id, lr.employee_id, lr.leave_type_id, lr.start_date, lr.end_date,
		lr.is_half_day, lr.half_day_session, lr.total_days, lr.reason, lr.contact_details_during_leave,
		lr.status, lr.stage,
		lr.manager_approver_id, lr.manager_comment, lr.manager_acted_at,
		lr.hr_approver_id, lr.hr_comment, lr.hr_acted_at,
		lr.created_at, lr.updated_at,
		e.first_name || ' ' || e.last_name, e.employee_code, e.manager_id,
		lt.id, lt.code, lt.name, lt.gender_restriction, lt.is_paid, lt.tracks_balance, lt.max_days_per_request, lt.created_at
	FROM leave_requests lr
	JOIN employees e ON e.id = lr.employee_id
	JOIN leave_types lt ON lt.id = lr.leave_type_id
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	var lt leave.LeaveType
	err := row.Scan(
		&lr.ID, &lr.EmployeeID, &lr.LeaveTypeID, &lr.StartDate, &lr.EndDate,
		&lr.IsHalfDay, &lr.HalfDaySession, &lr.TotalDays, &lr.Reason, &lr.ContactDetailsDuringLeave,
		&lr.Status, &lr.Stage,
		&lr.ManagerApproverID, &lr.ManagerComment, &lr.ManagerActedAt,
		&lr.HRApproverID, &lr.HRComment, &lr.HRActedAt,
		&lr.CreatedAt, &lr.UpdatedAt,
		&lr.EmployeeName, &lr.EmployeeCode, &lr.ManagerID,
		&lt.ID, &lt.Code, &lt.Name, &lt.GenderRestriction, &lt.IsPaid, &lt.TracksBalance, &lt.MaxDaysPerRequest, &lt.CreatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.LeaveType = &lt
	return lr, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type_id, start_date, end_date, is_half_day, half_day_session,
			total_days, reason, contact_details_during_leave, status, stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.LeaveTypeID, req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDaySession,
		req.TotalDays, req.Reason, req.ContactDetailsDuringLeave, req.Status, req.Stage,
	).Scan(&id)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, leaveRequestSelect+" WHERE lr.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request %d: %w", id, err)
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.View == leave.ViewManager && filter.ApproverID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("e.manager_id = $%d", argIdx))
		args = append(args, *filter.ApproverID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Stage != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.stage = $%d", argIdx))
		args = append(args, *filter.Stage)
		argIdx++
	}

	whereSQL := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id
		WHERE ` + whereSQL
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := leaveRequestSelect + " WHERE " + whereSQL + fmt.Sprintf(`
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, lr)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// UpdatePending implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) UpdatePending(ctx context.Context, req leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET leave_type_id = $1, start_date = $2, end_date = $3, is_half_day = $4, half_day_session = $5,
			total_days = $6, reason = $7, contact_details_during_leave = $8, stage = $9,
			manager_approver_id = NULL, manager_comment = NULL, manager_acted_at = NULL,
			updated_at = NOW()
		WHERE id = $10 AND status = $11
	`

	result, err := q.Exec(ctx, query,
		req.LeaveTypeID, req.StartDate, req.EndDate, req.IsHalfDay, req.HalfDaySession,
		req.TotalDays, req.Reason, req.ContactDetailsDuringLeave, req.Stage,
		req.ID, approval.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request %d: %w", req.ID, err)
	}
	if result.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// ApplyTransition implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	return applyTwoStageTransition(ctx, GetQuerier(ctx, r.db), "leave_requests", id, t)
}

// Cancel implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Cancel(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := q.Exec(ctx, query, approval.StatusCancelled, id, approval.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to cancel leave request %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// HasOverlap implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time, excludeID *int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_date <= $3 AND end_date >= $2
			  AND ($4::bigint IS NULL OR id <> $4)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	return exists, nil
}

// ListApprovedBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := leaveRequestSelect + `
		WHERE lr.status = 'APPROVED' AND lr.start_date <= $2 AND lr.end_date >= $1
		ORDER BY lr.employee_id, lr.start_date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}

	return requests, rows.Err()
}

// HasApprovedLeave implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) HasApprovedLeave(ctx context.Context, employeeID int64, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1 AND status = 'APPROVED'
			  AND start_date <= $2 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}
