package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/wfh"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type wfhRepositoryImpl struct {
	db *database.DB
}

func NewWFHRepository(db *database.DB) wfh.WFHRepository {
	return &wfhRepositoryImpl{db: db}
}

const wfhSelect = `
	SELECT w.id, w.employee_id, w.request_date, w.start_date, w.end_date, w.reason,
		w.status, w.stage, w.admin_comment, w.approved_by, w.acted_at, w.created_at, w.updated_at,
		e.first_name || ' ' || e.last_name, e.employee_code
	FROM wfh_requests w
	JOIN employees e ON e.id = w.employee_id
`

func scanWFH(row pgx.Row) (wfh.WFHRequest, error) {
	var w wfh.WFHRequest
	err := row.Scan(
		&w.ID, &w.EmployeeID, &w.RequestDate, &w.StartDate, &w.EndDate, &w.Reason,
		&w.Status, &w.Stage, &w.AdminComment, &w.ApprovedBy, &w.ActedAt, &w.CreatedAt, &w.UpdatedAt,
		&w.EmployeeName, &w.EmployeeCode,
	)
	return w, err
}

// Create implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) Create(ctx context.Context, req wfh.WFHRequest) (wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO wfh_requests (employee_id, request_date, start_date, end_date, reason, status, stage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		req.EmployeeID, req.RequestDate, req.StartDate, req.EndDate, req.Reason, req.Status, req.Stage,
	).Scan(&id)
	if err != nil {
		return wfh.WFHRequest{}, fmt.Errorf("failed to create wfh request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) GetByID(ctx context.Context, id int64) (wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWFH(q.QueryRow(ctx, wfhSelect+" WHERE w.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wfh.WFHRequest{}, wfh.ErrWFHRequestNotFound
		}
		return wfh.WFHRequest{}, fmt.Errorf("failed to get wfh request %d: %w", id, err)
	}
	return w, nil
}

// List implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) List(ctx context.Context, filter wfh.WFHFilter) ([]wfh.WFHRequest, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("w.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("w.status = $%d", argIdx))
		args = append(args, *filter.Status)
	}

	query := wfhSelect + " WHERE " + strings.Join(whereClauses, " AND ") + " ORDER BY w.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wfh requests: %w", err)
	}
	defer rows.Close()

	out := make([]wfh.WFHRequest, 0)
	for rows.Next() {
		w, err := scanWFH(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}

	return out, rows.Err()
}

// ApplyTransition implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) ApplyTransition(ctx context.Context, id int64, t approval.Transition) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE wfh_requests
		SET status = $1, stage = $2, approved_by = $3, admin_comment = $4, acted_at = $5, updated_at = NOW()
		WHERE id = $6 AND status = $7 AND stage = $8
	`

	result, err := q.Exec(ctx, query,
		t.Status, t.To, t.ApproverID, t.Comment, t.ActedAt,
		id, approval.StatusPending, t.From,
	)
	if err != nil {
		return fmt.Errorf("failed to apply decision on wfh request %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}

// HasOverlap implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM wfh_requests
			WHERE employee_id = $1
			  AND status IN ('PENDING', 'APPROVED')
			  AND start_date <= $3 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, start, end).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping wfh: %w", err)
	}
	return exists, nil
}

// HasApprovedWFH implements wfh.WFHRepository.
func (r *wfhRepositoryImpl) HasApprovedWFH(ctx context.Context, employeeID int64, day time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM wfh_requests
			WHERE employee_id = $1 AND status = 'APPROVED'
			  AND start_date <= $2 AND end_date >= $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, day).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check approved wfh: %w", err)
	}
	return exists, nil
}
