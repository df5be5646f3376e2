package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const balanceReturning = `
	RETURNING id, employee_id, leave_type_id, year,
		opening_balance_days, carry_forward_days, accrued_days, used_days, pending_approval_days, updated_at
`

func balanceDest(b *leave.LeaveBalance) []interface{} {
	return []interface{}{
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.OpeningBalanceDays, &b.CarryForwardDays, &b.AccruedDays, &b.UsedDays, &b.PendingApprovalDays, &b.UpdatedAt,
	}
}

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID int64, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type_id, year,
			opening_balance_days, carry_forward_days, accrued_days, used_days, pending_approval_days, updated_at
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`

	var b leave.LeaveBalance
	if err := q.QueryRow(ctx, query, employeeID, leaveTypeID, year).Scan(balanceDest(&b)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// ListByEmployee implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int64, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lb.id, lb.employee_id, lb.leave_type_id, lb.year,
			lb.opening_balance_days, lb.carry_forward_days, lb.accrued_days, lb.used_days, lb.pending_approval_days, lb.updated_at,
			lt.id, lt.code, lt.name, lt.gender_restriction, lt.is_paid, lt.tracks_balance, lt.max_days_per_request, lt.created_at
		FROM leave_balances lb
		JOIN leave_types lt ON lt.id = lb.leave_type_id
		WHERE lb.employee_id = $1 AND lb.year = $2
		ORDER BY lt.name
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		var lt leave.LeaveType
		dest := append(balanceDest(&b),
			&lt.ID, &lt.Code, &lt.Name, &lt.GenderRestriction, &lt.IsPaid, &lt.TracksBalance, &lt.MaxDaysPerRequest, &lt.CreatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		b.LeaveType = &lt
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

// Reserve implements leave.LeaveBalanceRepository. A missing ledger row is
// created empty first so a zero entitlement reads as zero available.
func (r *leaveBalanceRepositoryImpl) Reserve(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal, allowNegative bool) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	if err := r.ensureRow(ctx, employeeID, leaveTypeID, year); err != nil {
		return leave.LeaveBalance{}, err
	}

	query := `
		UPDATE leave_balances
		SET pending_approval_days = pending_approval_days + $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
		AND ($5::boolean OR (opening_balance_days + carry_forward_days + accrued_days - used_days - pending_approval_days - $1) >= 0)
	` + balanceReturning

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, days, employeeID, leaveTypeID, year, allowNegative).Scan(balanceDest(&b)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrInsufficientBalance
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to reserve leave balance: %w", err)
	}
	return b, nil
}

// Release implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Release(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_approval_days = GREATEST(pending_approval_days - $1, 0),
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
	`

	result, err := q.Exec(ctx, query, days, employeeID, leaveTypeID, year)
	if err != nil {
		return fmt.Errorf("failed to release leave balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// Commit implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Commit(ctx context.Context, employeeID, leaveTypeID int64, year int, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET pending_approval_days = GREATEST(pending_approval_days - $1, 0),
			used_days = used_days + $1,
			updated_at = NOW()
		WHERE employee_id = $2 AND leave_type_id = $3 AND year = $4
	`

	result, err := q.Exec(ctx, query, days, employeeID, leaveTypeID, year)
	if err != nil {
		return fmt.Errorf("failed to commit leave balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

// Adjust implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Adjust(ctx context.Context, adj leave.BalanceAdjustment) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, year, opening_balance_days, carry_forward_days, accrued_days)
		VALUES ($1, $2, $3, COALESCE($4::numeric, 0), COALESCE($5::numeric, 0), COALESCE($6::numeric, 0))
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE SET
			opening_balance_days = COALESCE($4, leave_balances.opening_balance_days),
			carry_forward_days = COALESCE($5, leave_balances.carry_forward_days),
			accrued_days = COALESCE($6, leave_balances.accrued_days),
			updated_at = NOW()
	` + balanceReturning

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query,
		adj.EmployeeID, adj.LeaveTypeID, adj.Year,
		adj.OpeningBalanceDays, adj.CarryForwardDays, adj.AccruedDays,
	).Scan(balanceDest(&b)...)
	if err != nil {
		if name, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			if name == "leave_balances_employee_id_fkey" {
				return leave.LeaveBalance{}, employee.ErrEmployeeNotFound
			}
			return leave.LeaveBalance{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}
	return b, nil
}

func (r *leaveBalanceRepositoryImpl) ensureRow(ctx context.Context, employeeID, leaveTypeID int64, year int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, leave_type_id, year)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID, leaveTypeID, year); err != nil {
		return fmt.Errorf("failed to open leave balance: %w", err)
	}
	return nil
}
