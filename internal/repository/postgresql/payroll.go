package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// CreateRun implements payroll.PayrollRepository.
func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, year, month, notes, finalized_by, run_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, year, month, notes, finalized_by, run_date
	`

	var saved payroll.Run
	err := q.QueryRow(ctx, query, run.ID, run.Year, run.Month, run.Notes, run.FinalizedBy, run.RunDate).Scan(
		&saved.ID, &saved.Year, &saved.Month, &saved.Notes, &saved.FinalizedBy, &saved.RunDate,
	)
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_run_period") {
			return payroll.Run{}, payroll.ErrAlreadyFinalized
		}
		return payroll.Run{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return saved, nil
}

// InsertItems implements payroll.PayrollRepository.
func (r *payrollRepository) InsertItems(ctx context.Context, items []payroll.Item) error {
	if len(items) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_items (
			run_id, employee_id, year, month, monthly_salary, gross_salary, total_working_days,
			unpaid_leave_days, absent_days, total_unpaid_days, daily_rate, unpaid_deduction_amount,
			net_salary, meta_json, run_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		meta, err := json.Marshal(item.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode payroll meta for employee %d: %w", item.EmployeeID, err)
		}
		batch.Queue(query,
			item.RunID, item.EmployeeID, item.Year, item.Month, item.MonthlySalary, item.GrossSalary, item.TotalWorkingDays,
			item.UnpaidLeaveDays, item.AbsentDays, item.TotalUnpaidDays, item.DailyRate, item.UnpaidDeductionAmount,
			item.NetSalary, meta, item.RunDate,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			if isUniqueViolation(err, "uk_payroll_item_employee_period") {
				return payroll.ErrAlreadyFinalized
			}
			return fmt.Errorf("failed to insert payroll items: %w", err)
		}
	}

	return results.Close()
}

// ListRuns implements payroll.PayrollRepository.
func (r *payrollRepository) ListRuns(ctx context.Context) ([]payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pr.id, pr.year, pr.month, pr.notes, pr.finalized_by, pr.run_date,
			COUNT(pi.id), COALESCE(SUM(pi.net_salary), 0)
		FROM payroll_runs pr
		LEFT JOIN payroll_items pi ON pi.run_id = pr.id
		GROUP BY pr.id
		ORDER BY pr.year DESC, pr.month DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	runs := make([]payroll.Run, 0)
	for rows.Next() {
		var run payroll.Run
		if err := rows.Scan(
			&run.ID, &run.Year, &run.Month, &run.Notes, &run.FinalizedBy, &run.RunDate,
			&run.TotalEmployees, &run.TotalNet,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListItemsByEmployee implements payroll.PayrollRepository.
func (r *payrollRepository) ListItemsByEmployee(ctx context.Context, employeeID int64, year, month *int) ([]payroll.Item, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"pi.employee_id = $1"}
	args := []interface{}{employeeID}
	argIdx := 2

	if year != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("pi.year = $%d", argIdx))
		args = append(args, *year)
		argIdx++
	}
	if month != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("pi.month = $%d", argIdx))
		args = append(args, *month)
	}

	query := `
		SELECT pi.id, pi.run_id, pi.employee_id, e.employee_code, e.first_name || ' ' || e.last_name,
			pi.year, pi.month, pi.monthly_salary, pi.gross_salary, pi.total_working_days,
			pi.unpaid_leave_days, pi.absent_days, pi.total_unpaid_days, pi.daily_rate,
			pi.unpaid_deduction_amount, pi.net_salary, pi.meta_json, pi.run_date
		FROM payroll_items pi
		JOIN employees e ON e.id = pi.employee_id
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY pi.year DESC, pi.month DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	items := make([]payroll.Item, 0)
	for rows.Next() {
		var item payroll.Item
		var meta []byte
		if err := rows.Scan(
			&item.ID, &item.RunID, &item.EmployeeID, &item.EmployeeCode, &item.EmployeeName,
			&item.Year, &item.Month, &item.MonthlySalary, &item.GrossSalary, &item.TotalWorkingDays,
			&item.UnpaidLeaveDays, &item.AbsentDays, &item.TotalUnpaidDays, &item.DailyRate,
			&item.UnpaidDeductionAmount, &item.NetSalary, &meta, &item.RunDate,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &item.Meta); err != nil {
			return nil, fmt.Errorf("failed to decode payroll meta %d: %w", item.ID, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
