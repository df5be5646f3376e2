package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.employee_id, a.attendance_date, a.clock_in_time, a.clock_out_time,
	a.status, a.absence_reason, a.is_late, a.late_minutes, a.work_location, a.total_hours,
	a.check_in_latitude, a.check_in_longitude, a.check_out_latitude, a.check_out_longitude,
	a.created_at, a.updated_at
`

const attendanceReturning = `
	RETURNING id, employee_id, attendance_date, clock_in_time, clock_out_time,
		status, absence_reason, is_late, late_minutes, work_location, total_hours,
		check_in_latitude, check_in_longitude, check_out_latitude, check_out_longitude,
		created_at, updated_at
`

func attendanceDest(att *attendance.AttendanceRecord) []interface{} {
	return []interface{}{
		&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.Status, &att.AbsenceReason, &att.IsLate, &att.LateMinutes, &att.WorkLocation, &att.TotalHours,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckOutLatitude, &att.CheckOutLongitude,
		&att.CreatedAt, &att.UpdatedAt,
	}
}

// CheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckIn(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	// An ABSENT row left by the batch has no clock-in and is upgraded in
	// place; a row with a clock-in matches nothing and returns no rows.
	query := `
		INSERT INTO attendance_records (
			employee_id, attendance_date, clock_in_time, status, absence_reason,
			is_late, late_minutes, work_location, check_in_latitude, check_in_longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (employee_id, attendance_date) DO UPDATE SET
			clock_in_time = EXCLUDED.clock_in_time,
			status = EXCLUDED.status,
			absence_reason = EXCLUDED.absence_reason,
			is_late = EXCLUDED.is_late,
			late_minutes = EXCLUDED.late_minutes,
			work_location = EXCLUDED.work_location,
			check_in_latitude = EXCLUDED.check_in_latitude,
			check_in_longitude = EXCLUDED.check_in_longitude,
			updated_at = NOW()
		WHERE attendance_records.clock_in_time IS NULL
	` + attendanceReturning

	var saved attendance.AttendanceRecord
	err := q.QueryRow(ctx, query,
		record.EmployeeID, record.Date, record.ClockIn, record.Status, record.AbsenceReason,
		record.IsLate, record.LateMinutes, record.WorkLocation, record.CheckInLatitude, record.CheckInLongitude,
	).Scan(attendanceDest(&saved)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to check in: %w", err)
	}

	return saved, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) CheckOut(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET clock_out_time = $1, total_hours = $2, check_out_latitude = $3, check_out_longitude = $4, updated_at = NOW()
		WHERE id = $5 AND clock_in_time IS NOT NULL AND clock_out_time IS NULL
	` + attendanceReturning

	var saved attendance.AttendanceRecord
	err := q.QueryRow(ctx, query,
		record.ClockOut, record.TotalHours, record.CheckOutLatitude, record.CheckOutLongitude, record.ID,
	).Scan(attendanceDest(&saved)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to check out: %w", err)
	}

	return saved, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id int64) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `, e.employee_code, e.first_name || ' ' || e.last_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var att attendance.AttendanceRecord
	dest := append(attendanceDest(&att), &att.EmployeeCode, &att.EmployeeName)
	if err := q.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance %d: %w", id, err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1 AND a.attendance_date = $2
	`

	var att attendance.AttendanceRecord
	if err := q.QueryRow(ctx, query, employeeID, date).Scan(attendanceDest(&att)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// CountLate implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountLate(ctx context.Context, employeeID int64, from, to time.Time, excludeID *int64) (int, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE employee_id = $1
		  AND attendance_date BETWEEN $2 AND $3
		  AND is_late = TRUE
		  AND ($4::bigint IS NULL OR id <> $4)
	`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late check-ins: %w", err)
	}

	return count, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceRecord, int64, error) {
	q := GetQuerier(ctx, a.db)

	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EmployeeCode != nil && *filter.EmployeeCode != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("e.employee_code ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.EmployeeCode+"%")
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("(e.first_name || ' ' || e.last_name) ILIKE $%d", argIdx))
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}
	if filter.DateFrom != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.attendance_date >= $%d", argIdx))
		args = append(args, *filter.DateFrom)
		argIdx++
	}
	if filter.DateTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.attendance_date <= $%d", argIdx))
		args = append(args, *filter.DateTo)
		argIdx++
	}

	whereSQL := strings.Join(whereClauses, " AND ")

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + whereSQL
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := `
		SELECT ` + attendanceColumns + `, e.employee_code, e.first_name || ' ' || e.last_name
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE ` + whereSQL + fmt.Sprintf(`
		ORDER BY a.attendance_date DESC, e.employee_code
		LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.AttendanceRecord, 0)
	for rows.Next() {
		var att attendance.AttendanceRecord
		dest := append(attendanceDest(&att), &att.EmployeeCode, &att.EmployeeName)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		records = append(records, att)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListBetween implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListBetween(ctx context.Context, from, to time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records a
		WHERE a.attendance_date BETWEEN $1 AND $2
		ORDER BY a.employee_id, a.attendance_date
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance between dates: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.AttendanceRecord, 0)
	for rows.Next() {
		var att attendance.AttendanceRecord
		if err := rows.Scan(attendanceDest(&att)...); err != nil {
			return nil, err
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// UpdateEvaluation implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateEvaluation(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET clock_in_time = $1, clock_out_time = $2, status = $3, absence_reason = $4,
			is_late = $5, late_minutes = $6, total_hours = $7, updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		record.ClockIn, record.ClockOut, record.Status, record.AbsenceReason,
		record.IsLate, record.LateMinutes, record.TotalHours, record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance %d: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// InsertAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) InsertAbsent(ctx context.Context, employeeID int64, date time.Time, reason attendance.AbsenceReason) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (employee_id, attendance_date, status, absence_reason)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, attendance_date) DO NOTHING
	`

	tag, err := q.Exec(ctx, query, employeeID, date, attendance.StatusAbsent, reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark absence: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
