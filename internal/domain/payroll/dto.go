package payroll

import (
	"encoding/json"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ValidatePeriod(year, month int) error {
	var errs validator.ValidationErrors

	if year < 2000 || year > 9999 {
		errs.Add("year", "year is invalid")
	}
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type FinalizeRequest struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Notes *string `json:"notes,omitempty"`

	Actor user.Actor `json:"-"`
}

func (r *FinalizeRequest) Validate() error {
	if err := ValidatePeriod(r.Year, r.Month); err != nil {
		return err
	}
	if r.Notes != nil && len(*r.Notes) > 1000 {
		var errs validator.ValidationErrors
		errs.Add("notes", "notes must not exceed 1000 characters")
		return errs
	}
	return nil
}

type ItemResponse struct {
	ID                    int64           `json:"id,omitempty"`
	RunID                 *uuid.UUID      `json:"run_id,omitempty"`
	EmployeeID            int64           `json:"employee_id"`
	EmployeeCode          string          `json:"employee_code"`
	EmployeeName          string          `json:"employee_name"`
	Year                  int             `json:"year"`
	Month                 int             `json:"month"`
	MonthlySalary         decimal.Decimal `json:"monthly_salary"`
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	TotalWorkingDays      int             `json:"total_working_days"`
	UnpaidLeaveDays       decimal.Decimal `json:"unpaid_leave_days"`
	AbsentDays            decimal.Decimal `json:"absent_days"`
	TotalUnpaidDays       decimal.Decimal `json:"total_unpaid_days"`
	DailyRate             decimal.Decimal `json:"daily_rate"`
	UnpaidDeductionAmount decimal.Decimal `json:"unpaid_deduction_amount"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	Details               []DayDetail     `json:"details"`
	// MetaJSON is the serialized {details:[...]} document clients parse.
	MetaJSON string     `json:"meta_json"`
	RunDate  *time.Time `json:"run_date,omitempty"`
}

func ToItemResponse(it Item) ItemResponse {
	details := it.Meta.Details
	if details == nil {
		details = []DayDetail{}
	}
	meta, _ := json.Marshal(Meta{Details: details})

	return ItemResponse{
		ID:                    it.ID,
		RunID:                 it.RunID,
		EmployeeID:            it.EmployeeID,
		EmployeeCode:          it.EmployeeCode,
		EmployeeName:          it.EmployeeName,
		Year:                  it.Year,
		Month:                 it.Month,
		MonthlySalary:         it.MonthlySalary,
		GrossSalary:           it.GrossSalary,
		TotalWorkingDays:      it.TotalWorkingDays,
		UnpaidLeaveDays:       it.UnpaidLeaveDays,
		AbsentDays:            it.AbsentDays,
		TotalUnpaidDays:       it.TotalUnpaidDays,
		DailyRate:             it.DailyRate,
		UnpaidDeductionAmount: it.UnpaidDeductionAmount,
		NetSalary:             it.NetSalary,
		Details:               details,
		MetaJSON:              string(meta),
		RunDate:               it.RunDate,
	}
}

type SkippedResponse struct {
	EmployeeID   int64      `json:"employee_id"`
	EmployeeCode string     `json:"employee_code"`
	EmployeeName string     `json:"employee_name"`
	Reason       SkipReason `json:"reason"`
}

type PreviewResponse struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	TotalEmployees int               `json:"total_employees"`
	Items          []ItemResponse    `json:"items"`
	Skipped        []SkippedResponse `json:"skipped"`
}

type FinalizeResponse struct {
	RunID          uuid.UUID      `json:"run_id"`
	Year           int            `json:"year"`
	Month          int            `json:"month"`
	RunDate        time.Time      `json:"run_date"`
	TotalEmployees int            `json:"total_employees"`
	Items          []ItemResponse `json:"items"`
}

type RunResponse struct {
	ID             uuid.UUID       `json:"id"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Notes          *string         `json:"notes"`
	FinalizedBy    int64           `json:"finalized_by"`
	RunDate        time.Time       `json:"run_date"`
	TotalEmployees int             `json:"total_employees"`
	TotalNet       decimal.Decimal `json:"total_net_salary"`
}

func ToRunResponse(r Run) RunResponse {
	return RunResponse{
		ID:             r.ID,
		Year:           r.Year,
		Month:          r.Month,
		Notes:          r.Notes,
		FinalizedBy:    r.FinalizedBy,
		RunDate:        r.RunDate,
		TotalEmployees: r.TotalEmployees,
		TotalNet:       r.TotalNet,
	}
}
