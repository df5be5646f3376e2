package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestTotalDays(t *testing.T) {
	assert.True(t, decimal.NewFromInt(3).Equal(TotalDays(date("2024-01-10"), date("2024-01-12"), false)))
	assert.True(t, decimal.NewFromInt(1).Equal(TotalDays(date("2024-01-10"), date("2024-01-10"), false)))
	assert.True(t, decimal.NewFromFloat(0.5).Equal(TotalDays(date("2024-01-10"), date("2024-01-10"), true)))
	// Calendar days span month ends and weekends alike
	assert.True(t, decimal.NewFromInt(5).Equal(TotalDays(date("2024-01-30"), date("2024-02-03"), false)))
}

func TestLeaveBalance_Available(t *testing.T) {
	b := LeaveBalance{
		OpeningBalanceDays:  decimal.NewFromInt(12),
		CarryForwardDays:    decimal.NewFromInt(2),
		AccruedDays:         decimal.NewFromInt(1),
		UsedDays:            decimal.NewFromInt(4),
		PendingApprovalDays: decimal.NewFromInt(3),
	}
	assert.True(t, decimal.NewFromInt(15).Equal(b.Entitlement()))
	assert.True(t, decimal.NewFromInt(8).Equal(b.Available()))
}

func TestLeaveType_AppliesTo(t *testing.T) {
	female := employee.Female
	ml := LeaveType{Code: "ML", GenderRestriction: &female}
	al := LeaveType{Code: "AL"}

	assert.True(t, ml.AppliesTo(employee.Female))
	assert.False(t, ml.AppliesTo(employee.Male))
	assert.True(t, al.AppliesTo(employee.Other))
}

func TestLeaveRequest_Covers(t *testing.T) {
	r := LeaveRequest{StartDate: date("2024-01-10"), EndDate: date("2024-01-12")}

	assert.True(t, r.Covers(date("2024-01-10")))
	assert.True(t, r.Covers(time.Date(2024, 1, 12, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Covers(date("2024-01-13")))
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	typeID := int64(1)

	// Test valid full-day request
	req := CreateLeaveRequest{LeaveTypeID: &typeID, StartDate: "2024-01-10", EndDate: "2024-01-12", Reason: "family trip"}
	require.NoError(t, req.Validate())
	start, end := req.Range()
	assert.Equal(t, date("2024-01-10"), start)
	assert.Equal(t, date("2024-01-12"), end)

	// Test half day spanning dates
	session := "FIRST_HALF"
	req = CreateLeaveRequest{LeaveTypeID: &typeID, StartDate: "2024-01-10", EndDate: "2024-01-11", IsHalfDay: true, HalfDaySession: &session, Reason: "x"}
	var errs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &errs)
	assert.Contains(t, errs.ToMap(), "is_half_day")

	// Test missing fields
	req = CreateLeaveRequest{StartDate: "2024-01-12", EndDate: "2024-01-10"}
	require.ErrorAs(t, req.Validate(), &errs)
	got := errs.ToMap()
	assert.Contains(t, got, "leave_type_id")
	assert.Contains(t, got, "reason")
	assert.Contains(t, got, "end_date")
}

func TestBalanceAdjustment_Validate(t *testing.T) {
	neg := decimal.NewFromInt(-1)
	adj := BalanceAdjustment{LeaveTypeID: 1, Year: 2024, AccruedDays: &neg}
	assert.Error(t, adj.Validate())

	twelve := decimal.NewFromInt(12)
	adj = BalanceAdjustment{LeaveTypeID: 1, Year: 2024, OpeningBalanceDays: &twelve}
	assert.NoError(t, adj.Validate())

	adj = BalanceAdjustment{LeaveTypeID: 1, Year: 2024}
	assert.Error(t, adj.Validate())
}
