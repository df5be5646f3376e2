package employee

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEmployee_FullName(t *testing.T) {
	e := Employee{FirstName: "siti", LastName: "rahma"}
	assert.Equal(t, "Siti Rahma", e.FullName())

	e = Employee{FirstName: "Budi"}
	assert.Equal(t, "Budi", e.FullName())
}

func TestEmployee_ShiftStartOn(t *testing.T) {
	e := Employee{
		ShiftStart: "09:00",
		Location:   &Location{Timezone: "Asia/Jakarta"},
	}

	// 01:30 UTC is 08:30 in Jakarta on the same date
	day := time.Date(2024, 1, 10, 1, 30, 0, 0, time.UTC)
	start := e.ShiftStartOn(day)

	assert.Equal(t, time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC), start.UTC())
}

func TestEmployee_LocalDate(t *testing.T) {
	e := Employee{Location: &Location{Timezone: "Asia/Jakarta"}}

	// 20:00 UTC on the 9th is already the 10th in Jakarta
	got := e.LocalDate(time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestEmployee_TimeLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, Employee{}.TimeLocation())
	assert.Equal(t, time.UTC, Employee{Location: &Location{Timezone: "Mars/Olympus"}}.TimeLocation())
}

func TestEmployee_HasSalary(t *testing.T) {
	zero := decimal.Zero
	salary := decimal.NewFromInt(3000)

	assert.False(t, Employee{}.HasSalary())
	assert.False(t, Employee{MonthlySalary: &zero}.HasSalary())
	assert.True(t, Employee{MonthlySalary: &salary}.HasSalary())
}

func TestCreateEmployeeRequest_Validate(t *testing.T) {
	req := CreateEmployeeRequest{
		EmployeeCode: "EMP-001",
		FirstName:    "Siti",
		Email:        "siti@example.com",
		Gender:       "FEMALE",
		ShiftStart:   "09:00",
		ShiftEnd:     "18:00",
	}
	assert.NoError(t, req.Validate())

	req.ShiftEnd = "08:00"
	assert.Error(t, req.Validate())

	req.ShiftEnd = "18:00"
	req.Gender = "F"
	assert.Error(t, req.Validate())
}
