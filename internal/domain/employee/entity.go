package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Employee struct {
	ID               int64
	EmployeeCode     string
	FirstName        string
	LastName         string
	Email            string
	Gender           Gender
	Role             user.Role
	ManagerID        *int64
	EmploymentStatus EmploymentStatus
	LocationID       *int64
	ShiftStart       string
	ShiftEnd         string
	MonthlySalary    *decimal.Decimal
	Allowances       decimal.Decimal
	DateOfJoining    *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	Location *Location
}

type Location struct {
	ID           int64
	Name         string
	CountryCode  string
	Timezone     string
	Latitude     float64
	Longitude    float64
	RadiusMeters int
}

type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
	Other  Gender = "OTHER"
)

type EmploymentStatus string

const (
	EmploymentStatusActive   EmploymentStatus = "ACTIVE"
	EmploymentStatusInactive EmploymentStatus = "INACTIVE"
	EmploymentStatusOnLeave  EmploymentStatus = "ON_LEAVE"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// FullName joins first and last name for display.
func (e Employee) FullName() string {
	return titleCaser.String(strings.TrimSpace(e.FirstName + " " + e.LastName))
}

// TimeLocation is the employee's wall-clock zone, UTC when no location is set.
func (e Employee) TimeLocation() *time.Location {
	if e.Location == nil {
		return time.UTC
	}
	return utils.LoadLocation(e.Location.Timezone)
}

// CountryCode drives the holiday calendar.
func (e Employee) CountryCode() string {
	if e.Location == nil {
		return ""
	}
	return e.Location.CountryCode
}

// ShiftStartOn returns the shift start instant for the calendar date of day
// in the employee's zone.
func (e Employee) ShiftStartOn(day time.Time) time.Time {
	loc := e.TimeLocation()
	local := day.In(loc)
	clock, err := time.Parse("15:04", e.ShiftStart)
	if err != nil {
		clock = time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
}

// LocalDate is the calendar date of t in the employee's zone.
func (e Employee) LocalDate(t time.Time) time.Time {
	return utils.DateOf(t.In(e.TimeLocation()))
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == EmploymentStatusActive
}

// HasSalary reports a configured, positive monthly salary.
func (e Employee) HasSalary() bool {
	return e.MonthlySalary != nil && e.MonthlySalary.IsPositive()
}
