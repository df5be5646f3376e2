package wfh

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
)

type WFHRequest struct {
	ID           int64
	EmployeeID   int64
	RequestDate  time.Time
	StartDate    time.Time
	EndDate      time.Time
	Reason       string
	Status       approval.Status
	Stage        approval.Stage
	AdminComment *string
	ApprovedBy   *int64
	ActedAt      *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	EmployeeName *string
	EmployeeCode *string
}

func (r WFHRequest) Subject() approval.Subject {
	return approval.Subject{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		Status:     r.Status,
		Stage:      r.Stage,
	}
}

// Days is the inclusive calendar length of the request.
func (r WFHRequest) Days() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}
