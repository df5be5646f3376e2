package wfh

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
)

type WFHRepository interface {
	Create(ctx context.Context, req WFHRequest) (WFHRequest, error)
	GetByID(ctx context.Context, id int64) (WFHRequest, error)
	List(ctx context.Context, filter WFHFilter) ([]WFHRequest, error)
	ApplyTransition(ctx context.Context, id int64, t approval.Transition) error
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
	HasApprovedWFH(ctx context.Context, employeeID int64, day time.Time) (bool, error)
}
