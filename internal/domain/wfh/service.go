package wfh

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type WFHService interface {
	Submit(ctx context.Context, req CreateWFHRequest) (WFHResponse, error)
	MyRequests(ctx context.Context, actor user.Actor) ([]WFHResponse, error)
	List(ctx context.Context, actor user.Actor, filter WFHFilter) ([]WFHResponse, error)
	Act(ctx context.Context, req approval.ActionRequest) (WFHResponse, error)
}
