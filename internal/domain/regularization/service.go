package regularization

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type RegularizationService interface {
	Submit(ctx context.Context, req CreateRegularizationRequest) (RegularizationResponse, error)
	List(ctx context.Context, actor user.Actor, filter RegularizationFilter) ([]RegularizationResponse, error)
	Act(ctx context.Context, req approval.ActionRequest) (RegularizationResponse, error)
}
