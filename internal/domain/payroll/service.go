package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type PayrollService interface {
	// Preview computes the month without persisting anything
	Preview(ctx context.Context, actor user.Actor, year, month int) (PreviewResponse, error)

	// Finalize persists one immutable item per employee, at most once per period
	Finalize(ctx context.Context, req FinalizeRequest) (FinalizeResponse, error)

	Me(ctx context.Context, actor user.Actor, year, month *int) ([]ItemResponse, error)
	Runs(ctx context.Context, actor user.Actor) ([]RunResponse, error)
}
