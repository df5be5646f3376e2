package regularization

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
)

type RegularizationRepository interface {
	// Create returns ErrPendingExists when the record already has a PENDING
	// request.
	Create(ctx context.Context, r Regularization) (Regularization, error)
	GetByID(ctx context.Context, id int64) (Regularization, error)
	List(ctx context.Context, filter RegularizationFilter) ([]Regularization, error)
	ApplyTransition(ctx context.Context, id int64, t approval.Transition) error
}
