package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
)

// applyTwoStageTransition stamps the manager_* or hr_* columns of a two-stage
// request table. The update only matches a PENDING row still at t.From.
func applyTwoStageTransition(ctx context.Context, q database.Querier, table string, id int64, t approval.Transition) error {
	prefix := "hr"
	if t.Slot == approval.SlotManager {
		prefix = "manager"
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, stage = $2,
			%s_approver_id = $3, %s_comment = $4, %s_acted_at = $5,
			updated_at = NOW()
		WHERE id = $6 AND status = $7 AND stage = $8
	`, table, prefix, prefix, prefix)

	result, err := q.Exec(ctx, query,
		t.Status, t.To, t.ApproverID, t.Comment, t.ActedAt,
		id, approval.StatusPending, t.From,
	)
	if err != nil {
		return fmt.Errorf("failed to apply decision on %s %d: %w", table, id, err)
	}
	if result.RowsAffected() == 0 {
		return approval.ErrNotPending
	}
	return nil
}
