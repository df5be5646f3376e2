package notification

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/stretchr/testify/assert"
)

func TestForDecision(t *testing.T) {
	subj := approval.Subject{ID: 7, EmployeeID: 2, Status: approval.StatusPending, Stage: approval.StageAwaitingManager}
	comment := "enjoy"

	approved := ForDecision("leave", subj, approval.Transition{Status: approval.StatusApproved, ApproverID: 3, Comment: &comment, ActedAt: time.Now()})
	assert.Equal(t, int64(2), approved.RecipientID)
	assert.Equal(t, int64(3), *approved.SenderID)
	assert.Equal(t, TypeRequestApproved, approved.Type)
	assert.Equal(t, LevelSuccess, approved.Level)
	assert.Equal(t, "Leave request approved", approved.Title)
	assert.Equal(t, "Your leave request #7 was approved.", approved.Message)
	assert.Equal(t, "enjoy", approved.Data["comment"])
	assert.Equal(t, int64(7), approved.Data["request_id"])

	advanced := ForDecision("regularization", subj, approval.Transition{Status: approval.StatusPending, To: approval.StageAwaitingHR, ApproverID: 1})
	assert.Equal(t, TypeRequestAdvanced, advanced.Type)
	assert.Contains(t, advanced.Message, "awaiting HR")
	assert.NotContains(t, advanced.Data, "comment")

	rejected := ForDecision("wfh", subj, approval.Transition{Status: approval.StatusRejected, ApproverID: 3})
	assert.Equal(t, LevelError, rejected.Level)
	assert.Equal(t, "Work from home request rejected", rejected.Title)
}

func TestForSubmission(t *testing.T) {
	req := ForSubmission("leave", approval.Subject{ID: 9, EmployeeID: 2}, 1)
	assert.Equal(t, int64(1), req.RecipientID)
	assert.Equal(t, int64(2), *req.SenderID)
	assert.Equal(t, TypeRequestSubmitted, req.Type)
	assert.Equal(t, "leave", req.Data["request_kind"])
}

func TestForPayslip(t *testing.T) {
	req := ForPayslip(5, 2024, 1, "run-1")
	assert.Equal(t, "Your payslip for 2024-01 has been finalized.", req.Message)
	assert.Equal(t, "run-1", req.Data["run_id"])
}
