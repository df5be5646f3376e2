package approval

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

var now = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func pendingSubject(managerID *int64) Subject {
	return Subject{
		ID:         1,
		EmployeeID: 10,
		ManagerID:  managerID,
		Status:     StatusPending,
		Stage:      InitialStage(TwoStage, managerID),
	}
}

func TestInitialStage(t *testing.T) {
	assert.Equal(t, StageAwaitingManager, InitialStage(TwoStage, int64Ptr(5)))
	assert.Equal(t, StageAwaitingHR, InitialStage(TwoStage, nil))
	assert.Equal(t, StageAwaitingHR, InitialStage(SingleStage, int64Ptr(5)))
}

func TestDecide_ManagerApproveMovesToHR(t *testing.T) {
	s := pendingSubject(int64Ptr(5))

	tr, err := Decide(TwoStage, s, Action{As: ActingManager, ApproverID: 5, ApproverRole: user.RoleManager, Decision: DecisionApprove}, now)
	require.NoError(t, err)

	assert.Equal(t, StageAwaitingManager, tr.From)
	assert.Equal(t, StageAwaitingHR, tr.To)
	assert.Equal(t, StatusPending, tr.Status)
	assert.Equal(t, SlotManager, tr.Slot)
	assert.False(t, tr.Final())
}

func TestDecide_HRApproveIsFinal(t *testing.T) {
	s := pendingSubject(int64Ptr(5))
	s.Stage = StageAwaitingHR

	tr, err := Decide(TwoStage, s, Action{As: ActingHR, ApproverID: 7, ApproverRole: user.RoleHR, Decision: DecisionApprove}, now)
	require.NoError(t, err)

	assert.True(t, tr.Approved())
	assert.True(t, tr.Final())
	assert.Equal(t, SlotHR, tr.Slot)
}

func TestDecide_ManagerRejectIsFinal(t *testing.T) {
	s := pendingSubject(int64Ptr(5))

	tr, err := Decide(TwoStage, s, Action{As: ActingManager, ApproverID: 5, Decision: DecisionReject}, now)
	require.NoError(t, err)

	assert.True(t, tr.Rejected())
	assert.Equal(t, SlotManager, tr.Slot)
}

func TestDecide_AdminActsAtAnyStage(t *testing.T) {
	s := pendingSubject(int64Ptr(5))

	tr, err := Decide(TwoStage, s, Action{As: ActingAdmin, ApproverID: 1, ApproverRole: user.RoleAdmin, Decision: DecisionApprove}, now)
	require.NoError(t, err)
	assert.True(t, tr.Approved())
	assert.Equal(t, StageAwaitingManager, tr.From)
}

func TestDecide_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		flow    Flow
		subject Subject
		action  Action
		wantErr error
	}{
		{
			name:    "not pending",
			flow:    TwoStage,
			subject: Subject{EmployeeID: 10, Status: StatusApproved, Stage: StageAwaitingHR},
			action:  Action{As: ActingHR, ApproverID: 7, ApproverRole: user.RoleHR, Decision: DecisionApprove},
			wantErr: ErrNotPending,
		},
		{
			name:    "self approval",
			flow:    TwoStage,
			subject: pendingSubject(nil),
			action:  Action{As: ActingAdmin, ApproverID: 10, ApproverRole: user.RoleAdmin, Decision: DecisionApprove},
			wantErr: ErrSelfApproval,
		},
		{
			name:    "manager of someone else",
			flow:    TwoStage,
			subject: pendingSubject(int64Ptr(5)),
			action:  Action{As: ActingManager, ApproverID: 6, Decision: DecisionApprove},
			wantErr: ErrNotApprover,
		},
		{
			name:    "hr before manager",
			flow:    TwoStage,
			subject: pendingSubject(int64Ptr(5)),
			action:  Action{As: ActingHR, ApproverID: 7, ApproverRole: user.RoleHR, Decision: DecisionApprove},
			wantErr: ErrStageMismatch,
		},
		{
			name:    "manager after manager stage",
			flow:    TwoStage,
			subject: Subject{EmployeeID: 10, ManagerID: int64Ptr(5), Status: StatusPending, Stage: StageAwaitingHR},
			action:  Action{As: ActingManager, ApproverID: 5, Decision: DecisionApprove},
			wantErr: ErrStageMismatch,
		},
		{
			name:    "hr capacity without hr role",
			flow:    TwoStage,
			subject: pendingSubject(nil),
			action:  Action{As: ActingHR, ApproverID: 7, ApproverRole: user.RoleEmployee, Decision: DecisionApprove},
			wantErr: ErrNotApprover,
		},
		{
			name:    "admin capacity without admin role",
			flow:    TwoStage,
			subject: pendingSubject(nil),
			action:  Action{As: ActingAdmin, ApproverID: 7, ApproverRole: user.RoleHR, Decision: DecisionApprove},
			wantErr: ErrNotApprover,
		},
		{
			name:    "manager on single stage",
			flow:    SingleStage,
			subject: pendingSubject(int64Ptr(5)),
			action:  Action{As: ActingManager, ApproverID: 5, Decision: DecisionApprove},
			wantErr: ErrNotApprover,
		},
		{
			name:    "bad decision",
			flow:    TwoStage,
			subject: pendingSubject(nil),
			action:  Action{As: ActingHR, ApproverID: 7, ApproverRole: user.RoleHR, Decision: "MAYBE"},
			wantErr: ErrInvalidDecision,
		},
		{
			name:    "unknown capacity",
			flow:    TwoStage,
			subject: pendingSubject(nil),
			action:  Action{As: "CEO", ApproverID: 7, ApproverRole: user.RoleHR, Decision: DecisionApprove},
			wantErr: ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decide(tt.flow, tt.subject, tt.action, now)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseDecision(t *testing.T) {
	d, ok := ParseDecision("approved")
	assert.True(t, ok)
	assert.Equal(t, DecisionApprove, d)

	d, ok = ParseDecision(" REJECT ")
	assert.True(t, ok)
	assert.Equal(t, DecisionReject, d)

	_, ok = ParseDecision("pending")
	assert.False(t, ok)
}

func TestParseActingRole(t *testing.T) {
	r, ok := ParseActingRole("super_admin")
	assert.True(t, ok)
	assert.Equal(t, ActingAdmin, r)

	_, ok = ParseActingRole("EMPLOYEE")
	assert.False(t, ok)
}

func TestActingRoleFor(t *testing.T) {
	assert.Equal(t, ActingAdmin, ActingRoleFor(user.RoleSuperAdmin))
	assert.Equal(t, ActingHR, ActingRoleFor(user.RoleHR))
	assert.Equal(t, ActingManager, ActingRoleFor(user.RoleManager))
}
