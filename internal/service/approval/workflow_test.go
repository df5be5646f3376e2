package approval

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/regularization"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

func setup(t *testing.T, effect SideEffect[regularization.Regularization]) (*Workflow[regularization.Regularization], *testutil.Regularizations) {
	t.Helper()
	managerID := int64(1)
	emps := testutil.NewEmployees(
		employee.Employee{ID: 1, Role: user.RoleManager},
		employee.Employee{ID: 2, ManagerID: &managerID},
	)
	store := testutil.NewRegularizations(emps)
	_, err := store.Create(context.Background(), regularization.Regularization{
		EmployeeID:         2,
		AttendanceRecordID: 5,
		Reason:             "forgot",
		Status:             approval.StatusPending,
		Stage:              approval.StageAwaitingManager,
	})
	require.NoError(t, err)

	wf := NewWorkflow("regularization", approval.TwoStage, testutil.NewTx(store), store, effect)
	wf.WithClock(func() time.Time { return fixedNow })
	return wf, store
}

func act(id int64, role user.Role, as approval.ActingRole, d approval.Decision) approval.Action {
	return approval.Action{As: as, ApproverID: id, ApproverRole: role, Decision: d}
}

func TestWorkflow_TwoStageApproval(t *testing.T) {
	var finals []approval.Transition
	wf, _ := setup(t, func(ctx context.Context, req regularization.Regularization, tr approval.Transition) error {
		if tr.Final() {
			finals = append(finals, tr)
		}
		return nil
	})
	ctx := context.Background()

	got, err := wf.Act(ctx, 1, act(1, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, got.Status)
	assert.Equal(t, approval.StageAwaitingHR, got.Stage)
	assert.Equal(t, fixedNow, *got.ManagerActedAt)
	assert.Empty(t, finals)

	got, err = wf.Act(ctx, 1, act(9, user.RoleHR, approval.ActingHR, approval.DecisionApprove))
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, got.Status)
	assert.Equal(t, int64(9), *got.HRApproverID)
	require.Len(t, finals, 1)
	assert.True(t, finals[0].Approved())

	_, err = wf.Act(ctx, 1, act(9, user.RoleHR, approval.ActingHR, approval.DecisionReject))
	assert.ErrorIs(t, err, approval.ErrNotPending)
}

func TestWorkflow_StageAndAuthority(t *testing.T) {
	wf, _ := setup(t, nil)
	ctx := context.Background()

	_, err := wf.Act(ctx, 1, act(9, user.RoleHR, approval.ActingHR, approval.DecisionApprove))
	assert.ErrorIs(t, err, approval.ErrStageMismatch)

	_, err = wf.Act(ctx, 1, act(3, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	assert.ErrorIs(t, err, approval.ErrNotApprover)

	_, err = wf.Act(ctx, 1, act(2, user.RoleAdmin, approval.ActingAdmin, approval.DecisionApprove))
	assert.ErrorIs(t, err, approval.ErrSelfApproval)

	got, err := wf.Act(ctx, 1, act(8, user.RoleAdmin, approval.ActingAdmin, approval.DecisionReject))
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, got.Status)
}

func TestWorkflow_SideEffectFailureRollsBack(t *testing.T) {
	boom := errors.New("ledger unavailable")
	wf, store := setup(t, func(ctx context.Context, req regularization.Regularization, tr approval.Transition) error {
		return boom
	})

	_, err := wf.Act(context.Background(), 1, act(1, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	assert.ErrorIs(t, err, boom)

	stored, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, approval.StageAwaitingManager, stored.Stage)
	assert.Nil(t, stored.ManagerApproverID)
}

func TestWorkflow_NotFound(t *testing.T) {
	wf, _ := setup(t, nil)
	_, err := wf.Act(context.Background(), 42, act(1, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	assert.ErrorIs(t, err, regularization.ErrRegularizationNotFound)
}

func TestWorkflow_Notifications(t *testing.T) {
	wf, store := setup(t, nil)
	rec := &testutil.Recorder{}
	wf.WithNotifier(rec)
	ctx := context.Background()

	req, err := store.GetByID(ctx, 1)
	require.NoError(t, err)
	wf.Submitted(ctx, req)

	_, err = wf.Act(ctx, 1, act(1, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	require.NoError(t, err)

	// a failed decision sends nothing
	_, err = wf.Act(ctx, 1, act(1, user.RoleManager, approval.ActingManager, approval.DecisionApprove))
	require.Error(t, err)

	_, err = wf.Act(ctx, 1, act(9, user.RoleHR, approval.ActingHR, approval.DecisionReject))
	require.NoError(t, err)

	sent := rec.Requests()
	require.Len(t, sent, 3)
	assert.Equal(t, notification.TypeRequestSubmitted, sent[0].Type)
	assert.Equal(t, int64(1), sent[0].RecipientID)
	assert.Equal(t, notification.TypeRequestAdvanced, sent[1].Type)
	assert.Equal(t, int64(2), sent[1].RecipientID)
	assert.Equal(t, notification.TypeRequestRejected, sent[2].Type)
	assert.Equal(t, int64(9), *sent[2].SenderID)
}
