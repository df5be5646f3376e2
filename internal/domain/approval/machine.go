package approval

import (
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// InitialStage returns where a freshly submitted request waits.
func InitialStage(flow Flow, managerID *int64) Stage {
	if flow == TwoStage && managerID != nil {
		return StageAwaitingManager
	}
	return StageAwaitingHR
}

// Decide validates act against the current state of s and returns the
// transition to persist. It performs no I/O.
func Decide(flow Flow, s Subject, act Action, now time.Time) (Transition, error) {
	if s.Status != StatusPending {
		return Transition{}, ErrNotPending
	}
	if act.Decision != DecisionApprove && act.Decision != DecisionReject {
		return Transition{}, ErrInvalidDecision
	}
	if act.ApproverID == s.EmployeeID {
		return Transition{}, ErrSelfApproval
	}

	t := Transition{
		From:       s.Stage,
		To:         s.Stage,
		ApproverID: act.ApproverID,
		Comment:    act.Comment,
		ActedAt:    now,
	}

	switch act.As {
	case ActingManager:
		if flow == SingleStage {
			return Transition{}, ErrNotApprover
		}
		if s.Stage != StageAwaitingManager {
			return Transition{}, ErrStageMismatch
		}
		if s.ManagerID == nil || *s.ManagerID != act.ApproverID {
			return Transition{}, ErrNotApprover
		}
		t.Slot = SlotManager
		if act.Decision == DecisionApprove {
			t.To = StageAwaitingHR
			t.Status = StatusPending
		} else {
			t.Status = StatusRejected
		}

	case ActingHR:
		if !act.ApproverRole.IsHR() {
			return Transition{}, ErrNotApprover
		}
		if s.Stage != StageAwaitingHR {
			return Transition{}, ErrStageMismatch
		}
		t.Slot = SlotHR
		t.Status = finalStatus(act.Decision)

	case ActingAdmin:
		if !act.ApproverRole.IsAdmin() {
			return Transition{}, ErrNotApprover
		}
		// Admin decisions are final at either stage and land in the HR slot.
		t.Slot = SlotHR
		t.Status = finalStatus(act.Decision)

	default:
		return Transition{}, ErrInvalidRole
	}

	return t, nil
}

func finalStatus(d Decision) Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// ActingRoleFor infers the capacity of an approver when the client omits
// it: admins act as ADMIN, HR as HR, everyone else as MANAGER.
func ActingRoleFor(role user.Role) ActingRole {
	switch {
	case role.IsAdmin():
		return ActingAdmin
	case role == user.RoleHR:
		return ActingHR
	default:
		return ActingManager
	}
}
