package approval

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Terminal() bool {
	return s != StatusPending
}

// Stage tracks who acts next while a request is PENDING. MANAGER approval of
// a two-stage request is persisted as StageAwaitingHR.
type Stage string

const (
	StageAwaitingManager Stage = "AWAITING_MANAGER"
	StageAwaitingHR      Stage = "AWAITING_HR"
)

type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// ParseDecision accepts both verb and past-tense forms sent by clients.
func ParseDecision(s string) (Decision, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "APPROVE", "APPROVED":
		return DecisionApprove, true
	case "REJECT", "REJECTED":
		return DecisionReject, true
	default:
		return "", false
	}
}

// ActingRole is the capacity an approver claims in the action body.
type ActingRole string

const (
	ActingManager ActingRole = "MANAGER"
	ActingHR      ActingRole = "HR"
	ActingAdmin   ActingRole = "ADMIN"
)

func ParseActingRole(s string) (ActingRole, bool) {
	switch ActingRole(strings.ToUpper(strings.TrimSpace(s))) {
	case ActingManager:
		return ActingManager, true
	case ActingHR:
		return ActingHR, true
	case ActingAdmin, "SUPER_ADMIN":
		return ActingAdmin, true
	default:
		return "", false
	}
}

// Flow selects the routing shape of a request kind.
type Flow int

const (
	// TwoStage routes through the requester's manager when one exists.
	TwoStage Flow = iota
	// SingleStage goes straight to an HR/admin actor.
	SingleStage
)

// Subject is the workflow view of any request.
type Subject struct {
	ID         int64
	EmployeeID int64
	ManagerID  *int64
	Status     Status
	Stage      Stage
}

type Action struct {
	As           ActingRole
	ApproverID   int64
	ApproverRole user.Role
	Decision     Decision
	Comment      *string
}

// Slot identifies which comment/approver columns a transition stamps.
type Slot string

const (
	SlotManager Slot = "MANAGER"
	SlotHR      Slot = "HR"
)

// Transition is the outcome of a decision, applied by the store with a
// conditional update on From.
type Transition struct {
	From       Stage
	To         Stage
	Status     Status
	Slot       Slot
	ApproverID int64
	Comment    *string
	ActedAt    time.Time
}

// Final reports whether the transition ends the workflow.
func (t Transition) Final() bool {
	return t.Status.Terminal()
}

func (t Transition) Approved() bool {
	return t.Status == StatusApproved
}

func (t Transition) Rejected() bool {
	return t.Status == StatusRejected
}
