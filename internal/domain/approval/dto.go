package approval

import (
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// ActionRequest is the body of every approve/reject endpoint. Leave sends
// the decision as "action", regularization and WFH send it as "status";
// WFH names its fields admin_comment and approved_by.
type ActionRequest struct {
	Role         string  `json:"role"`
	ApproverID   *int64  `json:"approver_id,omitempty"`
	ApprovedBy   *int64  `json:"approved_by,omitempty"`
	Action       string  `json:"action"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment,omitempty"`
	AdminComment *string `json:"admin_comment,omitempty"`

	RequestID int64      `json:"-"`
	Actor     user.Actor `json:"-"`
}

// ToAction validates the body against the authenticated actor.
func (r *ActionRequest) ToAction() (Action, error) {
	var errs validator.ValidationErrors

	raw := r.Action
	if strings.TrimSpace(raw) == "" {
		raw = r.Status
	}
	decision, ok := ParseDecision(raw)
	if !ok {
		errs.Add("action", "action must be APPROVE or REJECT")
	}

	as := ActingRoleFor(r.Actor.Role)
	if strings.TrimSpace(r.Role) != "" {
		parsed, ok := ParseActingRole(r.Role)
		if !ok {
			errs.Add("role", "role must be MANAGER, HR or ADMIN")
		}
		as = parsed
	}

	approverID := r.Actor.EmployeeID
	switch {
	case r.ApproverID != nil:
		approverID = *r.ApproverID
	case r.ApprovedBy != nil:
		approverID = *r.ApprovedBy
	}

	comment := r.Comment
	if comment == nil {
		comment = r.AdminComment
	}
	if comment != nil && len(*comment) > 1000 {
		errs.Add("comment", "comment must not exceed 1000 characters")
	}

	if err := errs.Err(); err != nil {
		return Action{}, err
	}

	if approverID != r.Actor.EmployeeID {
		return Action{}, user.ErrActorMismatch
	}

	return Action{
		As:           as,
		ApproverID:   approverID,
		ApproverRole: r.Actor.Role,
		Decision:     decision,
		Comment:      comment,
	}, nil
}
