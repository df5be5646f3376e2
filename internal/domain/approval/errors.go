package approval

import "errors"

var (
	ErrNotPending      = errors.New("request is no longer pending")
	ErrStageMismatch   = errors.New("request is not awaiting this approval stage")
	ErrNotApprover     = errors.New("approver is not allowed to act on this request")
	ErrSelfApproval    = errors.New("approver cannot act on their own request")
	ErrInvalidDecision = errors.New("decision must be APPROVE or REJECT")
	ErrInvalidRole     = errors.New("role must be MANAGER, HR or ADMIN")
)
