package leave

import "errors"

var (
	// Leave type errors
	ErrLeaveTypeNotFound     = errors.New("leave type not found")
	ErrLeaveTypeNotForGender = errors.New("leave type is not available for this employee")
	ErrExceedsMaxDays        = errors.New("request exceeds the maximum days allowed for this leave type")

	// Balance errors
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")

	// Request errors
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrOverlappingLeave     = errors.New("leave request overlaps an existing request")
	ErrNotRequestOwner      = errors.New("only the requester can modify this leave request")
)
