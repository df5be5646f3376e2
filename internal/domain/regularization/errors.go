package regularization

import "errors"

var (
	ErrRegularizationNotFound = errors.New("regularization request not found")
	ErrNoChange               = errors.New("requested times do not differ from the recorded times")
	ErrPendingExists          = errors.New("a pending regularization already exists for this record")
	ErrNotRecordOwner         = errors.New("attendance record does not belong to this employee")
)
