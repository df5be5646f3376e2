package payroll

import "errors"

var (
	ErrAlreadyFinalized  = errors.New("payroll for this period has already been finalized")
	ErrFinalizeBusy      = errors.New("payroll finalize for this period is already in progress")
	ErrNothingToFinalize = errors.New("no employees qualify for payroll in this period")
	ErrInvalidPeriod     = errors.New("invalid payroll period")
)
