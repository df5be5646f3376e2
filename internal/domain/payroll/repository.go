package payroll

import (
	"context"
)

type PayrollRepository interface {
	// CreateRun returns ErrAlreadyFinalized when the period already has a run.
	CreateRun(ctx context.Context, run Run) (Run, error)

	// InsertItems returns ErrAlreadyFinalized when an employee already has
	// an item for the period.
	InsertItems(ctx context.Context, items []Item) error

	ListRuns(ctx context.Context) ([]Run, error)
	ListItemsByEmployee(ctx context.Context, employeeID int64, year, month *int) ([]Item, error)
}
