package dashboard

import "context"

type DashboardService interface {
	// GetEmployeeDashboard combines today's attendance, the month's work
	// stats and the leave ledger for one employee
	GetEmployeeDashboard(ctx context.Context, req DashboardRequest) (EmployeeDashboardResponse, error)
}
