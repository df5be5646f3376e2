package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Employee(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Employee returns the combined dashboard for ?employee_id= or the caller.
func (h *dashboardHandlerImpl) Employee(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	q := newQuery(r)
	req := dashboard.DashboardRequest{
		EmployeeID: q.id("employee_id"),
		Actor:      actor,
	}
	if month := q.str("month"); month != nil {
		req.Month = *month
	}
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.dashboardService.GetEmployeeDashboard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
