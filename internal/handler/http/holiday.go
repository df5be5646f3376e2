package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/handler/http/response"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	DefaultCountry(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	now            func() time.Time
}

func NewHolidayHandler(holidayService holiday.HolidayService) HolidayHandler {
	return &holidayHandlerImpl{holidayService: holidayService, now: time.Now}
}

// List implements HolidayHandler.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	filter := holiday.HolidayFilter{
		Year:  q.intOr("year", h.now().Year()),
		Month: q.number("month"),
	}
	if cc := q.str("country_code"); cc != nil {
		filter.CountryCode = strings.ToUpper(*cc)
	}
	if err := q.err(); err != nil {
		response.HandleError(w, err)
		return
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.holidayService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DefaultCountry implements HolidayHandler.
func (h *holidayHandlerImpl) DefaultCountry(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employee_id")
	if !ok {
		return
	}

	result, err := h.holidayService.DefaultCountry(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements HolidayHandler.
func (h *holidayHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateHolidayRequest
	if !decodeJSON(w, r, &req, "CreateHoliday") {
		return
	}
	req.CountryCode = strings.ToUpper(strings.TrimSpace(req.CountryCode))

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.holidayService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", result)
}
