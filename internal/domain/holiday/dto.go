package holiday

import (
	"strings"

	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

type HolidayFilter struct {
	CountryCode string
	Year        int
	Month       *int
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	if len(strings.TrimSpace(f.CountryCode)) != 2 {
		errs.Add("country_code", "country_code must be a two-letter ISO code")
	}
	if f.Year < 1970 || f.Year > 9999 {
		errs.Add("year", "year is invalid")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}

	return errs.Err()
}

type CreateHolidayRequest struct {
	CountryCode string `json:"country_code" validate:"required,len=2,alpha"`
	Date        string `json:"holiday_date" validate:"required,datetime=2006-01-02"`
	Name        string `json:"name" validate:"required,max=150"`
}

func (r *CreateHolidayRequest) Validate() error {
	return validator.Struct(r)
}

type HolidayResponse struct {
	ID          int64  `json:"id"`
	CountryCode string `json:"country_code"`
	Date        string `json:"holiday_date"`
	Name        string `json:"name"`
}

type DefaultCountryResponse struct {
	EmployeeID  int64  `json:"employee_id"`
	CountryCode string `json:"country_code"`
}

func ToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		CountryCode: h.CountryCode,
		Date:        h.Date.Format("2006-01-02"),
		Name:        h.Name,
	}
}
