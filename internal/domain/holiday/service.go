package holiday

import (
	"context"
	"time"
)

// Calendar is the read side consumed by attendance and payroll.
type Calendar interface {
	IsHoliday(ctx context.Context, countryCode string, day time.Time) (bool, error)
	Between(ctx context.Context, countryCode string, from, to time.Time) ([]Holiday, error)
}

type HolidayService interface {
	Calendar
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	DefaultCountry(ctx context.Context, employeeID int64) (DefaultCountryResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
}
