package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
)

type HolidayServiceImpl struct {
	holidayRepo  holiday.HolidayRepository
	employeeRepo employee.EmployeeRepository
	cache        *cache.JSONCache
}

// NewHolidayService builds the calendar. A nil cache reads through to the
// repository on every call.
func NewHolidayService(holidayRepo holiday.HolidayRepository, employeeRepo employee.EmployeeRepository, jsonCache *cache.JSONCache) holiday.HolidayService {
	return &HolidayServiceImpl{
		holidayRepo:  holidayRepo,
		employeeRepo: employeeRepo,
		cache:        jsonCache,
	}
}

func yearKey(countryCode string, year int) string {
	return fmt.Sprintf("%s:%d", countryCode, year)
}

// year returns the cached holiday list of one country and year.
func (s *HolidayServiceImpl) year(ctx context.Context, countryCode string, year int) ([]holiday.Holiday, error) {
	var holidays []holiday.Holiday
	err := s.cache.FetchJSON(ctx, yearKey(countryCode, year), &holidays, func(ctx context.Context) (interface{}, error) {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return s.holidayRepo.Between(ctx, countryCode, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load holidays for %s %d: %w", countryCode, year, err)
	}
	return holidays, nil
}

// IsHoliday implements holiday.Calendar.
func (s *HolidayServiceImpl) IsHoliday(ctx context.Context, countryCode string, day time.Time) (bool, error) {
	if countryCode == "" {
		return false, nil
	}
	holidays, err := s.year(ctx, strings.ToUpper(countryCode), day.Year())
	if err != nil {
		return false, err
	}
	d := day.Format(utils.DateLayout)
	for _, h := range holidays {
		if h.Date.Format(utils.DateLayout) == d {
			return true, nil
		}
	}
	return false, nil
}

// Between implements holiday.Calendar.
func (s *HolidayServiceImpl) Between(ctx context.Context, countryCode string, from, to time.Time) ([]holiday.Holiday, error) {
	out := make([]holiday.Holiday, 0)
	if countryCode == "" {
		return out, nil
	}
	countryCode = strings.ToUpper(countryCode)

	lo, hi := from.Format(utils.DateLayout), to.Format(utils.DateLayout)
	for y := from.Year(); y <= to.Year(); y++ {
		holidays, err := s.year(ctx, countryCode, y)
		if err != nil {
			return nil, err
		}
		for _, h := range holidays {
			d := h.Date.Format(utils.DateLayout)
			if d >= lo && d <= hi {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(filter.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if filter.Month != nil {
		from, to = utils.MonthBounds(filter.Year, time.Month(*filter.Month))
	}

	holidays, err := s.Between(ctx, filter.CountryCode, from, to)
	if err != nil {
		return nil, err
	}

	resp := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		resp = append(resp, holiday.ToResponse(h))
	}
	return resp, nil
}

// DefaultCountry implements holiday.HolidayService.
func (s *HolidayServiceImpl) DefaultCountry(ctx context.Context, employeeID int64) (holiday.DefaultCountryResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return holiday.DefaultCountryResponse{}, err
	}
	if emp.CountryCode() == "" {
		return holiday.DefaultCountryResponse{}, holiday.ErrCountryNotMapped
	}
	return holiday.DefaultCountryResponse{EmployeeID: emp.ID, CountryCode: emp.CountryCode()}, nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	date, err := time.Parse(utils.DateLayout, req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to parse holiday date: %w", err)
	}

	created, err := s.holidayRepo.Create(ctx, holiday.Holiday{
		CountryCode: strings.ToUpper(req.CountryCode),
		Date:        date,
		Name:        strings.TrimSpace(req.Name),
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	if err := s.cache.Delete(ctx, yearKey(created.CountryCode, created.Date.Year())); err != nil {
		slog.Warn("failed to invalidate holiday cache", "country_code", created.CountryCode, "year", created.Date.Year(), "error", err)
	}

	return holiday.ToResponse(created), nil
}
