package holiday

import "errors"

var (
	ErrHolidayExists      = errors.New("holiday already exists for this country and date")
	ErrCountryNotMapped   = errors.New("employee has no location country")
	ErrInvalidCountryCode = errors.New("country code must be a two-letter ISO code")
)
