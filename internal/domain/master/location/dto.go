package location

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
)

// CreateLocationRequest registers an office. Latitude and longitude are
// pointers so the equator and the prime meridian remain valid input.
type CreateLocationRequest struct {
	Name         string   `json:"name" validate:"required,max=120"`
	CountryCode  string   `json:"country_code" validate:"required,len=2,alpha"`
	Timezone     string   `json:"timezone" validate:"omitempty,max=64"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	RadiusMeters *int     `json:"radius_meters" validate:"omitempty,gte=0"`
}

func (r *CreateLocationRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if r.Timezone != "" && !validTimezone(r.Timezone) {
		errs.Add("timezone", "timezone must be an IANA zone name")
	}
	return errs.Err()
}

// Entity applies defaults: UTC and a zero radius, which falls back to the
// attendance policy radius.
func (r CreateLocationRequest) Entity() employee.Location {
	loc := employee.Location{
		Name:        strings.TrimSpace(r.Name),
		CountryCode: strings.ToUpper(r.CountryCode),
		Timezone:    r.Timezone,
		Latitude:    *r.Latitude,
		Longitude:   *r.Longitude,
	}
	if loc.Timezone == "" {
		loc.Timezone = "UTC"
	}
	if r.RadiusMeters != nil {
		loc.RadiusMeters = *r.RadiusMeters
	}
	return loc
}

type UpdateLocationRequest struct {
	ID           int64    `json:"-"`
	Name         *string  `json:"name,omitempty"`
	CountryCode  *string  `json:"country_code,omitempty"`
	Timezone     *string  `json:"timezone,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *int     `json:"radius_meters,omitempty"`
}

func (r *UpdateLocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("id", "id is required")
	}
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs.Add("name", "name must not be empty")
		}
		if len(*r.Name) > 120 {
			errs.Add("name", "name must not exceed 120 characters")
		}
	}
	if r.CountryCode != nil && !isAlpha2(*r.CountryCode) {
		errs.Add("country_code", "country_code must be a two-letter ISO code")
	}
	if r.Timezone != nil && !validTimezone(*r.Timezone) {
		errs.Add("timezone", "timezone must be an IANA zone name")
	}
	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs.Add("latitude", "latitude must be between -90 and 90")
	}
	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs.Add("longitude", "longitude must be between -180 and 180")
	}
	if r.RadiusMeters != nil && *r.RadiusMeters < 0 {
		errs.Add("radius_meters", "radius_meters must not be negative")
	}
	if r.Name == nil && r.CountryCode == nil && r.Timezone == nil &&
		r.Latitude == nil && r.Longitude == nil && r.RadiusMeters == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}

// Apply merges the provided fields onto loc.
func (r UpdateLocationRequest) Apply(loc employee.Location) employee.Location {
	if r.Name != nil {
		loc.Name = strings.TrimSpace(*r.Name)
	}
	if r.CountryCode != nil {
		loc.CountryCode = strings.ToUpper(*r.CountryCode)
	}
	if r.Timezone != nil {
		loc.Timezone = *r.Timezone
	}
	if r.Latitude != nil {
		loc.Latitude = *r.Latitude
	}
	if r.Longitude != nil {
		loc.Longitude = *r.Longitude
	}
	if r.RadiusMeters != nil {
		loc.RadiusMeters = *r.RadiusMeters
	}
	return loc
}

func validTimezone(name string) bool {
	if name == "" || strings.EqualFold(name, "local") {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}

func isAlpha2(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, c := range strings.ToUpper(s) {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
