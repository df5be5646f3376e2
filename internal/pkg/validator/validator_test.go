package validator

import (
	"errors"
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:00", "23:59"}
	invalid := []string{"24:00", "9:00", "09:60", "0900", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestParseLocalDateTime(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)

	got, ok := ParseLocalDateTime("2024-01-10T09:30:00", jakarta)
	if !ok {
		t.Fatalf("ParseLocalDateTime returned !ok for a local timestamp")
	}
	if want := time.Date(2024, 1, 10, 2, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseLocalDateTime = %v, want %v", got.UTC(), want)
	}

	got, ok = ParseLocalDateTime("2024-01-10T09:30:00Z", jakarta)
	if !ok || got.Hour() != 9 {
		t.Errorf("ParseLocalDateTime kept offset = %v (ok=%v), want 09:30Z", got, ok)
	}

	if _, ok := ParseLocalDateTime("yesterday", jakarta); ok {
		t.Errorf("ParseLocalDateTime(%q) = ok, want failure", "yesterday")
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"email": "invalid", "phone": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestValidationErrors_Err(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("empty ValidationErrors.Err() = %v, want nil", errs.Err())
	}
	errs.Add("reason", "reason is required")
	if errs.Err() == nil {
		t.Errorf("ValidationErrors.Err() = nil after Add")
	}
}

type structSample struct {
	Email    string   `json:"email" validate:"required,email"`
	Role     string   `json:"role" validate:"oneof=HR ADMIN"`
	Latitude *float64 `json:"device_latitude" validate:"required,latitude"`
	Shift    string   `json:"shift_start" validate:"omitempty,clock"`
}

func TestStruct(t *testing.T) {
	lat := 120.0
	err := Struct(structSample{Email: "nope", Role: "CEO", Latitude: &lat, Shift: "9am"})

	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Struct() error = %T, want ValidationErrors", err)
	}
	got := errs.ToMap()
	for _, field := range []string{"email", "role", "device_latitude", "shift_start"} {
		if _, ok := got[field]; !ok {
			t.Errorf("Struct() missing error for %q, got %v", field, got)
		}
	}

	lat = -6.2
	if err := Struct(structSample{Email: "hr@example.com", Role: "HR", Latitude: &lat, Shift: "09:00"}); err != nil {
		t.Errorf("Struct() on valid input = %v, want nil", err)
	}
}
