package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCachedService(t *testing.T) (holiday.HolidayService, *testutil.Holidays) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := testutil.NewHolidays(
		holiday.Holiday{CountryCode: "ID", Date: date(2024, 1, 1), Name: "New Year"},
		holiday.Holiday{CountryCode: "ID", Date: date(2024, 8, 17), Name: "Independence Day"},
		holiday.Holiday{CountryCode: "SG", Date: date(2024, 8, 9), Name: "National Day"},
	)
	emps := testutil.NewEmployees(
		employee.Employee{ID: 1, Location: &employee.Location{CountryCode: "ID"}},
		employee.Employee{ID: 2},
	)
	return NewHolidayService(repo, emps, cache.NewJSONCache(client, "holidays", time.Hour)), repo
}

func TestIsHoliday_UsesCache(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	ok, err := svc.IsHoliday(ctx, "id", date(2024, 8, 17))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsHoliday(ctx, "ID", date(2024, 8, 9))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 1, repo.Reads, "second lookup in the same year is served from redis")
}

func TestCreate_InvalidatesYear(t *testing.T) {
	svc, repo := newCachedService(t)
	ctx := context.Background()

	_, err := svc.IsHoliday(ctx, "ID", date(2024, 3, 11))
	require.NoError(t, err)

	_, err = svc.Create(ctx, holiday.CreateHolidayRequest{CountryCode: "id", Date: "2024-03-11", Name: "Nyepi"})
	require.NoError(t, err)

	ok, err := svc.IsHoliday(ctx, "ID", date(2024, 3, 11))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, repo.Reads)

	_, err = svc.Create(ctx, holiday.CreateHolidayRequest{CountryCode: "ID", Date: "2024-03-11", Name: "Again"})
	assert.ErrorIs(t, err, holiday.ErrHolidayExists)
}

func TestList(t *testing.T) {
	svc, _ := newCachedService(t)
	month := 8

	got, err := svc.List(context.Background(), holiday.HolidayFilter{CountryCode: "ID", Year: 2024, Month: &month})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-08-17", got[0].Date)

	_, err = svc.List(context.Background(), holiday.HolidayFilter{CountryCode: "IDN", Year: 2024})
	assert.Error(t, err)
}

func TestBetween_SpansYears(t *testing.T) {
	repo := testutil.NewHolidays(
		holiday.Holiday{CountryCode: "ID", Date: date(2023, 12, 25), Name: "Christmas"},
		holiday.Holiday{CountryCode: "ID", Date: date(2024, 1, 1), Name: "New Year"},
	)
	svc := NewHolidayService(repo, testutil.NewEmployees(), nil)

	got, err := svc.Between(context.Background(), "ID", date(2023, 12, 20), date(2024, 1, 5))
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestDefaultCountry(t *testing.T) {
	svc, _ := newCachedService(t)

	got, err := svc.DefaultCountry(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "ID", got.CountryCode)

	_, err = svc.DefaultCountry(context.Background(), 2)
	assert.ErrorIs(t, err, holiday.ErrCountryNotMapped)

	_, err = svc.DefaultCountry(context.Background(), 3)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
