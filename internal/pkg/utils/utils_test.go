package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHaversineDistance(t *testing.T) {
	// Monas to Bundaran HI, Jakarta: roughly 2.2km apart.
	d := CalculateHaversineDistance(-6.175392, 106.827153, -6.195007, 106.823039)
	assert.InDelta(t, 2230, d, 60)

	assert.Zero(t, CalculateHaversineDistance(1.5, 2.5, 1.5, 2.5))
}

func TestWithinRadius(t *testing.T) {
	assert.True(t, WithinRadius(-6.175400, 106.827160, -6.175392, 106.827153, 50))
	assert.False(t, WithinRadius(-6.195007, 106.823039, -6.175392, 106.827153, 200))
}

func TestDaysInclusive(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, DaysInclusive(start, time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DaysInclusive(start, start))
	assert.Equal(t, 0, DaysInclusive(start, start.AddDate(0, 0, -1)))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", first.Format(DateLayout))
	assert.Equal(t, "2024-02-29", last.Format(DateLayout))
}

func TestEachDayAndWeekend(t *testing.T) {
	first, last := MonthBounds(2024, time.June)
	weekdays := 0
	EachDay(first, last, func(d time.Time) {
		if !IsWeekend(d) {
			weekdays++
		}
	})
	assert.Equal(t, 20, weekdays)
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 8.5, RoundHours(8*time.Hour+30*time.Minute))
	assert.Equal(t, 0.33, RoundHours(20*time.Minute))
	assert.Equal(t, 0.0, RoundHours(-time.Minute))
}

func TestLoadLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Mars/Olympus"))
}
