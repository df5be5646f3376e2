package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// Between returns holidays of a country in [from, to], ordered by date.
	Between(ctx context.Context, countryCode string, from, to time.Time) ([]Holiday, error)
	Create(ctx context.Context, h Holiday) (Holiday, error)
}
