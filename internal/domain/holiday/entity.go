package holiday

import "time"

type Holiday struct {
	ID          int64
	CountryCode string
	Date        time.Time
	Name        string
	CreatedAt   time.Time
}
