package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
)

type Holidays struct {
	mu     sync.Mutex
	rows   []holiday.Holiday
	Reads  int
	nextID int64
}

func NewHolidays(hs ...holiday.Holiday) *Holidays {
	h := &Holidays{}
	for _, hol := range hs {
		_, _ = h.Create(context.Background(), hol)
	}
	return h
}

func (h *Holidays) Between(ctx context.Context, countryCode string, from, to time.Time) ([]holiday.Holiday, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Reads++
	out := make([]holiday.Holiday, 0)
	for _, hol := range h.rows {
		if strings.EqualFold(hol.CountryCode, countryCode) && within(hol.Date, from, to) {
			out = append(out, hol)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (h *Holidays) Create(ctx context.Context, hol holiday.Holiday) (holiday.Holiday, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	hol.CountryCode = strings.ToUpper(hol.CountryCode)
	for _, existing := range h.rows {
		if existing.CountryCode == hol.CountryCode && sameDate(existing.Date, hol.Date) {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
	}
	h.nextID++
	hol.ID = h.nextID
	hol.CreatedAt = time.Now()
	h.rows = append(h.rows, hol)
	return hol, nil
}
