package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Between implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) Between(ctx context.Context, countryCode string, from, to time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT id, country_code, holiday_date, name, created_at
		FROM holidays
		WHERE country_code = $1 AND holiday_date BETWEEN $2 AND $3
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, strings.ToUpper(countryCode), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		var hd holiday.Holiday
		if err := rows.Scan(&hd.ID, &hd.CountryCode, &hd.Date, &hd.Name, &hd.CreatedAt); err != nil {
			return nil, err
		}
		hd.CountryCode = strings.TrimSpace(hd.CountryCode)
		holidays = append(holidays, hd)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

// Create implements holiday.HolidayRepository.
func (h *holidayRepositoryImpl) Create(ctx context.Context, hd holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		INSERT INTO holidays (country_code, holiday_date, name)
		VALUES ($1, $2, $3)
		RETURNING id, country_code, holiday_date, name, created_at
	`

	var created holiday.Holiday
	err := q.QueryRow(ctx, query, strings.ToUpper(hd.CountryCode), hd.Date, hd.Name).Scan(
		&created.ID, &created.CountryCode, &created.Date, &created.Name, &created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uk_holiday_country_date") {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	created.CountryCode = strings.TrimSpace(created.CountryCode)

	return created, nil
}
