package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/hibiken/asynq"
)

type AbsenceMarker interface {
	MarkAbsent(ctx context.Context, date time.Time) (attendance.MarkAbsentResult, error)
}

type AttendanceJobs struct {
	marker AbsenceMarker
	now    func() time.Time
}

func NewAttendanceJobs(marker AbsenceMarker) *AttendanceJobs {
	return &AttendanceJobs{marker: marker, now: time.Now}
}

func (j *AttendanceJobs) WithClock(now func() time.Time) *AttendanceJobs {
	j.now = now
	return j
}

// HandleMarkAbsent closes one working date: every active employee without a
// record and without an excuse gets a NO_CHECK_IN absence.
func (j *AttendanceJobs) HandleMarkAbsent(ctx context.Context, t *asynq.Task) error {
	var payload MarkAbsentPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		slog.Error("invalid mark absent payload", "error", err)
		return fmt.Errorf("decode payload: %w", asynq.SkipRetry)
	}

	date := utils.DateOf(j.now().UTC()).AddDate(0, 0, -1)
	if payload.Date != "" {
		parsed, err := time.Parse(utils.DateLayout, payload.Date)
		if err != nil {
			slog.Error("invalid mark absent date", "date", payload.Date, "error", err)
			return fmt.Errorf("parse date %q: %w", payload.Date, asynq.SkipRetry)
		}
		date = parsed
	}

	start := time.Now()
	result, err := j.marker.MarkAbsent(ctx, date)
	if err != nil {
		slog.Error("Mark absent job failed", "date", date.Format(utils.DateLayout), "error", err, "duration", time.Since(start))
		return err
	}

	slog.Info("Mark absent job completed",
		"date", result.Date,
		"employees", result.Employees,
		"marked", result.Marked,
		"excused", result.Excused,
		"non_working", result.NonWorking,
		"duration", time.Since(start),
	)
	return nil
}
