package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMarker struct {
	dates []time.Time
	err   error
}

func (m *recordingMarker) MarkAbsent(ctx context.Context, date time.Time) (attendance.MarkAbsentResult, error) {
	m.dates = append(m.dates, date)
	if m.err != nil {
		return attendance.MarkAbsentResult{}, m.err
	}
	return attendance.MarkAbsentResult{Date: date.Format(utils.DateLayout), Employees: 2, Marked: 1}, nil
}

func TestHandleMarkAbsent_DefaultsToYesterday(t *testing.T) {
	marker := &recordingMarker{}
	jobs := NewAttendanceJobs(marker).WithClock(func() time.Time {
		return time.Date(2024, 1, 11, 0, 5, 0, 0, time.UTC)
	})

	task, err := NewMarkAbsentTask(nil)
	require.NoError(t, err)
	require.NoError(t, jobs.HandleMarkAbsent(context.Background(), task))

	require.Len(t, marker.dates, 1)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), marker.dates[0])
}

func TestHandleMarkAbsent_ExplicitDate(t *testing.T) {
	marker := &recordingMarker{}
	jobs := NewAttendanceJobs(marker)

	date := time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC)
	task, err := NewMarkAbsentTask(&date)
	require.NoError(t, err)
	assert.Equal(t, TaskMarkAbsent, task.Type())
	assert.JSONEq(t, `{"date":"2023-12-29"}`, string(task.Payload()))

	require.NoError(t, jobs.HandleMarkAbsent(context.Background(), task))
	assert.Equal(t, date, marker.dates[0])
}

func TestHandleMarkAbsent_BadPayloadSkipsRetry(t *testing.T) {
	jobs := NewAttendanceJobs(&recordingMarker{})

	err := jobs.HandleMarkAbsent(context.Background(), asynq.NewTask(TaskMarkAbsent, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = jobs.HandleMarkAbsent(context.Background(), asynq.NewTask(TaskMarkAbsent, []byte(`{"date":"10/01/2024"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleMarkAbsent_PropagatesFailure(t *testing.T) {
	boom := errors.New("db down")
	jobs := NewAttendanceJobs(&recordingMarker{err: boom})

	task, err := NewMarkAbsentTask(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, jobs.HandleMarkAbsent(context.Background(), task), boom)
}

func TestNewWorker_RejectsBadSpec(t *testing.T) {
	task, err := NewMarkAbsentTask(nil)
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Schedules: []Schedule{{Spec: "every now and then", Task: task}},
	})
	assert.Error(t, err)
}
