package cron

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/utils"
	"github.com/hibiken/asynq"
)

const (
	QueueDefault = "default"

	TaskMarkAbsent = "attendance:mark_absent"
)

// MarkAbsentPayload names the working date to close. An empty date means
// the day before the task runs.
type MarkAbsentPayload struct {
	Date string `json:"date,omitempty"`
}

func NewMarkAbsentTask(date *time.Time) (*asynq.Task, error) {
	var payload MarkAbsentPayload
	if date != nil {
		payload.Date = date.Format(utils.DateLayout)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal mark absent payload: %w", err)
	}
	return asynq.NewTask(TaskMarkAbsent, data, asynq.Queue(QueueDefault)), nil
}
