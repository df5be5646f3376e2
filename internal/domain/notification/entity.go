package notification

import (
	"time"
)

// Type is the event a notification reports.
type Type string

const (
	TypeRequestSubmitted Type = "request_submitted"
	TypeRequestAdvanced  Type = "request_advanced"
	TypeRequestApproved  Type = "request_approved"
	TypeRequestRejected  Type = "request_rejected"
	TypeAbsenceMarked    Type = "absence_marked"
	TypePayrollFinalized Type = "payroll_finalized"
)

// Level drives how the dashboard renders a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	ID          int64
	RecipientID int64
	SenderID    *int64
	Type        Type
	Level       Level
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
