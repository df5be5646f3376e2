package notification

import (
	"time"
)

type CreateNotificationRequest struct {
	RecipientID int64
	SenderID    *int64
	Type        Type
	Level       Level
	Title       string
	Message     string
	Data        map[string]interface{}
}

type MarkAsReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids" validate:"required,min=1,dive,gt=0"`
}

type ListNotificationsRequest struct {
	Page       int
	PageSize   int
	UnreadOnly bool
}

// NotificationResponse keeps "type" as the render level the dashboard colours
// by; the event itself is reported as "category".
type NotificationResponse struct {
	ID        int64                  `json:"id"`
	Category  Type                   `json:"category"`
	Type      Level                  `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	IsRead    bool                   `json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Category:  n.Type,
		Type:      n.Level,
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
