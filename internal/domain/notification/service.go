package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
)

// Notifier accepts notifications for asynchronous delivery.
type Notifier interface {
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
}

type Service interface {
	Notifier
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	List(ctx context.Context, actor user.Actor, req ListNotificationsRequest) (NotificationListResponse, error)
	UnreadCount(ctx context.Context, actor user.Actor) (int, error)
	MarkAsRead(ctx context.Context, actor user.Actor, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, actor user.Actor) error

	// Subscribe streams notifications delivered to recipientID until ctx
	// ends or the returned cleanup runs.
	Subscribe(ctx context.Context, recipientID int64) (<-chan SSEEvent, func())

	Stop()
}
