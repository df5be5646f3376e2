package notification

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, page, pageSize int, unreadOnly bool) ([]Notification, int, error)
	UnreadCount(ctx context.Context, recipientID int64) (int, error)
	// MarkAsRead reports how many of ids belong to the recipient.
	MarkAsRead(ctx context.Context, ids []int64, recipientID int64) (int64, error)
	MarkAllAsRead(ctx context.Context, recipientID int64) error
}
