package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
)

type Notifications struct {
	mu     sync.Mutex
	rows   []notification.Notification
	nextID int64
	// Fail makes every write return this error.
	Fail error
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

// For returns the stored notifications of one recipient, oldest first.
func (n *Notifications) For(recipientID int64) []notification.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification.Notification
	for _, row := range n.rows {
		if row.RecipientID == recipientID {
			out = append(out, row)
		}
	}
	return out
}

func (n *Notifications) Snapshot() func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	rows := append([]notification.Notification(nil), n.rows...)
	return func() {
		n.mu.Lock()
		n.rows = rows
		n.mu.Unlock()
	}
}

func (n *Notifications) Create(ctx context.Context, row *notification.Notification) error {
	return n.CreateBatch(ctx, []*notification.Notification{row})
}

func (n *Notifications) CreateBatch(ctx context.Context, rows []*notification.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail != nil {
		return n.Fail
	}
	for _, row := range rows {
		n.nextID++
		row.ID = n.nextID
		n.rows = append(n.rows, *row)
	}
	return nil
}

func (n *Notifications) ListByRecipient(ctx context.Context, recipientID int64, page, pageSize int, unreadOnly bool) ([]notification.Notification, int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notification.Notification
	for _, row := range n.rows {
		if row.RecipientID != recipientID || (unreadOnly && row.IsRead) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return paginate(out, page, pageSize), len(out), nil
}

func (n *Notifications) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, row := range n.rows {
		if row.RecipientID == recipientID && !row.IsRead {
			count++
		}
	}
	return count, nil
}

func (n *Notifications) MarkAsRead(ctx context.Context, ids []int64, recipientID int64) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Fail != nil {
		return 0, n.Fail
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var matched int64
	now := time.Now()
	for i := range n.rows {
		if n.rows[i].RecipientID == recipientID && want[n.rows[i].ID] {
			matched++
			if !n.rows[i].IsRead {
				n.rows[i].IsRead = true
				n.rows[i].ReadAt = &now
			}
		}
	}
	return matched, nil
}

func (n *Notifications) MarkAllAsRead(ctx context.Context, recipientID int64) error {
	_, err := n.MarkAsRead(ctx, n.idsOf(recipientID), recipientID)
	return err
}

func (n *Notifications) idsOf(recipientID int64) []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	var ids []int64
	for _, row := range n.rows {
		if row.RecipientID == recipientID {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

// Recorder is a notification.Notifier that keeps every request in memory.
type Recorder struct {
	mu   sync.Mutex
	reqs []notification.CreateNotificationRequest
}

func (r *Recorder) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if req.RecipientID <= 0 {
		return errors.New("notification recipient is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return nil
}

func (r *Recorder) Requests() []notification.CreateNotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification.CreateNotificationRequest(nil), r.reqs...)
}
