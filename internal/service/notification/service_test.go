package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timepay-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, repo *testutil.Notifications) *NotificationServiceImpl {
	t.Helper()
	svc := NewNotificationService(repo, sse.NewHub(), Config{BatchSize: 10, FlushInterval: time.Hour, WorkerCount: 1, QueueSize: 10})
	t.Cleanup(svc.Stop)
	return svc
}

func TestQueueNotification_FlushedOnStopAndStreamed(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewNotifications()
	svc := newService(t, repo)

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	events, cleanup := svc.Subscribe(streamCtx, 2)
	defer cleanup()

	require.NoError(t, svc.QueueNotification(ctx, notification.ForAbsence(2, "2024-01-08")))
	require.NoError(t, svc.QueueNotification(ctx, notification.ForPayslip(3, 2024, 1, "run")))
	svc.Stop()

	stored := repo.For(2)
	require.Len(t, stored, 1)
	assert.Equal(t, notification.TypeAbsenceMarked, stored[0].Type)
	assert.Len(t, repo.For(3), 1)

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "Marked absent", ev.Data.Title)
		assert.Equal(t, notification.LevelWarning, ev.Data.Type)
	case <-time.After(time.Second):
		t.Fatal("no event streamed to recipient 2")
	}
}

func TestQueueNotification_AfterStopInsertsDirectly(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewNotifications()
	svc := newService(t, repo)
	svc.Stop()

	require.NoError(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{RecipientID: 4, Title: "hi"}))
	stored := repo.For(4)
	require.Len(t, stored, 1)
	assert.Equal(t, notification.LevelInfo, stored[0].Level)

	assert.Error(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{Title: "nobody"}))

	repo.Fail = errors.New("db down")
	assert.Error(t, svc.QueueNotification(ctx, notification.CreateNotificationRequest{RecipientID: 4}))
}

func TestListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewNotifications()
	svc := newService(t, repo)
	svc.Stop()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.QueueNotification(ctx, notification.ForAbsence(2, fmt.Sprintf("2024-01-%02d", i+1))))
	}
	require.NoError(t, svc.QueueNotification(ctx, notification.ForAbsence(3, "2024-01-01")))
	me := user.Actor{EmployeeID: 2, Role: user.RoleEmployee}

	list, err := svc.List(ctx, me, notification.ListNotificationsRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 3, list.UnreadCount)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, int64(3), list.Notifications[0].ID, "newest first")

	require.NoError(t, svc.MarkAsRead(ctx, me, notification.MarkAsReadRequest{NotificationIDs: []int64{1}}))
	unread, err := svc.UnreadCount(ctx, me)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	// recipient 3 owns notification 4
	assert.ErrorIs(t, svc.MarkAsRead(ctx, me, notification.MarkAsReadRequest{NotificationIDs: []int64{4}}), notification.ErrNotificationNotFound)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, svc.MarkAsRead(ctx, me, notification.MarkAsReadRequest{}), &verrs)

	require.NoError(t, svc.MarkAllAsRead(ctx, me))
	unreadOnly, err := svc.List(ctx, me, notification.ListNotificationsRequest{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unreadOnly.Notifications)
	assert.Equal(t, 20, unreadOnly.PageSize)
}
