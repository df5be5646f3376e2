// Package approval runs the shared approve/reject workflow for leave,
// regularization and WFH requests.
package approval

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/approval"
	"github.com/cmlabs-hris/hris-timepay-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timepay-go/internal/pkg/database"
)

// Request is any stored request the workflow can decide on.
type Request interface {
	Subject() approval.Subject
}

// Store loads a request and persists a transition with a conditional
// update; it must return approval.ErrNotPending when the row moved on.
type Store[T Request] interface {
	GetByID(ctx context.Context, id int64) (T, error)
	ApplyTransition(ctx context.Context, id int64, t approval.Transition) error
}

// SideEffect runs in the same transaction after a transition is stored.
type SideEffect[T Request] func(ctx context.Context, req T, t approval.Transition) error

type Workflow[T Request] struct {
	kind     string
	flow     approval.Flow
	tx       database.Transactor
	store    Store[T]
	effect   SideEffect[T]
	notifier notification.Notifier
	now      func() time.Time
}

func NewWorkflow[T Request](kind string, flow approval.Flow, tx database.Transactor, store Store[T], effect SideEffect[T]) *Workflow[T] {
	return &Workflow[T]{
		kind:   kind,
		flow:   flow,
		tx:     tx,
		store:  store,
		effect: effect,
		now:    time.Now,
	}
}

func (w *Workflow[T]) WithClock(now func() time.Time) *Workflow[T] {
	w.now = now
	return w
}

// WithNotifier sends submission and decision notices through n.
func (w *Workflow[T]) WithNotifier(n notification.Notifier) *Workflow[T] {
	w.notifier = n
	return w
}

// Submitted tells the first approver about a new request. Requests routed
// straight to HR have no single recipient and are skipped.
func (w *Workflow[T]) Submitted(ctx context.Context, req T) {
	subj := req.Subject()
	if subj.Stage != approval.StageAwaitingManager || subj.ManagerID == nil {
		return
	}
	w.notify(ctx, notification.ForSubmission(w.kind, subj, *subj.ManagerID))
}

func (w *Workflow[T]) notify(ctx context.Context, n notification.CreateNotificationRequest) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.QueueNotification(ctx, n); err != nil {
		slog.Warn("failed to queue notification", "kind", w.kind, "recipient_id", n.RecipientID, "error", err)
	}
}

// Act decides act on request id and returns the reloaded request.
func (w *Workflow[T]) Act(ctx context.Context, id int64, act approval.Action) (T, error) {
	var (
		result  T
		subject approval.Subject
		applied approval.Transition
	)
	err := w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		req, err := w.store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		subject = req.Subject()
		t, err := approval.Decide(w.flow, subject, act, w.now())
		if err != nil {
			return err
		}
		applied = t

		if err := w.store.ApplyTransition(ctx, id, t); err != nil {
			return err
		}

		if w.effect != nil {
			if err := w.effect(ctx, req, t); err != nil {
				return err
			}
		}

		result, err = w.store.GetByID(ctx, id)
		if err != nil {
			return err
		}

		slog.Info("approval recorded",
			"kind", w.kind,
			"request_id", id,
			"approver_id", act.ApproverID,
			"acting_as", act.As,
			"status", t.Status,
			"stage", t.To,
		)
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	w.notify(ctx, notification.ForDecision(w.kind, subject, applied))
	return result, nil
}
