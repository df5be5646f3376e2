// Package testutil holds in-memory repositories for service tests.
package testutil

import (
	"context"
	"sync"
	"time"
)

// Snapshotter is a fake store that can be restored after a failed unit of
// work.
type Snapshotter interface {
	Snapshot() (restore func())
}

// Tx runs fn directly and restores the registered stores when fn fails, so
// fakes observe the same all-or-nothing outcome as a Postgres transaction.
type Tx struct {
	mu     sync.Mutex
	stores []Snapshotter
	Calls  int
}

func NewTx(stores ...Snapshotter) *Tx {
	return &Tx{stores: stores}
}

func (t *Tx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	t.Calls++
	restores := make([]func(), 0, len(t.stores))
	for _, s := range t.stores {
		restores = append(restores, s.Snapshot())
	}
	t.mu.Unlock()

	if err := fn(ctx); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sameDate(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

// within reports a <= d <= b on calendar dates.
func within(d, a, b time.Time) bool {
	day := d.Format("2006-01-02")
	return day >= a.Format("2006-01-02") && day <= b.Format("2006-01-02")
}
