// Package activity records when users were last active, writing at most once
// per interval per user.
package activity

import (
	"context"
	"sync"
	"time"
)

type Store interface {
	TouchUser(ctx context.Context, id uint, at time.Time) error
}

type Tracker struct {
	store    Store
	interval time.Duration
	now      func() time.Time

	mu        sync.Mutex
	last      map[uint]time.Time
	lastSweep time.Time
}

func NewTracker(store Store, interval time.Duration) *Tracker {
	return &Tracker{
		store:    store,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
		last:     make(map[uint]time.Time),
	}
}

// Heartbeat reports whether this beat was written through to the store.
func (t *Tracker) Heartbeat(ctx context.Context, userID uint) (bool, error) {
	now := t.now()

	t.mu.Lock()
	t.sweep(now)
	if prev, ok := t.last[userID]; ok && now.Sub(prev) < t.interval {
		t.mu.Unlock()
		return false, nil
	}
	t.last[userID] = now
	t.mu.Unlock()

	if err := t.store.TouchUser(ctx, userID, now); err != nil {
		t.mu.Lock()
		delete(t.last, userID)
		t.mu.Unlock()
		return false, err
	}
	return true, nil
}

// sweep drops entries that no longer throttle anything, at most once per
// interval. Callers hold mu.
func (t *Tracker) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.interval {
		return
	}
	for id, prev := range t.last {
		if now.Sub(prev) >= t.interval {
			delete(t.last, id)
		}
	}
	t.lastSweep = now
}
