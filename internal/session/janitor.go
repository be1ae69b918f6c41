package session

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"log/slog"

	"github.com/m3rciful/pdfbot/core/logger"
)

// Janitor periodically sweeps sessions that have been idle longer than TTL.
// Abandoned conversations would otherwise pin their downloaded images on
// disk for the whole process lifetime.
type Janitor struct {
	store    Store
	clock    clockwork.Clock
	ttl      time.Duration
	interval time.Duration
	// onExpire is invoked for every swept user after the session record is
	// removed, so the caller can drop transient files as well.
	onExpire func(userID int64)
}

// NewJanitor builds a sweeper over the given store. The sweep interval is
// derived from the TTL; onExpire may be nil.
func NewJanitor(store Store, clock clockwork.Clock, ttl time.Duration, onExpire func(userID int64)) *Janitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Janitor{
		store:    store,
		clock:    clock,
		ttl:      ttl,
		interval: interval,
		onExpire: onExpire,
	}
}

// Run sweeps until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := j.clock.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			j.Sweep(ctx)
		}
	}
}

// Sweep removes every session idle beyond TTL and reports how many it swept.
func (j *Janitor) Sweep(ctx context.Context) int {
	cutoff := j.clock.Now().Add(-j.ttl)
	ids := j.store.Stale(cutoff)
	for _, id := range ids {
		j.store.Delete(id)
		if j.onExpire != nil {
			j.onExpire(id)
		}
		logger.Warn(ctx, "session", "session.expired",
			slog.Int64("user_id", id),
		)
	}
	if len(ids) > 0 {
		logger.Info(ctx, "session", "janitor.sweep",
			slog.Int("swept", len(ids)),
			slog.Int("sessions", j.store.Len()),
		)
	}
	return len(ids)
}
