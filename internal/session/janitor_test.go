package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestJanitorSweepRemovesIdleSessions(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	store.Create(1)
	clock.Advance(20 * time.Minute)
	store.Create(2)

	var expired []int64
	j := NewJanitor(store, clock, 30*time.Minute, func(userID int64) {
		expired = append(expired, userID)
	})

	clock.Advance(15 * time.Minute) // user 1 now idle 35m, user 2 idle 15m
	swept := j.Sweep(context.Background())

	assert.Equal(t, 1, swept)
	assert.Equal(t, []int64{1}, expired)
	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
}

func TestJanitorSweepNothingStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	store.Create(1)

	j := NewJanitor(store, clock, 30*time.Minute, nil)

	assert.Equal(t, 0, j.Sweep(context.Background()))
	assert.Equal(t, 1, store.Len())
}

func TestJanitorIntervalFloor(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)

	j := NewJanitor(store, clock, 2*time.Minute, nil)
	assert.Equal(t, time.Minute, j.interval)

	j = NewJanitor(store, clock, time.Hour, nil)
	assert.Equal(t, 15*time.Minute, j.interval)
}

func TestJanitorRunStopsOnContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)
	j := NewJanitor(store, clock, 30*time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
