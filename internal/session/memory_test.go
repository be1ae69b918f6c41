package session

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)

	created := store.Create(42)
	assert.Equal(t, int64(42), created.UserID)
	assert.Equal(t, StateCollecting, created.State)

	got, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())

	got, ok := store.Get(1)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMemoryStoreCreateReplacesExisting(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())

	first := store.Create(5)
	first.Images = append(first.Images, "a.jpg")
	store.Replace(5, first)

	store.Create(5)
	got, ok := store.Get(5)
	require.True(t, ok)
	assert.Empty(t, got.Images)
}

func TestMemoryStoreCopyOutIsolation(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())
	store.Create(9)

	a, _ := store.Get(9)
	a.Images = append(a.Images, "leak.jpg")
	a.State = StateTerminal

	b, _ := store.Get(9)
	assert.Empty(t, b.Images)
	assert.Equal(t, StateCollecting, b.State)
}

func TestMemoryStoreReplaceStoresCopy(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())
	s := store.Create(3)
	s.Images = []string{"a.jpg"}
	store.Replace(3, s)

	s.Images[0] = "mutated.jpg"

	got, _ := store.Get(3)
	assert.Equal(t, []string{"a.jpg"}, got.Images)
}

func TestMemoryStoreReplaceNilDeletes(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())
	store.Create(8)
	store.Replace(8, nil)

	_, ok := store.Get(8)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())
	store.Create(1)
	store.Create(2)

	store.Delete(1)
	store.Delete(99) // absent user is a no-op

	_, ok := store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreUsersAreIsolated(t *testing.T) {
	store := NewMemoryStore(clockwork.NewFakeClock())
	a := store.Create(100)
	store.Create(200)

	a.Images = append(a.Images, "a.jpg")
	a.State = StateChoosingStyle
	store.Replace(100, a)

	b, _ := store.Get(200)
	assert.Empty(t, b.Images)
	assert.Equal(t, StateCollecting, b.State)
}

func TestMemoryStoreStale(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore(clock)

	store.Create(1)
	clock.Advance(10 * time.Minute)
	store.Create(2)
	clock.Advance(10 * time.Minute)

	ids := store.Stale(clock.Now().Add(-15 * time.Minute))
	assert.Equal(t, []int64{1}, ids)

	ids = store.Stale(clock.Now().Add(-30 * time.Minute))
	assert.Empty(t, ids)
}
