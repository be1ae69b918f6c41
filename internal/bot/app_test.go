package bot

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/pdfbot/core/config"
	"github.com/m3rciful/pdfbot/internal/render"
	"github.com/m3rciful/pdfbot/internal/session"
	"github.com/m3rciful/pdfbot/internal/storage"
)

func testConfig(t *testing.T) *coreconfig.Config {
	t.Helper()
	return &coreconfig.Config{
		Telegram: coreconfig.TelegramConfig{
			Token:   "test-token",
			RunMode: coreconfig.RunModeLongpoll,
		},
		Storage: coreconfig.StorageConfig{
			Dir:               t.TempDir(),
			SessionTTLMinutes: 30,
		},
	}
}

func testApp(t *testing.T) (*App, session.Store, *storage.Workspace, *clockwork.FakeClock) {
	t.Helper()
	cfg := testConfig(t)
	clock := clockwork.NewFakeClock()
	store := session.NewMemoryStore(clock)
	ws, err := storage.New(cfg.Storage.Dir)
	require.NoError(t, err)

	app, err := New(cfg, store, ws, render.New(nil), clock)
	require.NoError(t, err)
	return app, store, ws, clock
}

func TestNewValidatesCollaborators(t *testing.T) {
	cfg := testConfig(t)
	clock := clockwork.NewFakeClock()
	store := session.NewMemoryStore(clock)
	ws, err := storage.New(cfg.Storage.Dir)
	require.NoError(t, err)
	orch := render.New(nil)

	_, err = New(nil, store, ws, orch, clock)
	assert.Error(t, err)
	_, err = New(cfg, nil, ws, orch, clock)
	assert.Error(t, err)
	_, err = New(cfg, store, nil, orch, clock)
	assert.Error(t, err)
	_, err = New(cfg, store, ws, nil, clock)
	assert.Error(t, err)

	_, err = New(cfg, store, ws, orch, nil)
	assert.NoError(t, err)
}

func TestInProgress(t *testing.T) {
	app, store, _, _ := testApp(t)

	assert.False(t, app.InProgress(1))
	store.Create(1)
	assert.True(t, app.InProgress(1))
	store.Delete(1)
	assert.False(t, app.InProgress(1))
}

func TestGetState(t *testing.T) {
	app, store, _, _ := testApp(t)

	assert.Equal(t, "", app.GetState(5))

	s := store.Create(5)
	assert.Equal(t, "collecting", app.GetState(5))

	s.State = session.StateChoosingQuality
	store.Replace(5, s)
	assert.Equal(t, "choosing_quality", app.GetState(5))
}

func TestJanitorExpiryDropsSessionAndFiles(t *testing.T) {
	app, store, ws, clock := testApp(t)

	store.Create(77)
	_, err := ws.EnsureUser(77)
	require.NoError(t, err)

	clock.Advance(31 * time.Minute)
	swept := app.janitor.Sweep(context.Background())

	assert.Equal(t, 1, swept)
	_, ok := store.Get(77)
	assert.False(t, ok)
	assert.NoDirExists(t, ws.UserDir(77))
}
