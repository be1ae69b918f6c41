package bot

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pdfbot/internal/session"
	"github.com/m3rciful/pdfbot/internal/style"

	tele "gopkg.in/telebot.v4"
)

// stubContext records outbound traffic; only the methods the handlers touch
// are implemented, everything else panics via the embedded nil interface.
type stubContext struct {
	tele.Context
	sender *tele.User
	data   map[string]interface{}

	sent    []string
	edits   []string
	docs    []*tele.Document
	editErr error
}

func newStubContext(userID int64) *stubContext {
	return &stubContext{
		sender: &tele.User{ID: userID},
		data:   make(map[string]interface{}),
	}
}

func (s *stubContext) Sender() *tele.User       { return s.sender }
func (s *stubContext) Chat() *tele.Chat         { return &tele.Chat{ID: s.sender.ID} }
func (s *stubContext) Update() tele.Update      { return tele.Update{} }
func (s *stubContext) Message() *tele.Message   { return nil }
func (s *stubContext) Callback() *tele.Callback { return nil }

func (s *stubContext) Get(key string) interface{}              { return s.data[key] }
func (s *stubContext) Set(key string, v interface{})           { s.data[key] = v }
func (s *stubContext) Respond(...*tele.CallbackResponse) error { return nil }

func (s *stubContext) Send(what interface{}, _ ...interface{}) error {
	switch v := what.(type) {
	case string:
		s.sent = append(s.sent, v)
	case *tele.Document:
		s.docs = append(s.docs, v)
	}
	return nil
}

func (s *stubContext) Edit(what interface{}, _ ...interface{}) error {
	if s.editErr != nil {
		return s.editErr
	}
	if text, ok := what.(string); ok {
		s.edits = append(s.edits, text)
	}
	return nil
}

func (s *stubContext) EditOrSend(what interface{}, opts ...interface{}) error {
	if s.editErr != nil {
		return s.Send(what, opts...)
	}
	return s.Edit(what, opts...)
}

// seedSession installs a session in the given state with the given image files.
func seedSession(t *testing.T, store session.Store, userID int64, state session.State, images ...string) {
	t.Helper()
	s := store.Create(userID)
	s.State = state
	s.Style = style.Original
	s.Images = images
	store.Replace(userID, s)
}

func writeUserJPEG(t *testing.T, app *App, userID int64, name string) string {
	t.Helper()
	dir, err := app.ws.EnsureUser(userID)
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func writeUserGarbage(t *testing.T, app *App, userID int64, name string) string {
	t.Helper()
	dir, err := app.ws.EnsureUser(userID)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	return path
}

func TestQualityChoiceDeliversDocumentAndCleansUp(t *testing.T) {
	app, store, ws, _ := testApp(t)
	path := writeUserJPEG(t, app, 1, "000.jpg")
	seedSession(t, store, 1, session.StateChoosingQuality, path)
	c := newStubContext(1)

	require.NoError(t, app.apply(c, session.QualityChosen{Quality: "high"}))

	require.Len(t, c.docs, 1)
	assert.Equal(t, "output.pdf", c.docs[0].FileName)
	assert.Equal(t, "application/pdf", c.docs[0].MIME)
	assert.Contains(t, c.edits, msgGenerating)

	_, ok := store.Get(1)
	assert.False(t, ok)
	assert.NoDirExists(t, ws.UserDir(1))
}

func TestFailedRenderCleansUpAndReportsInPlace(t *testing.T) {
	app, store, ws, _ := testApp(t)
	path := writeUserGarbage(t, app, 2, "000.jpg")
	seedSession(t, store, 2, session.StateChoosingQuality, path)
	c := newStubContext(2)

	require.NoError(t, app.apply(c, session.QualityChosen{Quality: "high"}))

	require.NotEmpty(t, c.edits)
	last := c.edits[len(c.edits)-1]
	assert.True(t, strings.HasPrefix(last, "Error generating PDF:"), "got %q", last)
	assert.Empty(t, c.sent, "error must replace the progress message, not follow it")

	_, ok := store.Get(2)
	assert.False(t, ok)
	assert.NoDirExists(t, ws.UserDir(2))
}

func TestFailedRenderFallsBackToSendWhenEditFails(t *testing.T) {
	app, store, _, _ := testApp(t)
	path := writeUserGarbage(t, app, 3, "000.jpg")
	seedSession(t, store, 3, session.StateChoosingQuality, path)
	c := newStubContext(3)
	c.editErr = errors.New("message to edit not found")

	require.NoError(t, app.apply(c, session.QualityChosen{Quality: "high"}))

	require.NotEmpty(t, c.sent)
	assert.True(t, strings.HasPrefix(c.sent[len(c.sent)-1], "Error generating PDF:"))
}

func TestCancelRemovesSessionAndFiles(t *testing.T) {
	for _, st := range []session.State{
		session.StateCollecting,
		session.StateChoosingStyle,
		session.StateChoosingQuality,
	} {
		t.Run(string(st), func(t *testing.T) {
			app, store, ws, _ := testApp(t)
			path := writeUserJPEG(t, app, 4, "000.jpg")
			seedSession(t, store, 4, st, path)
			c := newStubContext(4)

			require.NoError(t, app.handleCancel(c))

			assert.Contains(t, c.sent, msgCancelled)
			_, ok := store.Get(4)
			assert.False(t, ok)
			assert.NoDirExists(t, ws.UserDir(4))
		})
	}
}

func TestCancelWithoutSessionStillConfirms(t *testing.T) {
	app, store, _, _ := testApp(t)
	c := newStubContext(5)

	require.NoError(t, app.handleCancel(c))

	assert.Contains(t, c.sent, msgCancelled)
	assert.Equal(t, 0, store.Len())
}

func TestStartReportsWorkspaceFailure(t *testing.T) {
	app, store, ws, _ := testApp(t)
	// a plain file where the user dir should go makes EnsureUser fail
	require.NoError(t, os.WriteFile(ws.UserDir(6), []byte("x"), 0o644))
	c := newStubContext(6)

	require.NoError(t, app.handleStart(c))

	assert.Contains(t, c.sent, msgStartFail)
	_, ok := store.Get(6)
	assert.False(t, ok)
}

func TestDoneWithoutImagesKeepsCollecting(t *testing.T) {
	app, store, _, _ := testApp(t)
	store.Create(7)
	c := newStubContext(7)

	require.NoError(t, app.handleDone(c))

	assert.Contains(t, c.sent, msgNoImages)
	got, ok := store.Get(7)
	require.True(t, ok)
	assert.Equal(t, session.StateCollecting, got.State)
}
