package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"
)

var t0 = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func collecting(images ...string) *Session {
	return &Session{
		UserID:    7,
		State:     StateCollecting,
		Images:    images,
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

func TestTransitionStartCreatesFreshSession(t *testing.T) {
	next, actions, err := Transition(nil, Start{}, t0)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, StateCollecting, next.State)
	assert.Empty(t, next.Images)
	require.Len(t, actions, 1)
	assert.IsType(t, ReplyInstructions{}, actions[0])
}

func TestTransitionStartReplacesExistingSession(t *testing.T) {
	cur := collecting("a.jpg", "b.jpg")
	cur.State = StateChoosingQuality
	cur.Style = style.Grayscale

	next, _, err := Transition(cur, Start{}, t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, cur.UserID, next.UserID)
	assert.Equal(t, StateCollecting, next.State)
	assert.Empty(t, next.Images)
	assert.Empty(t, string(next.Style))
}

func TestTransitionImageKeepsOrder(t *testing.T) {
	s := collecting()
	paths := []string{"000.jpg", "001.jpg", "002.jpg"}
	for i, p := range paths {
		next, actions, err := Transition(s, ImageAdded{Path: p}, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.Len(t, actions, 1)
		assert.Equal(t, AckImage{Count: i + 1}, actions[0])
		s = next
	}
	assert.Equal(t, paths, s.Images)
}

func TestTransitionImageDoesNotMutateInput(t *testing.T) {
	s := collecting("a.jpg")
	next, _, err := Transition(s, ImageAdded{Path: "b.jpg"}, t0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, s.Images)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, next.Images)
}

func TestTransitionDoneWithoutImagesRejected(t *testing.T) {
	s := collecting()
	next, actions, err := Transition(s, Done{}, t0)
	require.ErrorIs(t, err, ErrNoImages)
	assert.Empty(t, actions)
	assert.Equal(t, StateCollecting, next.State)
}

func TestTransitionDoneAsksForStyle(t *testing.T) {
	s := collecting("a.jpg")
	next, actions, err := Transition(s, Done{}, t0)
	require.NoError(t, err)
	assert.Equal(t, StateChoosingStyle, next.State)
	require.Len(t, actions, 1)
	assert.IsType(t, AskStyle{}, actions[0])
}

func TestTransitionStyleChoice(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "original", raw: "original"},
		{name: "grayscale", raw: "grayscale"},
		{name: "black and white", raw: "black_white"},
		{name: "enhanced", raw: "enhanced"},
		{name: "unknown", raw: "sepia", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := collecting("a.jpg")
			s.State = StateChoosingStyle

			next, actions, err := Transition(s, StyleChosen{Style: tt.raw}, t0)
			if tt.wantErr {
				require.ErrorIs(t, err, style.ErrUnknown)
				assert.Equal(t, StateChoosingStyle, next.State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StateChoosingQuality, next.State)
			assert.Equal(t, style.ID(tt.raw), next.Style)
			require.Len(t, actions, 1)
			assert.IsType(t, AskQuality{}, actions[0])
		})
	}
}

func TestTransitionQualityChoiceTriggersRender(t *testing.T) {
	s := collecting("a.jpg", "b.jpg")
	s.State = StateChoosingQuality
	s.Style = style.BlackWhite

	next, actions, err := Transition(s, QualityChosen{Quality: "medium"}, t0)
	require.NoError(t, err)
	assert.Equal(t, StateTerminal, next.State)
	require.Len(t, actions, 1)
	assert.Equal(t, StartRender{Style: style.BlackWhite, Quality: pdfgen.QualityMedium}, actions[0])
}

func TestTransitionQualityRejectsUnknown(t *testing.T) {
	s := collecting("a.jpg")
	s.State = StateChoosingQuality

	next, actions, err := Transition(s, QualityChosen{Quality: "ultra"}, t0)
	require.ErrorIs(t, err, pdfgen.ErrUnknownQuality)
	assert.Empty(t, actions)
	assert.Equal(t, StateChoosingQuality, next.State)
}

func TestTransitionCancelFromEveryNonTerminalState(t *testing.T) {
	for _, st := range []State{StateCollecting, StateChoosingStyle, StateChoosingQuality} {
		t.Run(string(st), func(t *testing.T) {
			s := collecting("a.jpg")
			s.State = st

			next, actions, err := Transition(s, Cancel{}, t0)
			require.NoError(t, err)
			assert.Equal(t, StateTerminal, next.State)
			require.Len(t, actions, 1)
			assert.IsType(t, AckCancelled{}, actions[0])
		})
	}
}

func TestTransitionIllegalEvents(t *testing.T) {
	tests := []struct {
		name  string
		state State
		ev    Event
	}{
		{name: "image while choosing style", state: StateChoosingStyle, ev: ImageAdded{Path: "x.jpg"}},
		{name: "done while choosing quality", state: StateChoosingQuality, ev: Done{}},
		{name: "style while collecting", state: StateCollecting, ev: StyleChosen{Style: "grayscale"}},
		{name: "quality while choosing style", state: StateChoosingStyle, ev: QualityChosen{Quality: "high"}},
		{name: "cancel after terminal", state: StateTerminal, ev: Cancel{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := collecting("a.jpg")
			s.State = tt.state

			next, actions, err := Transition(s, tt.ev, t0)
			require.ErrorIs(t, err, ErrIllegalEvent)
			assert.Empty(t, actions)
			assert.Equal(t, tt.state, next.State)
		})
	}
}

func TestTransitionEventsForMissingSession(t *testing.T) {
	for _, ev := range []Event{ImageAdded{Path: "x"}, Done{}, StyleChosen{Style: "original"}, QualityChosen{Quality: "high"}, Cancel{}} {
		next, actions, err := Transition(nil, ev, t0)
		require.ErrorIs(t, err, ErrIllegalEvent)
		assert.Nil(t, next)
		assert.Empty(t, actions)
	}
}
