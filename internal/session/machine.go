package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"
)

var (
	// ErrNoImages rejects a done signal before any image arrived.
	ErrNoImages = errors.New("session: no images collected yet")
	// ErrIllegalEvent rejects an event the current state does not accept.
	ErrIllegalEvent = errors.New("session: event not allowed in current state")
)

// Event is an inbound occurrence driving the state machine.
type Event interface{ event() }

// Start begins a fresh conversation, replacing any previous one.
type Start struct{}

// ImageAdded records a downloaded image file.
type ImageAdded struct{ Path string }

// Done signals the user finished sending images.
type Done struct{}

// StyleChosen carries the raw style identifier from a button press.
type StyleChosen struct{ Style string }

// QualityChosen carries the raw quality identifier from a button press.
type QualityChosen struct{ Quality string }

// Cancel aborts the conversation from any non-terminal state.
type Cancel struct{}

func (Start) event()         {}
func (ImageAdded) event()    {}
func (Done) event()          {}
func (StyleChosen) event()   {}
func (QualityChosen) event() {}
func (Cancel) event()        {}

// Action is an outbound effect the caller must perform after a transition.
// Keeping effects declarative keeps Transition free of transport types.
type Action interface{ action() }

// ReplyInstructions asks the caller to send the welcome/instructions text.
type ReplyInstructions struct{}

// AckImage asks the caller to confirm receipt with the running count.
type AckImage struct{ Count int }

// AskStyle asks the caller to present the style options.
type AskStyle struct{}

// AskQuality asks the caller to present the quality options.
type AskQuality struct{}

// StartRender asks the caller to run the rendering pipeline and deliver.
type StartRender struct {
	Style   style.ID
	Quality pdfgen.Quality
}

// AckCancelled asks the caller to confirm cancellation.
type AckCancelled struct{}

func (ReplyInstructions) action() {}
func (AckImage) action()         {}
func (AskStyle) action()         {}
func (AskQuality) action()       {}
func (StartRender) action()      {}
func (AckCancelled) action()     {}

// Transition applies an event to a session and returns the resulting session
// together with the actions the caller must perform. The input session is
// never mutated. A guard failure returns the session unchanged and a typed
// error; illegal state/event pairs return ErrIllegalEvent.
//
// A nil session is valid only for Start; every other event for an unknown
// user is the caller's stray-event case and never reaches this function.
func Transition(s *Session, ev Event, now time.Time) (*Session, []Action, error) {
	switch e := ev.(type) {
	case Start:
		var userID int64
		if s != nil {
			userID = s.UserID
		}
		fresh := &Session{
			UserID:    userID,
			State:     StateCollecting,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return fresh, []Action{ReplyInstructions{}}, nil

	case Cancel:
		if s == nil || s.State == StateTerminal {
			return s, nil, fmt.Errorf("%w: cancel in %s", ErrIllegalEvent, stateName(s))
		}
		next := s.Clone()
		next.State = StateTerminal
		next.UpdatedAt = now
		return next, []Action{AckCancelled{}}, nil

	case ImageAdded:
		if s == nil || s.State != StateCollecting {
			return s, nil, fmt.Errorf("%w: image in %s", ErrIllegalEvent, stateName(s))
		}
		next := s.Clone()
		next.Images = append(next.Images, e.Path)
		next.UpdatedAt = now
		return next, []Action{AckImage{Count: len(next.Images)}}, nil

	case Done:
		if s == nil || s.State != StateCollecting {
			return s, nil, fmt.Errorf("%w: done in %s", ErrIllegalEvent, stateName(s))
		}
		if len(s.Images) == 0 {
			return s, nil, ErrNoImages
		}
		next := s.Clone()
		next.State = StateChoosingStyle
		next.UpdatedAt = now
		return next, []Action{AskStyle{}}, nil

	case StyleChosen:
		if s == nil || s.State != StateChoosingStyle {
			return s, nil, fmt.Errorf("%w: style in %s", ErrIllegalEvent, stateName(s))
		}
		id, err := style.Parse(e.Style)
		if err != nil {
			return s, nil, err
		}
		next := s.Clone()
		next.Style = id
		next.State = StateChoosingQuality
		next.UpdatedAt = now
		return next, []Action{AskQuality{}}, nil

	case QualityChosen:
		if s == nil || s.State != StateChoosingQuality {
			return s, nil, fmt.Errorf("%w: quality in %s", ErrIllegalEvent, stateName(s))
		}
		q, err := pdfgen.ParseQuality(e.Quality)
		if err != nil {
			return s, nil, err
		}
		next := s.Clone()
		next.Quality = q
		next.State = StateTerminal
		next.UpdatedAt = now
		return next, []Action{StartRender{Style: next.Style, Quality: q}}, nil

	default:
		return s, nil, fmt.Errorf("%w: unknown event %T", ErrIllegalEvent, ev)
	}
}

func stateName(s *Session) string {
	if s == nil {
		return "none"
	}
	return string(s.State)
}
