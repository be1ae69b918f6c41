// Package session implements the per-user conversation lifecycle: the
// session record, the state machine driving image intake and option
// selection, and the in-memory store holding active sessions.
package session

import (
	"time"

	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/style"
)

// State identifies a step of the image-to-PDF conversation.
type State string

const (
	// StateCollecting means the bot is accepting images from the user.
	StateCollecting State = "collecting"
	// StateChoosingStyle means the bot is waiting for a style selection.
	StateChoosingStyle State = "choosing_style"
	// StateChoosingQuality means the bot is waiting for a quality selection.
	StateChoosingQuality State = "choosing_quality"
	// StateTerminal means the conversation is over; the caller removes the
	// session from the store once effects (render or cancel) are performed.
	StateTerminal State = "terminal"
)

// Session tracks one user's conversation from /start to delivery.
type Session struct {
	UserID int64
	State  State
	// Images holds file paths in the order they were received; this order
	// defines page order in the output document.
	Images  []string
	Style   style.ID
	Quality pdfgen.Quality

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers never share the Images backing array.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Images = append([]string(nil), s.Images...)
	return &out
}
