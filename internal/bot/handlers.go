package bot

import (
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/m3rciful/pdfbot/core/logger"
	"github.com/m3rciful/pdfbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/pdfbot/core/telegram/helpers"
	"github.com/m3rciful/pdfbot/internal/pdfgen"
	"github.com/m3rciful/pdfbot/internal/session"
	"github.com/m3rciful/pdfbot/internal/style"

	tele "gopkg.in/telebot.v4"
)

func (a *App) handleStart(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	// A new start replaces any conversation in flight, files included.
	if _, ok := a.store.Get(userID); ok {
		a.store.Delete(userID)
		_ = a.ws.Cleanup(ctx, userID)
		logger.Info(ctx, "session", "session.replaced",
			slog.Int64("user_id", userID),
		)
	}
	if _, err := a.ws.EnsureUser(userID); err != nil {
		logger.Error(ctx, "session", "session.start.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return a.sendText(c, msgStartFail)
	}

	a.store.Create(userID)
	logger.Info(ctx, "session", "session.started",
		slog.Int64("user_id", userID),
		slog.String("state", string(session.StateCollecting)),
	)
	return a.sendText(c, msgWelcome)
}

func (a *App) handleDone(c tele.Context) error {
	return a.apply(c, session.Done{})
}

func (a *App) handleCancel(c tele.Context) error {
	if _, ok := a.store.Get(c.Sender().ID); !ok {
		// Cancelling with nothing in flight still gets the confirmation.
		return a.sendText(c, msgCancelled)
	}
	return a.apply(c, session.Cancel{})
}

func (a *App) handleHelp(c tele.Context) error {
	return a.sendText(c, msgHelp)
}

func (a *App) handleStats(c tele.Context) error {
	uptime := a.clock.Now().Sub(a.startedAt).Round(time.Second)
	return a.sendText(c, fmt.Sprintf("sessions: %d\nuptime: %s", a.store.Len(), uptime))
}

func (a *App) handlePhoto(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return a.sendText(c, msgKeepSending)
	}
	sess, ok := a.store.Get(userID)
	if !ok {
		return a.sendText(c, msgNoSession)
	}

	rc, err := c.Bot().File(&msg.Photo.File)
	if err != nil {
		logger.Error(ctx, "tg", "photo.download.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return a.sendText(c, msgDownloadFail)
	}
	defer rc.Close()

	path, err := a.ws.SaveImage(ctx, userID, len(sess.Images), rc)
	if err != nil {
		logger.Error(ctx, "storage", "photo.save.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return a.sendText(c, msgDownloadFail)
	}

	return a.apply(c, session.ImageAdded{Path: path})
}

func (a *App) handleStyleCallback(c tele.Context) error {
	return a.apply(c, session.StyleChosen{Style: callbacks.CallbackPayload(c)})
}

func (a *App) handleQualityCallback(c tele.Context) error {
	return a.apply(c, session.QualityChosen{Quality: callbacks.CallbackPayload(c)})
}

// apply runs one event through the state machine and performs the resulting
// actions. Guard failures become user hints; stray or late events are
// dropped with a debug line.
func (a *App) apply(c tele.Context, ev session.Event) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	cur, ok := a.store.Get(userID)
	if !ok {
		logger.Debug(ctx, "session", "event.stray",
			slog.Int64("user_id", userID),
			slog.String("op", fmt.Sprintf("%T", ev)),
		)
		if c.Callback() != nil {
			return nil
		}
		return a.sendText(c, msgNoSession)
	}

	next, actions, err := session.Transition(cur, ev, a.clock.Now())
	if err != nil {
		return a.reportGuardFailure(c, err)
	}

	if next.State != session.StateTerminal {
		a.store.Replace(userID, next)
	}
	logger.Debug(ctx, "session", "session.transition",
		slog.Int64("user_id", userID),
		slog.String("state", string(next.State)),
		slog.Int("images", len(next.Images)),
	)

	for _, act := range actions {
		if err := a.perform(c, next, act); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) perform(c tele.Context, sess *session.Session, act session.Action) error {
	switch act := act.(type) {
	case session.ReplyInstructions:
		return a.sendText(c, msgWelcome)
	case session.AckImage:
		return a.sendText(c, msgImageCount(act.Count))
	case session.AskStyle:
		return tghelpers.SendText(c, msgChooseStyle, &tele.SendOptions{ReplyMarkup: styleKeyboard()})
	case session.AskQuality:
		return c.Edit(msgChooseQuality, qualityKeyboard())
	case session.StartRender:
		return a.finish(c, sess, act.Style, act.Quality)
	case session.AckCancelled:
		a.store.Delete(sess.UserID)
		_ = a.ws.Cleanup(tghelpers.BuildContext(c), sess.UserID)
		return a.sendText(c, msgCancelled)
	}
	return nil
}

// finish renders, delivers, and cleans up. The session record and the whole
// per-user subtree are removed regardless of the render outcome so no
// transient file outlives the conversation.
func (a *App) finish(c tele.Context, sess *session.Session, styleID style.ID, q pdfgen.Quality) error {
	userID := sess.UserID
	ctx := tghelpers.BuildContext(c)

	defer func() {
		a.store.Delete(userID)
		_ = a.ws.Cleanup(ctx, userID)
	}()

	_ = c.Edit(msgGenerating)

	data, err := a.orch.Render(ctx, sess.Images, styleID, q)
	if err != nil {
		// replace the progress text rather than stacking a new message
		return c.EditOrSend(msgRenderError(userMessage(err)))
	}

	path, err := a.ws.WriteArtifact(ctx, userID, data)
	if err != nil {
		logger.Error(ctx, "storage", "artifact.write.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return c.EditOrSend(msgRenderError("could not store the document"))
	}

	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: "output.pdf",
		MIME:     "application/pdf",
	}
	if err := c.Send(doc); err != nil {
		logger.Error(ctx, "tg", "document.send.fail",
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return err
	}

	logger.Info(ctx, "session", "session.completed",
		slog.Int64("user_id", userID),
		slog.String("style", string(styleID)),
		slog.String("quality", string(q)),
		slog.Int("pages", len(sess.Images)),
	)
	return nil
}

func (a *App) reportGuardFailure(c tele.Context, err error) error {
	ctx := tghelpers.BuildContext(c)
	switch {
	case errors.Is(err, session.ErrNoImages):
		return a.sendText(c, msgNoImages)
	case errors.Is(err, style.ErrUnknown), errors.Is(err, pdfgen.ErrUnknownQuality):
		return a.sendText(c, msgBadOption)
	case errors.Is(err, session.ErrIllegalEvent):
		// Late button press or out-of-order message; drop it.
		logger.Debug(ctx, "session", "event.rejected",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
		return nil
	}
	return err
}

func (a *App) sendText(c tele.Context, text string) error {
	return tghelpers.SendText(c, text)
}

func userMessage(err error) string {
	type messenger interface{ UserMessage() string }
	var m messenger
	if errors.As(err, &m) {
		return m.UserMessage()
	}
	return "something went wrong"
}
