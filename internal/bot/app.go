// Package bot wires the conversation handlers to the Telegram runtime:
// commands, photo intake, style/quality callbacks, fallbacks, and the
// session janitor.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	coreconfig "github.com/m3rciful/pdfbot/core/config"
	coretelegram "github.com/m3rciful/pdfbot/core/telegram"
	"github.com/m3rciful/pdfbot/core/telegram/commands"
	"github.com/m3rciful/pdfbot/core/telegram/middleware"
	"github.com/m3rciful/pdfbot/core/telegram/router"
	"github.com/m3rciful/pdfbot/internal/render"
	"github.com/m3rciful/pdfbot/internal/session"
	"github.com/m3rciful/pdfbot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// App holds the bot's collaborators and implements the router FSM interface.
type App struct {
	cfg   *coreconfig.Config
	store session.Store
	ws    *storage.Workspace
	orch  *render.Orchestrator
	clock clockwork.Clock

	janitor   *session.Janitor
	startedAt time.Time
}

// New assembles the application. A nil clock defaults to the real clock.
func New(cfg *coreconfig.Config, store session.Store, ws *storage.Workspace, orch *render.Orchestrator, clock clockwork.Clock) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config")
	}
	if store == nil || ws == nil || orch == nil {
		return nil, fmt.Errorf("bot: missing collaborators")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a := &App{
		cfg:       cfg,
		store:     store,
		ws:        ws,
		orch:      orch,
		clock:     clock,
		startedAt: clock.Now(),
	}
	a.janitor = session.NewJanitor(store, clock, cfg.SessionTTL(), func(userID int64) {
		_ = ws.Cleanup(context.Background(), userID)
	})
	return a, nil
}

// TelegramRunOptions builds the complete runtime wiring for RunTelegram.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Begin a new image-to-PDF conversion",
	})
	reg.RegisterCommand("/done", commands.Command{
		Handler:     a.handleDone,
		Description: "Finish sending images and choose a style",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.handleCancel,
		Description: "Cancel the current conversion",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleHelp,
		Description: "How to use this bot",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Bot status",
		AdminOnly:   true,
		Hidden:      true,
	})

	styleGate := middleware.State(a, string(session.StateChoosingStyle))
	if err := reg.RegisterCallback(cbStyle, styleGate(a.handleStyleCallback)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	qualityGate := middleware.State(a, string(session.StateChoosingQuality))
	if err := reg.RegisterCallback(cbQuality, qualityGate(a.handleQualityCallback)); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetCallbackNotFound(a.UnknownCallback())

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{
		UnknownText:     a.UnknownText(),
		UnknownPhoto:    a.UnknownPhoto(),
		UnknownDocument: a.UnknownDocument(),
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			go a.janitor.Run(ctx)
			return nil
		},
	}, nil
}

// InProgress reports whether the user has an active conversation.
func (a *App) InProgress(userID int64) bool {
	_, ok := a.store.Get(userID)
	return ok
}

// GetState reports the user's conversation state for middleware gating.
func (a *App) GetState(userID int64) string {
	s, ok := a.store.Get(userID)
	if !ok {
		return ""
	}
	return string(s.State)
}

// ManagerHandler dispatches a routed update according to the user's state.
func (a *App) ManagerHandler(c tele.Context) error {
	sess, ok := a.store.Get(c.Sender().ID)
	if !ok {
		return nil
	}
	switch sess.State {
	case session.StateCollecting:
		if c.Message() != nil && c.Message().Photo != nil {
			return a.handlePhoto(c)
		}
		return a.sendText(c, msgKeepSending)
	case session.StateChoosingStyle, session.StateChoosingQuality:
		return a.sendText(c, msgUseButtons)
	}
	return nil
}
