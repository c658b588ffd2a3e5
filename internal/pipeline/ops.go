package pipeline

import (
	"context"

	"github.com/prathamesh/auto-apply/internal/browser"
	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/types"
)

// SessionOps adapts one browser session plus the fill engine to the control
// server's page-operation surface. The server serializes calls; SessionOps
// assumes it is never entered concurrently.
type SessionOps struct {
	session *browser.Session
	store   memory.Store
	assets  engine.AssetSource
	notify  engine.Notifier
	cfg     engine.Config
}

// NewSessionOps wires a session and its stores into a page-operation handler.
// Notify may be nil; the engine falls back to log output.
func NewSessionOps(session *browser.Session, store memory.Store, assets engine.AssetSource, notify engine.Notifier, cfg engine.Config) *SessionOps {
	return &SessionOps{
		session: session,
		store:   store,
		assets:  assets,
		notify:  notify,
		cfg:     cfg,
	}
}

// engine builds a fill engine over the session. Remote fills never block on a
// terminal, so the prompter only knows the caller-provided answers.
func (o *SessionOps) engine(answers map[string]string) *engine.Engine {
	return engine.New(engine.Deps{
		Page:   o.session,
		Memory: o.store,
		Assets: o.assets,
		Prompt: NewSeededPrompter(answers),
		Notify: o.notify,
	}, o.cfg)
}

// Open navigates the session to a URL.
func (o *SessionOps) Open(ctx context.Context, url string) error {
	return o.session.Navigate(ctx, url, o.cfg.SettleDelay)
}

// Fill runs one fill pass over the current page, pre-seeding prompts from the
// caller's answers.
func (o *SessionOps) Fill(ctx context.Context, answers map[string]string) (*types.FillResult, error) {
	return o.engine(answers).FillForm(ctx)
}

// Apply clicks the apply control on the current page.
func (o *SessionOps) Apply(ctx context.Context) (*types.ClickResult, error) {
	return o.engine(nil).ClickApply(ctx)
}

// Submit submits the current page.
func (o *SessionOps) Submit(ctx context.Context) (*types.SubmitResult, error) {
	return o.engine(nil).SubmitForm(ctx)
}
