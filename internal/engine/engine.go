package engine

import (
	"context"
	"log"
	"time"

	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/types"
)

// Config holds the engine's timing and bounds. Zero delays are valid (tests
// run with them); MaxPanelRounds guards against runaway panels.
type Config struct {
	// SettleDelay is the fixed pause after activating apply/submit controls,
	// giving the page time to react before it is inspected again.
	SettleDelay time.Duration

	// StepDelay is the short pause between per-field operations.
	StepDelay time.Duration

	// PanelDelay is the pause before each panel scan and after each save
	// click, letting a mid-render panel settle or advance.
	PanelDelay time.Duration

	// MaxPanelRounds caps the panel loop. The cap expiring is a designed,
	// silent termination, not a failure.
	MaxPanelRounds int

	// Submit classifies post-submit page text; Panel classifies page text
	// after the panel loop.
	Submit *SuccessMatcher
	Panel  *SuccessMatcher
}

// DefaultConfig returns the production timing: the settle delays observed to
// work across application sites, and the 20-round panel cap.
func DefaultConfig() Config {
	return Config{
		SettleDelay:    3 * time.Second,
		StepDelay:      500 * time.Millisecond,
		PanelDelay:     2 * time.Second,
		MaxPanelRounds: 20,
		Submit:         &SuccessMatcher{Tokens: DefaultSubmitTokens},
		Panel:          &SuccessMatcher{Tokens: DefaultPanelTokens},
	}
}

// Deps are the engine's injected collaborators. Page and Memory are
// required; the rest fall back to safe defaults (declining prompter,
// log-based notifier, empty asset source, no-op advancement).
type Deps struct {
	Page    Page
	Memory  memory.Store
	Assets  AssetSource
	Prompt  Prompter
	Notify  Notifier
	Advance func()
}

// Engine drives one page at a time. It is single-threaded and cooperative:
// the standard fill pass and the panel loop run strictly sequentially, never
// concurrently, and "waiting" is always a timed suspension.
type Engine struct {
	page    Page
	store   memory.Store
	assets  AssetSource
	prompt  Prompter
	notify  Notifier
	advance func()
	cfg     Config
}

// New builds an engine from its dependencies, filling unset optional
// collaborators and config values with defaults.
func New(deps Deps, cfg Config) *Engine {
	if deps.Prompt == nil {
		deps.Prompt = PrompterFunc(func(string, string) (string, bool) { return "", false })
	}
	if deps.Notify == nil {
		deps.Notify = logNotifier{}
	}
	if deps.Assets == nil {
		deps.Assets = emptyAssets{}
	}
	if deps.Advance == nil {
		deps.Advance = func() {}
	}
	if cfg.MaxPanelRounds <= 0 {
		cfg.MaxPanelRounds = 20
	}
	if cfg.Submit == nil {
		cfg.Submit = &SuccessMatcher{Tokens: DefaultSubmitTokens}
	}
	if cfg.Panel == nil {
		cfg.Panel = &SuccessMatcher{Tokens: DefaultPanelTokens}
	}

	return &Engine{
		page:    deps.Page,
		store:   deps.Memory,
		assets:  deps.Assets,
		prompt:  deps.Prompt,
		notify:  deps.Notify,
		advance: deps.Advance,
		cfg:     cfg,
	}
}

// wait suspends for d, yielding early if the context is cancelled.
func (e *Engine) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

type logNotifier struct{}

func (logNotifier) Instruct(format string, args ...any) {
	log.Printf("[ACTION NEEDED] "+format, args...)
}

type emptyAssets struct{}

func (emptyAssets) Get(types.AssetRole) (*types.StoredFileAsset, bool) { return nil, false }
