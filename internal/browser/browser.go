// Package browser implements the engine's Page interface on a headless Chrome
// session driven over the DevTools protocol. All DOM inspection and mutation
// run as scripts evaluated inside the page, so the browser layer sees exactly
// what the host page's own scripts see; the Go side only decides which script
// to run and interprets the result.
package browser

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// DefaultNavigateTimeout bounds a single page load.
const DefaultNavigateTimeout = 60 * time.Second

// Options configure a browser session.
type Options struct {
	// Headless runs Chrome without a visible window. Interactive runs keep
	// the window open so the human can take over when instructed.
	Headless bool

	// NavigateTimeout bounds a single page load. Zero means
	// DefaultNavigateTimeout.
	NavigateTimeout time.Duration

	// Panel decides whether a candidate container's geometry looks like a
	// side panel. Nil means DefaultPanelPredicate.
	Panel PanelPredicate

	// Verbose logs navigations and clicked controls.
	Verbose bool
}

// Session owns one Chrome tab for the lifetime of a run. It is not safe for
// concurrent use; the engine drives it strictly sequentially.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options

	// panelIndex remembers which candidate container the last Panel call
	// settled on, so the save-button scan stays inside the same container.
	// -1 when no panel has been discovered on the current page.
	panelIndex int
}

// NewSession launches Chrome and prepares a tab with a fixed viewport, so the
// panel geometry heuristics always measure against the same dimensions.
// Requires Chrome/Chromium to be installed on the system.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.NavigateTimeout <= 0 {
		opts.NavigateTimeout = DefaultNavigateTimeout
	}
	if opts.Panel == nil {
		opts.Panel = DefaultPanelPredicate
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("start-maximized", true),
		)...,
	)

	browserCtx, cancel := chromedp.NewContext(allocCtx)

	err := chromedp.Run(browserCtx,
		emulation.SetDeviceMetricsOverride(1920, 1080, 1, false),
	)
	if err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		panelIndex:  -1,
	}, nil
}

// Close shuts the tab and the browser process down.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// Navigate loads a URL, waits for the document body, and gives client-side
// rendering a settle interval before control scripts run.
func (s *Session) Navigate(ctx context.Context, url string, settle time.Duration) error {
	if s.opts.Verbose {
		log.Printf("[BROWSER] Opening %s", url)
	}

	runCtx, cancel := context.WithTimeout(s.ctx, s.opts.NavigateTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
	)
	if err != nil {
		return fmt.Errorf("opening %s: %w", url, err)
	}

	s.panelIndex = -1
	return nil
}

// run executes actions against the session's tab. The caller context is
// consulted for cancellation before the round-trip starts; once a script is
// in flight it runs to completion on the tab's own context.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, actions...)
}
