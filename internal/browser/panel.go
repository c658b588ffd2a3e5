package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/prathamesh/auto-apply/internal/types"
)

// PanelBox is the rendered geometry of a candidate panel container, in CSS
// pixels, together with the viewport width it was measured against.
type PanelBox struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	ViewportWidth float64 `json:"viewport_width"`
}

// PanelPredicate classifies a candidate container's geometry as panel or not.
// It is a swappable heuristic: site-specific variants can replace or layer on
// the default without touching the panel loop itself.
type PanelPredicate func(box PanelBox) bool

// Side-panel geometry bounds: wider than a collapsed drawer, narrower than
// the viewport, tall enough to rule out toasts and cookie bars.
const (
	minPanelWidth  = 320
	minPanelHeight = 400
)

// DefaultPanelPredicate matches drawer-shaped containers.
func DefaultPanelPredicate(box PanelBox) bool {
	return box.Width > minPanelWidth &&
		box.Width < box.ViewportWidth &&
		box.Height > minPanelHeight
}

// panelCandidatesJS lists container geometries for the Go-side predicate.
// Containers under 200x200 px never qualify as panels under any plausible
// predicate, so they are dropped here to keep the round-trip small.
const panelCandidatesJS = `(() => {
	const out = [];
	const vw = window.innerWidth;
	document.querySelectorAll('div, aside, section').forEach((el, idx) => {
		const rect = el.getBoundingClientRect();
		if (rect.width < 200 || rect.height < 200) return;
		out.push({index: idx, width: rect.width, height: rect.height, viewport_width: vw});
	});
	return out;
})()`

type panelCandidate struct {
	Index int `json:"index"`
	PanelBox
}

// panelReadJS captures the chosen container's HTML and its empty visible
// inputs. Input indexes are positions in the shared control collection so
// the refs work with the same lookup every other script uses.
func panelReadJS(index int) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelectorAll('div, aside, section')[%d];
	if (!el) return {html: '', inputs: []};
	const all = Array.from(document.querySelectorAll('%s'));
	const inputs = [];
	el.querySelectorAll('input, textarea').forEach(inp => {
		if (inp.type === 'hidden' || inp.value) return;
		const rect = inp.getBoundingClientRect();
		if (rect.width <= 0 || rect.height <= 0) return;
		inputs.push({
			selector: inp.id ? '#' + CSS.escape(inp.id) : '',
			index: all.indexOf(inp)
		});
	});
	return {html: el.outerHTML, inputs: inputs};
})()`, index, controlSelector)
}

func panelClickJS(index int, tokens []string) string {
	return fmt.Sprintf(`(() => {
	const panel = document.querySelectorAll('div, aside, section')[%d];
	if (!panel) return false;
	const tokens = %s;
	for (const btn of panel.querySelectorAll('button, input[type="button"], input[type="submit"], a')) {
		const text = (btn.innerText || btn.value || '').toLowerCase();
		if (!tokens.some(t => text.includes(t))) continue;
		if (btn.offsetParent === null || btn.disabled) continue;
		btn.click();
		return true;
	}
	return false;
})()`, index, jsStringSlice(tokens))
}

// Panel scans the page for the first container the predicate accepts and
// snapshots its question fragments and empty inputs. A nil snapshot with a
// nil error means no panel is on the page.
func (s *Session) Panel(ctx context.Context) (*types.PanelSnapshot, error) {
	var candidates []panelCandidate
	if err := s.run(ctx, chromedp.Evaluate(panelCandidatesJS, &candidates)); err != nil {
		return nil, fmt.Errorf("panel scan: %w", err)
	}

	chosen := -1
	for _, c := range candidates {
		if s.opts.Panel(c.PanelBox) {
			chosen = c.Index
			break
		}
	}
	if chosen < 0 {
		s.panelIndex = -1
		return nil, nil
	}

	var read struct {
		HTML   string           `json:"html"`
		Inputs []types.FieldRef `json:"inputs"`
	}
	if err := s.run(ctx, chromedp.Evaluate(panelReadJS(chosen), &read)); err != nil {
		return nil, fmt.Errorf("panel read: %w", err)
	}
	if read.HTML == "" {
		// The container vanished between the two round-trips.
		s.panelIndex = -1
		return nil, nil
	}
	s.panelIndex = chosen

	questions, err := ExtractQuestions(read.HTML)
	if err != nil {
		return nil, fmt.Errorf("panel questions: %w", err)
	}
	return &types.PanelSnapshot{Questions: questions, Inputs: read.Inputs}, nil
}

// FillPanelInput fills a panel input the way a user would: focus, click, a
// short pause for focus-triggered widgets to settle, then assign and notify.
func (s *Session) FillPanelInput(ctx context.Context, ref types.FieldRef, value string) error {
	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(focusClickJS(ref), &ok)); err != nil {
		return fmt.Errorf("focusing panel input: %w", err)
	}
	if !ok {
		return fmt.Errorf("panel input %s is no longer on the page", refLabel(ref))
	}

	err := s.run(ctx,
		chromedp.Sleep(300*time.Millisecond),
		chromedp.Evaluate(setValueJS(ref, value), &ok),
	)
	if err != nil {
		return fmt.Errorf("filling panel input: %w", err)
	}
	if !ok {
		return fmt.Errorf("panel input %s is no longer on the page", refLabel(ref))
	}
	return nil
}

// ClickPanelButton activates the first visible, enabled button inside the
// last discovered panel whose text contains one of the tokens.
func (s *Session) ClickPanelButton(ctx context.Context, tokens []string) (bool, error) {
	if s.panelIndex < 0 {
		return false, nil
	}
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(panelClickJS(s.panelIndex, tokens), &clicked)); err != nil {
		return false, fmt.Errorf("panel button scan: %w", err)
	}
	return clicked, nil
}
