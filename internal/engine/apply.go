package engine

import (
	"context"

	"github.com/prathamesh/auto-apply/internal/types"
)

// applyTokens match an "Apply" control; "applied" is excluded so an
// already-applied indicator is never re-clicked.
var (
	applyTokens  = []string{"apply"}
	applyExclude = []string{"applied"}
	submitTokens = []string{"submit", "apply", "send application", "send"}
	saveTokens   = []string{"save", "submit", "next", "continue"}
)

// ClickApply scans for a visible, enabled control whose text contains an
// apply token, activates the first match, and waits a fixed settle delay.
// Absence of a matching control is a negative result, never an error.
func (e *Engine) ClickApply(ctx context.Context) (*types.ClickResult, error) {
	result, err := e.page.ClickButton(ctx, ButtonScan{
		Tokens:  applyTokens,
		Exclude: applyExclude,
	})
	if err != nil {
		return &types.ClickResult{}, &PageError{Op: "apply click", Cause: err}
	}

	if result.Success {
		e.wait(ctx, e.cfg.SettleDelay)
	}
	return &result, nil
}

// SubmitForm scans submit-capable controls for submit/apply/send tokens,
// activates the first match, waits for the page to settle, and classifies
// the outcome from the page's visible text: Success means a completion
// marker appeared, Clicked alone means the control fired but nothing
// confirmed it.
func (e *Engine) SubmitForm(ctx context.Context) (*types.SubmitResult, error) {
	click, err := e.page.ClickButton(ctx, ButtonScan{
		Tokens:     submitTokens,
		SubmitOnly: true,
	})
	if err != nil {
		return &types.SubmitResult{}, &PageError{Op: "submit click", Cause: err}
	}

	if !click.Success {
		e.notify.Instruct("no submit button found; submit the form manually")
		return &types.SubmitResult{}, nil
	}

	e.wait(ctx, e.cfg.SettleDelay)

	body, err := e.page.BodyText(ctx)
	if err != nil {
		// The click landed; only the classification failed.
		return &types.SubmitResult{Clicked: true}, nil
	}

	return &types.SubmitResult{
		Success: e.cfg.Submit.Match(body),
		Clicked: true,
	}, nil
}
