package engine

import (
	"context"
	"log"

	"github.com/prathamesh/auto-apply/internal/types"
)

// PanelExit names why the panel loop stopped. Every exit is an expected
// steady-state outcome, not an error: the page may still have reached
// completion, which the caller checks afterwards.
type PanelExit string

// Panel loop exits.
const (
	// ExitNoPanel: no container matched the panel geometry.
	ExitNoPanel PanelExit = "no_panel"
	// ExitNoQuestion: a panel was found but held no question-like text.
	ExitNoQuestion PanelExit = "no_question"
	// ExitNoInput: no empty input to fill, or the fill was rejected.
	ExitNoInput PanelExit = "no_input"
	// ExitNoSaveButton: nothing inside the panel could advance it.
	ExitNoSaveButton PanelExit = "no_save_button"
	// ExitNoAnswer: the human declined a question the loop cannot skip.
	ExitNoAnswer PanelExit = "no_answer"
	// ExitMaxAttempts: the iteration cap expired. Designed, silent
	// termination for runaway pages.
	ExitMaxAttempts PanelExit = "max_attempts_reached"
)

// PanelOutcome summarizes one run of the panel loop.
type PanelOutcome struct {
	Exit       PanelExit `json:"exit"`
	Iterations int       `json:"iterations"`
	Answered   int       `json:"answered"`
}

// RunPanelFlow drives the one-question-at-a-time protocol used by sites that
// present questions inside a transient side panel instead of a static form.
// Each iteration re-scans from scratch (Scanning -> QuestionFound ->
// Answered -> Saved) because the panel mutates between questions; the loop
// is bounded by MaxPanelRounds so a page that never advances cannot hang it.
func (e *Engine) RunPanelFlow(ctx context.Context) (*PanelOutcome, error) {
	out := &PanelOutcome{}

	for round := 0; round < e.cfg.MaxPanelRounds; round++ {
		out.Iterations = round + 1

		// Scanning: let a mid-render panel settle before reading it.
		e.wait(ctx, e.cfg.PanelDelay)

		snap, err := e.page.Panel(ctx)
		if err != nil {
			return out, &PageError{Op: "panel scan", Cause: err}
		}
		if snap == nil {
			out.Exit = ExitNoPanel
			return out, nil
		}
		if len(snap.Questions) == 0 {
			out.Exit = ExitNoQuestion
			return out, nil
		}
		if len(snap.Inputs) == 0 {
			out.Exit = ExitNoInput
			return out, nil
		}

		// QuestionFound: only the first extracted question is consumed per
		// iteration. Stale leftovers from a prior screen are tolerated
		// because the next round re-scans fresh.
		question := snap.Questions[0]
		answer, ok := e.resolvePanelAnswer(ctx, question)
		if !ok {
			// Cannot proceed blind past an unanswered question.
			out.Exit = ExitNoAnswer
			return out, nil
		}

		// Answered: fill the first empty input. Do not retry the same
		// input on failure.
		if err := e.page.FillPanelInput(ctx, snap.Inputs[0], answer); err != nil {
			out.Exit = ExitNoInput
			return out, nil
		}
		out.Answered++

		// Saved: advance the panel.
		clicked, err := e.page.ClickPanelButton(ctx, saveTokens)
		if err != nil {
			return out, &PageError{Op: "panel save click", Cause: err}
		}
		if !clicked {
			out.Exit = ExitNoSaveButton
			return out, nil
		}

		e.wait(ctx, e.cfg.PanelDelay)
	}

	out.Exit = ExitMaxAttempts
	return out, nil
}

// resolvePanelAnswer looks the question up in memory, falling back to a
// synchronous human prompt. A fresh answer is persisted immediately.
func (e *Engine) resolvePanelAnswer(ctx context.Context, question string) (string, bool) {
	key := types.NormalizeKey(question)

	answer, ok, err := e.store.Get(ctx, key)
	if err != nil {
		log.Printf("memory lookup failed for %q: %v", key, err)
	}
	if ok {
		return answer, true
	}

	fresh, given := e.prompt.Ask(question, "text")
	if !given || fresh == "" {
		return "", false
	}

	if err := e.store.Set(ctx, key, fresh); err != nil {
		log.Printf("failed to persist answer for %q: %v", key, err)
	}
	return fresh, true
}

// CompleteAfterPanel inspects the page for the site's own completion markers
// after the panel loop has finished. On success it waits briefly and fires
// the advancement signal; otherwise it hands completion to the human, who
// triggers advancement explicitly.
func (e *Engine) CompleteAfterPanel(ctx context.Context) (bool, error) {
	body, err := e.page.BodyText(ctx)
	if err != nil {
		return false, &PageError{Op: "completion check", Cause: err}
	}

	if e.cfg.Panel.Match(body) {
		e.wait(ctx, e.cfg.StepDelay)
		e.advance()
		return true, nil
	}

	e.notify.Instruct("no completion marker found; finish the application manually, then advance the queue")
	return false, nil
}
