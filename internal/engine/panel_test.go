package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prathamesh/auto-apply/internal/types"
)

func staticPanel(questions []string, inputs []types.FieldRef) func(int) (*types.PanelSnapshot, error) {
	return func(int) (*types.PanelSnapshot, error) {
		return &types.PanelSnapshot{Questions: questions, Inputs: inputs}, nil
	}
}

func TestPanelLoopTerminatesAtCap(t *testing.T) {
	// A panel that always reports the same question and input, with a save
	// button that never advances anything, must stop after exactly 20
	// iterations instead of hanging.
	ctx := context.Background()
	page := newFakePage()
	page.panelFn = staticPanel(
		[]string{"How many years of experience do you have?"},
		[]types.FieldRef{{Selector: "#panel-input"}},
	)
	store := newTestMemory(t)
	require.NoError(t, store.Set(ctx, "how many years of experience do you have?", "3"))

	eng := newTestEngine(page, store, Deps{})
	out, err := eng.RunPanelFlow(ctx)
	require.NoError(t, err)

	assert.Equal(t, ExitMaxAttempts, out.Exit)
	assert.Equal(t, 20, out.Iterations)
	assert.Equal(t, 20, out.Answered)
	assert.Equal(t, 20, page.saveClicks)
}

func TestPanelLoopNoPanel(t *testing.T) {
	page := newFakePage() // Panel returns nil

	eng := newTestEngine(page, newTestMemory(t), Deps{})
	out, err := eng.RunPanelFlow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ExitNoPanel, out.Exit)
	assert.Equal(t, 1, out.Iterations)
}

func TestPanelLoopNoQuestion(t *testing.T) {
	page := newFakePage()
	page.panelFn = staticPanel(nil, []types.FieldRef{{Selector: "#in"}})

	eng := newTestEngine(page, newTestMemory(t), Deps{})
	out, err := eng.RunPanelFlow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitNoQuestion, out.Exit)
}

func TestPanelLoopNoInput(t *testing.T) {
	page := newFakePage()
	page.panelFn = staticPanel([]string{"Notice period?"}, nil)

	eng := newTestEngine(page, newTestMemory(t), Deps{})
	out, err := eng.RunPanelFlow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExitNoInput, out.Exit)
}

func TestPanelLoopNoSaveButton(t *testing.T) {
	ctx := context.Background()
	page := newFakePage()
	page.panelFn = staticPanel([]string{"Notice period?"}, []types.FieldRef{{Selector: "#in"}})
	page.panelClickFn = func([]string) (bool, error) { return false, nil }
	store := newTestMemory(t)
	require.NoError(t, store.Set(ctx, "notice period?", "30 days"))

	eng := newTestEngine(page, store, Deps{})
	out, err := eng.RunPanelFlow(ctx)
	require.NoError(t, err)

	assert.Equal(t, ExitNoSaveButton, out.Exit)
	assert.Equal(t, []string{"30 days"}, page.panelFills)
}

func TestPanelLoopDeclinedPromptExits(t *testing.T) {
	page := newFakePage()
	page.panelFn = staticPanel([]string{"Expected CTC?"}, []types.FieldRef{{Selector: "#in"}})
	prompter := &scriptedPrompter{} // declines everything

	eng := newTestEngine(page, newTestMemory(t), Deps{Prompt: prompter})
	out, err := eng.RunPanelFlow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ExitNoAnswer, out.Exit)
	assert.Equal(t, []string{"Expected CTC?"}, prompter.asked)
	assert.Empty(t, page.panelFills, "cannot proceed blind past an unanswered question")
}

func TestPanelLoopPersistsFreshAnswers(t *testing.T) {
	ctx := context.Background()
	page := newFakePage()
	calls := 0
	page.panelFn = func(int) (*types.PanelSnapshot, error) {
		calls++
		if calls > 1 {
			return nil, nil // panel closed after the first save
		}
		return &types.PanelSnapshot{
			Questions: []string{"What is your notice period?"},
			Inputs:    []types.FieldRef{{Selector: "#in"}},
		}, nil
	}
	store := newTestMemory(t)
	prompter := &scriptedPrompter{answers: map[string]string{"What is your notice period?": "30 days"}}

	eng := newTestEngine(page, store, Deps{Prompt: prompter})
	out, err := eng.RunPanelFlow(ctx)
	require.NoError(t, err)

	assert.Equal(t, ExitNoPanel, out.Exit)
	assert.Equal(t, 1, out.Answered)

	v, ok, err := store.Get(ctx, "what is your notice period?")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "30 days", v)
}

func TestPanelLoopConsumesFirstQuestionOnly(t *testing.T) {
	// When the panel shows several question-like lines the loop single-steps
	// on the first one; the rest are left for later iterations.
	page := newFakePage()
	page.panelFn = func(round int) (*types.PanelSnapshot, error) {
		if round > 1 {
			return nil, nil
		}
		return &types.PanelSnapshot{
			Questions: []string{"First question?", "Second question?"},
			Inputs:    []types.FieldRef{{Selector: "#in"}},
		}, nil
	}
	prompter := &scriptedPrompter{answers: map[string]string{"First question?": "yes"}}

	eng := newTestEngine(page, newTestMemory(t), Deps{Prompt: prompter})
	_, err := eng.RunPanelFlow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"First question?"}, prompter.asked)
}

func TestPanelLoopFillFailureStops(t *testing.T) {
	ctx := context.Background()
	page := newFakePage()
	page.panelFn = staticPanel([]string{"Notice period?"}, []types.FieldRef{{Selector: "#in"}})
	page.panelFillErr = assertableErr("input rejected the value")
	store := newTestMemory(t)
	require.NoError(t, store.Set(ctx, "notice period?", "30 days"))

	eng := newTestEngine(page, store, Deps{})
	out, err := eng.RunPanelFlow(ctx)
	require.NoError(t, err)

	assert.Equal(t, ExitNoInput, out.Exit)
	assert.Equal(t, 1, out.Iterations, "must not retry the same input")
}

func TestCompleteAfterPanelSuccessAdvances(t *testing.T) {
	page := newFakePage()
	page.bodyText = "Application sent successfully to Acme"
	advanced := false

	eng := newTestEngine(page, newTestMemory(t), Deps{Advance: func() { advanced = true }})
	done, err := eng.CompleteAfterPanel(context.Background())
	require.NoError(t, err)

	assert.True(t, done)
	assert.True(t, advanced, "completion must fire the advancement signal")
}

func TestCompleteAfterPanelManualFallback(t *testing.T) {
	page := newFakePage()
	page.bodyText = "Review your application before sending"
	notifier := &recordingNotifier{}
	advanced := false

	eng := newTestEngine(page, newTestMemory(t), Deps{
		Notify:  notifier,
		Advance: func() { advanced = true },
	})
	done, err := eng.CompleteAfterPanel(context.Background())
	require.NoError(t, err)

	assert.False(t, done)
	assert.False(t, advanced)
	require.Len(t, notifier.instructions, 1)
	assert.Contains(t, notifier.instructions[0], "manually")
}

// assertableErr is a tiny helper to build distinct errors inline.
type assertableErr string

func (e assertableErr) Error() string { return string(e) }
