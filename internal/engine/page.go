// Package engine implements the adaptive form-filling core: field discovery,
// answer resolution, option matching, file attachment, apply/submit control,
// and the bounded one-question-at-a-time panel loop. The engine never talks to
// a browser directly; everything goes through the Page interface so the core
// stays testable without a real page environment.
package engine

import (
	"context"

	"github.com/prathamesh/auto-apply/internal/types"
)

// Page is the engine's view of the current page. Implementations own all DOM
// inspection and mutation; the engine only decides what to do. All methods
// are best-effort: a missing element is reported through the return value,
// errors are reserved for transport-level failures (browser gone, page
// navigated away mid-call).
type Page interface {
	// Fields enumerates the visible, fillable controls on the page in
	// document order, with their derived labels and current values. The
	// engine, not the page, decides that non-empty fields are off limits.
	Fields(ctx context.Context) ([]types.FieldDescriptor, error)

	// SetValue assigns a text value to a control and emits input/change
	// notifications so the host page's own validation observes the change.
	SetValue(ctx context.Context, ref types.FieldRef, value string) error

	// Options returns the display texts of a select control's option set.
	Options(ctx context.Context, ref types.FieldRef) ([]string, error)

	// SelectOption sets a select control to the option with the given
	// display text and emits a change notification.
	SelectOption(ctx context.Context, ref types.FieldRef, option string) error

	// AttachFile materializes a file payload into a file input. Sites may
	// block programmatic file assignment; such rejections come back as errors
	// for the engine to classify.
	AttachFile(ctx context.Context, ref types.FieldRef, name, mimeType string, data []byte) error

	// ClickButton scans clickable controls for the first visible, enabled
	// one whose text matches the scan and activates it.
	ClickButton(ctx context.Context, scan ButtonScan) (types.ClickResult, error)

	// BodyText returns the page's visible text for success classification.
	BodyText(ctx context.Context) (string, error)

	// Panel takes a fresh snapshot of the side panel, or nil when no
	// candidate container is on the page.
	Panel(ctx context.Context) (*types.PanelSnapshot, error)

	// FillPanelInput fills a panel input the way a user would: focus,
	// synthetic click, short wait, assign, then input/change notifications.
	FillPanelInput(ctx context.Context, ref types.FieldRef, value string) error

	// ClickPanelButton activates the first visible, enabled button inside
	// the panel whose text contains one of the tokens.
	ClickPanelButton(ctx context.Context, tokens []string) (bool, error)
}

// ButtonScan describes a text-token scan over the page's clickable controls.
type ButtonScan struct {
	// Tokens match case-insensitively against the control's text.
	Tokens []string
	// Exclude rejects controls whose text contains any of these tokens
	// (e.g. "applied" indicators when looking for an "apply" button).
	Exclude []string
	// SubmitOnly restricts the scan to submit-capable controls.
	SubmitOnly bool
}

// Prompter is the human collaborator capability. Ask blocks the engine (but
// not the host page) until the human answers or declines; ok is false when
// the prompt was cancelled or left empty.
type Prompter interface {
	Ask(question, kind string) (answer string, ok bool)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(question, kind string) (string, bool)

// Ask calls f.
func (f PrompterFunc) Ask(question, kind string) (string, bool) { return f(question, kind) }

// Notifier receives human-actionable instructions. The engine never fails
// silently: whenever it cannot complete an action a human must take, it
// emits an instruction with enough detail to act.
type Notifier interface {
	Instruct(format string, args ...any)
}

// AssetSource resolves stored file assets by role. Satisfied by
// assets.Store; the engine references assets, it never owns them.
type AssetSource interface {
	Get(role types.AssetRole) (*types.StoredFileAsset, bool)
}
