package browser

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"

	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/types"
)

// Fields runs a discovery pass over the current page and returns the
// qualifying controls in document order.
func (s *Session) Fields(ctx context.Context) ([]types.FieldDescriptor, error) {
	var fields []types.FieldDescriptor
	if err := s.run(ctx, chromedp.Evaluate(fieldScanJS, &fields)); err != nil {
		return nil, fmt.Errorf("field scan: %w", err)
	}
	if s.opts.Verbose {
		log.Printf("[BROWSER] Found %d fields", len(fields))
	}
	return fields, nil
}

// SetValue assigns a text value to a control and emits input/change events.
func (s *Session) SetValue(ctx context.Context, ref types.FieldRef, value string) error {
	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(setValueJS(ref, value), &ok)); err != nil {
		return fmt.Errorf("setting %s: %w", refLabel(ref), err)
	}
	if !ok {
		return fmt.Errorf("%s is no longer on the page", refLabel(ref))
	}
	return nil
}

// Options returns the display texts of a select control's option set.
func (s *Session) Options(ctx context.Context, ref types.FieldRef) ([]string, error) {
	var options []string
	if err := s.run(ctx, chromedp.Evaluate(optionsJS(ref), &options)); err != nil {
		return nil, fmt.Errorf("reading options of %s: %w", refLabel(ref), err)
	}
	return options, nil
}

// SelectOption sets a select control to the option with the given display
// text.
func (s *Session) SelectOption(ctx context.Context, ref types.FieldRef, option string) error {
	var ok bool
	if err := s.run(ctx, chromedp.Evaluate(selectOptionJS(ref, option), &ok)); err != nil {
		return fmt.Errorf("selecting on %s: %w", refLabel(ref), err)
	}
	if !ok {
		return fmt.Errorf("option %q not present on %s", option, refLabel(ref))
	}
	return nil
}

// AttachFile stages the payload as a real file on disk and points the file
// input at it through the DevTools upload mechanism. Sites that refuse
// programmatic file assignment surface the refusal as an error for the
// engine to classify.
func (s *Session) AttachFile(ctx context.Context, ref types.FieldRef, name, mimeType string, data []byte) error {
	dir, err := os.MkdirTemp("", "autoapply-upload-")
	if err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}
	defer os.RemoveAll(dir)

	// The staged file keeps the stored asset's name so the site records the
	// filename the human expects to see.
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("staging upload: %w", err)
	}

	sel := ref.Selector
	if sel == "" {
		var ok bool
		if err := s.run(ctx, chromedp.Evaluate(tagElementJS(ref), &ok)); err != nil {
			return fmt.Errorf("locating %s: %w", refLabel(ref), err)
		}
		if !ok {
			return fmt.Errorf("%s is no longer on the page", refLabel(ref))
		}
		sel = "#" + uploadTagID
	}

	if err := s.run(ctx, chromedp.SetUploadFiles(sel, []string{path}, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("attaching %s: %w", name, err)
	}
	if s.opts.Verbose {
		log.Printf("[BROWSER] Attached %s (%s)", name, mimeType)
	}
	return nil
}

// ClickButton scans the page's clickable controls and activates the first
// visible, enabled match. No match is a negative result, not an error.
func (s *Session) ClickButton(ctx context.Context, scan engine.ButtonScan) (types.ClickResult, error) {
	var result types.ClickResult
	if err := s.run(ctx, chromedp.Evaluate(clickScanJS(scan), &result)); err != nil {
		return types.ClickResult{}, fmt.Errorf("button scan: %w", err)
	}
	if s.opts.Verbose && result.Success {
		log.Printf("[BROWSER] Clicked %q", result.Text)
	}
	return result, nil
}

// BodyText returns the page's visible text.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Evaluate(bodyTextJS, &text)); err != nil {
		return "", fmt.Errorf("reading page text: %w", err)
	}
	return text, nil
}
