package engine

import (
	"context"
	"errors"
	"log"

	"github.com/prathamesh/auto-apply/internal/assets"
	"github.com/prathamesh/auto-apply/internal/types"
)

// FillForm runs the standard fill pass: discover every qualifying field,
// resolve each one from memory or a human prompt, and fill it. Per-field
// failures are contained; a failure on one field never prevents processing
// of the rest. Only the aggregate result crosses the boundary.
func (e *Engine) FillForm(ctx context.Context) (*types.FillResult, error) {
	fields, err := e.page.Fields(ctx)
	if err != nil {
		return &types.FillResult{}, &PageError{Op: "field discovery", Cause: err}
	}

	result := &types.FillResult{TotalFields: len(fields)}
	var stuck []types.StuckField

	for i := range fields {
		field := &fields[i]

		// Discovery already skips pre-filled fields; guard again so a stale
		// descriptor can never overwrite a user edit.
		if field.Value != "" {
			continue
		}

		filled, asked := e.resolveField(ctx, field, &stuck)
		if filled {
			result.FilledCount++
		}
		if asked {
			result.AskedCount++
		}
		e.wait(ctx, e.cfg.StepDelay)
	}

	for _, s := range stuck {
		e.notify.Instruct("could not fill %q: %s", s.Question, s.Reason)
	}

	result.Stuck = stuck
	result.Success = true
	return result, nil
}

// resolveField handles one field and reports whether it was filled and
// whether a fresh human prompt produced the fill.
func (e *Engine) resolveField(ctx context.Context, field *types.FieldDescriptor, stuck *[]types.StuckField) (filled, asked bool) {
	question := field.Question()
	key := types.NormalizeKey(question)

	if field.IsFile() {
		return e.attachAsset(ctx, field, stuck), false
	}

	// File-role questions answered textually (sites asking which file was
	// uploaded rather than taking the binary) fill straight from memory.
	if _, isFileRole := assets.RoleForLabel(question); isFileRole {
		if answer, ok, err := e.store.Get(ctx, key); err == nil && ok {
			if err := e.page.SetValue(ctx, field.Ref(), answer); err != nil {
				*stuck = append(*stuck, types.StuckField{Question: question, Reason: "fill rejected by page"})
				return false, false
			}
			return true, false
		}
	}

	answer, ok, err := e.store.Get(ctx, key)
	if err != nil {
		log.Printf("memory lookup failed for %q: %v", key, err)
	}
	if ok {
		return e.applyAnswer(ctx, field, answer, stuck), false
	}

	if !field.Required {
		return false, false
	}

	fresh, given := e.prompt.Ask(question, field.Type)
	if !given || fresh == "" {
		// Declined input is a skip, not an error.
		*stuck = append(*stuck, types.StuckField{Question: question, Reason: "required but no answer provided"})
		return false, false
	}

	// Persist immediately, before the fill attempt: the answer is knowledge
	// about the human, not about this page.
	if err := e.store.Set(ctx, key, fresh); err != nil {
		log.Printf("failed to persist answer for %q: %v", key, err)
	}

	if e.applyAnswer(ctx, field, fresh, stuck) {
		return true, true
	}
	return false, false
}

// applyAnswer writes an answer into a control, routing selects through the
// option matcher.
func (e *Engine) applyAnswer(ctx context.Context, field *types.FieldDescriptor, answer string, stuck *[]types.StuckField) bool {
	ref := field.Ref()
	question := field.Question()

	if field.IsSelect() {
		options, err := e.page.Options(ctx, ref)
		if err != nil {
			*stuck = append(*stuck, types.StuckField{Question: question, Reason: "could not read options"})
			return false
		}
		matched, ok := MatchOption(options, answer)
		if !ok {
			*stuck = append(*stuck, types.StuckField{Question: question, Reason: "no option matched " + answer})
			return false
		}
		if err := e.page.SelectOption(ctx, ref, matched); err != nil {
			*stuck = append(*stuck, types.StuckField{Question: question, Reason: "select rejected by page"})
			return false
		}
		return true
	}

	if err := e.page.SetValue(ctx, ref, answer); err != nil {
		*stuck = append(*stuck, types.StuckField{Question: question, Reason: "fill rejected by page"})
		return false
	}
	return true
}

// attachAsset materializes the stored asset for a file field's role into the
// control. Both failure kinds (no asset on file, host-rejected assignment)
// end in a manual-action instruction naming what the human must attach.
func (e *Engine) attachAsset(ctx context.Context, field *types.FieldDescriptor, stuck *[]types.StuckField) bool {
	question := field.Question()

	// Unlabeled file inputs default to the resume slot; that is what
	// application forms overwhelmingly want.
	role, ok := assets.RoleForLabel(question)
	if !ok {
		role = types.RoleResume
	}

	err := e.attach(ctx, field.Ref(), role)
	if err == nil {
		return true
	}

	if errors.Is(err, ErrNoAsset) {
		if field.Required {
			e.notify.Instruct("no %s on file; attach one manually for %q", role, question)
			*stuck = append(*stuck, types.StuckField{Question: question, Reason: "no stored asset"})
		}
		return false
	}

	var attachErr *AttachError
	if errors.As(err, &attachErr) {
		e.notify.Instruct("automatic upload failed; attach %q manually for %q", attachErr.AssetName, question)
	} else {
		e.notify.Instruct("automatic upload failed for %q: %v", question, err)
	}
	*stuck = append(*stuck, types.StuckField{Question: question, Reason: "file attach failed"})
	return false
}

// attach decodes the role's asset and assigns it to the control.
func (e *Engine) attach(ctx context.Context, ref types.FieldRef, role types.AssetRole) error {
	asset, ok := e.assets.Get(role)
	if !ok {
		return ErrNoAsset
	}

	data, err := asset.Decode()
	if err != nil {
		return &AttachError{AssetName: asset.Name, Cause: err}
	}

	if err := e.page.AttachFile(ctx, ref, asset.Name, asset.Type, data); err != nil {
		return &AttachError{AssetName: asset.Name, Cause: err}
	}
	return nil
}
