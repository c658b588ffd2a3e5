package engine

import (
	"context"
	"fmt"

	"github.com/prathamesh/auto-apply/internal/types"
)

// fakePage is a scriptable in-memory Page. Fields returned by Fields reflect
// values written through SetValue, so repeated passes see their own effects
// the way a real page would.
type fakePage struct {
	fields     []types.FieldDescriptor
	fieldsErr  error
	options    map[string][]string // selector -> option texts
	setValues  map[string]string   // selector -> assigned value
	selections map[string]string   // selector -> selected option
	attached   []string            // attached file names
	attachErr  error
	bodyText   string

	clickFn      func(ButtonScan) (types.ClickResult, error)
	panelFn      func(round int) (*types.PanelSnapshot, error)
	panelRound   int
	panelFills   []string
	panelFillErr error
	panelClickFn func(tokens []string) (bool, error)
	saveClicks   int
}

func newFakePage() *fakePage {
	return &fakePage{
		options:    make(map[string][]string),
		setValues:  make(map[string]string),
		selections: make(map[string]string),
	}
}

func (p *fakePage) Fields(_ context.Context) ([]types.FieldDescriptor, error) {
	if p.fieldsErr != nil {
		return nil, p.fieldsErr
	}
	out := make([]types.FieldDescriptor, len(p.fields))
	copy(out, p.fields)
	for i := range out {
		if v, ok := p.setValues[out[i].Ref().Selector]; ok {
			out[i].Value = v
		}
		if v, ok := p.selections[out[i].Ref().Selector]; ok {
			out[i].Value = v
		}
	}
	return out, nil
}

func (p *fakePage) SetValue(_ context.Context, ref types.FieldRef, value string) error {
	p.setValues[ref.Selector] = value
	return nil
}

func (p *fakePage) Options(_ context.Context, ref types.FieldRef) ([]string, error) {
	return p.options[ref.Selector], nil
}

func (p *fakePage) SelectOption(_ context.Context, ref types.FieldRef, option string) error {
	p.selections[ref.Selector] = option
	return nil
}

func (p *fakePage) AttachFile(_ context.Context, _ types.FieldRef, name, _ string, _ []byte) error {
	if p.attachErr != nil {
		return p.attachErr
	}
	p.attached = append(p.attached, name)
	return nil
}

func (p *fakePage) ClickButton(_ context.Context, scan ButtonScan) (types.ClickResult, error) {
	if p.clickFn != nil {
		return p.clickFn(scan)
	}
	return types.ClickResult{}, nil
}

func (p *fakePage) BodyText(_ context.Context) (string, error) {
	return p.bodyText, nil
}

func (p *fakePage) Panel(_ context.Context) (*types.PanelSnapshot, error) {
	p.panelRound++
	if p.panelFn != nil {
		return p.panelFn(p.panelRound)
	}
	return nil, nil
}

func (p *fakePage) FillPanelInput(_ context.Context, _ types.FieldRef, value string) error {
	if p.panelFillErr != nil {
		return p.panelFillErr
	}
	p.panelFills = append(p.panelFills, value)
	return nil
}

func (p *fakePage) ClickPanelButton(_ context.Context, tokens []string) (bool, error) {
	p.saveClicks++
	if p.panelClickFn != nil {
		return p.panelClickFn(tokens)
	}
	return true, nil
}

// scriptedPrompter answers from a fixed map and records what was asked.
type scriptedPrompter struct {
	answers map[string]string
	asked   []string
}

func (s *scriptedPrompter) Ask(question, _ string) (string, bool) {
	s.asked = append(s.asked, question)
	answer, ok := s.answers[question]
	return answer, ok && answer != ""
}

// recordingNotifier captures instructions for assertions.
type recordingNotifier struct {
	instructions []string
}

func (n *recordingNotifier) Instruct(format string, args ...any) {
	n.instructions = append(n.instructions, fmt.Sprintf(format, args...))
}

// mapAssets is an AssetSource over a plain map.
type mapAssets map[types.AssetRole]*types.StoredFileAsset

func (m mapAssets) Get(role types.AssetRole) (*types.StoredFileAsset, bool) {
	a, ok := m[role]
	return a, ok
}
