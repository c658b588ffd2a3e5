// Package types defines the shared data model for the auto-apply engine.
package types

import (
	"fmt"
	"strings"
)

// FieldRef identifies a live form control on the current page.
// The selector is built by the browser layer (id, name, or positional
// fallback) and is only valid until the page is replaced.
type FieldRef struct {
	Selector string `json:"selector"`
	Index    int    `json:"index"`
}

// FieldDescriptor is a transient view over one fillable control, captured
// during a discovery pass. It is destroyed with the page load that produced it.
type FieldDescriptor struct {
	Index       int    `json:"index"`
	Tag         string `json:"tag"`  // input, textarea, select
	Type        string `json:"type"` // text, email, file, ...
	Name        string `json:"name"`
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	Value       string `json:"value"`
	Required    bool   `json:"required"`
}

// Question returns the semantic question text for the field, in the same
// priority order the discoverer used: label, placeholder, name, index.
func (f *FieldDescriptor) Question() string {
	if f.Label != "" {
		return f.Label
	}
	if f.Placeholder != "" {
		return f.Placeholder
	}
	if f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("Field %d", f.Index)
}

// IsSelect reports whether the control is a dropdown.
func (f *FieldDescriptor) IsSelect() bool {
	return f.Tag == "select"
}

// IsFile reports whether the control is a file input.
func (f *FieldDescriptor) IsFile() bool {
	return f.Type == "file"
}

// Ref builds a FieldRef for the descriptor, preferring id, then name,
// then a positional selector over all scanned controls.
func (f *FieldDescriptor) Ref() FieldRef {
	ref := FieldRef{Index: f.Index}
	switch {
	case f.ID != "":
		ref.Selector = "#" + f.ID
	case f.Name != "":
		ref.Selector = fmt.Sprintf(`%s[name=%q]`, f.Tag, f.Name)
	case f.Placeholder != "":
		ref.Selector = fmt.Sprintf(`%s[placeholder=%q]`, f.Tag, f.Placeholder)
	}
	return ref
}

// PanelSnapshot is a transient read of a side panel: the question-like text
// fragments found inside the panel boundary and the empty visible inputs.
// Recomputed on every iteration of the panel loop, never persisted.
type PanelSnapshot struct {
	Questions []string   `json:"questions"`
	Inputs    []FieldRef `json:"inputs"`
}

// NormalizeKey converts a free-text question into the canonical memory key:
// lower-cased and trimmed.
func NormalizeKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}
