package types

// FillResult is the aggregate outcome of one standard fill pass.
// Per-field failures never abort the pass; they show up in Stuck with
// enough detail for a human to act on.
type FillResult struct {
	Success     bool         `json:"success"`
	FilledCount int          `json:"filled_count"`
	AskedCount  int          `json:"asked_count"`
	TotalFields int          `json:"total_fields"`
	Stuck       []StuckField `json:"stuck,omitempty"`
}

// ClickResult reports an attempt to activate a page control.
// Absence of a matching control is Success=false, not an error.
type ClickResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
}

// SubmitResult reports a submit attempt. Clicked means a submit-capable
// control was activated; Success additionally means the page showed a
// completion marker afterwards.
type SubmitResult struct {
	Success bool `json:"success"`
	Clicked bool `json:"clicked"`
}

// StuckField records a field the engine could not fill, with enough detail
// for a human to act on it.
type StuckField struct {
	Question string `json:"question"`
	Reason   string `json:"reason"`
}
