package engine

import "strings"

// MatchOption maps a free-text answer onto a dropdown's option set.
// Matching order, first match wins:
//  1. case-insensitive exact match on display text
//  2. case-insensitive substring match in either direction
//
// Returns the option's original display text. No match means the control
// must be left unchanged; callers treat that as "not filled", not an error.
func MatchOption(options []string, answer string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(answer))
	if want == "" {
		return "", false
	}

	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == want {
			return opt, true
		}
	}

	for _, opt := range options {
		have := strings.ToLower(strings.TrimSpace(opt))
		if have == "" {
			continue
		}
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return opt, true
		}
	}

	return "", false
}

// SuccessMatcher is a pattern-match classifier over unstructured page text.
// Token lists are explicit and swappable so site profiles can layer their
// own completion markers without touching the engine.
type SuccessMatcher struct {
	Tokens []string
}

// Match reports whether the lower-cased text contains any token.
func (m *SuccessMatcher) Match(text string) bool {
	lower := strings.ToLower(text)
	for _, token := range m.Tokens {
		if token != "" && strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// Default token lists. Submit tokens classify a post-submit page; panel
// tokens detect Naukri-style completion banners after the panel loop.
var (
	DefaultSubmitTokens = []string{"thank", "success", "submitted", "received", "application sent"}
	DefaultPanelTokens  = []string{"application sent", "applied successfully", "already applied"}
)
