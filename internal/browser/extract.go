package browser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Plausible question-length bounds: long enough to be a sentence, short
// enough to exclude a paragraph of terms-and-conditions.
const (
	minQuestionLen = 10
	maxQuestionLen = 250
)

// ExtractQuestions pulls question-like fragments out of a panel's HTML:
// per-element text that contains a question mark, falls inside a plausible
// length range, and does not look like a URL. Order is preserved and
// duplicates are dropped, so the first fragment is the panel's current
// question even when stale ones from a prior screen linger in the markup.
func ExtractQuestions(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing panel html: %w", err)
	}

	var questions []string
	seen := make(map[string]struct{})
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(ownText(sel)), " ")
		if !strings.Contains(text, "?") {
			return
		}
		if len(text) < minQuestionLen || len(text) > maxQuestionLen {
			return
		}
		if looksLikeURL(text) {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		questions = append(questions, text)
	})
	return questions, nil
}

// ownText returns an element's direct text content, excluding descendants,
// so a wrapper div never swallows its children's fragments.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}

// looksLikeURL filters out link text whose question mark is just a query
// string separator.
func looksLikeURL(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "http://") ||
		strings.Contains(lower, "https://") ||
		strings.Contains(lower, "www.")
}
