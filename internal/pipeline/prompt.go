package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/prathamesh/auto-apply/internal/types"
)

// TerminalPrompter asks the human for answers on an interactive terminal.
// An empty line is a decline, not an empty answer.
type TerminalPrompter struct {
	out     io.Writer
	scanner *bufio.Scanner
}

// NewTerminalPrompter creates a prompter reading answers from in and writing
// questions to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		out:     out,
		scanner: bufio.NewScanner(in),
	}
}

// Ask prints the question and blocks for one line of input. The queue is
// paused for as long as the human takes; that is the point.
func (p *TerminalPrompter) Ask(question, fieldType string) (string, bool) {
	fmt.Fprintf(p.out, "\n? %s", question)
	if fieldType != "" && fieldType != "text" {
		fmt.Fprintf(p.out, " (%s)", fieldType)
	}
	fmt.Fprint(p.out, "\n> ")

	if !p.scanner.Scan() {
		return "", false
	}
	answer := p.scanner.Text()
	if answer == "" {
		return "", false
	}
	return answer, true
}

// SeededPrompter answers from a fixed map and declines everything else. The
// control server uses it so a fill pass never blocks on a terminal that is
// not there.
type SeededPrompter struct {
	mu      sync.Mutex
	answers map[string]string
}

// NewSeededPrompter builds a prompter over the given answers, keyed the same
// way memory is keyed.
func NewSeededPrompter(answers map[string]string) *SeededPrompter {
	normalized := make(map[string]string, len(answers))
	for q, a := range answers {
		if key := types.NormalizeKey(q); key != "" {
			normalized[key] = a
		}
	}
	return &SeededPrompter{answers: normalized}
}

// Ask returns the seeded answer for the question, if any.
func (p *SeededPrompter) Ask(question, _ string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	answer, ok := p.answers[types.NormalizeKey(question)]
	if !ok || answer == "" {
		return "", false
	}
	return answer, true
}
