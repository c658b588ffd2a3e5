// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobHeader announces the job the run is about to work on.
func (p *Printer) PrintJobHeader(position, total int, job *types.JobRecord) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:      %s\n", job.Name))
	sb.WriteString(fmt.Sprintf("URL:      %s", job.URL))

	p.printBox(fmt.Sprintf("JOB %d/%d", position, total), sb.String())
}

// PrintFillResult outputs a summary of one fill pass, including the fields
// the engine could not fill and why.
func (p *Printer) PrintFillResult(result *types.FillResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Fields found:  %d\n", result.TotalFields))
	sb.WriteString(fmt.Sprintf("Filled:        %d\n", result.FilledCount))
	sb.WriteString(fmt.Sprintf("Asked human:   %d", result.AskedCount))

	if stuck := result.Stuck; len(stuck) > 0 {
		sb.WriteString("\n\nNeeds attention:\n")
		count := min(len(stuck), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", stuck[i].Question, stuck[i].Reason))
		}
		if len(stuck) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stuck)-maxItemsToShow))
		}
	}

	p.printBox("FILL PASS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPanelOutcome outputs how the panel loop ended.
func (p *Printer) PrintPanelOutcome(out *engine.PanelOutcome) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Exit:        %s\n", out.Exit))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", out.Iterations))
	sb.WriteString(fmt.Sprintf("Answered:    %d", out.Answered))

	p.printBox("PANEL FLOW", sb.String())
}

// PrintSubmitResult outputs the submit attempt's outcome.
func (p *Printer) PrintSubmitResult(result *types.SubmitResult) {
	if result == nil {
		return
	}

	status := "no submit button found"
	switch {
	case result.Success:
		status = "submitted, confirmation detected"
	case result.Clicked:
		status = "submitted, no confirmation"
	}
	p.printBox("SUBMIT", fmt.Sprintf("Status:  %s", status))
}

// PrintRunSummary outputs the end-of-run status tally.
func (p *Printer) PrintRunSummary(counts map[string]int, total int) {
	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs processed: %d\n", total))
	for _, status := range statuses {
		sb.WriteString(fmt.Sprintf("  %-30s %d\n", status, counts[status]))
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// Instruct prints a human-actionable instruction box. Printer satisfies the
// engine's Notifier capability with it.
func (p *Printer) Instruct(format string, args ...any) {
	p.printBox("ACTION NEEDED", fmt.Sprintf(format, args...))
}
