package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/types"
)

func TestPrintJobHeader(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobHeader(2, 5, &types.JobRecord{
		Name: "AI Engineer - Opplane",
		URL:  "https://careers.acme.io/ai-engineer",
	})
	output := buf.String()

	assert.Contains(t, output, "JOB 2/5")
	assert.Contains(t, output, "AI Engineer - Opplane")
}

func TestPrintFillResultWithStuckFields(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFillResult(&types.FillResult{
		Success: true, FilledCount: 5, AskedCount: 2, TotalFields: 7,
		Stuck: []types.StuckField{
			{Question: "Expected Salary", Reason: "no answer provided"},
			{Question: "Upload Resume", Reason: "attach rejected"},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "FILL PASS")
	assert.Contains(t, output, "Fields found:  7")
	assert.Contains(t, output, "Filled:        5")
	assert.Contains(t, output, "Expected Salary")
	assert.Contains(t, output, "attach rejected")
}

func TestPrintFillResultTruncatesLongStuckList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	stuck := make([]types.StuckField, 8)
	for i := range stuck {
		stuck[i] = types.StuckField{Question: "Q", Reason: "r"}
	}
	p.PrintFillResult(&types.FillResult{TotalFields: 8, Stuck: stuck})

	assert.Contains(t, buf.String(), "and 3 more")
}

func TestPrintFillResultNilIsNoop(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintFillResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPanelOutcome(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPanelOutcome(&engine.PanelOutcome{
		Exit:       engine.ExitMaxAttempts,
		Iterations: 20,
		Answered:   20,
	})
	output := buf.String()

	assert.Contains(t, output, "PANEL FLOW")
	assert.Contains(t, output, "max_attempts_reached")
	assert.Contains(t, output, "20")
}

func TestPrintRunSummarySortsStatuses(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(map[string]int{"Success": 2, "Error": 1}, 3)
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "Jobs processed: 3")
	assert.Less(t, strings.Index(output, "Error"), strings.Index(output, "Success"))
}

func TestInstructFormats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Instruct("attach %s manually", "resume.pdf")
	output := buf.String()

	assert.Contains(t, output, "ACTION NEEDED")
	assert.Contains(t, output, "attach resume.pdf manually")
}

// Printer must remain usable as the engine's notifier.
var _ engine.Notifier = (*Printer)(nil)
