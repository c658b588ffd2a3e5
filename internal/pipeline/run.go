// Package pipeline orchestrates a full queue run: loading jobs, driving the
// fill engine over a shared browser session one job at a time, and persisting
// run state and per-job results as the queue advances.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prathamesh/auto-apply/internal/assets"
	"github.com/prathamesh/auto-apply/internal/browser"
	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/observability"
	"github.com/prathamesh/auto-apply/internal/queue"
	"github.com/prathamesh/auto-apply/internal/schemas"
	"github.com/prathamesh/auto-apply/internal/types"
)

// RunOptions holds configuration for running the queue.
type RunOptions struct {
	JobsPath    string
	MemoryPath  string
	AssetsPath  string
	StatePath   string
	ResultsPath string

	// DatabaseURL switches the question/answer memory to Postgres; empty
	// means the JSON file at MemoryPath.
	DatabaseURL string

	Headless bool
	Verbose  bool

	// Zero timing values fall back to the engine defaults.
	SettleDelay    time.Duration
	PanelDelay     time.Duration
	MaxPanelRounds int

	// Prompter answers questions memory cannot. Nil means an interactive
	// terminal prompter on stdin.
	Prompter engine.Prompter
}

// runner carries the per-run collaborators through the job loop.
type runner struct {
	session *browser.Session
	store   memory.Store
	assets  *assets.Store
	printer *observability.Printer
	prompt  engine.Prompter
	cfg     engine.Config
}

// RunQueue processes every job in the queue sequentially. Each job's outcome
// is appended to the results log and reflected into the run-state file before
// the next job starts, so an interruption at any point leaves both complete.
func RunQueue(ctx context.Context, opts RunOptions) error {
	printer := observability.NewPrinter(os.Stdout)

	store, err := openStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	defer store.Close()

	assetStore, err := assets.Open(opts.AssetsPath)
	if err != nil {
		return fmt.Errorf("opening asset store: %w", err)
	}

	jobs, err := loadJobs(opts.JobsPath)
	if err != nil {
		return fmt.Errorf("loading jobs: %w", err)
	}
	if len(jobs) == 0 {
		log.Printf("job queue is empty, nothing to do")
		return nil
	}

	stateFile := queue.OpenStateFile(opts.StatePath)
	state := &types.RunState{Jobs: jobs, IsRunning: true}
	if err := stateFile.Save(state); err != nil {
		return fmt.Errorf("saving run state: %w", err)
	}

	results := queue.NewResultLog(opts.ResultsPath)

	session, err := browser.NewSession(ctx, browser.Options{
		Headless: opts.Headless,
		Verbose:  opts.Verbose,
	})
	if err != nil {
		return fmt.Errorf("starting browser: %w", err)
	}
	defer session.Close()

	prompter := opts.Prompter
	if prompter == nil {
		prompter = NewTerminalPrompter(os.Stdin, os.Stdout)
	}

	r := &runner{
		session: session,
		store:   store,
		assets:  assetStore,
		printer: printer,
		prompt:  prompter,
		cfg:     engineConfig(opts),
	}

	for i := range state.Jobs {
		if err := ctx.Err(); err != nil {
			break
		}

		// The control server can flip is_running off to stop the queue
		// between jobs; a stop mid-job is not supported.
		if current, err := stateFile.Load(); err == nil && !current.IsRunning {
			log.Printf("run stopped externally after %d jobs", i)
			break
		}

		job := &state.Jobs[i]
		printer.PrintJobHeader(i+1, len(state.Jobs), job)

		result, status := r.processJob(ctx, job)
		job.Status = status
		state.CurrentJobIndex = i + 1

		if err := stateFile.Save(state); err != nil {
			log.Printf("failed to save run state: %v", err)
		}
		if err := results.Append(result); err != nil {
			log.Printf("failed to record result for %s: %v", job.URL, err)
		}
	}

	state.IsRunning = false
	if err := stateFile.Save(state); err != nil {
		log.Printf("failed to save final run state: %v", err)
	}

	printer.PrintRunSummary(results.CountByStatus(), len(results.Results()))
	return nil
}

// processJob takes one job from navigation to a logged outcome. Every failure
// is contained in the returned result; one broken page never stops the queue.
func (r *runner) processJob(ctx context.Context, job *types.JobRecord) (queue.Result, types.JobStatus) {
	result := queue.Result{Name: job.Name, URL: job.URL}

	if job.URL == "" {
		result.Status = "No URL"
		result.Submitted = queue.SubmittedFailed
		return result, types.JobFailed
	}

	if domain, skip := queue.ShouldSkip(job.URL); skip {
		result.Status = fmt.Sprintf("Requires Login (%s)", domain)
		return result, types.JobSkipped
	}

	if err := r.session.Navigate(ctx, job.URL, r.cfg.SettleDelay); err != nil {
		result.Status = "Navigation Failed"
		result.Submitted = queue.SubmittedFailed
		result.Error = err.Error()
		return result, types.JobFailed
	}

	// The engine fires the advancement signal when it confirms completion;
	// the controller owns what that means for the queue.
	advanced := false
	eng := engine.New(engine.Deps{
		Page:    r.session,
		Memory:  r.store,
		Assets:  r.assets,
		Prompt:  r.prompt,
		Notify:  r.printer,
		Advance: func() { advanced = true },
	}, r.cfg)

	// Absence of an apply control is fine (the page may already show the
	// form); only a page error is worth noting.
	if _, err := eng.ClickApply(ctx); err != nil {
		log.Printf("apply click failed for %s: %v", job.URL, err)
	}

	fill, err := eng.FillForm(ctx)
	if err != nil {
		result.Status = "Fill Failed"
		result.Submitted = queue.SubmittedFailed
		result.Error = err.Error()
		return result, types.JobFailed
	}
	r.printer.PrintFillResult(fill)
	result.FieldsFound = fill.TotalFields
	result.FieldsFilled = fill.FilledCount

	// Pages with no static form fields run the one-question-at-a-time panel
	// protocol instead.
	if fill.TotalFields == 0 {
		return r.runPanel(ctx, eng, result, &advanced)
	}

	submit, err := eng.SubmitForm(ctx)
	if err != nil {
		result.Status = "Submit Failed"
		result.Submitted = queue.SubmittedFailed
		result.Error = err.Error()
		return result, types.JobFailed
	}
	r.printer.PrintSubmitResult(submit)

	switch {
	case submit.Success:
		result.Status = "Submitted"
		result.Submitted = queue.SubmittedYes
	case submit.Clicked:
		result.Status = "Submitted (unconfirmed)"
		result.Submitted = queue.SubmittedYes
	default:
		result.Status = "Manual Submission Needed"
		result.Submitted = queue.SubmittedManual
	}
	return result, types.JobCompleted
}

// runPanel drives the bounded panel loop and the completion check after it.
// Completion is observed through the advancement signal the engine fires.
func (r *runner) runPanel(ctx context.Context, eng *engine.Engine, result queue.Result, advanced *bool) (queue.Result, types.JobStatus) {
	out, err := eng.RunPanelFlow(ctx)
	if err != nil {
		result.Status = "Panel Flow Failed"
		result.Submitted = queue.SubmittedFailed
		result.Error = err.Error()
		return result, types.JobFailed
	}
	r.printer.PrintPanelOutcome(out)
	result.FieldsFound = out.Answered
	result.FieldsFilled = out.Answered

	if _, err := eng.CompleteAfterPanel(ctx); err != nil {
		result.Status = "Completion Check Failed"
		result.Submitted = queue.SubmittedFailed
		result.Error = err.Error()
		return result, types.JobFailed
	}

	if *advanced {
		result.Status = "Completed"
		result.Submitted = queue.SubmittedYes
		return result, types.JobCompleted
	}

	// The engine already told the human what to finish by hand; hold the
	// queue until they confirm.
	r.prompt.Ask("Finish the application in the browser, then type done to continue", "confirm")
	result.Status = "Manual Completion Needed"
	result.Submitted = queue.SubmittedManual
	return result, types.JobCompleted
}

// loadJobs picks the loader by file extension; JSON queues are schema-checked
// before they are trusted.
func loadJobs(path string) ([]types.JobRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := schemas.ValidateJobsFile(path); err != nil {
			return nil, err
		}
		return queue.LoadJobsJSON(path)
	}
	return queue.LoadJobsCSV(path)
}

// openStore selects the memory backend.
func openStore(ctx context.Context, opts RunOptions) (memory.Store, error) {
	if opts.DatabaseURL != "" {
		return memory.ConnectPostgres(ctx, opts.DatabaseURL)
	}
	return memory.OpenFileStore(opts.MemoryPath)
}

// engineConfig overlays the run options on the engine defaults.
func engineConfig(opts RunOptions) engine.Config {
	cfg := engine.DefaultConfig()
	if opts.SettleDelay > 0 {
		cfg.SettleDelay = opts.SettleDelay
	}
	if opts.PanelDelay > 0 {
		cfg.PanelDelay = opts.PanelDelay
	}
	if opts.MaxPanelRounds > 0 {
		cfg.MaxPanelRounds = opts.MaxPanelRounds
	}
	return cfg
}
