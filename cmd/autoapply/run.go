package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prathamesh/auto-apply/internal/config"
	"github.com/prathamesh/auto-apply/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Process the job queue end-to-end",
	Long: `Walks every job in the queue: navigate -> apply -> fill -> submit (or the
side-panel question flow on pages without a static form), answering from
memory and prompting for anything memory does not know.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runQueueCmd,
}

var (
	runConfigPath     string
	runJobs           string
	runMemory         string
	runAssets         string
	runState          string
	runResults        string
	runHeadless       bool
	runVerbose        bool
	runSettleSeconds  int
	runPanelSeconds   int
	runMaxPanelRounds int
	runDatabaseURL    string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runJobs, "jobs", "j", "", "Path to jobs CSV or JSON file")
	runCommand.Flags().StringVar(&runMemory, "memory", "", "Path to the question/answer memory JSON file")
	runCommand.Flags().StringVar(&runAssets, "assets", "", "Path to the stored file assets JSON file")
	runCommand.Flags().StringVar(&runState, "state", "", "Path to the shared run state file")
	runCommand.Flags().StringVar(&runResults, "results", "", "Path to the results CSV")
	runCommand.Flags().BoolVar(&runHeadless, "headless", false, "Run the browser without a window")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().IntVar(&runSettleSeconds, "settle", 0, "Seconds to wait after navigation and apply/submit clicks")
	runCommand.Flags().IntVar(&runPanelSeconds, "panel-wait", 0, "Seconds to wait between panel loop iterations")
	runCommand.Flags().IntVar(&runMaxPanelRounds, "max-panel-rounds", 0, "Panel loop iteration cap")

	// Database URL for the Postgres memory backend
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runQueueCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = runJobs
	}
	if cmd.Flags().Changed("memory") {
		cfg.Memory = runMemory
	}
	if cmd.Flags().Changed("assets") {
		cfg.Assets = runAssets
	}
	if cmd.Flags().Changed("state") {
		cfg.State = runState
	}
	if cmd.Flags().Changed("results") {
		cfg.Results = runResults
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = runHeadless
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("settle") {
		cfg.SettleSeconds = runSettleSeconds
	}
	if cmd.Flags().Changed("panel-wait") {
		cfg.PanelSeconds = runPanelSeconds
	}
	if cmd.Flags().Changed("max-panel-rounds") {
		cfg.MaxPanelRounds = runMaxPanelRounds
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(defaultConfig())

	// Step 4: Database URL handling (optional; file backend when absent)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if _, err := os.Stat(cfg.Jobs); os.IsNotExist(err) {
		return fmt.Errorf("jobs file not found: %s", cfg.Jobs)
	}

	opts := pipeline.RunOptions{
		JobsPath:       cfg.Jobs,
		MemoryPath:     cfg.Memory,
		AssetsPath:     cfg.Assets,
		StatePath:      cfg.State,
		ResultsPath:    cfg.Results,
		DatabaseURL:    cfg.DatabaseURL,
		Headless:       cfg.Headless,
		Verbose:        cfg.Verbose,
		SettleDelay:    time.Duration(cfg.SettleSeconds) * time.Second,
		PanelDelay:     time.Duration(cfg.PanelSeconds) * time.Second,
		MaxPanelRounds: cfg.MaxPanelRounds,
	}

	return pipeline.RunQueue(ctx, opts)
}

// defaultConfig holds the out-of-the-box file layout and timing.
func defaultConfig() config.Config {
	return config.Config{
		Jobs:           "jobs.csv",
		Memory:         "qa_memory.json",
		Assets:         "assets.json",
		State:          "run_state.json",
		Results:        "results.csv",
		SettleSeconds:  3,
		PanelSeconds:   2,
		MaxPanelRounds: 20,
	}
}
