package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prathamesh/auto-apply/internal/queue"
	"github.com/prathamesh/auto-apply/internal/schemas"
	"github.com/prathamesh/auto-apply/internal/types"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect the job queue file",
}

var jobsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a jobs CSV or JSON file before a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := args[0]

		var (
			jobs []types.JobRecord
			err  error
		)
		if strings.EqualFold(filepath.Ext(path), ".json") {
			if err := schemas.ValidateJobsFile(path); err != nil {
				return err
			}
			jobs, err = queue.LoadJobsJSON(path)
		} else {
			jobs, err = queue.LoadJobsCSV(path)
		}
		if err != nil {
			return err
		}

		skipped := 0
		for _, j := range jobs {
			if _, skip := queue.ShouldSkip(j.URL); skip {
				skipped++
			}
		}

		fmt.Printf("%s: %d jobs", path, len(jobs))
		if skipped > 0 {
			fmt.Printf(" (%d on login-walled boards, will be skipped)", skipped)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsValidateCmd)
	rootCmd.AddCommand(jobsCmd)
}
