// Package main provides the entry point for the auto-apply CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autoapply",
	Short: "Job application auto-fill bot",
	Long:  "autoapply walks a queue of job posting URLs, fills application forms from a persistent question/answer memory, attaches stored resume and cover-letter files, and records per-job outcomes.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
