package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/prathamesh/auto-apply/internal/memory"
	"github.com/prathamesh/auto-apply/internal/schemas"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Inspect and transfer the question/answer memory",
}

var (
	memoryPath        string
	memoryDatabaseURL string
)

var memoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every stored question/answer pair",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		store, err := openMemoryStoreFromFlags(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Export(ctx)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Printf("%-40s %s\n", k, entries[k])
		}
		fmt.Printf("\n%d entries\n", len(entries))
		return nil
	},
}

var memoryExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the memory as a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		store, err := openMemoryStoreFromFlags(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Export(ctx)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal memory: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", args[0], err)
		}
		fmt.Printf("Exported %d entries to %s\n", len(entries), args[0])
		return nil
	},
}

var memoryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a JSON memory file into the store (imported keys win)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := schemas.ValidateMemoryFile(args[0]); err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		store, err := openMemoryStoreFromFlags(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Import(ctx, entries); err != nil {
			return err
		}
		fmt.Printf("Imported %d entries\n", len(entries))
		return nil
	},
}

func init() {
	memoryCmd.PersistentFlags().StringVar(&memoryPath, "memory", "qa_memory.json", "Path to the question/answer memory JSON file")
	memoryCmd.PersistentFlags().StringVar(&memoryDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	memoryCmd.AddCommand(memoryListCmd)
	memoryCmd.AddCommand(memoryExportCmd)
	memoryCmd.AddCommand(memoryImportCmd)
	rootCmd.AddCommand(memoryCmd)
}

// openMemoryStore selects the Postgres backend when a database URL is set and
// the JSON file backend otherwise.
func openMemoryStore(ctx context.Context, databaseURL, path string) (memory.Store, error) {
	if databaseURL != "" {
		return memory.ConnectPostgres(ctx, databaseURL)
	}
	return memory.OpenFileStore(path)
}

func openMemoryStoreFromFlags(ctx context.Context) (memory.Store, error) {
	databaseURL := memoryDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	return openMemoryStore(ctx, databaseURL, memoryPath)
}
