package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prathamesh/auto-apply/internal/assets"
	"github.com/prathamesh/auto-apply/internal/types"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage the stored resume and cover-letter files",
}

var (
	assetPath        string
	assetMemoryPath  string
	assetDatabaseURL string
)

var assetSetCmd = &cobra.Command{
	Use:   "set <role> <file>",
	Short: "Store a file under a role (resume or cover_letter)",
	Long: `Stores a file in the asset slot for a role and updates every memory-key
variant for that role to the new filename, so textual "which file did you
upload" questions stay in sync with the attached binary.`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()

		role := types.AssetRole(args[0])
		if _, ok := types.RoleKeyVariants[role]; !ok {
			return fmt.Errorf("unknown role %q (want %s or %s)", args[0], types.RoleResume, types.RoleCoverLetter)
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}

		asset := &types.StoredFileAsset{
			Name: filepath.Base(args[1]),
			Type: mime.TypeByExtension(filepath.Ext(args[1])),
		}
		if asset.Type == "" {
			asset.Type = "application/octet-stream"
		}
		asset.Encode(data)

		store, err := assets.Open(assetPath)
		if err != nil {
			return err
		}

		databaseURL := assetDatabaseURL
		if databaseURL == "" {
			databaseURL = os.Getenv("DATABASE_URL")
		}
		mem, err := openMemoryStore(ctx, databaseURL, assetMemoryPath)
		if err != nil {
			return err
		}
		defer mem.Close()

		if err := store.Register(ctx, role, asset, mem); err != nil {
			return err
		}
		fmt.Printf("Stored %s (%d bytes) as %s\n", asset.Name, asset.Size, role)
		return nil
	},
}

var assetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the registered asset slots",
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := assets.Open(assetPath)
		if err != nil {
			return err
		}

		for _, role := range []types.AssetRole{types.RoleResume, types.RoleCoverLetter} {
			asset, ok := store.Get(role)
			if !ok {
				fmt.Printf("%-14s (empty)\n", role)
				continue
			}
			fmt.Printf("%-14s %s (%s, %d bytes)\n", role, asset.Name, asset.Type, asset.Size)
		}
		return nil
	},
}

func init() {
	assetCmd.PersistentFlags().StringVar(&assetPath, "assets", "assets.json", "Path to the stored file assets JSON file")
	assetCmd.PersistentFlags().StringVar(&assetMemoryPath, "memory", "qa_memory.json", "Path to the question/answer memory JSON file")
	assetCmd.PersistentFlags().StringVar(&assetDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	assetCmd.AddCommand(assetSetCmd)
	assetCmd.AddCommand(assetShowCmd)
	rootCmd.AddCommand(assetCmd)
}
