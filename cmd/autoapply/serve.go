package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/prathamesh/auto-apply/internal/assets"
	"github.com/prathamesh/auto-apply/internal/browser"
	"github.com/prathamesh/auto-apply/internal/config"
	"github.com/prathamesh/auto-apply/internal/engine"
	"github.com/prathamesh/auto-apply/internal/observability"
	"github.com/prathamesh/auto-apply/internal/pipeline"
	"github.com/prathamesh/auto-apply/internal/queue"
	"github.com/prathamesh/auto-apply/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the control server",
	Long: `Start an HTTP server that exposes the fill engine over a REST API:
operator login, remote open/fill/apply/submit on a shared browser session,
and memory and run-state management.`,
	RunE: runServe,
}

var (
	serveConfigPath   string
	serveAddr         string
	serveMemory       string
	serveAssets       string
	serveState        string
	serveDatabaseURL  string
	serveHeadless     bool
	servePasswordHash string
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address")
	serveCmd.Flags().StringVar(&serveMemory, "memory", "", "Path to the question/answer memory JSON file")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "Path to the stored file assets JSON file")
	serveCmd.Flags().StringVar(&serveState, "state", "", "Path to the shared run state file")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", true, "Run the browser without a window")
	serveCmd.Flags().StringVar(&servePasswordHash, "password-hash", "", "bcrypt hash of the operator password (defaults to AUTOAPPLY_PASSWORD_HASH env var)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if serveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("addr") {
		cfg.ServerAddr = serveAddr
	}
	if cmd.Flags().Changed("memory") {
		cfg.Memory = serveMemory
	}
	if cmd.Flags().Changed("assets") {
		cfg.Assets = serveAssets
	}
	if cmd.Flags().Changed("state") {
		cfg.State = serveState
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = serveHeadless
	}
	if cmd.Flags().Changed("password-hash") {
		cfg.PasswordHash = servePasswordHash
	}

	defaults := defaultConfig()
	defaults.ServerAddr = ":8787"
	cfg = cfg.MergeWithDefaults(defaults)

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.PasswordHash == "" {
		cfg.PasswordHash = os.Getenv("AUTOAPPLY_PASSWORD_HASH")
	}
	if cfg.PasswordHash == "" {
		return fmt.Errorf("AUTOAPPLY_PASSWORD_HASH environment variable or --password-hash flag is required (generate one with 'autoapply hash-password')")
	}

	store, err := openMemoryStore(ctx, cfg.DatabaseURL, cfg.Memory)
	if err != nil {
		return fmt.Errorf("failed to open memory store: %w", err)
	}
	defer store.Close()

	assetStore, err := assets.Open(cfg.Assets)
	if err != nil {
		return fmt.Errorf("failed to open asset store: %w", err)
	}

	engineCfg := engine.DefaultConfig()
	if cfg.SettleSeconds > 0 {
		engineCfg.SettleDelay = time.Duration(cfg.SettleSeconds) * time.Second
	}
	if cfg.PanelSeconds > 0 {
		engineCfg.PanelDelay = time.Duration(cfg.PanelSeconds) * time.Second
	}
	if cfg.MaxPanelRounds > 0 {
		engineCfg.MaxPanelRounds = cfg.MaxPanelRounds
	}

	// Page operations degrade gracefully when Chrome is unavailable: the
	// server still serves memory and state, and reports 503 on page ops.
	var ops server.PageOps
	session, err := browser.NewSession(ctx, browser.Options{Headless: cfg.Headless})
	if err != nil {
		fmt.Printf("Warning: failed to start browser: %v\n", err)
		fmt.Printf("Continuing without page operations...\n")
	} else {
		defer session.Close()
		ops = pipeline.NewSessionOps(session, store, assetStore,
			observability.NewPrinter(os.Stdout), engineCfg)
	}

	srv, err := server.New(
		server.Config{Addr: cfg.ServerAddr, PasswordHash: cfg.PasswordHash},
		server.Deps{
			Memory: store,
			State:  queue.OpenStateFile(cfg.State),
			Ops:    ops,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Generate the bcrypt hash the control server expects",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		passwordCfg, err := config.NewPasswordConfig()
		if err != nil {
			return err
		}
		hash, err := passwordCfg.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
