package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobscout/internal/model"
	"jobscout/internal/store"
)

var dryRun bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape [user-id]",
	Short: "Run one scrape for a single user",
	Long:  "One-shot scrape: runs the full pipeline for the given user (or the only configured user) and exits. With --dry-run nothing is persisted, so every match counts as new.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not persist anything")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	userID := ""
	if len(args) > 0 {
		userID = args[0]
	} else if len(cfg.Users) == 1 {
		userID = cfg.Users[0].ID
	} else {
		logger.Error("multiple users configured, pass a user id")
		os.Exit(1)
	}

	user, ok := cfg.UserByID(userID)
	if !ok {
		logger.Error("unknown user", "user", userID)
		os.Exit(1)
	}

	var jobStore model.JobStore
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		jobStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		jobStore = sqlStore
	}

	runner := buildRunner(cfg, jobStore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Scrape.UserTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Scrape.UserTimeout)
		defer cancel()
	}

	res := runner.Run(ctx, scrapeUser(user), user.Search)
	if !res.Success {
		logger.Error("scrape failed", "user", userID, "error", res.Error)
		os.Exit(1)
	}

	logger.Info("scrape finished",
		"user", userID,
		"new_jobs", res.JobCount,
		"used_fallback", res.UsedFallback,
	)
	return nil
}
