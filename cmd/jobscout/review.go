package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"jobscout/internal/review"
	"jobscout/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review [user-id]",
	Short: "Browse saved jobs in the terminal",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
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

	jobStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	jobs, err := jobStore.ListByUser(context.Background(), user.ID)
	if err != nil {
		logger.Error("failed to list jobs", "error", err)
		os.Exit(1)
	}

	return review.Run(user.Name, jobs)
}
