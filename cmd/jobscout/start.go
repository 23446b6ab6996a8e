package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobscout/internal/scheduler"
	"jobscout/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scraping daemon",
	Long:  "Starts the batch scheduler: every configured user is scraped on a fixed interval until the process is stopped.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	jobStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	runner := buildRunner(cfg, jobStore, logger)

	targets := make([]scheduler.Target, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		targets = append(targets, scheduler.Target{
			User:   scrapeUser(u),
			Search: u.Search,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(
		runner,
		targets,
		cfg.Scrape.BatchInterval,
		cfg.Scrape.InterUserDelay,
		cfg.Scrape.UserTimeout,
		logger,
	)
	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	logger.Info("jobscout running", "interval", cfg.Scrape.BatchInterval, "users", len(cfg.Users))
	<-ctx.Done()

	logger.Info("shutting down")
	sched.Stop()
	return nil
}
