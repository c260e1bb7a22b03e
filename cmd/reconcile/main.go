package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workforce-backend/config"
	"workforce-backend/internal/logging"
)

var (
	// Global flags
	verbose   bool
	logLevel  string
	rulesPath string
	workers   int
	timeout   time.Duration

	logger *zap.Logger

	// connectDB is swapped in tests.
	connectDB = config.ConnectDB
)

var rootCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Attendance reconciliation and exception classification",
	Long: `reconcile turns raw badge and phone punches into work sessions.

Punches are resolved to employees, aligned to their scheduled shift windows,
paired into sessions (imputing missing check-outs) and classified against an
ordered set of exception rules. Input comes from a CSV directory or the
database; sessions go to CSV, the database, or both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		applyEnvDefaults(cmd)

		var err error
		logger, err = logging.New(logLevel, config.GetEnvAsBool("LOG_DEVELOPMENT", false), verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// applyEnvDefaults fills flags the user did not set from the environment.
func applyEnvDefaults(cmd *cobra.Command) {
	flags := cmd.Flags()
	if !flags.Changed("log-level") {
		logLevel = config.GetEnv("LOG_LEVEL", logLevel)
	}
	if !flags.Changed("rules") {
		rulesPath = config.GetEnv("RULES_FILE", rulesPath)
	}
	if !flags.Changed("workers") {
		workers = config.GetEnvAsInt("RECONCILE_WORKERS", workers)
	}
	if !flags.Changed("timeout") {
		timeout = config.GetEnvAsDuration("RECONCILE_TIMEOUT", timeout)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "YAML file overriding rule thresholds")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent employee partitions (default: GOMAXPROCS)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "Run timeout")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reclassifyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
