package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"workforce-backend/internal/csvio"
	"workforce-backend/internal/pipeline"
	"workforce-backend/internal/repository"
	"workforce-backend/internal/rules"
)

const (
	sourceCSV = "csv"
	sourceDB  = "db"
)

type runParams struct {
	Source    string
	InputDir  string
	OutputDir string
	From      string
	To        string
	Location  string
	Save      bool
	RulesPath string
	Workers   int
}

var runFlags runParams

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconstruct and classify sessions for a batch of punches",
	Example: `  reconcile run --input ./data --output ./out
  reconcile run --source db --from "2024-01-01 00:00:00" --to "2024-02-01 00:00:00"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		p := runFlags
		p.RulesPath = rulesPath
		p.Workers = workers
		return runReconcile(ctx, logger, p, cmd.OutOrStdout())
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.Source, "source", sourceCSV, "Input source: csv or db")
	runCmd.Flags().StringVarP(&runFlags.InputDir, "input", "i", ".", "Directory holding attendance.csv and the reference files")
	runCmd.Flags().StringVarP(&runFlags.OutputDir, "output", "o", "", "Directory for work_sessions.csv and event_exceptions.csv")
	runCmd.Flags().StringVar(&runFlags.From, "from", "", "First event timestamp to load from the database (inclusive)")
	runCmd.Flags().StringVar(&runFlags.To, "to", "", "Last event timestamp to load from the database (exclusive)")
	runCmd.Flags().StringVar(&runFlags.Location, "location", "UTC", "Time zone the event timestamps were recorded in")
	runCmd.Flags().BoolVar(&runFlags.Save, "save", false, "Store sessions in the database (always on for --source db)")
}

func runReconcile(ctx context.Context, log *zap.Logger, p runParams, out io.Writer) error {
	cfg, err := rules.LoadConfig(p.RulesPath)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(p.Location)
	if err != nil {
		return fmt.Errorf("invalid location %q: %w", p.Location, err)
	}

	var (
		in    pipeline.Input
		store *repository.Store
	)
	switch p.Source {
	case sourceCSV:
		var stats csvio.LoadStats
		in, stats, err = csvio.NewLoader(log).LoadDir(p.InputDir)
		if err != nil {
			return err
		}
		for file, n := range stats.Skipped {
			log.Warn("rows skipped", zap.String("file", file), zap.Int("rows", n))
		}
	case sourceDB:
		if store, err = openStore(log); err != nil {
			return err
		}
		if in, err = store.LoadInput(p.From, p.To); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", p.Source, sourceCSV, sourceDB)
	}

	res, err := pipeline.New(log).Run(ctx, in, pipeline.Options{
		Rules:    cfg,
		Workers:  p.Workers,
		Location: loc,
	})
	if err != nil {
		return err
	}

	if p.OutputDir != "" {
		if err := csvio.WriteDir(p.OutputDir, res.Sessions, res.EventExceptions); err != nil {
			return err
		}
		log.Info("sessions written", zap.String("dir", p.OutputDir), zap.Int("sessions", len(res.Sessions)))
	}
	if p.Save || p.Source == sourceDB {
		if store == nil {
			if store, err = openStore(log); err != nil {
				return err
			}
		}
		if err := store.SaveSessions(res.Report.RunID, res.Sessions); err != nil {
			return fmt.Errorf("save sessions: %w", err)
		}
		log.Info("sessions stored", zap.String("run_id", res.Report.RunID))
	}

	return yaml.NewEncoder(out).Encode(res.Report)
}

func openStore(log *zap.Logger) (*repository.Store, error) {
	db, err := connectDB(log)
	if err != nil {
		return nil, err
	}
	return repository.NewStore(db), nil
}
