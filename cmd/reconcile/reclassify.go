package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"workforce-backend/internal/csvio"
	"workforce-backend/internal/pipeline"
	"workforce-backend/internal/rules"
)

type reclassifyParams struct {
	RunID     string
	OutputDir string
	RulesPath string
}

var reclassifyFlags reclassifyParams

var reclassifyCmd = &cobra.Command{
	Use:   "reclassify",
	Short: "Re-run exception rules over stored sessions",
	Long: `reclassify loads the sessions of a stored run, evaluates the exception
rules again with the current thresholds and writes the result back under the
same run id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := reclassifyFlags
		p.RulesPath = rulesPath
		return runReclassify(logger, p, cmd.OutOrStdout())
	},
}

func init() {
	reclassifyCmd.Flags().StringVar(&reclassifyFlags.RunID, "run-id", "", "Run to reclassify (default: latest)")
	reclassifyCmd.Flags().StringVarP(&reclassifyFlags.OutputDir, "output", "o", "", "Also write the sessions as CSV to this directory")
}

type reclassifySummary struct {
	RunID           string         `yaml:"run_id"`
	Sessions        int            `yaml:"sessions"`
	ExceptionCounts map[string]int `yaml:"exception_counts"`
}

func runReclassify(log *zap.Logger, p reclassifyParams, out io.Writer) error {
	cfg, err := rules.LoadConfig(p.RulesPath)
	if err != nil {
		return err
	}
	store, err := openStore(log)
	if err != nil {
		return err
	}

	runID := p.RunID
	if runID == "" {
		runID, err = store.Sessions.LatestRunID()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("no stored runs to reclassify")
		}
		if err != nil {
			return fmt.Errorf("find latest run: %w", err)
		}
	}

	records, err := store.Sessions.GetByRun(runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s has no sessions", runID)
	}

	sessions := pipeline.Reclassify(cfg, records)
	if err := store.SaveSessions(runID, sessions); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	if p.OutputDir != "" {
		if err := csvio.WriteSessionsFile(p.OutputDir, sessions); err != nil {
			return err
		}
	}

	summary := reclassifySummary{RunID: runID, Sessions: len(sessions), ExceptionCounts: make(map[string]int)}
	for _, s := range sessions {
		for _, code := range s.ExceptionCodes {
			summary.ExceptionCounts[code]++
		}
	}
	log.Info("run reclassified", zap.String("run_id", runID), zap.Int("sessions", len(sessions)))
	return yaml.NewEncoder(out).Encode(summary)
}
