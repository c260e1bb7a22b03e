package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"workforce-backend/internal/repository"
)

var (
	summaryRunID     string
	summaryAnomalies bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print per-run totals from stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(logger, summaryRunID, summaryAnomalies, cmd.OutOrStdout())
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryRunID, "run-id", "", "Run to summarise (default: latest)")
	summaryCmd.Flags().BoolVar(&summaryAnomalies, "anomalies", false, "Also list the sessions flagged by the anomaly scorer")
	rootCmd.AddCommand(summaryCmd)
}

type anomalyRow struct {
	SessionID   uint64   `yaml:"session_id"`
	EmployeeID  uint     `yaml:"employee_id"`
	SessionDate string   `yaml:"session_date"`
	Score       *float64 `yaml:"anomaly_score"`
}

type summaryOutput struct {
	repository.RunSummary `yaml:",inline"`
	Anomalous             []anomalyRow `yaml:"anomalous_sessions,omitempty"`
}

func runSummary(log *zap.Logger, runID string, withAnomalies bool, out io.Writer) error {
	store, err := openStore(log)
	if err != nil {
		return err
	}
	if runID == "" {
		runID, err = store.Sessions.LatestRunID()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("no stored runs")
		}
		if err != nil {
			return fmt.Errorf("find latest run: %w", err)
		}
	}
	summary, err := store.Summary.GetRunSummary(runID)
	if err != nil {
		return err
	}

	result := summaryOutput{RunSummary: *summary}
	if withAnomalies {
		records, err := store.Sessions.GetAnomalies(runID)
		if err != nil {
			return fmt.Errorf("load anomalies: %w", err)
		}
		for _, r := range records {
			result.Anomalous = append(result.Anomalous, anomalyRow{
				SessionID:   r.SessionID,
				EmployeeID:  r.EmployeeID,
				SessionDate: r.SessionDate,
				Score:       r.AnomalyScore,
			})
		}
	}
	return yaml.NewEncoder(out).Encode(result)
}
