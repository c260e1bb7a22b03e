package repository

import (
	"fmt"

	"gorm.io/gorm"

	"workforce-backend/internal/model"
)

var summaryCodes = []string{
	model.CodeMissedPunch,
	model.CodeLateCheckin,
	model.CodeEarlyCheckout,
	model.CodeMidShiftRegistration,
	model.CodeNightShiftCross,
	model.CodePartialShift,
	model.CodeExcessiveOvertime,
}

type DailyStat struct {
	SessionDate string  `yaml:"session_date"`
	Sessions    int64   `yaml:"sessions"`
	WorkedHours float64 `yaml:"worked_hours"`
}

type RunSummary struct {
	RunID       string           `yaml:"run_id"`
	Sessions    int64            `yaml:"sessions"`
	Employees   int64            `yaml:"employees"`
	Imputed     int64            `yaml:"imputed"`
	Anomalies   int64            `yaml:"anomalies"`
	ByException map[string]int64 `yaml:"by_exception"`
	ByDate      []DailyStat      `yaml:"by_date"`
}

type SummaryRepository interface {
	GetRunSummary(runID string) (*RunSummary, error)
}

type summaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &summaryRepository{db}
}

func (r *summaryRepository) GetRunSummary(runID string) (*RunSummary, error) {
	s := &RunSummary{RunID: runID, ByException: make(map[string]int64, len(summaryCodes))}
	run := func() *gorm.DB {
		return r.db.Model(&model.SessionRecord{}).Where("run_id = ?", runID)
	}

	// 1. Total sesi dan pegawai
	if err := run().Count(&s.Sessions).Error; err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if err := run().Distinct("employee_id").Count(&s.Employees).Error; err != nil {
		return nil, fmt.Errorf("count employees: %w", err)
	}
	if err := run().Where("is_imputed = ?", true).Count(&s.Imputed).Error; err != nil {
		return nil, fmt.Errorf("count imputed: %w", err)
	}
	if err := run().Where("is_anomaly = ?", true).Count(&s.Anomalies).Error; err != nil {
		return nil, fmt.Errorf("count anomalies: %w", err)
	}

	// 2. Per kode exception
	var codeLists []string
	if err := run().Pluck("exception_codes", &codeLists).Error; err != nil {
		return nil, fmt.Errorf("load exception codes: %w", err)
	}
	for _, code := range summaryCodes {
		s.ByException[code] = 0
	}
	for _, list := range codeLists {
		for _, code := range model.SplitList(list) {
			s.ByException[code]++
		}
	}

	// 3. Per tanggal
	err := run().Group("session_date").Order("session_date asc").
		Select("session_date, count(*) as sessions, sum(worked_hours) as worked_hours").
		Scan(&s.ByDate).Error
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	return s, nil
}
