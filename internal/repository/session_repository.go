package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-backend/internal/model"
)

type SessionRepository interface {
	UpsertBatch(records []model.SessionRecord) error
	GetByRun(runID string) ([]model.SessionRecord, error)
	GetAnomalies(runID string) ([]model.SessionRecord, error)
	LatestRunID() (string, error)
	DeleteRun(runID string) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db}
}

// UpsertBatch writes records keyed by (run_id, session_id), so re-running a
// run id replaces its sessions in place.
func (r *sessionRepository) UpsertBatch(records []model.SessionRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "run_id"}, {Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"employee_id", "shift_id", "shift_start", "shift_end",
			"actual_start", "actual_end", "worked_hours", "overtime_hours",
			"is_partial", "is_imputed", "exception_codes", "exception_explanations",
			"facility", "session_date", "anomaly_score", "is_anomaly",
		}),
	}).CreateInBatches(&records, insertBatchSize).Error
}

func (r *sessionRepository) GetByRun(runID string) ([]model.SessionRecord, error) {
	var records []model.SessionRecord
	err := r.db.Where("run_id = ?", runID).Order("session_id asc").Find(&records).Error
	return records, err
}

func (r *sessionRepository) GetAnomalies(runID string) ([]model.SessionRecord, error) {
	var records []model.SessionRecord
	err := r.db.Where("run_id = ? AND is_anomaly = ?", runID, true).Order("session_id asc").Find(&records).Error
	return records, err
}

// LatestRunID returns gorm.ErrRecordNotFound when nothing is stored yet.
func (r *sessionRepository) LatestRunID() (string, error) {
	var record model.SessionRecord
	err := r.db.Order("created_at desc").Order("run_id desc").Limit(1).Find(&record).Error
	if err != nil {
		return "", err
	}
	if record.RunID == "" {
		return "", gorm.ErrRecordNotFound
	}
	return record.RunID, nil
}

func (r *sessionRepository) DeleteRun(runID string) error {
	return r.db.Where("run_id = ?", runID).Delete(&model.SessionRecord{}).Error
}
