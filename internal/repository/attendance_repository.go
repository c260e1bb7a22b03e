package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-backend/internal/model"
)

const insertBatchSize = 500

type AttendanceRepository interface {
	GetAll() ([]model.AttendanceEvent, error)
	GetByRange(from, to string) ([]model.AttendanceEvent, error)
	CreateMany(events []model.AttendanceEvent) error
	Count() (int64, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db}
}

func (r *attendanceRepository) GetAll() ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.Order("event_timestamp asc").Order("event_id asc").Find(&events).Error
	return events, err
}

// GetByRange filters on the raw timestamp text. The fixed
// "YYYY-MM-DD HH:MM:SS" layout sorts the same as the time it encodes;
// to is exclusive.
func (r *attendanceRepository) GetByRange(from, to string) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	err := r.db.Where("event_timestamp >= ? AND event_timestamp < ?", from, to).
		Order("event_timestamp asc").Order("event_id asc").Find(&events).Error
	return events, err
}

// CreateMany inserts events in batches. Re-importing an event id is a no-op,
// events are immutable once stored.
func (r *attendanceRepository) CreateMany(events []model.AttendanceEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&events, insertBatchSize).Error
}

func (r *attendanceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.AttendanceEvent{}).Count(&count).Error
	return count, err
}
