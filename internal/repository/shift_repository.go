package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-backend/internal/model"
)

type ShiftRepository interface {
	GetAll() ([]model.ShiftDefinition, error)
	UpsertBatch(shifts []model.ShiftDefinition) error
}

type shiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db}
}

func (r *shiftRepository) GetAll() ([]model.ShiftDefinition, error) {
	var shifts []model.ShiftDefinition
	err := r.db.Order("shift_id asc").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepository) UpsertBatch(shifts []model.ShiftDefinition) error {
	if len(shifts) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "shift_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"employee_id", "start_time", "end_time", "days_of_week", "facility"}),
	}).Create(&shifts).Error
}
