package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-backend/internal/model"
)

type ShiftSwapRepository interface {
	GetApproved() ([]model.ShiftSwap, error)
	UpsertBatch(swaps []model.ShiftSwap) error
}

type shiftSwapRepository struct {
	db *gorm.DB
}

func NewShiftSwapRepository(db *gorm.DB) ShiftSwapRepository {
	return &shiftSwapRepository{db}
}

// GetApproved returns only swaps the assigner will honour; status is
// compared case-insensitively.
func (r *shiftSwapRepository) GetApproved() ([]model.ShiftSwap, error) {
	var swaps []model.ShiftSwap
	err := r.db.Where("UPPER(TRIM(status)) = ?", model.SwapApproved).Order("swap_id asc").Find(&swaps).Error
	return swaps, err
}

func (r *shiftSwapRepository) UpsertBatch(swaps []model.ShiftSwap) error {
	if len(swaps) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "swap_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"employee_id_1", "employee_id_2", "shift_id_1", "shift_id_2", "swap_date", "status",
		}),
	}).Create(&swaps).Error
}
