package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"workforce-backend/internal/model"
)

type EmployeeRepository interface {
	GetAll() ([]model.Employee, error)
	UpsertBatch(employees []model.Employee) error
	Count() (int64, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db}
}

// GetAll keeps directory order stable (by id) so credential conflicts
// resolve the same way on every run.
func (r *employeeRepository) GetAll() ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.Order("employee_id asc").Find(&employees).Error
	return employees, err
}

func (r *employeeRepository) UpsertBatch(employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"badge_ids", "phone_id", "facility", "employment_type"}),
	}).Create(&employees).Error
}

func (r *employeeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Employee{}).Count(&count).Error
	return count, err
}
