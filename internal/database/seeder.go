// Package database seeds the reconciliation tables.
package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"workforce-backend/internal/csvio"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"
)

// SeedFromDir imports an attendance CSV directory into db. Reference rows
// are upserted, events already stored are left untouched.
func SeedFromDir(db *gorm.DB, dir string, log *zap.Logger) error {
	in, stats, err := csvio.NewLoader(log).LoadDir(dir)
	if err != nil {
		return err
	}
	for file, n := range stats.Skipped {
		log.Warn("rows skipped", zap.String("file", file), zap.Int("rows", n))
	}
	store := repository.NewStore(db)
	if err := store.Import(in); err != nil {
		return fmt.Errorf("seed from %s: %w", dir, err)
	}
	storedEvents, err := store.Events.Count()
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	storedEmployees, err := store.Employees.Count()
	if err != nil {
		return fmt.Errorf("count employees: %w", err)
	}
	log.Info("seeding from directory finished",
		zap.String("dir", dir),
		zap.Int("employees", len(in.Employees)),
		zap.Int("shifts", len(in.Shifts)),
		zap.Int("swaps", len(in.Swaps)),
		zap.Int("events", len(in.Events)),
		zap.Int64("stored_employees", storedEmployees),
		zap.Int64("stored_events", storedEvents))
	return nil
}

// SeedDemo creates a small directory with a day shift and a night shift so
// a fresh database can be reconciled straight away.
func SeedDemo(db *gorm.DB, log *zap.Logger) error {
	// 1. Seed Employees
	phone := "PHONE_0002"
	employees := []model.Employee{
		{EmployeeID: 1, BadgeIDs: "BADGE_0001,BADGE_0001_ALT", Facility: "HQ", EmploymentType: "FULL_TIME"},
		{EmployeeID: 2, BadgeIDs: "BADGE_0002", PhoneID: &phone, Facility: "WAREHOUSE", EmploymentType: "PART_TIME"},
	}
	for _, e := range employees {
		if err := db.FirstOrCreate(&e, model.Employee{EmployeeID: e.EmployeeID}).Error; err != nil {
			return fmt.Errorf("seed employee %d: %w", e.EmployeeID, err)
		}
	}

	// 2. Seed Shift Default (pagi Senin-Jumat, malam setiap hari)
	shifts := []model.ShiftDefinition{
		{ShiftID: 1, EmployeeID: 1, StartTime: "09:00", EndTime: "17:00", DaysOfWeek: "0,1,2,3,4", Facility: "HQ"},
		{ShiftID: 2, EmployeeID: 2, StartTime: "22:00", EndTime: "06:00", DaysOfWeek: "0,1,2,3,4,5,6", Facility: "WAREHOUSE"},
	}
	for _, s := range shifts {
		if err := db.FirstOrCreate(&s, model.ShiftDefinition{ShiftID: s.ShiftID}).Error; err != nil {
			return fmt.Errorf("seed shift %d: %w", s.ShiftID, err)
		}
	}

	log.Info("demo data seeded", zap.Int("employees", len(employees)), zap.Int("shifts", len(shifts)))
	return nil
}
