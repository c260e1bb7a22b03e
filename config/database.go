package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workforce-backend/internal/model"
)

// Format: user:password@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local
const defaultDSN = "root:@tcp(127.0.0.1:3306)/workforce_db?charset=utf8mb4&parseTime=True&loc=Local"

var DB *gorm.DB

// DSN returns DB_DSN or the local default.
func DSN() string {
	return GetEnv("DB_DSN", defaultDSN)
}

// ConnectDB opens MySQL at DSN(), migrates the schema and stores the handle
// in DB.
func ConnectDB(log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database connected")

	DB = db
	return db, nil
}

// Migrate creates or updates the tables for every stored model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Employee{},
		&model.ShiftDefinition{},
		&model.ShiftSwap{},
		&model.AttendanceEvent{},
		&model.SessionRecord{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
