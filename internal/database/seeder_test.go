package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workforce-backend/config"
	"workforce-backend/internal/model"
	"workforce-backend/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))
	return db
}

func TestSeedDemoIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, SeedDemo(db, zap.NewNop()))
	require.NoError(t, SeedDemo(db, zap.NewNop()))

	var employees, shifts int64
	require.NoError(t, db.Model(&model.Employee{}).Count(&employees).Error)
	require.NoError(t, db.Model(&model.ShiftDefinition{}).Count(&shifts).Error)
	assert.Equal(t, int64(2), employees)
	assert.Equal(t, int64(2), shifts)

	all, err := repository.NewShiftRepository(db).GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint(2), all[1].EmployeeID)
	assert.Equal(t, "06:00", all[1].EndTime)
}

func TestSeedFromDir(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "attendance.csv"), []byte(
		"event_id,badge_id,event_type,event_timestamp\n1,BADGE_0001,CHECK_IN,2024-01-15 09:00:00\n2,BADGE_0001,CHECK_OUT,2024-01-15 17:00:00\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "employees.csv"), []byte(
		"employee_id,badge_ids\n1,BADGE_0001\n"), 0o644))

	require.NoError(t, SeedFromDir(db, dir, zap.NewNop()))
	require.NoError(t, SeedFromDir(db, dir, zap.NewNop()))

	count, err := repository.NewAttendanceRepository(db).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSeedFromDirMissingAttendance(t *testing.T) {
	err := SeedFromDir(newTestDB(t), t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}
