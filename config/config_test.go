package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("RECONCILE_WORKERS", "6")
	t.Setenv("RECONCILE_TIMEOUT", "90s")
	t.Setenv("RECONCILE_VERBOSE", "true")
	t.Setenv("RECONCILE_BROKEN", "six")

	assert.Equal(t, 6, GetEnvAsInt("RECONCILE_WORKERS", 1))
	assert.Equal(t, 3, GetEnvAsInt("RECONCILE_BROKEN", 3))
	assert.Equal(t, 90*time.Second, GetEnvAsDuration("RECONCILE_TIMEOUT", time.Minute))
	assert.Equal(t, time.Minute, GetEnvAsDuration("RECONCILE_BROKEN", time.Minute))
	assert.True(t, GetEnvAsBool("RECONCILE_VERBOSE", false))
	assert.Equal(t, "fallback", GetEnv("RECONCILE_UNSET_KEY", "fallback"))
}

func TestGetEnvKeepsEmptyValue(t *testing.T) {
	t.Setenv("RECONCILE_EMPTY", "")
	assert.Equal(t, "", GetEnv("RECONCILE_EMPTY", "fallback"))
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_DSN", "user:pw@tcp(db:3306)/x")
	assert.Equal(t, "user:pw@tcp(db:3306)/x", DSN())
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()
	require.NoError(t, Migrate(db))

	for _, table := range []string{"employees", "shifts", "shift_swaps", "attendance_events", "work_sessions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
