package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workforce-backend/internal/model"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func TestExtractScheduledSession(t *testing.T) {
	start, end := at(15, 9, 0), at(15, 17, 0)
	s := model.WorkSession{
		ShiftStart:    &start,
		ShiftEnd:      &end,
		ActualStart:   at(15, 10, 15),
		ActualEnd:     at(15, 18, 0),
		WorkedHours:   7.75,
		OvertimeHours: 1,
		IsPartial:     true,
	}
	f := Extract(s)
	assert.Equal(t, 7.75, f.WorkedHours)
	assert.Equal(t, -0.25, f.HoursDeviation)
	assert.Equal(t, 75.0, f.CheckinLatencyMin)
	assert.Equal(t, -60.0, f.CheckoutLatencyMin)
	assert.Equal(t, 0, f.DayOfWeek)
	assert.Equal(t, 10, f.StartHour)
	assert.Equal(t, 18, f.EndHour)
	assert.False(t, f.IsWeekend)
	assert.True(t, f.IsPartial)
	assert.Equal(t, 7.75, f.SessionDurationHours)
	assert.Len(t, f.Vector(), 11)
}

func TestExtractUnscheduledWeekendSession(t *testing.T) {
	s := model.WorkSession{ActualStart: at(20, 9, 0), ActualEnd: at(20, 12, 0), WorkedHours: 3}
	f := Extract(s)
	assert.Equal(t, -5.0, f.HoursDeviation)
	assert.Equal(t, 0.0, f.CheckinLatencyMin)
	assert.Equal(t, 5, f.DayOfWeek)
	assert.True(t, f.IsWeekend)
}

func TestAnnotate(t *testing.T) {
	s := model.WorkSession{ActualStart: at(15, 9, 0), ActualEnd: at(15, 17, 0), WorkedHours: 8}
	Annotate(nil, &s)
	assert.Nil(t, s.AnomalyScore)

	var seen Features
	Annotate(ScorerFunc(func(f Features) (float64, bool) {
		seen = f
		return 0.91, true
	}), &s)
	require.NotNil(t, s.AnomalyScore)
	assert.Equal(t, 0.91, *s.AnomalyScore)
	assert.True(t, s.IsAnomaly)
	assert.Equal(t, 8.0, seen.WorkedHours)
}
