package rules

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

func ptr(t time.Time) *time.Time { return &t }

func codes(ex []Exception) []string {
	out := make([]string, 0, len(ex))
	for _, e := range ex {
		out = append(out, e.Code)
	}
	return out
}

func scheduled(shiftStart, shiftEnd, start, end time.Time) model.WorkSession {
	id := uint(1)
	s := model.WorkSession{
		EmployeeID:  123,
		ShiftID:     &id,
		ShiftStart:  ptr(shiftStart),
		ShiftEnd:    ptr(shiftEnd),
		ActualStart: start,
		ActualEnd:   end,
		WorkedHours: end.Sub(start).Hours(),
	}
	if end.After(shiftEnd) {
		s.OvertimeHours = end.Sub(shiftEnd).Hours()
	}
	s.IsPartial = start.After(shiftStart) || end.Before(shiftEnd)
	return s
}

func TestLateCheckin(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 10, 15), at(15, 18, 0))
	ex := Evaluate(DefaultConfig(), s)

	assert.Equal(t, 7.75, s.WorkedHours)
	assert.Equal(t, []string{
		model.CodeLateCheckin,
		model.CodeMidShiftRegistration,
		model.CodePartialShift,
	}, codes(ex))
	assert.Equal(t, "Employee 123 checked in at 10:15 for a 09:00 shift, late by 1h 15m", ex[0].Explanation)
	assert.Contains(t, ex[1].Explanation, "75 minutes")
}

func TestLateWithinGraceIsIgnored(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 9, 5), at(15, 17, 0))
	assert.NotContains(t, codes(Evaluate(DefaultConfig(), s)), model.CodeLateCheckin)

	s = scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 9, 6), at(15, 17, 0))
	ex := Evaluate(DefaultConfig(), s)
	require.Contains(t, codes(ex), model.CodeLateCheckin)
	assert.Contains(t, ex[0].Explanation, "late by 6m")
}

func TestEarlyCheckout(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 9, 0), at(15, 15, 30))
	ex := Evaluate(DefaultConfig(), s)
	assert.Equal(t, []string{model.CodeEarlyCheckout, model.CodePartialShift}, codes(ex))
	assert.Equal(t, "Employee 123 checked out at 15:30 for a 17:00 shift, early by 1h 30m", ex[0].Explanation)
}

func TestNightShiftCrossingMidnight(t *testing.T) {
	s := scheduled(at(15, 22, 0), at(16, 6, 0), at(15, 22, 0), at(16, 6, 0))
	ex := Evaluate(DefaultConfig(), s)
	assert.Equal(t, 8.0, s.WorkedHours)
	assert.Equal(t, []string{model.CodeNightShiftCross}, codes(ex))
}

func TestNightShiftNeedsNightHours(t *testing.T) {
	cfg := DefaultConfig()
	// Long day shift, same date.
	assert.False(t, isNightShift(cfg, at(15, 6, 0), at(15, 20, 0)))
	// Short evening shift, same date.
	assert.False(t, isNightShift(cfg, at(15, 20, 0), at(15, 23, 0)))
	// Evening shift ending after midnight.
	assert.True(t, isNightShift(cfg, at(15, 18, 0), at(16, 2, 0)))
	// Long shift into the morning.
	assert.True(t, isNightShift(cfg, at(15, 14, 0), at(16, 8, 0)))
}

func TestMissedPunchOnShortSession(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 9, 0), at(15, 10, 0))
	ex := Evaluate(DefaultConfig(), s)
	assert.Contains(t, codes(ex), model.CodeMissedPunch)

	unscheduled := model.WorkSession{EmployeeID: 1, ActualStart: at(15, 9, 0), ActualEnd: at(15, 10, 0), WorkedHours: 1.0}
	ex = Evaluate(DefaultConfig(), unscheduled)
	require.Equal(t, []string{model.CodeMissedPunch}, codes(ex))
	assert.Equal(t, "Work session too short (1.0 hours), possible missed punch", ex[0].Explanation)
}

func TestMissedPunchOnLongSession(t *testing.T) {
	s := model.WorkSession{EmployeeID: 1, ActualStart: at(15, 6, 0), ActualEnd: at(15, 23, 0), WorkedHours: 17.0}
	ex := Evaluate(DefaultConfig(), s)
	require.Equal(t, []string{model.CodeMissedPunch}, codes(ex))
	assert.Contains(t, ex[0].Explanation, "too long (17.0 hours)")
}

func TestMissedPunchOnImputedCheckout(t *testing.T) {
	s := model.WorkSession{EmployeeID: 1, ActualStart: at(15, 9, 0), ActualEnd: at(15, 17, 0), WorkedHours: 8.0, IsImputed: true}
	ex := Evaluate(DefaultConfig(), s)
	require.Equal(t, []string{model.CodeMissedPunch}, codes(ex))
	assert.Equal(t, "No check-out recorded, end imputed 8h 0m after check-in at 09:00", ex[0].Explanation)
}

func TestMissedPunchImputedShortSessionKeepsBothReasons(t *testing.T) {
	s := model.WorkSession{EmployeeID: 1, ActualStart: at(15, 9, 0), ActualEnd: at(15, 10, 0), WorkedHours: 1.0, IsImputed: true}
	ex := Evaluate(DefaultConfig(), s)
	require.Equal(t, []string{model.CodeMissedPunch}, codes(ex))
	assert.Equal(t, "No check-out recorded, end imputed 1h 0m after check-in at 09:00; "+
		"Work session too short (1.0 hours), possible missed punch", ex[0].Explanation)
}

func TestMissingTimestampShortCircuits(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 12, 0), time.Time{})
	s.IsPartial = true
	s.OvertimeHours = 10
	ex := Evaluate(DefaultConfig(), s)
	assert.Equal(t, []Exception{{Code: model.CodeMissedPunch, Explanation: "missing check-in or check-out"}}, ex)

	ex = Evaluate(DefaultConfig(), model.WorkSession{ActualEnd: at(15, 17, 0)})
	assert.Equal(t, []string{model.CodeMissedPunch}, codes(ex))
}

func TestExcessiveOvertime(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 9, 0), at(15, 22, 0))
	ex := Evaluate(DefaultConfig(), s)
	assert.Equal(t, 5.0, s.OvertimeHours)
	assert.Equal(t, []string{model.CodeExcessiveOvertime}, codes(ex))
	assert.Equal(t, "Excessive overtime: 5.0 hours beyond scheduled shift", ex[0].Explanation)
}

func TestEveryExceptionHasExplanation(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 10, 15), at(15, 18, 0))
	for _, e := range Evaluate(DefaultConfig(), s) {
		assert.NotEmpty(t, e.Code)
		assert.NotEmpty(t, e.Explanation)
	}
}

func TestEvaluateIsStable(t *testing.T) {
	s := scheduled(at(15, 22, 30), at(16, 6, 0), at(15, 23, 45), at(16, 12, 0))
	first := Evaluate(DefaultConfig(), s)
	second := Evaluate(DefaultConfig(), s)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{
		model.CodeLateCheckin,
		model.CodeMidShiftRegistration,
		model.CodeNightShiftCross,
		model.CodePartialShift,
		model.CodeExcessiveOvertime,
	}, codes(first))
}

func TestClassifyFillsOrderedSet(t *testing.T) {
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 10, 15), at(15, 18, 0))
	s.ExceptionCodes = []string{"stale"}

	got := Classify(DefaultConfig(), s)
	assert.Equal(t, []string{model.CodeLateCheckin, model.CodeMidShiftRegistration, model.CodePartialShift}, got.ExceptionCodes)
	assert.Len(t, got.ExceptionExplanations, 3)
	assert.Equal(t, []string{"stale"}, s.ExceptionCodes)
}

func TestCustomThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LateCheckinGraceMin = 90
	cfg.MidShiftDelayMin = 90
	s := scheduled(at(15, 9, 0), at(15, 17, 0), at(15, 10, 15), at(15, 17, 0))
	assert.Equal(t, []string{model.CodePartialShift}, codes(Evaluate(cfg, s)))
}
