// Package anomaly holds the boundary to the external anomaly scorer: the
// per-session feature vector and the Scorer interface. Scoring itself
// happens outside this module.
package anomaly

import (
	"workforce-backend/internal/model"
	"workforce-backend/internal/shift"
)

// DefaultScheduledHours stands in for the scheduled length of unscheduled
// sessions.
const DefaultScheduledHours = 8.0

type Features struct {
	WorkedHours          float64
	HoursDeviation       float64 // WorkedHours - scheduled hours
	CheckinLatencyMin    float64 // positive = late
	CheckoutLatencyMin   float64 // positive = left early
	OvertimeHours        float64
	DayOfWeek            int // 0 = Monday
	StartHour            int
	EndHour              int
	IsWeekend            bool
	IsPartial            bool
	SessionDurationHours float64
}

// Vector returns the features in a fixed order for numeric models.
func (f Features) Vector() []float64 {
	return []float64{
		f.WorkedHours,
		f.HoursDeviation,
		f.CheckinLatencyMin,
		f.CheckoutLatencyMin,
		f.OvertimeHours,
		float64(f.DayOfWeek),
		float64(f.StartHour),
		float64(f.EndHour),
		boolToFloat(f.IsWeekend),
		boolToFloat(f.IsPartial),
		f.SessionDurationHours,
	}
}

// Extract derives the feature vector of s. Latencies are zero when the
// session has no shift.
func Extract(s model.WorkSession) Features {
	f := Features{
		WorkedHours:          s.WorkedHours,
		OvertimeHours:        s.OvertimeHours,
		IsPartial:            s.IsPartial,
		SessionDurationHours: s.ActualEnd.Sub(s.ActualStart).Hours(),
	}
	if !s.ActualStart.IsZero() {
		f.DayOfWeek = shift.Weekday(s.ActualStart)
		f.StartHour = s.ActualStart.Hour()
		f.IsWeekend = f.DayOfWeek >= 5
	}
	if !s.ActualEnd.IsZero() {
		f.EndHour = s.ActualEnd.Hour()
	}
	if s.ActualStart.IsZero() || s.ActualEnd.IsZero() {
		f.SessionDurationHours = 0
	}

	scheduled := DefaultScheduledHours
	if s.ShiftStart != nil && s.ShiftEnd != nil {
		scheduled = s.ShiftEnd.Sub(*s.ShiftStart).Hours()
	}
	f.HoursDeviation = f.WorkedHours - scheduled

	if s.ShiftStart != nil && !s.ActualStart.IsZero() {
		f.CheckinLatencyMin = s.ActualStart.Sub(*s.ShiftStart).Minutes()
	}
	if s.ShiftEnd != nil && !s.ActualEnd.IsZero() {
		f.CheckoutLatencyMin = s.ShiftEnd.Sub(s.ActualEnd).Minutes()
	}
	return f
}

// Scorer is implemented by the external anomaly model.
type Scorer interface {
	Score(f Features) (score float64, isAnomaly bool)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(Features) (float64, bool)

func (fn ScorerFunc) Score(f Features) (float64, bool) {
	return fn(f)
}

// Annotate scores s and records the result on it. A nil scorer leaves s
// untouched.
func Annotate(sc Scorer, s *model.WorkSession) {
	if sc == nil {
		return
	}
	score, flagged := sc.Score(Extract(*s))
	s.AnomalyScore = &score
	s.IsAnomaly = flagged
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
