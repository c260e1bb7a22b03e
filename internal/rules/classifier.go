// Package rules classifies work sessions against the attendance exception
// taxonomy and detects proxy punching on shared badges.
package rules

import (
	"fmt"
	"strings"
	"time"

	"workforce-backend/internal/model"
)

type Exception struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// Evaluate runs the rules in their fixed order and returns every exception
// that fires. A session without both actual timestamps stops after the first
// rule. Evaluate does not modify s.
func Evaluate(cfg Config, s model.WorkSession) []Exception {
	if s.ActualStart.IsZero() || s.ActualEnd.IsZero() {
		return []Exception{{Code: model.CodeMissedPunch, Explanation: "missing check-in or check-out"}}
	}

	var out []Exception
	add := func(code, explanation string) {
		out = append(out, Exception{Code: code, Explanation: explanation})
	}

	if s.ShiftStart != nil {
		if late := s.ActualStart.Sub(*s.ShiftStart); late > cfg.lateGrace() {
			add(model.CodeLateCheckin, fmt.Sprintf("Employee %d checked in at %s for a %s shift, late by %s",
				s.EmployeeID, clock(s.ActualStart), clock(*s.ShiftStart), span(late)))
		}
	}

	if s.ShiftEnd != nil {
		if early := s.ShiftEnd.Sub(s.ActualEnd); early > cfg.earlyGrace() {
			add(model.CodeEarlyCheckout, fmt.Sprintf("Employee %d checked out at %s for a %s shift, early by %s",
				s.EmployeeID, clock(s.ActualEnd), clock(*s.ShiftEnd), span(early)))
		}
	}

	if s.ShiftStart != nil {
		if delay := s.ActualStart.Sub(*s.ShiftStart); delay > cfg.midShiftDelay() {
			add(model.CodeMidShiftRegistration, fmt.Sprintf("Employee %d registered %d minutes after shift start at %s",
				s.EmployeeID, int(delay.Minutes()), clock(*s.ShiftStart)))
		}
	}

	var missed []string
	if s.IsImputed {
		missed = append(missed, fmt.Sprintf("No check-out recorded, end imputed %s after check-in at %s",
			span(s.ActualEnd.Sub(s.ActualStart)), clock(s.ActualStart)))
	}
	switch {
	case s.WorkedHours < cfg.MinValidHours:
		missed = append(missed, fmt.Sprintf("Work session too short (%.1f hours), possible missed punch", s.WorkedHours))
	case s.WorkedHours > cfg.MaxValidHours:
		missed = append(missed, fmt.Sprintf("Work session too long (%.1f hours), possible missed punch", s.WorkedHours))
	}
	if len(missed) > 0 {
		add(model.CodeMissedPunch, strings.Join(missed, "; "))
	}

	if s.ShiftStart != nil && s.ShiftEnd != nil && isNightShift(cfg, *s.ShiftStart, *s.ShiftEnd) {
		add(model.CodeNightShiftCross, "Night shift crossing midnight (normal operation)")
	}

	if s.IsPartial {
		add(model.CodePartialShift, "Partial shift, employee joined mid-shift or left early")
	}

	if s.OvertimeHours > cfg.ExcessiveOvertimeHours {
		add(model.CodeExcessiveOvertime, fmt.Sprintf("Excessive overtime: %.1f hours beyond scheduled shift", s.OvertimeHours))
	}

	return out
}

// isNightShift requires a window that is either very long or ends on a later
// calendar date, and that starts late or ends early in the day.
func isNightShift(cfg Config, start, end time.Time) bool {
	crossesDate := end.Format(model.DateLayout) != start.Format(model.DateLayout)
	if end.Sub(start) <= cfg.nightSpan() && !crossesDate {
		return false
	}
	return start.Hour() >= cfg.NightShiftStartHour || end.Hour() <= cfg.NightShiftEndHour
}

// Classify returns a copy of s whose exception set holds exactly what
// Evaluate produces, in rule order.
func Classify(cfg Config, s model.WorkSession) model.WorkSession {
	s.ExceptionCodes = nil
	s.ExceptionExplanations = make(map[string]string)
	for _, e := range Evaluate(cfg, s) {
		s.AddException(e.Code, e.Explanation)
	}
	return s
}

// ClassifyAll classifies sessions in place.
func ClassifyAll(cfg Config, sessions []model.WorkSession) {
	for i := range sessions {
		sessions[i] = Classify(cfg, sessions[i])
	}
}

func clock(t time.Time) string {
	return t.Format("15:04")
}

// span renders a duration as "1h 15m", or "45m" under an hour.
func span(d time.Duration) string {
	total := int(d / time.Minute)
	h, m := total/60, total%60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
