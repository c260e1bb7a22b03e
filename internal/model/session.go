package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Exception codes.
const (
	CodeMissedPunch          = "missed_punch"
	CodeLateCheckin          = "late_checkin"
	CodeEarlyCheckout        = "early_checkout"
	CodeMidShiftRegistration = "mid_shift_registration"
	CodeNightShiftCross      = "night_shift_cross"
	CodePartialShift         = "partial_shift"
	CodeExcessiveOvertime    = "excessive_overtime"
	CodeDoubleBadgeUse       = "double_badge_use"
)

// WorkSession is one CHECK_IN and its real or imputed CHECK_OUT. Shift fields
// are nil for unscheduled sessions. A zero ActualStart/ActualEnd means the
// timestamp is missing.
type WorkSession struct {
	SessionID     uint64
	EmployeeID    uint
	ShiftID       *uint
	ShiftStart    *time.Time
	ShiftEnd      *time.Time
	ActualStart   time.Time
	ActualEnd     time.Time
	WorkedHours   float64
	OvertimeHours float64
	IsPartial     bool
	IsImputed     bool // CHECK_OUT tidak ada, ActualEnd hasil imputasi

	ExceptionCodes        []string
	ExceptionExplanations map[string]string

	Facility    string
	SessionDate string // YYYY-MM-DD dari ActualStart

	AnomalyScore *float64
	IsAnomaly    bool
}

// HasException reports whether code is already attached to the session.
func (s WorkSession) HasException(code string) bool {
	for _, c := range s.ExceptionCodes {
		if c == code {
			return true
		}
	}
	return false
}

// AddException appends code to the ordered set. A repeated code keeps its
// first position and its explanation is joined to the existing one.
func (s *WorkSession) AddException(code, explanation string) {
	if s.ExceptionExplanations == nil {
		s.ExceptionExplanations = make(map[string]string)
	}
	if s.HasException(code) {
		if prev := s.ExceptionExplanations[code]; prev != "" && explanation != "" && prev != explanation {
			s.ExceptionExplanations[code] = prev + "; " + explanation
		}
		return
	}
	s.ExceptionCodes = append(s.ExceptionCodes, code)
	s.ExceptionExplanations[code] = explanation
}

// EventException is an exception raised against punches rather than a
// session, e.g. the same badge used by two employees.
type EventException struct {
	Code             string
	BadgeID          string
	FirstEmployeeID  uint
	SecondEmployeeID uint
	FirstAt          time.Time
	SecondAt         time.Time
	Explanation      string
}

// SessionRecord is the storage row of a classified session.
type SessionRecord struct {
	RunID                 string         `json:"run_id" gorm:"primaryKey;size:36"`
	SessionID             uint64         `json:"session_id" gorm:"primaryKey;autoIncrement:false"`
	EmployeeID            uint           `json:"employee_id" gorm:"index"`
	ShiftID               *uint          `json:"shift_id"`
	ShiftStart            *time.Time     `json:"shift_start"`
	ShiftEnd              *time.Time     `json:"shift_end"`
	ActualStart           *time.Time     `json:"actual_start"`
	ActualEnd             *time.Time     `json:"actual_end"`
	WorkedHours           float64        `json:"worked_hours"`
	OvertimeHours         float64        `json:"overtime_hours"`
	IsPartial             bool           `json:"is_partial"`
	IsImputed             bool           `json:"is_imputed"`
	ExceptionCodes        string         `json:"exception_codes"` // Dipisah koma
	ExceptionExplanations datatypes.JSON `json:"exception_explanations"`
	Facility              string         `json:"facility"`
	SessionDate           string         `json:"session_date" gorm:"index"`
	AnomalyScore          *float64       `json:"anomaly_score"`
	IsAnomaly             bool           `json:"is_anomaly"`
	CreatedAt             time.Time      `json:"created_at"`
}

func (SessionRecord) TableName() string {
	return "work_sessions"
}

// NewSessionRecord flattens s for storage under runID.
func NewSessionRecord(runID string, s WorkSession) (SessionRecord, error) {
	explanations, err := MarshalExplanations(s.ExceptionExplanations)
	if err != nil {
		return SessionRecord{}, fmt.Errorf("session %d: %w", s.SessionID, err)
	}
	return SessionRecord{
		RunID:                 runID,
		SessionID:             s.SessionID,
		EmployeeID:            s.EmployeeID,
		ShiftID:               s.ShiftID,
		ShiftStart:            s.ShiftStart,
		ShiftEnd:              s.ShiftEnd,
		ActualStart:           timePtr(s.ActualStart),
		ActualEnd:             timePtr(s.ActualEnd),
		WorkedHours:           s.WorkedHours,
		OvertimeHours:         s.OvertimeHours,
		IsPartial:             s.IsPartial,
		IsImputed:             s.IsImputed,
		ExceptionCodes:        strings.Join(s.ExceptionCodes, ","),
		ExceptionExplanations: datatypes.JSON(explanations),
		Facility:              s.Facility,
		SessionDate:           s.SessionDate,
		AnomalyScore:          s.AnomalyScore,
		IsAnomaly:             s.IsAnomaly,
	}, nil
}

// ToSession rebuilds the session without its exceptions, ready to be
// classified again.
func (r SessionRecord) ToSession() WorkSession {
	s := WorkSession{
		SessionID:     r.SessionID,
		EmployeeID:    r.EmployeeID,
		ShiftID:       r.ShiftID,
		ShiftStart:    r.ShiftStart,
		ShiftEnd:      r.ShiftEnd,
		WorkedHours:   r.WorkedHours,
		OvertimeHours: r.OvertimeHours,
		IsPartial:     r.IsPartial,
		IsImputed:     r.IsImputed,
		Facility:      r.Facility,
		SessionDate:   r.SessionDate,
		AnomalyScore:  r.AnomalyScore,
		IsAnomaly:     r.IsAnomaly,
	}
	if r.ActualStart != nil {
		s.ActualStart = *r.ActualStart
	}
	if r.ActualEnd != nil {
		s.ActualEnd = *r.ActualEnd
	}
	return s
}

// MarshalExplanations renders the code→text map as JSON. Empty maps render
// as "{}".
func MarshalExplanations(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal explanations: %w", err)
	}
	return b, nil
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
