package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"workforce-backend/internal/model"
)

const (
	SessionsFile        = "work_sessions.csv"
	EventExceptionsFile = "event_exceptions.csv"
)

var sessionHeader = []string{
	"session_id", "employee_id", "shift_id", "shift_start", "shift_end",
	"actual_start", "actual_end", "worked_hours", "overtime_hours", "is_partial",
	"exception_codes", "exception_explanations", "facility", "session_date",
	"is_imputed", "anomaly_score", "is_anomaly",
}

var eventExceptionHeader = []string{
	"exception_code", "badge_id", "first_employee_id", "first_at",
	"second_employee_id", "second_at", "explanation",
}

// WriteSessions writes sessions as CSV with a header row. Missing values
// are written as empty cells.
func WriteSessions(w io.Writer, sessions []model.WorkSession) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sessionHeader); err != nil {
		return err
	}
	for _, s := range sessions {
		explanations, err := model.MarshalExplanations(s.ExceptionExplanations)
		if err != nil {
			return fmt.Errorf("session %d: %w", s.SessionID, err)
		}
		rec := []string{
			strconv.FormatUint(s.SessionID, 10),
			strconv.FormatUint(uint64(s.EmployeeID), 10),
			formatUintPtr(s.ShiftID),
			formatTimePtr(s.ShiftStart),
			formatTimePtr(s.ShiftEnd),
			formatTime(s.ActualStart),
			formatTime(s.ActualEnd),
			formatFloat(s.WorkedHours),
			formatFloat(s.OvertimeHours),
			strconv.FormatBool(s.IsPartial),
			strings.Join(s.ExceptionCodes, ","),
			string(explanations),
			s.Facility,
			s.SessionDate,
			strconv.FormatBool(s.IsImputed),
			formatFloatPtr(s.AnomalyScore),
			strconv.FormatBool(s.IsAnomaly),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventExceptions writes punch-level exceptions as CSV.
func WriteEventExceptions(w io.Writer, exceptions []model.EventException) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventExceptionHeader); err != nil {
		return err
	}
	for _, x := range exceptions {
		rec := []string{
			x.Code,
			x.BadgeID,
			strconv.FormatUint(uint64(x.FirstEmployeeID), 10),
			formatTime(x.FirstAt),
			strconv.FormatUint(uint64(x.SecondEmployeeID), 10),
			formatTime(x.SecondAt),
			x.Explanation,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDir writes both output files into dir, creating it if needed.
func WriteDir(dir string, sessions []model.WorkSession, exceptions []model.EventException) error {
	if err := WriteSessionsFile(dir, sessions); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, EventExceptionsFile), func(w io.Writer) error {
		return WriteEventExceptions(w, exceptions)
	})
}

// WriteSessionsFile writes only work_sessions.csv into dir.
func WriteSessionsFile(dir string, sessions []model.WorkSession) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("csvio: create output dir: %w", err)
	}
	return writeFile(filepath.Join(dir, SessionsFile), func(w io.Writer) error {
		return WriteSessions(w, sessions)
	})
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvio: %w", err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("csvio: write %s: %w", path, err)
	}
	return f.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.TimestampLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func formatUintPtr(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
