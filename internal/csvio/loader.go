// Package csvio reads the attendance input directory and writes the
// reconciled sessions as CSV.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"workforce-backend/internal/model"
	"workforce-backend/internal/pipeline"
)

const (
	AttendanceFile = "attendance.csv"
	EmployeesFile  = "employees.csv"
	ShiftsFile     = "shifts.csv"
	SwapsFile      = "shift_swaps.csv"
)

var ErrMissingInput = errors.New("csvio: missing input")

type eventRow struct {
	EventID        string `validate:"omitempty,numeric"`
	EmployeeID     string `validate:"omitempty,numeric"`
	BadgeID        string `validate:"required_without_all=EmployeeID PhoneID"`
	PhoneID        string
	EventType      string `validate:"required"`
	EventTimestamp string
	Facility       string
	DeviceID       string
	RawData        string
}

type employeeRow struct {
	EmployeeID     string `validate:"required,numeric"`
	BadgeIDs       string `validate:"required_without=PhoneID"`
	PhoneID        string
	Facility       string
	EmploymentType string
}

type shiftRow struct {
	ShiftID    string `validate:"required,numeric"`
	EmployeeID string `validate:"required,numeric"`
	StartTime  string `validate:"required"`
	EndTime    string `validate:"required"`
	DaysOfWeek string `validate:"required"`
	Facility   string
}

type swapRow struct {
	SwapID      string `validate:"omitempty,numeric"`
	EmployeeID1 string `validate:"required,numeric"`
	EmployeeID2 string `validate:"required,numeric,nefield=EmployeeID1"`
	ShiftID1    string `validate:"required,numeric"`
	ShiftID2    string `validate:"required,numeric"`
	SwapDate    string `validate:"required,datetime=2006-01-02"`
	Status      string
}

// LoadStats counts rows rejected per file.
type LoadStats struct {
	Skipped map[string]int
}

type Loader struct {
	log      *zap.Logger
	validate *validator.Validate
}

func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log, validate: validator.New()}
}

// LoadDir reads the input files from dir. attendance.csv is required; the
// reference files are optional and only logged when absent.
func (l *Loader) LoadDir(dir string) (pipeline.Input, LoadStats, error) {
	stats := LoadStats{Skipped: make(map[string]int)}
	var in pipeline.Input

	events, err := l.loadEvents(filepath.Join(dir, AttendanceFile), &stats)
	if err != nil {
		return in, stats, err
	}
	in.Events = events

	if in.Employees, err = l.loadEmployees(filepath.Join(dir, EmployeesFile), &stats); err != nil {
		return in, stats, err
	}
	if in.Shifts, err = l.loadShifts(filepath.Join(dir, ShiftsFile), &stats); err != nil {
		return in, stats, err
	}
	if in.Swaps, err = l.loadSwaps(filepath.Join(dir, SwapsFile), &stats); err != nil {
		return in, stats, err
	}
	return in, stats, nil
}

func (l *Loader) loadEvents(path string, stats *LoadStats) ([]model.AttendanceEvent, error) {
	t, err := readTable(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	if err != nil {
		return nil, err
	}
	var out []model.AttendanceEvent
	for i, rec := range t.rows {
		row := eventRow{
			EventID:        t.get(rec, "event_id"),
			EmployeeID:     t.get(rec, "employee_id"),
			BadgeID:        t.get(rec, "badge_id"),
			PhoneID:        t.get(rec, "phone_id"),
			EventType:      t.get(rec, "event_type"),
			EventTimestamp: t.get(rec, "event_timestamp"),
			Facility:       t.get(rec, "facility"),
			DeviceID:       t.get(rec, "device_id"),
			RawData:        t.get(rec, "raw_data"),
		}
		if !l.valid(AttendanceFile, i, row, stats) {
			continue
		}
		e := model.AttendanceEvent{
			EventID:        uint(mustUint(row.EventID)),
			BadgeID:        row.BadgeID,
			PhoneID:        optional(row.PhoneID),
			EventType:      strings.ToUpper(row.EventType),
			EventTimestamp: row.EventTimestamp,
			Facility:       row.Facility,
			DeviceID:       row.DeviceID,
			RawData:        optional(row.RawData),
		}
		if row.EmployeeID != "" {
			e = e.WithEmployee(uint(mustUint(row.EmployeeID)))
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *Loader) loadEmployees(path string, stats *LoadStats) ([]model.Employee, error) {
	t, err := l.readOptional(path)
	if t == nil || err != nil {
		return nil, err
	}
	var out []model.Employee
	for i, rec := range t.rows {
		row := employeeRow{
			EmployeeID:     t.get(rec, "employee_id"),
			BadgeIDs:       t.get(rec, "badge_ids"),
			PhoneID:        t.get(rec, "phone_id"),
			Facility:       t.get(rec, "facility"),
			EmploymentType: t.get(rec, "employment_type"),
		}
		if !l.valid(EmployeesFile, i, row, stats) {
			continue
		}
		out = append(out, model.Employee{
			EmployeeID:     uint(mustUint(row.EmployeeID)),
			BadgeIDs:       row.BadgeIDs,
			PhoneID:        optional(row.PhoneID),
			Facility:       row.Facility,
			EmploymentType: row.EmploymentType,
		})
	}
	return out, nil
}

func (l *Loader) loadShifts(path string, stats *LoadStats) ([]model.ShiftDefinition, error) {
	t, err := l.readOptional(path)
	if t == nil || err != nil {
		return nil, err
	}
	var out []model.ShiftDefinition
	for i, rec := range t.rows {
		row := shiftRow{
			ShiftID:    t.get(rec, "shift_id"),
			EmployeeID: t.get(rec, "employee_id"),
			StartTime:  t.get(rec, "start_time"),
			EndTime:    t.get(rec, "end_time"),
			DaysOfWeek: t.get(rec, "days_of_week"),
			Facility:   t.get(rec, "facility"),
		}
		if !l.valid(ShiftsFile, i, row, stats) {
			continue
		}
		out = append(out, model.ShiftDefinition{
			ShiftID:    uint(mustUint(row.ShiftID)),
			EmployeeID: uint(mustUint(row.EmployeeID)),
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
			DaysOfWeek: row.DaysOfWeek,
			Facility:   row.Facility,
		})
	}
	return out, nil
}

func (l *Loader) loadSwaps(path string, stats *LoadStats) ([]model.ShiftSwap, error) {
	t, err := l.readOptional(path)
	if t == nil || err != nil {
		return nil, err
	}
	var out []model.ShiftSwap
	for i, rec := range t.rows {
		row := swapRow{
			SwapID:      t.get(rec, "swap_id"),
			EmployeeID1: t.get(rec, "employee_id_1"),
			EmployeeID2: t.get(rec, "employee_id_2"),
			ShiftID1:    t.get(rec, "shift_id_1"),
			ShiftID2:    t.get(rec, "shift_id_2"),
			SwapDate:    t.get(rec, "swap_date"),
			Status:      t.get(rec, "status"),
		}
		if !l.valid(SwapsFile, i, row, stats) {
			continue
		}
		out = append(out, model.ShiftSwap{
			SwapID:      uint(mustUint(row.SwapID)),
			EmployeeID1: uint(mustUint(row.EmployeeID1)),
			EmployeeID2: uint(mustUint(row.EmployeeID2)),
			ShiftID1:    uint(mustUint(row.ShiftID1)),
			ShiftID2:    uint(mustUint(row.ShiftID2)),
			SwapDate:    row.SwapDate,
			Status:      row.Status,
		})
	}
	return out, nil
}

func (l *Loader) readOptional(path string) (*table, error) {
	t, err := readTable(path)
	if errors.Is(err, os.ErrNotExist) {
		l.log.Warn("optional input not found", zap.String("path", path))
		return nil, nil
	}
	return t, err
}

func (l *Loader) valid(file string, index int, row any, stats *LoadStats) bool {
	if err := l.validate.Struct(row); err != nil {
		stats.Skipped[file]++
		// +2: header line and 1-based numbering
		l.log.Warn("skipping invalid row", zap.String("file", file), zap.Int("line", index+2), zap.Error(err))
		return false
	}
	return true
}

type table struct {
	columns map[string]int
	rows    [][]string
}

func (t *table) get(rec []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csvio: %s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("csvio: %s: read header: %w", path, err)
	}
	t := &table{columns: make(map[string]int, len(header))}
	for i, name := range header {
		t.columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvio: %s: %w", path, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// mustUint parses a value the validator already accepted as numeric.
func mustUint(s string) uint64 {
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}
