package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	EventCheckIn  = "CHECK_IN"
	EventCheckOut = "CHECK_OUT"
)

// TimestampLayout is the wire format of event_timestamp ("YYYY-MM-DD HH:MM:SS").
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is used for session_date and swap_date.
const DateLayout = "2006-01-02"

type AttendanceEvent struct {
	EventID        uint    `json:"event_id" gorm:"column:event_id;primaryKey"`
	EmployeeID     *uint   `json:"employee_id" gorm:"index"` // Kosong sampai identity resolution
	BadgeID        string  `json:"badge_id" gorm:"index"`
	PhoneID        *string `json:"phone_id"`
	EventType      string  `json:"event_type"` // CHECK_IN/CHECK_OUT
	EventTimestamp string  `json:"event_timestamp" gorm:"index"`
	Facility       string  `json:"facility"`
	DeviceID       string  `json:"device_id"`
	RawData        *string `json:"raw_data"`

	// Timestamp is filled by the pipeline once EventTimestamp parses.
	Timestamp time.Time `json:"-" gorm:"-"`
}

func (AttendanceEvent) TableName() string {
	return "attendance_events"
}

// ParseTimestamp reads EventTimestamp as a wall-clock time in loc.
func (e AttendanceEvent) ParseTimestamp(loc *time.Location) (time.Time, error) {
	raw := strings.TrimSpace(e.EventTimestamp)
	if raw == "" {
		return time.Time{}, fmt.Errorf("event %d: empty timestamp", e.EventID)
	}
	ts, err := time.ParseInLocation(TimestampLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("event %d: parse timestamp %q: %w", e.EventID, raw, err)
	}
	return ts, nil
}

// Resolved reports whether the event already carries an employee id.
func (e AttendanceEvent) Resolved() bool {
	return e.EmployeeID != nil
}

// Employee returns the resolved employee id, or 0 when unresolved.
func (e AttendanceEvent) Employee() uint {
	if e.EmployeeID == nil {
		return 0
	}
	return *e.EmployeeID
}

// WithEmployee returns a copy of the event annotated with id. Other fields
// are left untouched.
func (e AttendanceEvent) WithEmployee(id uint) AttendanceEvent {
	e.EmployeeID = &id
	return e
}

// ShiftWindow is a shift definition anchored to a concrete calendar date.
type ShiftWindow struct {
	ShiftID uint
	Start   time.Time
	End     time.Time
}

// Duration is the scheduled length of the window.
func (w ShiftWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// TaggedEvent is a resolved event plus the shift window that governs it.
// Shift is nil for unscheduled events.
type TaggedEvent struct {
	AttendanceEvent
	Shift *ShiftWindow
}
