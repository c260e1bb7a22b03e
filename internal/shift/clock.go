package shift

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"workforce-backend/internal/model"
)

// Clock is a wall-clock time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM" and "HH:MM:SS"; seconds are ignored.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	if len(s) == 5 {
		s += ":00"
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// Before reports whether c is strictly earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.minutes() < o.minutes()
}

// On combines the calendar date of day with c, in day's location.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Weekday returns the weekday index with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseDays reads a comma-separated list of weekday indices (0-6).
func ParseDays(s string) ([7]bool, error) {
	var days [7]bool
	parts := model.SplitList(s)
	if len(parts) == 0 {
		return days, fmt.Errorf("empty days_of_week")
	}
	for _, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil || d < 0 || d > 6 {
			return days, fmt.Errorf("invalid weekday %q", p)
		}
		days[d] = true
	}
	return days, nil
}

// WindowOn anchors a start/end pair to the calendar date of day. When end is
// not after start the shift crosses midnight and ends on the following date.
func WindowOn(shiftID uint, start, end Clock, day time.Time) model.ShiftWindow {
	endDay := day
	if !start.Before(end) {
		endDay = day.AddDate(0, 0, 1)
	}
	return model.ShiftWindow{
		ShiftID: shiftID,
		Start:   start.On(day),
		End:     end.On(endDay),
	}
}
