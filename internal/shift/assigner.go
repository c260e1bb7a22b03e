// Package shift matches attendance events to scheduled shift windows,
// including overnight shifts and approved shift swaps.
package shift

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"workforce-backend/internal/model"
)

type definition struct {
	id       uint
	employee uint
	start    Clock
	end      Clock
	days     [7]bool
}

type swapKey struct {
	employee uint
	date     string
}

type Assigner struct {
	log        *zap.Logger
	byID       map[uint]definition
	byEmployee map[uint][]definition
	swaps      map[swapKey]uint

	ignoredShifts int
	ignoredSwaps  int
}

// NewAssigner compiles the shift directory and the swap list. Malformed
// shifts and swaps are logged and skipped; assignment then falls back to the
// employee's default shifts.
func NewAssigner(shifts []model.ShiftDefinition, swaps []model.ShiftSwap, log *zap.Logger) *Assigner {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Assigner{
		log:        log,
		byID:       make(map[uint]definition),
		byEmployee: make(map[uint][]definition),
		swaps:      make(map[swapKey]uint),
	}
	for _, s := range shifts {
		def, err := compile(s)
		if err != nil {
			a.ignoredShifts++
			log.Warn("ignoring malformed shift", zap.Uint("shift_id", s.ShiftID), zap.Error(err))
			continue
		}
		if _, dup := a.byID[def.id]; dup {
			a.ignoredShifts++
			log.Warn("ignoring duplicate shift id", zap.Uint("shift_id", s.ShiftID))
			continue
		}
		a.byID[def.id] = def
		a.byEmployee[def.employee] = append(a.byEmployee[def.employee], def)
	}
	for _, sw := range swaps {
		a.addSwap(sw)
	}
	return a
}

func compile(s model.ShiftDefinition) (definition, error) {
	start, err := ParseClock(s.StartTime)
	if err != nil {
		return definition{}, err
	}
	end, err := ParseClock(s.EndTime)
	if err != nil {
		return definition{}, err
	}
	days, err := ParseDays(s.DaysOfWeek)
	if err != nil {
		return definition{}, err
	}
	return definition{id: s.ShiftID, employee: s.EmployeeID, start: start, end: end, days: days}, nil
}

func (a *Assigner) addSwap(sw model.ShiftSwap) {
	if !strings.EqualFold(strings.TrimSpace(sw.Status), model.SwapApproved) {
		a.log.Debug("skipping swap that is not approved", zap.Uint("swap_id", sw.SwapID), zap.String("status", sw.Status))
		return
	}
	day, err := time.Parse(model.DateLayout, strings.TrimSpace(sw.SwapDate))
	if err != nil {
		a.ignoredSwaps++
		a.log.Warn("ignoring swap with bad date", zap.Uint("swap_id", sw.SwapID), zap.String("swap_date", sw.SwapDate))
		return
	}
	_, ok1 := a.byID[sw.ShiftID1]
	_, ok2 := a.byID[sw.ShiftID2]
	if !ok1 || !ok2 || sw.EmployeeID1 == sw.EmployeeID2 {
		a.ignoredSwaps++
		a.log.Warn("ignoring swap with unknown shifts", zap.Uint("swap_id", sw.SwapID),
			zap.Uint("shift_id_1", sw.ShiftID1), zap.Uint("shift_id_2", sw.ShiftID2))
		return
	}
	date := day.Format(model.DateLayout)
	k1 := swapKey{employee: sw.EmployeeID1, date: date}
	k2 := swapKey{employee: sw.EmployeeID2, date: date}
	if _, dup := a.swaps[k1]; dup {
		a.ignoredSwaps++
		a.log.Warn("ignoring second swap for the same day", zap.Uint("swap_id", sw.SwapID), zap.Uint("employee_id", sw.EmployeeID1))
		return
	}
	if _, dup := a.swaps[k2]; dup {
		a.ignoredSwaps++
		a.log.Warn("ignoring second swap for the same day", zap.Uint("swap_id", sw.SwapID), zap.Uint("employee_id", sw.EmployeeID2))
		return
	}
	a.swaps[k1] = sw.ShiftID2
	a.swaps[k2] = sw.ShiftID1
}

// Ignored returns how many shift definitions and swaps were rejected.
func (a *Assigner) Ignored() (shifts, swaps int) {
	return a.ignoredShifts, a.ignoredSwaps
}

// candidates returns the shifts an employee works on date, before weekday
// filtering. An approved swap replaces the default set for that date.
func (a *Assigner) candidates(employee uint, date string) []definition {
	if id, ok := a.swaps[swapKey{employee: employee, date: date}]; ok {
		return []definition{a.byID[id]}
	}
	return a.byEmployee[employee]
}

// Assign returns the shift window governing e, or nil when e is unscheduled.
// e.Timestamp must already be parsed.
func (a *Assigner) Assign(e model.AttendanceEvent) *model.ShiftWindow {
	if !e.Resolved() || e.Timestamp.IsZero() {
		return nil
	}
	ts := e.Timestamp
	weekday := Weekday(ts)

	var best *model.ShiftWindow
	var bestDist time.Duration
	for _, def := range a.candidates(e.Employee(), ts.Format(model.DateLayout)) {
		if !def.days[weekday] {
			continue
		}
		w := WindowOn(def.id, def.start, def.end, ts)
		dist := absDuration(w.Start.Sub(ts))
		if best == nil || dist < bestDist || (dist == bestDist && w.ShiftID < best.ShiftID) {
			win := w
			best = &win
			bestDist = dist
		}
	}
	return best
}

// Tag attaches the governing shift window to e.
func (a *Assigner) Tag(e model.AttendanceEvent) model.TaggedEvent {
	return model.TaggedEvent{AttendanceEvent: e, Shift: a.Assign(e)}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
