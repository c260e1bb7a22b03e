// Package session pairs per-employee punches into work sessions.
package session

import (
	"sort"
	"time"

	"workforce-backend/internal/model"
)

// DefaultImputedDuration closes a CHECK_IN that never sees its CHECK_OUT.
const DefaultImputedDuration = 8 * time.Hour

type Options struct {
	ImputedDuration time.Duration
}

func (o Options) imputed() time.Duration {
	if o.ImputedDuration <= 0 {
		return DefaultImputedDuration
	}
	return o.ImputedDuration
}

// Stats counts what happened to the punches of one reconstruction.
type Stats struct {
	Sessions          int
	Imputed           int
	OrphanCheckouts   int
	UnknownEventTypes int
	MissingTimestamps int
}

func (s *Stats) Add(o Stats) {
	s.Sessions += o.Sessions
	s.Imputed += o.Imputed
	s.OrphanCheckouts += o.OrphanCheckouts
	s.UnknownEventTypes += o.UnknownEventTypes
	s.MissingTimestamps += o.MissingTimestamps
}

type state int

const (
	idle state = iota
	awaitingCheckout
)

// Reconstruct sorts events by (employee, timestamp) and scans every
// employee's run with a two-state machine. Every CHECK_IN yields exactly one
// session; a CHECK_IN left open by another CHECK_IN, by the end of the
// employee's run or by the end of the stream is closed by imputation.
// Sessions carry no id; see Number.
func Reconstruct(events []model.TaggedEvent, opts Options) ([]model.WorkSession, Stats) {
	var stats Stats
	sorted := make([]model.TaggedEvent, 0, len(events))
	for _, e := range events {
		if !e.Resolved() {
			continue
		}
		if e.Timestamp.IsZero() {
			stats.MissingTimestamps++
			continue
		}
		sorted = append(sorted, e)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Employee() != sorted[j].Employee() {
			return sorted[i].Employee() < sorted[j].Employee()
		}
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var sessions []model.WorkSession
	for start := 0; start < len(sorted); {
		end := start
		for end < len(sorted) && sorted[end].Employee() == sorted[start].Employee() {
			end++
		}
		out, st := pair(sorted[start:end], opts.imputed())
		sessions = append(sessions, out...)
		stats.Add(st)
		start = end
	}
	return sessions, stats
}

// pair runs the state machine over one employee's sorted punches.
func pair(events []model.TaggedEvent, imputed time.Duration) ([]model.WorkSession, Stats) {
	var (
		stats    Stats
		sessions []model.WorkSession
		open     model.TaggedEvent
		st       = idle
	)
	closeImputed := func() {
		sessions = append(sessions, build(open, open.Timestamp.Add(imputed), true))
		stats.Imputed++
	}

	for _, e := range events {
		switch e.EventType {
		case model.EventCheckIn:
			if st == awaitingCheckout {
				closeImputed()
			}
			open = e
			st = awaitingCheckout
		case model.EventCheckOut:
			if st == idle {
				stats.OrphanCheckouts++
				continue
			}
			sessions = append(sessions, build(open, e.Timestamp, false))
			st = idle
		default:
			stats.UnknownEventTypes++
		}
	}
	if st == awaitingCheckout {
		closeImputed()
	}
	stats.Sessions = len(sessions)
	return sessions, stats
}

func build(in model.TaggedEvent, end time.Time, imputed bool) model.WorkSession {
	s := model.WorkSession{
		EmployeeID:  in.Employee(),
		ActualStart: in.Timestamp,
		ActualEnd:   end,
		WorkedHours: hours(end.Sub(in.Timestamp)),
		IsImputed:   imputed,
		Facility:    in.Facility,
		SessionDate: in.Timestamp.Format(model.DateLayout),
	}
	if w := in.Shift; w != nil {
		id, start, stop := w.ShiftID, w.Start, w.End
		s.ShiftID = &id
		s.ShiftStart = &start
		s.ShiftEnd = &stop
		if end.After(stop) {
			s.OvertimeHours = hours(end.Sub(stop))
		}
		s.IsPartial = in.Timestamp.After(start) || end.Before(stop)
	}
	return s
}

func hours(d time.Duration) float64 {
	return float64(d) / float64(time.Hour)
}

// Number sorts sessions by (employee, actual start) and assigns ids 1..n.
// Ids are unique and increasing within one run only.
func Number(sessions []model.WorkSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].EmployeeID != sessions[j].EmployeeID {
			return sessions[i].EmployeeID < sessions[j].EmployeeID
		}
		return sessions[i].ActualStart.Before(sessions[j].ActualStart)
	})
	for i := range sessions {
		sessions[i].SessionID = uint64(i + 1)
	}
}

// Unpaired builds the session of a CHECK_IN whose timestamp could not be
// read. ActualStart stays zero; end is the CHECK_OUT that followed it, if
// any. Shift fields are left empty since the start is unknown.
func Unpaired(in model.AttendanceEvent, end *model.TaggedEvent) model.WorkSession {
	s := model.WorkSession{
		EmployeeID: in.Employee(),
		Facility:   in.Facility,
	}
	if end != nil && !end.Timestamp.IsZero() {
		s.ActualEnd = end.Timestamp
		s.SessionDate = end.Timestamp.Format(model.DateLayout)
	}
	return s
}
