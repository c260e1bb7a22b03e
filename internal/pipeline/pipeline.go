// Package pipeline runs the batch reconciliation: identity resolution, shift
// assignment, session reconstruction and classification, with employees
// processed as independent partitions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"workforce-backend/internal/anomaly"
	"workforce-backend/internal/identity"
	"workforce-backend/internal/model"
	"workforce-backend/internal/rules"
	"workforce-backend/internal/session"
	"workforce-backend/internal/shift"
)

var ErrNoEvents = errors.New("pipeline: no attendance events")

type Input struct {
	Events    []model.AttendanceEvent
	Employees []model.Employee
	Shifts    []model.ShiftDefinition
	Swaps     []model.ShiftSwap
}

type Options struct {
	RunID           string // generated when empty
	Rules           rules.Config
	Workers         int            // defaults to GOMAXPROCS
	Location        *time.Location // timestamps are wall-clock in this zone, UTC by default
	ImputedDuration time.Duration
	Scorer          anomaly.Scorer // optional
}

type Result struct {
	Sessions        []model.WorkSession
	EventExceptions []model.EventException
	Report          Report
}

type Pipeline struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{log: log}
}

type partitionResult struct {
	employee      uint
	sessions      []model.WorkSession
	stats         session.Stats
	badTimestamps int
	problems      []string
}

// Run processes one fully loaded batch. Only structural problems (no events,
// invalid thresholds, cancelled context) return an error; per-record
// problems end up in the report.
func (p *Pipeline) Run(ctx context.Context, in Input, opts Options) (*Result, error) {
	if len(in.Events) == 0 {
		return nil, ErrNoEvents
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	log := p.log.With(zap.String("run_id", opts.RunID))

	report := newReport(opts.RunID)
	report.Events = len(in.Events)

	resolver := identity.NewResolver(in.Employees)
	for _, c := range resolver.Conflicts() {
		log.Warn("credential shared by several employees",
			zap.String("kind", string(c.Kind)), zap.String("key", c.Key),
			zap.Uint("kept", c.Kept), zap.Uint("dropped", c.Dropped))
	}
	report.CredentialConflicts = len(resolver.Conflicts())

	resolved, unresolved := resolver.ResolveAll(in.Events)
	report.Resolved = len(resolved)
	report.Unresolved = unresolved
	if unresolved > 0 {
		log.Warn("dropping events with unknown identity", zap.Int("count", unresolved))
	}

	assigner := shift.NewAssigner(in.Shifts, in.Swaps, log)
	report.IgnoredShifts, report.IgnoredSwaps = assigner.Ignored()

	partitions := partition(resolved)

	var (
		mu      sync.Mutex
		results = make([]partitionResult, 0, len(partitions))
		badges  []model.EventException
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	g.Go(func() error {
		found := p.detectDoubleBadge(opts, resolved)
		mu.Lock()
		badges = found
		mu.Unlock()
		return nil
	})
	for _, part := range partitions {
		part := part
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := p.processPartition(part.employee, part.events, assigner, opts)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pipeline: run %s: %w", opts.RunID, err)
	}

	var sessions []model.WorkSession
	for _, res := range results {
		sessions = append(sessions, res.sessions...)
		report.addPartition(res)
	}
	session.Number(sessions)
	for _, s := range sessions {
		report.countSession(s)
	}
	report.DoubleBadgeUses = len(badges)
	if len(badges) > 0 {
		report.ExceptionCounts[model.CodeDoubleBadgeUse] += len(badges)
	}

	log.Info("reconciliation finished",
		zap.Int("events", report.Events),
		zap.Int("unresolved", report.Unresolved),
		zap.Int("bad_timestamps", report.BadTimestamps),
		zap.Int("sessions", report.Sessions),
		zap.Int("imputed", report.Imputed),
		zap.Int("double_badge_uses", report.DoubleBadgeUses),
		zap.Int("partitions_with_errors", len(report.PartitionErrors)))

	return &Result{Sessions: sessions, EventExceptions: badges, Report: report}, nil
}

type employeeEvents struct {
	employee uint
	events   []model.AttendanceEvent
}

// partition groups resolved events by employee, ordered by employee id.
func partition(events []model.AttendanceEvent) []employeeEvents {
	idx := make(map[uint]int)
	var parts []employeeEvents
	for _, e := range events {
		emp := e.Employee()
		i, ok := idx[emp]
		if !ok {
			i = len(parts)
			idx[emp] = i
			parts = append(parts, employeeEvents{employee: emp})
		}
		parts[i].events = append(parts[i].events, e)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].employee < parts[j].employee })
	return parts
}

// processPartition handles one employee sequentially. Bad records and panics
// stay inside the partition and are returned as problems.
func (p *Pipeline) processPartition(emp uint, events []model.AttendanceEvent, assigner *shift.Assigner, opts Options) (res partitionResult) {
	res.employee = emp
	defer func() {
		if r := recover(); r != nil {
			res.sessions = nil
			res.problems = append(res.problems, fmt.Sprintf("partition aborted: %v", r))
			p.log.Error("partition aborted", zap.Uint("employee_id", emp), zap.Any("panic", r))
		}
	}()

	var unpaired []model.WorkSession
	tagged := make([]model.TaggedEvent, 0, len(events))
	for i := 0; i < len(events); i++ {
		e := events[i]
		ts, err := e.ParseTimestamp(opts.Location)
		if err != nil {
			res.badTimestamps++
			res.problems = append(res.problems, err.Error())
			p.log.Warn("skipping event with bad timestamp", zap.Uint("employee_id", emp), zap.Error(err))
			if e.EventType == model.EventCheckIn {
				// The CHECK_OUT right after it in input order closes it.
				var end *model.TaggedEvent
				if i+1 < len(events) && events[i+1].EventType == model.EventCheckOut {
					if next, ok := parseEvent(events[i+1], opts.Location); ok {
						t := assigner.Tag(next)
						end = &t
						i++
					}
				}
				unpaired = append(unpaired, session.Unpaired(e, end))
			}
			continue
		}
		e.Timestamp = ts
		tagged = append(tagged, assigner.Tag(e))
	}

	sessions, stats := session.Reconstruct(tagged, session.Options{ImputedDuration: opts.ImputedDuration})
	sessions = append(unpaired, sessions...)
	stats.Sessions += len(unpaired)
	for i := range sessions {
		sessions[i] = rules.Classify(opts.Rules, sessions[i])
		anomaly.Annotate(opts.Scorer, &sessions[i])
	}
	res.sessions = sessions
	res.stats = stats
	return res
}

func parseEvent(e model.AttendanceEvent, loc *time.Location) (model.AttendanceEvent, bool) {
	ts, err := e.ParseTimestamp(loc)
	if err != nil {
		return e, false
	}
	e.Timestamp = ts
	return e, true
}

// detectDoubleBadge works on its own parsed copy of the resolved events; the
// shared slice is only read.
func (p *Pipeline) detectDoubleBadge(opts Options, resolved []model.AttendanceEvent) []model.EventException {
	timed := make([]model.AttendanceEvent, 0, len(resolved))
	for _, e := range resolved {
		if parsed, ok := parseEvent(e, opts.Location); ok {
			timed = append(timed, parsed)
		}
	}
	found := rules.DetectDoubleBadge(opts.Rules, timed)
	for _, ex := range found {
		p.log.Warn("double badge use",
			zap.String("badge_id", ex.BadgeID),
			zap.Uint("first_employee_id", ex.FirstEmployeeID),
			zap.Uint("second_employee_id", ex.SecondEmployeeID),
			zap.Time("at", ex.SecondAt))
	}
	return found
}

// Reclassify evaluates stored sessions again, e.g. after thresholds change.
func Reclassify(cfg rules.Config, records []model.SessionRecord) []model.WorkSession {
	sessions := make([]model.WorkSession, 0, len(records))
	for _, r := range records {
		sessions = append(sessions, rules.Classify(cfg, r.ToSession()))
	}
	return sessions
}
