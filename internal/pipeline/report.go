package pipeline

import "workforce-backend/internal/model"

// Report counts everything a run dropped, inferred or flagged, so nothing
// is discarded without trace.
type Report struct {
	RunID               string            `yaml:"run_id"`
	Events              int               `yaml:"events"`
	Resolved            int               `yaml:"resolved"`
	Unresolved          int               `yaml:"unresolved"`
	CredentialConflicts int               `yaml:"credential_conflicts"`
	BadTimestamps       int               `yaml:"bad_timestamps"`
	UnknownEventTypes   int               `yaml:"unknown_event_types"`
	OrphanCheckouts     int               `yaml:"orphan_checkouts"`
	Sessions            int               `yaml:"sessions"`
	Imputed             int               `yaml:"imputed"`
	IgnoredShifts       int               `yaml:"ignored_shifts"`
	IgnoredSwaps        int               `yaml:"ignored_swaps"`
	DoubleBadgeUses     int               `yaml:"double_badge_uses"`
	Unscheduled         int               `yaml:"unscheduled"`
	ExceptionCounts     map[string]int    `yaml:"exception_counts"`
	PartitionErrors     map[uint][]string `yaml:"partition_errors,omitempty"` // employee_id -> problems
}

func newReport(runID string) Report {
	return Report{
		RunID:           runID,
		ExceptionCounts: make(map[string]int),
		PartitionErrors: make(map[uint][]string),
	}
}

func (r *Report) addPartition(res partitionResult) {
	r.BadTimestamps += res.badTimestamps
	r.UnknownEventTypes += res.stats.UnknownEventTypes
	r.OrphanCheckouts += res.stats.OrphanCheckouts
	r.Imputed += res.stats.Imputed
	if len(res.problems) > 0 {
		r.PartitionErrors[res.employee] = append(r.PartitionErrors[res.employee], res.problems...)
	}
}

func (r *Report) countSession(s model.WorkSession) {
	r.Sessions++
	if s.ShiftID == nil {
		r.Unscheduled++
	}
	for _, code := range s.ExceptionCodes {
		r.ExceptionCounts[code]++
	}
}
