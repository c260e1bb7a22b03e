package rules

import (
	"fmt"
	"sort"
	"strings"

	"workforce-backend/internal/model"
)

// DetectDoubleBadge scans resolved, timestamped events across all employees.
// Whenever a badge is presented by an employee other than the one who used
// it within the configured window (inclusive), it reports double_badge_use
// naming both employees. Events without an employee or a timestamp are
// ignored. Output is ordered by time of the second punch, then badge.
func DetectDoubleBadge(cfg Config, events []model.AttendanceEvent) []model.EventException {
	byBadge := make(map[string][]model.AttendanceEvent)
	for _, e := range events {
		badge := strings.TrimSpace(e.BadgeID)
		if badge == "" || !e.Resolved() || e.Timestamp.IsZero() {
			continue
		}
		byBadge[badge] = append(byBadge[badge], e)
	}

	window := cfg.doubleBadgeWindow()
	var out []model.EventException
	for badge, uses := range byBadge {
		sort.SliceStable(uses, func(i, j int) bool { return uses[i].Timestamp.Before(uses[j].Timestamp) })
		lo := 0
		for i, cur := range uses {
			for cur.Timestamp.Sub(uses[lo].Timestamp) > window {
				lo++
			}
			// Most recent earlier use by someone else.
			for j := i - 1; j >= lo; j-- {
				prev := uses[j]
				if prev.Employee() == cur.Employee() {
					continue
				}
				out = append(out, model.EventException{
					Code:             model.CodeDoubleBadgeUse,
					BadgeID:          badge,
					FirstEmployeeID:  prev.Employee(),
					SecondEmployeeID: cur.Employee(),
					FirstAt:          prev.Timestamp,
					SecondAt:         cur.Timestamp,
					Explanation: fmt.Sprintf("Badge %s used by employee %d and %d within %d minutes, possible proxy punching",
						badge, prev.Employee(), cur.Employee(), cfg.DoubleBadgeWindowMin),
				})
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SecondAt.Equal(out[j].SecondAt) {
			return out[i].SecondAt.Before(out[j].SecondAt)
		}
		return out[i].BadgeID < out[j].BadgeID
	})
	return out
}
