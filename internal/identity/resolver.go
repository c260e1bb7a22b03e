// Package identity maps badge and phone credentials to canonical employees.
package identity

import (
	"strings"

	"workforce-backend/internal/model"
)

// Source tells which signal resolved an event.
type Source string

const (
	SourceNone     Source = ""
	SourceExplicit Source = "explicit"
	SourceBadge    Source = "badge"
	SourcePhone    Source = "phone"
)

// Conflict records a credential claimed by more than one employee. The first
// claimant in directory order wins.
type Conflict struct {
	Kind    Source
	Key     string
	Kept    uint
	Dropped uint
}

type Resolver struct {
	byBadge   map[string]uint
	byPhone   map[string]uint
	conflicts []Conflict
}

func NewResolver(employees []model.Employee) *Resolver {
	r := &Resolver{
		byBadge: make(map[string]uint),
		byPhone: make(map[string]uint),
	}
	for _, emp := range employees {
		for _, badge := range emp.Badges() {
			r.index(SourceBadge, r.byBadge, badge, emp.EmployeeID)
		}
		if phone := emp.Phone(); phone != "" {
			r.index(SourcePhone, r.byPhone, phone, emp.EmployeeID)
		}
	}
	return r
}

func (r *Resolver) index(kind Source, m map[string]uint, key string, id uint) {
	if prev, ok := m[key]; ok {
		if prev != id {
			r.conflicts = append(r.conflicts, Conflict{Kind: kind, Key: key, Kept: prev, Dropped: id})
		}
		return
	}
	m[key] = id
}

// Conflicts lists credentials shared between employees in the directory.
func (r *Resolver) Conflicts() []Conflict {
	return r.conflicts
}

// Resolve fills EmployeeID using explicit id > badge > phone. Events that
// already carry an id come back unchanged, so Resolve is idempotent.
func (r *Resolver) Resolve(e model.AttendanceEvent) (model.AttendanceEvent, Source, bool) {
	if e.Resolved() {
		return e, SourceExplicit, true
	}
	if id, ok := r.byBadge[strings.TrimSpace(e.BadgeID)]; ok {
		return e.WithEmployee(id), SourceBadge, true
	}
	if e.PhoneID != nil {
		if id, ok := r.byPhone[strings.TrimSpace(*e.PhoneID)]; ok {
			return e.WithEmployee(id), SourcePhone, true
		}
	}
	return e, SourceNone, false
}

// ResolveAll resolves every event, dropping the ones nothing matches.
func (r *Resolver) ResolveAll(events []model.AttendanceEvent) ([]model.AttendanceEvent, int) {
	resolved := make([]model.AttendanceEvent, 0, len(events))
	dropped := 0
	for _, e := range events {
		out, _, ok := r.Resolve(e)
		if !ok {
			dropped++
			continue
		}
		resolved = append(resolved, out)
	}
	return resolved, dropped
}
