// Package regionscope computes which (state, city) records an RH actor may observe.
package regionscope

import (
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// Region is the location of a job or candidate
type Region struct {
	State string
	City  string
}

// Predicate decides whether a region is visible
type Predicate func(Region) bool

func allowAll(Region) bool { return true }

// Resolve builds the visibility predicate for actor. It reads the actor's
// assignments at call time; callers must resolve per query.
//
// Admins (by role or flag) and legal reviewers are unrestricted, as are
// recruiters and managers without any state or city assignment. Otherwise a
// region passes when it matches every non-empty assignment list. A record
// with no value for a restricted dimension never matches.
func Resolve(actor *kernel.AuthContext) Predicate {
	if actor == nil {
		return func(Region) bool { return false }
	}
	if actor.IsSuperuser() || actor.Role == kernel.RoleLegal {
		return allowAll
	}
	if len(actor.AssignedStates) == 0 && len(actor.AssignedCities) == 0 {
		return allowAll
	}

	states := fold(actor.AssignedStates)
	cities := fold(actor.AssignedCities)

	return func(r Region) bool {
		return matches(states, r.State) && matches(cities, r.City)
	}
}

// IsUnrestricted reports whether Resolve would allow every region
func IsUnrestricted(actor *kernel.AuthContext) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser() || actor.Role == kernel.RoleLegal ||
		(len(actor.AssignedStates) == 0 && len(actor.AssignedCities) == 0)
}

func matches(allowed map[string]struct{}, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	v := textx.Fold(value)
	if v == "" {
		return false
	}
	_, ok := allowed[v]
	return ok
}

func fold(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		if f := textx.Fold(v); f != "" {
			out[f] = struct{}{}
		}
	}
	return out
}

// DepartmentPredicate is the manager department dimension. It is composed with
// the region predicate by the authorization gate. Only managers with at least
// one assigned department are narrowed; records without a department (talent
// bank submissions) are not constrained by it.
func DepartmentPredicate(actor *kernel.AuthContext) func(department string) bool {
	if actor == nil || actor.IsSuperuser() || actor.Role != kernel.RoleManager || len(actor.AssignedDepartments) == 0 {
		return func(string) bool { return true }
	}
	allowed := fold(actor.AssignedDepartments)
	return func(department string) bool {
		d := textx.Fold(department)
		if d == "" {
			return true
		}
		_, ok := allowed[d]
		return ok
	}
}
