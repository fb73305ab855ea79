package kernel

import (
	"github.com/Abraxas-365/recruitflow/pkg/textx"
)

// Role is the function an RH account plays in the back office
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleManager   Role = "manager"
	RoleLegal     Role = "legal"
)

var roleSynonyms = map[string]Role{
	"admin":         RoleAdmin,
	"administrator": RoleAdmin,
	"administrador": RoleAdmin,
	"recruiter":     RoleRecruiter,
	"recrutador":    RoleRecruiter,
	"recrutadora":   RoleRecruiter,
	"rh":            RoleRecruiter,
	"manager":       RoleManager,
	"gestor":        RoleManager,
	"gestora":       RoleManager,
	"gerente":       RoleManager,
	"legal":         RoleLegal,
	"juridico":      RoleLegal,
}

// ParseRole normalizes a role string, accepting the Portuguese labels used by
// older rows. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	r, ok := roleSynonyms[textx.Key(s)]
	return r, ok
}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleRecruiter, RoleManager, RoleLegal:
		return true
	}
	return false
}
