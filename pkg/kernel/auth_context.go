package kernel

import "slices"

// AuthContext is the authenticated RH actor attached to a request.
// It is rebuilt from the stored profile on every request so that role and
// region assignments are never stale.
type AuthContext struct {
	UserID  *UserID  `json:"user_id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Role    Role     `json:"role"`
	IsAdmin bool     `json:"is_admin"`
	Scopes  []string `json:"scopes"`

	AssignedStates      []string `json:"assigned_states"`
	AssignedCities      []string `json:"assigned_cities"`
	AssignedDepartments []string `json:"assigned_departments"`
}

// IsValid verifica que el contexto tenga un usuario
func (a *AuthContext) IsValid() bool {
	return a != nil && a.UserID != nil && !a.UserID.IsEmpty()
}

// ActorID returns the user id, or "" for an anonymous context
func (a *AuthContext) ActorID() string {
	if a == nil || a.UserID == nil {
		return ""
	}
	return a.UserID.String()
}

// IsSuperuser reports admin role or the is_admin flag
func (a *AuthContext) IsSuperuser() bool {
	return a != nil && (a.Role == RoleAdmin || a.IsAdmin)
}

// HasScope verifica si el actor tiene un scope, respetando comodines ("*", "jobs:*")
func (a *AuthContext) HasScope(scope string) bool {
	for _, s := range a.Scopes {
		if s == scope || s == "*" {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-2]
			if len(scope) > len(prefix) && scope[:len(prefix)] == prefix && scope[len(prefix)] == ':' {
				return true
			}
		}
	}
	return false
}

func (a *AuthContext) HasAnyScope(scopes ...string) bool {
	return slices.ContainsFunc(scopes, a.HasScope)
}

func (a *AuthContext) HasAllScopes(scopes ...string) bool {
	for _, s := range scopes {
		if !a.HasScope(s) {
			return false
		}
	}
	return true
}
