package scopes

import (
	"slices"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
)

// catalog is every concrete scope, grouped by category
var catalog = mergeCategories(CommonScopeCategories, DomainScopeCategories)

func mergeCategories(sets ...map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for _, set := range sets {
		for category, list := range set {
			out[category] = append(out[category], list...)
		}
	}
	return out
}

// ForRole returns the scope template of an RH role. is_admin promotes any
// role to the admin template. Unknown roles get no scopes.
func ForRole(role kernel.Role, isAdmin bool) []string {
	if isAdmin {
		role = kernel.RoleAdmin
	}
	return slices.Clone(DomainScopeGroups[string(role)])
}

// Describe returns the label shown next to a scope in the admin screens
func Describe(scope string) string {
	if desc, ok := CommonScopeDescriptions[scope]; ok {
		return desc
	}
	return DomainScopeDescriptions[scope]
}

// ValidateScope reports whether scope is "*" or part of the catalog
func ValidateScope(scope string) bool {
	if scope == ScopeAll {
		return true
	}
	for _, list := range catalog {
		if slices.Contains(list, scope) {
			return true
		}
	}
	return false
}

// ExpandWildcardScope lists the concrete scopes behind a wildcard such as
// "candidates:*". Non-wildcard scopes come back unchanged.
func ExpandWildcardScope(scope string) []string {
	if scope != ScopeAll && !strings.HasSuffix(scope, ":*") {
		return []string{scope}
	}
	prefix := strings.TrimSuffix(scope, "*")
	var expanded []string
	for _, list := range catalog {
		for _, s := range list {
			if strings.HasSuffix(s, ":*") || s == ScopeAll {
				continue
			}
			if scope == ScopeAll || strings.HasPrefix(s, prefix) {
				expanded = append(expanded, s)
			}
		}
	}
	slices.Sort(expanded)
	return expanded
}
