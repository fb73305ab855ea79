package scopes_test

import (
	"testing"

	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestForRole(t *testing.T) {
	assert.Equal(t, []string{scopes.ScopeAll}, scopes.ForRole(kernel.RoleRecruiter, true))
	assert.Contains(t, scopes.ForRole(kernel.RoleManager, false), scopes.ScopeJobsApprove)
	assert.NotContains(t, scopes.ForRole(kernel.RoleRecruiter, false), scopes.ScopeJobsApprove)
	assert.Contains(t, scopes.ForRole(kernel.RoleLegal, false), scopes.ScopeCandidatesLegalReview)
	assert.Empty(t, scopes.ForRole(kernel.Role("intern"), false))
}

func TestForRoleReturnsCopy(t *testing.T) {
	got := scopes.ForRole(kernel.RoleLegal, false)
	got[0] = "tampered"
	assert.NotEqual(t, "tampered", scopes.ForRole(kernel.RoleLegal, false)[0])
}

func TestExpandWildcardScope(t *testing.T) {
	expanded := scopes.ExpandWildcardScope(scopes.ScopeCandidatesAll)
	assert.Contains(t, expanded, scopes.ScopeCandidatesInvite)
	assert.NotContains(t, expanded, scopes.ScopeJobsRead)
	assert.Equal(t, []string{scopes.ScopeJobsRead}, scopes.ExpandWildcardScope(scopes.ScopeJobsRead))
}

func TestValidateScope(t *testing.T) {
	assert.True(t, scopes.ValidateScope(scopes.ScopeAll))
	assert.True(t, scopes.ValidateScope("users:reset_password"))
	assert.False(t, scopes.ValidateScope("tenants:read"))
}

func TestDescribe(t *testing.T) {
	assert.NotEmpty(t, scopes.Describe(scopes.ScopeMaintenancePurge))
	assert.NotEmpty(t, scopes.Describe(scopes.ScopeJobsApprove))
	assert.Empty(t, scopes.Describe("tenants:read"))
}

func TestEveryRoleScopeIsKnown(t *testing.T) {
	for _, role := range []kernel.Role{kernel.RoleAdmin, kernel.RoleRecruiter, kernel.RoleManager, kernel.RoleLegal} {
		for _, s := range scopes.ForRole(role, false) {
			assert.True(t, scopes.ValidateScope(s), "%s: %s", role, s)
		}
	}
}
