package authz_test

import (
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actor(id string, role kernel.Role, states, cities []string) *kernel.AuthContext {
	uid := kernel.NewUserID(id)
	return &kernel.AuthContext{
		UserID:         &uid,
		Role:           role,
		Scopes:         scopes.ForRole(role, false),
		AssignedStates: states,
		AssignedCities: cities,
	}
}

func jobIn(state, city string) authz.Target {
	return authz.Target{Kind: authz.KindJob, ID: "j1", Region: regionscope.Region{State: state, City: city}}
}

func TestRecruiterOutsideRegionCannotView(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, []string{"PA"}, nil)

	d := gate.Authorize(recruiter, authz.ActionView, jobIn("SP", "São Paulo"))
	assert.Equal(t, authz.ReasonOutOfRegionScope, d.Reason)

	d = gate.Authorize(recruiter, authz.ActionView, jobIn("pa", "Belém"))
	assert.True(t, d.Allowed)
}

func TestRegionDimensionsAreAnded(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, []string{"PA"}, []string{"Belém"})

	assert.True(t, gate.CanView(recruiter, jobIn("PA", "belem")))
	assert.False(t, gate.CanView(recruiter, jobIn("PA", "Ananindeua")))
	assert.False(t, gate.CanView(recruiter, jobIn("AM", "Belém")))
	assert.False(t, gate.CanView(recruiter, jobIn("PA", "")))
}

func TestBoundCandidateNeedsBothRegions(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, []string{"PA"}, nil)
	candidateIn := func(own, bound string) authz.Target {
		jobRegion := regionscope.Region{State: bound}
		return authz.Target{Kind: authz.KindCandidate, ID: "c1", Region: regionscope.Region{State: own}, JobRegion: &jobRegion}
	}

	assert.True(t, gate.CanView(recruiter, candidateIn("PA", "PA")))
	assert.False(t, gate.CanView(recruiter, candidateIn("SP", "PA")))
	assert.False(t, gate.CanView(recruiter, candidateIn("PA", "SP")))

	admin := actor("a1", kernel.RoleAdmin, nil, nil)
	assert.True(t, gate.CanView(admin, candidateIn("SP", "RS")))
}

func TestUnassignedRecruiterIsGlobal(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, nil, nil)
	assert.True(t, gate.CanView(recruiter, jobIn("RS", "Porto Alegre")))
}

func TestRecruiterCannotApprove(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, nil, nil)

	err := gate.Check(recruiter, authz.ActionApprove, jobIn("PA", "Belém"))
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, authz.CodeInsufficientRole))
}

func TestRoleIsCheckedBeforeRegion(t *testing.T) {
	gate := authz.NewGate()
	recruiter := actor("r1", kernel.RoleRecruiter, []string{"PA"}, nil)

	d := gate.Authorize(recruiter, authz.ActionApprove, jobIn("SP", "Campinas"))
	assert.Equal(t, authz.ReasonInsufficientRole, d.Reason)
}

func TestManagerApprovesOnlyInScope(t *testing.T) {
	gate := authz.NewGate()
	manager := actor("m1", kernel.RoleManager, []string{"PA"}, nil)

	assert.True(t, gate.Authorize(manager, authz.ActionApprove, jobIn("PA", "Belém")).Allowed)
	assert.Equal(t, authz.ReasonOutOfRegionScope, gate.Authorize(manager, authz.ActionApprove, jobIn("AM", "Manaus")).Reason)
}

func TestManagerDepartmentScope(t *testing.T) {
	gate := authz.NewGate()
	manager := actor("m1", kernel.RoleManager, nil, nil)
	manager.AssignedDepartments = []string{"Logística"}

	target := jobIn("PA", "Belém")
	target.Department = "logistica"
	assert.True(t, gate.CanView(manager, target))

	target.Department = "Financeiro"
	assert.False(t, gate.CanView(manager, target))

	target.Department = ""
	assert.True(t, gate.CanView(manager, target))
}

func TestAdminBypassesRegionButNotSelfAction(t *testing.T) {
	gate := authz.NewGate()
	admin := actor("a1", kernel.RoleAdmin, []string{"PA"}, nil)

	assert.True(t, gate.Authorize(admin, authz.ActionApprove, jobIn("SP", "Campinas")).Allowed)

	d := gate.Authorize(admin, authz.ActionDelete, authz.ForProfile(kernel.NewUserID("a1")))
	assert.Equal(t, authz.ReasonSelfActionForbidden, d.Reason)

	d = gate.Authorize(admin, authz.ActionResetPassword, authz.ForProfile(kernel.NewUserID("a1")))
	assert.Equal(t, authz.ReasonSelfActionForbidden, d.Reason)

	assert.True(t, gate.Authorize(admin, authz.ActionDelete, authz.ForProfile(kernel.NewUserID("r9"))).Allowed)
	assert.True(t, gate.Authorize(admin, authz.ActionView, authz.ForProfile(kernel.NewUserID("a1"))).Allowed)
}

func TestIsAdminFlagPromotes(t *testing.T) {
	gate := authz.NewGate()
	uid := kernel.NewUserID("x")
	flagged := &kernel.AuthContext{
		UserID:         &uid,
		Role:           kernel.RoleRecruiter,
		IsAdmin:        true,
		Scopes:         scopes.ForRole(kernel.RoleRecruiter, true),
		AssignedStates: []string{"PA"},
	}
	assert.True(t, gate.Authorize(flagged, authz.ActionApprove, jobIn("SP", "Campinas")).Allowed)
}

func TestLegalIsUnrestrictedButCannotApproveJobs(t *testing.T) {
	gate := authz.NewGate()
	legal := actor("l1", kernel.RoleLegal, []string{"PA"}, nil)

	candidate := authz.Target{Kind: authz.KindCandidate, ID: "c1", Region: regionscope.Region{State: "SP"}}
	assert.True(t, gate.Authorize(legal, authz.ActionLegalReview, candidate).Allowed)
	assert.True(t, gate.CanView(legal, jobIn("SP", "Campinas")))
	assert.Equal(t, authz.ReasonInsufficientRole, gate.Authorize(legal, authz.ActionApprove, jobIn("PA", "Belém")).Reason)
}

func TestDeletedJobBlocksViewAndInvite(t *testing.T) {
	gate := authz.NewGate()
	admin := actor("a1", kernel.RoleAdmin, nil, nil)
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	by := kernel.NewUserID("a1")

	j := &job.Job{ID: "j1", Status: job.StatusActive, DeletedAt: &now, DeletedBy: &by}
	target := authz.ForJob(j)
	assert.Equal(t, authz.ReasonEntityDeleted, gate.Authorize(admin, authz.ActionView, target).Reason)
	assert.Equal(t, authz.ReasonEntityDeleted, gate.Authorize(admin, authz.ActionInvite, target).Reason)
	assert.True(t, gate.Authorize(admin, authz.ActionDelete, target).Allowed)
}

func TestAnonymousIsDenied(t *testing.T) {
	gate := authz.NewGate()
	err := gate.Check(nil, authz.ActionView, jobIn("PA", "Belém"))
	assert.True(t, errx.IsCode(err, authz.CodeUnauthenticated))
}

func TestUnknownCombinationDenied(t *testing.T) {
	gate := authz.NewGate()
	admin := actor("a1", kernel.RoleAdmin, nil, nil)
	assert.Equal(t, authz.ReasonInsufficientRole, gate.Authorize(admin, authz.ActionLegalReview, jobIn("PA", "")).Reason)
}
