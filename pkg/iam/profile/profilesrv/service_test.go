package profilesrv_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profileinfra"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*profilesrv.ProfileService, *profileinfra.MemoryProfileRepository) {
	t.Helper()
	repo := profileinfra.NewMemoryProfileRepository()
	clock := testutil.NewManualClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	svc := profilesrv.NewProfileService(repo, profileinfra.NewBcryptPasswordService(bcrypt.MinCost), authz.NewGate(), clock, 8)
	return svc, repo
}

func bootstrap(t *testing.T, svc *profilesrv.ProfileService) *kernel.AuthContext {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@empresa.com.br", "Administrador", "s3nha-forte"))

	p, err := svc.Authenticate(ctx, "admin@empresa.com.br", "s3nha-forte")
	require.NoError(t, err)
	return p.AuthContext()
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@empresa.com.br", "Administrador", "s3nha-forte"))
	require.NoError(t, svc.EnsureAdmin(ctx, "outro@empresa.com.br", "Outro", "s3nha-forte"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kernel.RoleAdmin, all[0].Role)
	assert.True(t, all[0].IsAdmin)

	// empty bootstrap config is a no-op
	svc2, repo2 := newService(t)
	require.NoError(t, svc2.EnsureAdmin(ctx, "", "", ""))
	all, _ = repo2.List(ctx)
	assert.Empty(t, all)
}

func TestAuthenticateIsUniform(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	assert.Contains(t, admin.Scopes, scopes.ScopeAll)

	_, err := svc.Authenticate(ctx, "admin@empresa.com.br", "errada")
	assert.True(t, errx.IsCode(err, profile.CodeInvalidCreds))

	_, err = svc.Authenticate(ctx, "ninguem@empresa.com.br", "s3nha-forte")
	assert.True(t, errx.IsCode(err, profile.CodeInvalidCreds))
}

func TestCreateProfileAndRoleChangeAppliesOnNextLoad(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email:          "ana@empresa.com.br",
		Name:           "Ana",
		Role:           "recrutador",
		Password:       "senha-da-ana",
		AssignedStates: []string{" PA ", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, kernel.RoleRecruiter, p.Role)
	assert.NotEmpty(t, p.PasswordHash)

	actor, err := svc.LoadActor(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"PA"}, actor.AssignedStates)
	assert.False(t, actor.HasScope(scopes.ScopeJobsApprove))

	role := "gestor"
	_, err = svc.UpdateProfile(ctx, admin, p.ID, profile.UpdateProfileRequest{Role: &role})
	require.NoError(t, err)

	actor, err = svc.LoadActor(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, kernel.RoleManager, actor.Role)
	assert.True(t, actor.HasScope(scopes.ScopeJobsApprove))
}

func TestCreateProfileRejectsDuplicatesAndWeakPasswords(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email: "admin@empresa.com.br", Name: "Dup", Role: "legal", Password: "12345678",
	})
	assert.True(t, errx.IsCode(err, profile.CodeAlreadyExists))

	_, err = svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email: "x@empresa.com.br", Name: "Xis", Role: "estagiario", Password: "12345678",
	})
	assert.True(t, errx.IsCode(err, profile.CodeInvalidRole))

	list, err := svc.ListProfiles(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total, "a rejected role stores nothing")
}

func TestSelfActionsAreForbidden(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	// reading oneself is fine
	_, err := svc.GetProfile(ctx, admin, *admin.UserID)
	require.NoError(t, err)

	err = svc.DeleteProfile(ctx, admin, *admin.UserID)
	assert.True(t, errx.IsCode(err, authz.CodeSelfActionForbidden))

	off := false
	_, err = svc.UpdateProfile(ctx, admin, *admin.UserID, profile.UpdateProfileRequest{Active: &off})
	assert.True(t, errx.IsCode(err, authz.CodeSelfActionForbidden))

	err = svc.ResetPassword(ctx, admin, *admin.UserID, profile.ResetPasswordRequest{Password: "nova-senha-1"})
	assert.True(t, errx.IsCode(err, authz.CodeSelfActionForbidden))
}

func TestNonAdminsCannotAdministerProfiles(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email: "gestor@empresa.com.br", Name: "Gestor", Role: "manager", Password: "senha-gestor",
	})
	require.NoError(t, err)
	manager := p.AuthContext()

	_, err = svc.ListProfiles(ctx, manager)
	assert.True(t, errx.IsCode(err, authz.CodeInsufficientRole))

	// a manager can still read their own profile
	_, err = svc.GetProfile(ctx, manager, p.ID)
	require.NoError(t, err)

	_, err = svc.GetProfile(ctx, manager, *admin.UserID)
	assert.True(t, errx.IsCode(err, authz.CodeInsufficientRole))
}

func TestDeactivatedProfileCannotLoginOrLoad(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email: "juridico@empresa.com.br", Name: "Jurídico", Role: "legal", Password: "senha-legal",
	})
	require.NoError(t, err)

	off := false
	_, err = svc.UpdateProfile(ctx, admin, p.ID, profile.UpdateProfileRequest{Active: &off})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "juridico@empresa.com.br", "senha-legal")
	assert.True(t, errx.IsCode(err, profile.CodeInvalidCreds))

	_, err = svc.LoadActor(ctx, p.ID)
	assert.True(t, errx.IsCode(err, profile.CodeInactive))
}

func TestResetPassword(t *testing.T) {
	svc, _ := newService(t)
	admin := bootstrap(t, svc)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, admin, profile.CreateProfileRequest{
		Email: "rh@empresa.com.br", Name: "RH", Role: "recruiter", Password: "senha-antiga",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, admin, p.ID, profile.ResetPasswordRequest{Password: "senha-nova-1"}))

	_, err = svc.Authenticate(ctx, "rh@empresa.com.br", "senha-antiga")
	assert.Error(t, err)
	_, err = svc.Authenticate(ctx, "rh@empresa.com.br", "senha-nova-1")
	assert.NoError(t, err)
}
