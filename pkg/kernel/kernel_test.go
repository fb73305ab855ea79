package kernel_test

import (
	"testing"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	r, ok := kernel.ParseRole("Jurídico")
	assert.True(t, ok)
	assert.Equal(t, kernel.RoleLegal, r)

	r, ok = kernel.ParseRole("GESTOR")
	assert.True(t, ok)
	assert.Equal(t, kernel.RoleManager, r)

	_, ok = kernel.ParseRole("estagiario")
	assert.False(t, ok)
}

func TestHasScopeWildcards(t *testing.T) {
	uid := kernel.NewUserID("u1")
	actor := &kernel.AuthContext{UserID: &uid, Scopes: []string{"jobs:*", "candidates:read"}}

	assert.True(t, actor.HasScope("jobs:approve"))
	assert.True(t, actor.HasScope("candidates:read"))
	assert.False(t, actor.HasScope("candidates:write"))
	assert.False(t, actor.HasScope("jobsx:read"))
	assert.True(t, actor.HasAnyScope("candidates:write", "jobs:read"))
	assert.False(t, actor.HasAllScopes("candidates:write", "jobs:read"))
}

func TestIsSuperuser(t *testing.T) {
	assert.True(t, (&kernel.AuthContext{Role: kernel.RoleRecruiter, IsAdmin: true}).IsSuperuser())
	assert.True(t, (&kernel.AuthContext{Role: kernel.RoleAdmin}).IsSuperuser())
	assert.False(t, (&kernel.AuthContext{Role: kernel.RoleManager}).IsSuperuser())

	var nilActor *kernel.AuthContext
	assert.False(t, nilActor.IsValid())
	assert.Equal(t, "", nilActor.ActorID())
}
