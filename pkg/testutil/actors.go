package testutil

import (
	"context"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
)

// Actor builds an actor with the scopes of role and the given state
// assignments
func Actor(id string, role kernel.Role, states ...string) *kernel.AuthContext {
	uid := kernel.NewUserID(id)
	return &kernel.AuthContext{
		UserID:         &uid,
		Email:          id + "@empresa.com.br",
		Name:           id,
		Role:           role,
		Scopes:         scopes.ForRole(role, false),
		AssignedStates: states,
	}
}

// StaticActors is an in-memory actor loader keyed by user id
type StaticActors map[kernel.UserID]*kernel.AuthContext

func NewStaticActors(actors ...*kernel.AuthContext) StaticActors {
	out := make(StaticActors, len(actors))
	for _, a := range actors {
		out[*a.UserID] = a
	}
	return out
}

func (s StaticActors) LoadActor(ctx context.Context, id kernel.UserID) (*kernel.AuthContext, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, errx.New("actor not found", errx.TypeNotFound).WithDetail("user_id", id.String())
}
