package authz

import (
	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
)

// ============================================================================
// Actions and targets
// ============================================================================

type Action string

const (
	ActionView           Action = "view"
	ActionCreate         Action = "create"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionTransitionFlow Action = "transition_flow"
	ActionInvite         Action = "invite"
	ActionDelete         Action = "delete"
	ActionLegalReview    Action = "legal_review"
	ActionUpdate         Action = "update"
	ActionResetPassword  Action = "reset_password"
)

type Kind string

const (
	KindJob         Kind = "job"
	KindCandidate   Kind = "candidate"
	KindProfile     Kind = "profile"
	KindMaintenance Kind = "maintenance"
)

// Target describes what an action is applied to. Region and Department are
// only consulted for jobs and candidates. A candidate bound to a job carries
// the job's region in JobRegion and must pass on both.
type Target struct {
	Kind       Kind
	ID         string
	Region     regionscope.Region
	JobRegion  *regionscope.Region
	Department string
	Deleted    bool
}

// ForJob builds the target for an action on j
func ForJob(j *job.Job) Target {
	return Target{
		Kind:       KindJob,
		ID:         j.ID.String(),
		Region:     j.Region(),
		Department: j.Department,
		Deleted:    j.IsDeleted(),
	}
}

// ForProfile builds the target for an RH account action
func ForProfile(id kernel.UserID) Target {
	return Target{Kind: KindProfile, ID: id.String()}
}

// ============================================================================
// Decision
// ============================================================================

type DenyReason string

const (
	ReasonNone                DenyReason = ""
	ReasonUnauthenticated     DenyReason = "unauthenticated"
	ReasonInsufficientRole    DenyReason = "insufficient_role"
	ReasonOutOfRegionScope    DenyReason = "out_of_region_scope"
	ReasonSelfActionForbidden DenyReason = "self_action_forbidden"
	ReasonEntityDeleted       DenyReason = "entity_deleted"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(r DenyReason) Decision  { return Decision{Reason: r} }
func (d Decision) IsDenied() bool { return !d.Allowed }

func (d Decision) String() string {
	if d.Allowed {
		return "allow"
	}
	return "deny(" + string(d.Reason) + ")"
}

// Err converts a denial into its errx error, nil when allowed
func (d Decision) Err() *errx.Error {
	switch d.Reason {
	case ReasonNone:
		return nil
	case ReasonUnauthenticated:
		return ErrUnauthenticated()
	case ReasonOutOfRegionScope:
		return ErrOutOfRegionScope()
	case ReasonSelfActionForbidden:
		return ErrSelfActionForbidden()
	case ReasonEntityDeleted:
		return ErrEntityDeleted()
	default:
		return ErrInsufficientRole()
	}
}

// ============================================================================
// Gate
// ============================================================================

// requiredScopes maps (kind, action) to the scope an actor must hold.
// Combinations absent from the table are always denied.
var requiredScopes = map[Kind]map[Action]string{
	KindJob: {
		ActionView:           scopes.ScopeJobsRead,
		ActionCreate:         scopes.ScopeJobsWrite,
		ActionTransitionFlow: scopes.ScopeJobsWrite,
		ActionApprove:        scopes.ScopeJobsApprove,
		ActionReject:         scopes.ScopeJobsApprove,
		ActionDelete:         scopes.ScopeJobsDelete,
		ActionInvite:         scopes.ScopeCandidatesInvite,
	},
	KindCandidate: {
		ActionView:           scopes.ScopeCandidatesRead,
		ActionTransitionFlow: scopes.ScopeCandidatesWrite,
		ActionInvite:         scopes.ScopeCandidatesInvite,
		ActionLegalReview:    scopes.ScopeCandidatesLegalReview,
		ActionDelete:         scopes.ScopeCandidatesDelete,
	},
	KindProfile: {
		ActionView:          scopes.ScopeUsersRead,
		ActionUpdate:        scopes.ScopeUsersWrite,
		ActionDelete:        scopes.ScopeUsersDelete,
		ActionResetPassword: scopes.ScopeUsersResetPassword,
	},
	KindMaintenance: {
		ActionDelete: scopes.ScopeMaintenancePurge,
	},
}

// Gate decides whether an actor may perform an action on a target. It keeps
// no state: every decision is computed from the actor passed in, which the
// auth middleware rebuilds from the stored profile on each request.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// Authorize evaluates, in order: role, self-action, deleted target, region.
// Superusers skip the region check but not the self-action rule.
func (g *Gate) Authorize(actor *kernel.AuthContext, action Action, target Target) Decision {
	if !actor.IsValid() {
		return deny(ReasonUnauthenticated)
	}

	scope, known := requiredScopes[target.Kind][action]
	if !known || !actor.HasScope(scope) {
		return deny(ReasonInsufficientRole)
	}

	if target.Kind == KindProfile && action != ActionView && target.ID == actor.ActorID() {
		return deny(ReasonSelfActionForbidden)
	}

	if target.Deleted && blockedOnDeleted(action) {
		return deny(ReasonEntityDeleted)
	}

	if target.Kind == KindJob || target.Kind == KindCandidate {
		if !inScope(actor, target) {
			return deny(ReasonOutOfRegionScope)
		}
	}

	return allow()
}

// Check is Authorize returning the denial as an error
func (g *Gate) Check(actor *kernel.AuthContext, action Action, target Target) error {
	if err := g.Authorize(actor, action, target).Err(); err != nil {
		return err.
			WithDetail("action", string(action)).
			WithDetail("target", string(target.Kind))
	}
	return nil
}

// CheckRole runs only the role step. Listings call it once and then filter
// rows with CanView.
func (g *Gate) CheckRole(actor *kernel.AuthContext, action Action, kind Kind) error {
	if !actor.IsValid() {
		return ErrUnauthenticated()
	}
	scope, known := requiredScopes[kind][action]
	if !known || !actor.HasScope(scope) {
		return ErrInsufficientRole().
			WithDetail("action", string(action)).
			WithDetail("target", string(kind))
	}
	return nil
}

// CanView is the listing filter: region scope plus read permission
func (g *Gate) CanView(actor *kernel.AuthContext, target Target) bool {
	return g.Authorize(actor, ActionView, target).Allowed
}

// Transitions on a deleted job are rejected by the state machine itself
// (restore is the only way out), so only reads and new work are blocked here.
func blockedOnDeleted(action Action) bool {
	switch action {
	case ActionView, ActionCreate, ActionInvite:
		return true
	}
	return false
}

func inScope(actor *kernel.AuthContext, target Target) bool {
	if actor.IsSuperuser() {
		return true
	}
	allowed := regionscope.Resolve(actor)
	if !allowed(target.Region) {
		return false
	}
	if target.JobRegion != nil && !allowed(*target.JobRegion) {
		return false
	}
	return regionscope.DepartmentPredicate(actor)(target.Department)
}
