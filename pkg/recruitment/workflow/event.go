package workflow

import (
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
)

// ============================================================================
// Domain transitions
// ============================================================================

type EntityKind string

const (
	EntityJob       EntityKind = "job"
	EntityCandidate EntityKind = "candidate"
)

// Transition is published on the bus once per committed state change.
// From and To are the status strings of the entity before and after.
type Transition struct {
	ID         string             `json:"id"`
	Entity     EntityKind         `json:"entity"`
	EntityID   string             `json:"entity_id"`
	Action     string             `json:"action"`
	From       string             `json:"from"`
	To         string             `json:"to"`
	Actor      string             `json:"actor"`
	Region     regionscope.Region `json:"region"`
	Department string             `json:"department,omitempty"`
	Attributes map[string]string  `json:"attributes,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// Attr returns an attribute or ""
func (t Transition) Attr(key string) string {
	if t.Attributes == nil {
		return ""
	}
	return t.Attributes[key]
}

// Well-known transition attributes
const (
	AttrCreatedBy       = "created_by"
	AttrJobID           = "job_id"
	AttrJobTitle        = "job_title"
	AttrTitle           = "title"
	AttrReason          = "reason"
	AttrComment         = "comment"
	AttrLegalStatus     = "legal_status"
	AttrCandidateName   = "candidate_name"
	AttrSourceCandidate = "source_candidate_id"
	AttrQuantity        = "quantity"
	AttrQuantityFilled  = "quantity_filled"
)

// ============================================================================
// Notification events
// ============================================================================

type EventType string

const (
	EventJobPendingApproval  EventType = "job.pending_approval.created"
	EventJobApproved         EventType = "job.approved"
	EventJobRejected         EventType = "job.rejected"
	EventJobPublished        EventType = "job.published"
	EventJobFrozen           EventType = "job.frozen"
	EventJobCompleted        EventType = "job.completed"
	EventJobPositionsFilled  EventType = "job.positions_filled"
	EventJobDeleted          EventType = "job.deleted"
	EventJobRestored         EventType = "job.restored"
	EventLegalReviewPending  EventType = "candidate.legal_review.pending"
	EventLegalReviewApproved EventType = "candidate.legal_review.approved"
	EventLegalReviewRejected EventType = "candidate.legal_review.rejected"
	EventCandidateHired      EventType = "candidate.hired"
	EventCandidateInvited    EventType = "candidate.invited"
)

// Recipients selects who should be told. It never carries addresses; the
// dispatcher's consumer resolves them against the current profiles.
type Recipients struct {
	Roles    []kernel.Role      `json:"roles,omitempty"`
	Region   regionscope.Region `json:"region"`
	ActorIDs []string           `json:"actor_ids,omitempty"`
}

type NotificationEvent struct {
	ID           string            `json:"id"`
	Type         EventType         `json:"type"`
	Actor        string            `json:"actor"`
	TransitionID string            `json:"transition_id"`
	Recipients   Recipients        `json:"recipients"`
	Payload      map[string]string `json:"payload"`
	OccurredAt   time.Time         `json:"occurred_at"`
}
