package candidate

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
)

// Repository persists candidates. Update is optimistic on Version like the
// job repository.
type Repository interface {
	FindByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)
	List(ctx context.Context, filter Filter) ([]*Candidate, error)
	Create(ctx context.Context, c Candidate) error
	Update(ctx context.Context, c *Candidate) error
	Delete(ctx context.Context, id kernel.CandidateID) error

	// CreateInvitation inserts an invited candidate unless its normalized
	// e-mail already holds an invitation to an open process. The check and
	// the insert are one atomic step.
	CreateInvitation(ctx context.Context, c Candidate) error
	// FindOpenInvitations lists invited candidates with this e-mail whose job
	// is an open process
	FindOpenInvitations(ctx context.Context, email string) ([]*Candidate, error)
}

// HistoryEntry is one committed pipeline transition
type HistoryEntry struct {
	ID          string             `db:"id" json:"id"`
	CandidateID kernel.CandidateID `db:"candidate_id" json:"candidate_id"`
	JobID       *kernel.JobID      `db:"job_id" json:"job_id,omitempty"`
	Action      string             `db:"action" json:"action"`
	FromStatus  string             `db:"from_status" json:"from_status"`
	ToStatus    string             `db:"to_status" json:"to_status"`
	LegalStatus *string            `db:"legal_status" json:"legal_status,omitempty"`
	Comment     *string            `db:"comment" json:"comment,omitempty"`
	ActorID     string             `db:"actor_id" json:"actor_id"`
	OccurredAt  time.Time          `db:"occurred_at" json:"occurred_at"`
}

type HistoryRepository interface {
	Append(ctx context.Context, entry HistoryEntry) error
	// ListByCandidate returns entries oldest first
	ListByCandidate(ctx context.Context, id kernel.CandidateID) ([]HistoryEntry, error)
}
