package candidatesrv

import (
	"context"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
)

// HistoryRecorder is a bus subscriber that keeps the candidate history read
// model. Job transitions are ignored.
type HistoryRecorder struct {
	repo candidate.HistoryRepository
}

func NewHistoryRecorder(repo candidate.HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

func (r *HistoryRecorder) Handle(ctx context.Context, t workflow.Transition) error {
	if t.Entity != workflow.EntityCandidate {
		return nil
	}

	entry := candidate.HistoryEntry{
		ID:          t.ID,
		CandidateID: kernel.NewCandidateID(t.EntityID),
		Action:      t.Action,
		FromStatus:  t.From,
		ToStatus:    t.To,
		ActorID:     t.Actor,
		OccurredAt:  t.OccurredAt,
	}
	if v := t.Attr(workflow.AttrJobID); v != "" {
		id := kernel.NewJobID(v)
		entry.JobID = &id
	}
	if v := t.Attr(workflow.AttrLegalStatus); v != "" {
		entry.LegalStatus = &v
	}
	if v := t.Attr(workflow.AttrComment); v != "" {
		entry.Comment = &v
	}
	return r.repo.Append(ctx, entry)
}
