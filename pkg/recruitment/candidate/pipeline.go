package candidate

import (
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/ptrx"
)

// Action names a candidate pipeline command
type Action string

const (
	ActionCreate        Action = "create"
	ActionChangeStatus  Action = "change_status"
	ActionLegalDecision Action = "legal_decision"
	ActionInvite        Action = "invite"
	ActionDelete        Action = "delete"
)

func (a Action) String() string { return string(a) }

func (c *Candidate) invalid(action Action, target string) *errx.Error {
	return ErrInvalidTransition().
		WithDetail("candidate_id", c.ID.String()).
		WithDetail("action", string(action)).
		WithDetail("from", string(c.Status)).
		WithDetail("to", target)
}

// ChangeStatus moves the candidate along the pipeline. It returns false when
// the candidate already is in target, which is not an error.
//
// Forward moves may skip stages up to Legal Review; Approved is reached only
// through ApplyLegalDecision. Rejected and Invited are reachable from any
// non-terminal stage. Terminal candidates do not move.
func (c *Candidate) ChangeStatus(target Status, now time.Time) (bool, error) {
	if !target.IsValid() {
		return false, ErrUnknownStatus().WithDetail("field", "status").WithDetail("value", string(target))
	}
	if target == c.Status {
		return false, nil
	}
	if c.IsTerminal() {
		return false, c.invalid(ActionChangeStatus, string(target))
	}

	switch target {
	case StatusRejected, StatusInvited:
	case StatusApproved:
		return false, c.invalid(ActionChangeStatus, string(target))
	default:
		if rank[target] <= rank[c.Status] {
			return false, c.invalid(ActionChangeStatus, string(target))
		}
	}

	c.Status = target
	if target == StatusLegalReview {
		pending := LegalPending
		c.LegalStatus = &pending
		c.LegalComment = nil
		c.Restricted = false
	}
	c.UpdatedAt = now
	return true, nil
}

// ApplyLegalDecision records the legal review outcome. Approval (with or
// without restrictions) moves the candidate to Approved, rejection to
// Rejected. Restricted approvals and rejections need a comment.
func (c *Candidate) ApplyLegalDecision(decision LegalStatus, comment string, now time.Time) error {
	if c.Status != StatusLegalReview {
		return c.invalid(ActionLegalDecision, string(decision))
	}

	comment = strings.TrimSpace(comment)
	if decision.RequiresComment() && comment == "" {
		return ErrCommentRequired().
			WithDetail("candidate_id", c.ID.String()).
			WithDetail("decision", string(decision))
	}

	switch decision {
	case LegalApproved:
		c.Status = StatusApproved
		c.Restricted = false
	case LegalApprovedWithRestrictions:
		c.Status = StatusApproved
		c.Restricted = true
	case LegalRejected:
		c.Status = StatusRejected
		c.Restricted = false
	default:
		return ErrInvalidLegalDecision().WithDetail("decision", string(decision))
	}

	c.LegalStatus = &decision
	if comment != "" {
		c.LegalComment = ptrx.String(comment)
	} else {
		c.LegalComment = nil
	}
	c.UpdatedAt = now
	return nil
}
