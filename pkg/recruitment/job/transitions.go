package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/ptrx"
)

// Action names a job lifecycle command
type Action string

const (
	ActionCreate          Action = "create"
	ActionSubmit          Action = "submit"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionFreeze          Action = "freeze"
	ActionReactivate      Action = "reactivate"
	ActionComplete        Action = "complete"
	ActionClose           Action = "close"
	ActionDeactivate      Action = "deactivate"
	ActionSoftDelete      Action = "soft_delete"
	ActionRestore         Action = "restore"
	ActionPurge           Action = "purge"
	ActionPositionsFilled Action = "positions_filled"
)

func (a Action) String() string { return string(a) }

// ============================================================================
// State machine
// ============================================================================
//
//	draft|rejected        --submit-->     pending_approval
//	pending_approval      --approve-->    active (flow active)
//	pending_approval      --reject-->     rejected
//	active, flow active   --freeze-->     flow frozen
//	active, flow frozen   --reactivate--> pending_approval, status draft
//	active, flow active   --complete-->   flow completed
//	active                --close-->      closed
//	active                --deactivate--> inactive
//	active|closed|inactive --soft_delete--> deleted
//	deleted               --restore-->    previous state, within the window
//
// A deleted job accepts nothing but restore (and purge, outside the entity).

func (j *Job) invalid(action Action) *errx.Error {
	err := ErrInvalidTransition().
		WithDetail("job_id", j.ID.String()).
		WithDetail("action", string(action)).
		WithDetail("status", string(j.Status)).
		WithDetail("approval_status", string(j.ApprovalStatus)).
		WithDetail("flow_status", string(j.FlowStatus))
	if j.IsDeleted() {
		err.WithDetail("deleted", true)
	}
	return err
}

func (j *Job) touch(now time.Time) {
	j.UpdatedAt = now
}

// Submit sends a draft, or a corrected rejected requisition, for approval
func (j *Job) Submit(now time.Time) error {
	if j.IsDeleted() || j.Status != StatusDraft {
		return j.invalid(ActionSubmit)
	}
	if j.ApprovalStatus != ApprovalDraft && j.ApprovalStatus != ApprovalRejected {
		return j.invalid(ActionSubmit)
	}
	if missing := j.MissingRequiredFields(); len(missing) > 0 {
		return ErrMissingRequiredFields().WithDetail("fields", missing)
	}
	j.ApprovalStatus = ApprovalPendingApproval
	j.RejectionReason = nil
	j.touch(now)
	return nil
}

// Approve publishes the job
func (j *Job) Approve(by kernel.UserID, now time.Time) error {
	if j.IsDeleted() || j.ApprovalStatus != ApprovalPendingApproval {
		return j.invalid(ActionApprove)
	}
	j.Status = StatusActive
	j.ApprovalStatus = ApprovalActive
	j.FlowStatus = FlowActive
	j.ApprovedAt = ptrx.Time(now)
	j.ApprovedBy = &by
	j.RejectionReason = nil
	j.touch(now)
	return nil
}

// Reject returns the requisition to its requester with a reason
func (j *Job) Reject(reason string, now time.Time) error {
	if j.IsDeleted() || j.ApprovalStatus != ApprovalPendingApproval {
		return j.invalid(ActionReject)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReasonRequired()
	}
	j.ApprovalStatus = ApprovalRejected
	j.RejectionReason = ptrx.String(reason)
	j.touch(now)
	return nil
}

// Freeze hides an active job without rejecting it
func (j *Job) Freeze(now time.Time) error {
	if j.IsDeleted() || j.Status != StatusActive || j.FlowStatus != FlowActive {
		return j.invalid(ActionFreeze)
	}
	j.FlowStatus = FlowFrozen
	j.touch(now)
	return nil
}

// Reactivate sends a frozen job back through approval
func (j *Job) Reactivate(now time.Time) error {
	if j.IsDeleted() || j.Status != StatusActive || j.FlowStatus != FlowFrozen {
		return j.invalid(ActionReactivate)
	}
	j.Status = StatusDraft
	j.ApprovalStatus = ApprovalPendingApproval
	j.FlowStatus = FlowActive
	j.touch(now)
	return nil
}

// Complete ends the selection. Without manual it requires every position filled.
func (j *Job) Complete(manual bool, now time.Time) error {
	if j.IsDeleted() || j.Status != StatusActive || j.FlowStatus != FlowActive {
		return j.invalid(ActionComplete)
	}
	if !manual && !j.IsFilled() {
		return ErrNotFilled().
			WithDetail("quantity", j.Quantity).
			WithDetail("quantity_filled", j.QuantityFilled)
	}
	j.FlowStatus = FlowCompleted
	j.touch(now)
	return nil
}

func (j *Job) Close(now time.Time) error {
	if j.IsDeleted() || j.Status != StatusActive {
		return j.invalid(ActionClose)
	}
	j.Status = StatusClosed
	j.ApprovalStatus = ApprovalClosed
	j.touch(now)
	return nil
}

func (j *Job) Deactivate(now time.Time) error {
	if j.IsDeleted() || j.Status != StatusActive {
		return j.invalid(ActionDeactivate)
	}
	j.Status = StatusInactive
	j.touch(now)
	return nil
}

// SoftDelete hides the job from every query. Status and flow are kept so that
// Restore returns it exactly as it was.
func (j *Job) SoftDelete(by kernel.UserID, now time.Time) error {
	if j.IsDeleted() {
		return j.invalid(ActionSoftDelete)
	}
	switch j.Status {
	case StatusActive, StatusClosed, StatusInactive:
	default:
		return j.invalid(ActionSoftDelete)
	}
	j.DeletedAt = ptrx.Time(now)
	j.DeletedBy = &by
	j.touch(now)
	return nil
}

// Restore undoes a soft delete made less than window ago
func (j *Job) Restore(window time.Duration, now time.Time) error {
	if !j.IsDeleted() {
		return j.invalid(ActionRestore)
	}
	if now.Sub(*j.DeletedAt) >= window {
		return ErrRestoreWindowExpired().
			WithDetail("job_id", j.ID.String()).
			WithDetail("deleted_at", j.DeletedAt.Format(time.RFC3339))
	}
	j.DeletedAt = nil
	j.DeletedBy = nil
	j.touch(now)
	return nil
}

// FlowAction maps a requested flow status onto the command that reaches it
// from the job's current state
func (j *Job) FlowAction(target FlowStatus) (Action, error) {
	switch target {
	case FlowFrozen:
		return ActionFreeze, nil
	case FlowCompleted:
		return ActionComplete, nil
	case FlowActive:
		return ActionReactivate, nil
	}
	return "", ErrUnknownStatus().WithDetail("field", "flow_status").WithDetail("value", string(target))
}

// SetFlowStatus applies freeze, reactivate or complete
func (j *Job) SetFlowStatus(target FlowStatus, manual bool, now time.Time) error {
	action, err := j.FlowAction(target)
	if err != nil {
		return err
	}
	switch action {
	case ActionFreeze:
		return j.Freeze(now)
	case ActionComplete:
		return j.Complete(manual, now)
	default:
		return j.Reactivate(now)
	}
}
