package jobsrv

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/regionscope"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/Abraxas-365/recruitflow/pkg/validatex"
)

const day = 24 * time.Hour

// JobService drives the requisition lifecycle: authorization, state machine,
// optimistic persistence and one transition per committed change.
type JobService struct {
	repo  job.Repository
	gate  *authz.Gate
	bus   *workflow.Bus
	idem  *workflow.Idempotency
	clock kernel.Clock
	cfg   config.WorkflowConfig
}

func NewJobService(
	repo job.Repository,
	gate *authz.Gate,
	bus *workflow.Bus,
	idem *workflow.Idempotency,
	clock kernel.Clock,
	cfg config.WorkflowConfig,
) *JobService {
	return &JobService{
		repo:  repo,
		gate:  gate,
		bus:   bus,
		idem:  idem,
		clock: clock,
		cfg:   cfg,
	}
}

// ============================================================================
// Commands
// ============================================================================

// CreateJob opens a draft requisition, or submits it right away when the
// request asks for it
func (s *JobService) CreateJob(ctx context.Context, actor *kernel.AuthContext, req job.CreateJobRequest) (*job.Job, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	target := authz.Target{
		Kind:       authz.KindJob,
		Region:     regionscope.Region{State: req.State, City: req.City},
		Department: req.Department,
	}
	if err := s.gate.Check(actor, authz.ActionCreate, target); err != nil {
		return nil, err
	}

	var jobType job.Type
	if strings.TrimSpace(req.Type) != "" {
		t, err := job.ParseType(req.Type)
		if err != nil {
			return nil, err
		}
		jobType = t
	}

	quantity := req.Quantity
	switch {
	case quantity < 0:
		return nil, job.ErrInvalidQuantity().WithDetail("quantity", quantity)
	case quantity == 0:
		quantity = 1
	}

	now := s.clock.Now()
	expiresAt := now.AddDate(0, 0, s.cfg.JobDefaultExpiryDays)
	if req.ExpiresAt != nil {
		expiresAt = req.ExpiresAt.UTC()
	}

	j := job.Job{
		ID:               kernel.NewJobID(kernel.GenerateID()),
		Title:            strings.TrimSpace(req.Title),
		Department:       strings.TrimSpace(req.Department),
		City:             strings.TrimSpace(req.City),
		State:            strings.TrimSpace(req.State),
		Workload:         strings.TrimSpace(req.Workload),
		Type:             jobType,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Status:           job.StatusDraft,
		ApprovalStatus:   job.ApprovalDraft,
		FlowStatus:       job.FlowActive,
		Quantity:         quantity,
		ExpiresAt:        &expiresAt,
		CreatedBy:        *actor.UserID,
		RequesterName:    req.RequesterName,
		RequesterRole:    req.RequesterRole,
		InternalNotes:    req.InternalNotes,
		RequestType:      req.RequestType,
		ReplacedEmployee: req.ReplacedEmployee,
		Version:          1,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if req.SubmitForApproval {
		if err := j.Submit(now); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, j); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"job_id": j.ID,
		"actor":  actor.ActorID(),
		"state":  j.StateLabel(),
	}).Info("job created")

	s.publish(ctx, actor, &j, job.ActionCreate, "", nil)
	return &j, nil
}

func (s *JobService) SubmitJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, actor, id, authz.ActionTransitionFlow, job.ActionSubmit, nil,
		func(j *job.Job, now time.Time) error { return j.Submit(now) })
}

func (s *JobService) ApproveJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, actor, id, authz.ActionApprove, job.ActionApprove, nil,
		func(j *job.Job, now time.Time) error { return j.Approve(*actor.UserID, now) })
}

func (s *JobService) RejectJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID, req job.RejectJobRequest) (*job.Job, error) {
	reason := strings.TrimSpace(req.Reason)
	attrs := map[string]string{workflow.AttrReason: reason}
	return s.mutate(ctx, actor, id, authz.ActionReject, job.ActionReject, attrs,
		func(j *job.Job, now time.Time) error { return j.Reject(reason, now) })
}

// SetFlowStatus freezes, reactivates or completes a job
func (s *JobService) SetFlowStatus(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID, req job.SetFlowStatusRequest) (*job.Job, error) {
	target, err := job.ParseFlowStatus(req.Target)
	if err != nil {
		return nil, err
	}
	action, err := (&job.Job{}).FlowAction(target)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, authz.ActionTransitionFlow, action, nil,
		func(j *job.Job, now time.Time) error { return j.SetFlowStatus(target, req.Manual, now) })
}

func (s *JobService) CloseJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, actor, id, authz.ActionTransitionFlow, job.ActionClose, nil,
		func(j *job.Job, now time.Time) error { return j.Close(now) })
}

func (s *JobService) DeactivateJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, actor, id, authz.ActionTransitionFlow, job.ActionDeactivate, nil,
		func(j *job.Job, now time.Time) error { return j.Deactivate(now) })
}

func (s *JobService) SoftDeleteJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, actor, id, authz.ActionDelete, job.ActionSoftDelete, nil,
		func(j *job.Job, now time.Time) error { return j.SoftDelete(*actor.UserID, now) })
}

func (s *JobService) RestoreJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error) {
	window := time.Duration(s.cfg.RestoreWindowDays) * day
	return s.mutate(ctx, actor, id, authz.ActionDelete, job.ActionRestore, nil,
		func(j *job.Job, now time.Time) error { return j.Restore(window, now) })
}

// PurgeExpiredDeletions removes jobs soft-deleted at least olderThanDays ago.
// The window never goes below the restore window, so a restorable job is
// never purged. Running it twice is harmless.
func (s *JobService) PurgeExpiredDeletions(ctx context.Context, olderThanDays int) (*job.PurgeResult, error) {
	if olderThanDays < s.cfg.RestoreWindowDays {
		olderThanDays = s.cfg.RestoreWindowDays
	}
	cutoff := s.clock.Now().Add(-time.Duration(olderThanDays) * day)

	purged, err := s.repo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	if purged > 0 {
		logx.WithFields(logx.Fields{
			"purged": purged,
			"cutoff": cutoff.Format(time.RFC3339),
		}).Info("🧹 purged soft-deleted jobs")
	}
	return &job.PurgeResult{Purged: purged, Cutoff: cutoff}, nil
}

// PurgeAs is PurgeExpiredDeletions behind the maintenance permission
func (s *JobService) PurgeAs(ctx context.Context, actor *kernel.AuthContext, olderThanDays int) (*job.PurgeResult, error) {
	if err := s.gate.Check(actor, authz.ActionDelete, authz.Target{Kind: authz.KindMaintenance}); err != nil {
		return nil, err
	}
	return s.PurgeExpiredDeletions(ctx, olderThanDays)
}

// ============================================================================
// Queries
// ============================================================================

func (s *JobService) GetJob(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.JobView, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Check(actor, authz.ActionView, authz.ForJob(j)); err != nil {
		return nil, err
	}
	view := job.NewJobView(j, s.clock.Now(), s.cfg.ExpiringSoonDays)
	return &view, nil
}

// ListJobs returns the non-deleted jobs the actor may see, filtered and paged
func (s *JobService) ListJobs(ctx context.Context, actor *kernel.AuthContext, filter job.Filter) (*job.JobListResponse, error) {
	if err := s.gate.CheckRole(actor, authz.ActionView, authz.KindJob); err != nil {
		return nil, err
	}

	jobs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	views := make([]job.JobView, 0, len(jobs))
	for _, j := range jobs {
		if !s.gate.CanView(actor, authz.ForJob(j)) {
			continue
		}
		view := job.NewJobView(j, now, s.cfg.ExpiringSoonDays)
		if !filter.Expiry.Matches(view.Expiration) || !filter.Capacity.Matches(j) {
			continue
		}
		views = append(views, view)
	}

	total := len(views)
	return &job.JobListResponse{Jobs: page(views, filter.Limit, filter.Offset), Total: total}, nil
}

// ListPublicJobs is the unauthenticated listing: published, not expired,
// with open positions, without the talent bank and without internal fields
func (s *JobService) ListPublicJobs(ctx context.Context, filter job.Filter) (*job.PublicJobListResponse, error) {
	active := job.StatusActive
	approved := job.ApprovalActive
	flowing := job.FlowActive
	filter.Status = &active
	filter.ApprovalStatus = &approved
	filter.FlowStatus = &flowing

	jobs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]job.PublicJob, 0, len(jobs))
	for _, j := range jobs {
		if !j.IsPubliclyVisible(now) || !j.HasOpenPositions() {
			continue
		}
		if job.IsTalentBankTitle(j.Title, s.cfg.TalentBankTitle) {
			continue
		}
		out = append(out, j.ToPublic())
	}

	total := len(out)
	return &job.PublicJobListResponse{Jobs: page(out, filter.Limit, filter.Offset), Total: total}, nil
}

// ResolveTalentBank returns the canonical talent bank requisition
func (s *JobService) ResolveTalentBank(ctx context.Context) (*job.Job, error) {
	jobs, err := s.repo.FindByTitles(ctx, job.TalentBankTitles(s.cfg.TalentBankTitle))
	if err != nil {
		return nil, err
	}
	tb := job.CanonicalTalentBank(jobs)
	if tb == nil {
		return nil, job.ErrTalentBankNotFound()
	}
	return tb, nil
}

// ============================================================================
// Internals
// ============================================================================

// mutate is the shared command path: idempotency claim, load, authorize,
// apply, optimistic write with retry, publish. The key carries the state the
// command leads to, so a replay inside the bucket returns the current job
// only while the job still sits in that state. Once the job has moved on the
// command is applied again.
func (s *JobService) mutate(
	ctx context.Context,
	actor *kernel.AuthContext,
	id kernel.JobID,
	action authz.Action,
	cmd job.Action,
	attrs map[string]string,
	apply func(j *job.Job, now time.Time) error,
) (*job.Job, error) {
	if !actor.IsValid() {
		return nil, authz.ErrUnauthenticated()
	}

	now := s.clock.Now()
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	to := targetState(current, apply, now)
	key := s.idem.Key(id.String(), string(cmd), to, actor.ActorID(), now)
	owned := s.idem.Claim(ctx, key)

	var (
		j    *job.Job
		from string
	)
	for attempt := 0; ; attempt++ {
		j, err = s.repo.FindByID(ctx, id)
		if err != nil {
			break
		}
		if err = s.gate.Check(actor, action, authz.ForJob(j)); err != nil {
			break
		}
		if !owned && j.StateLabel() == to {
			logx.WithFields(logx.Fields{"job_id": id, "actor": actor.ActorID()}).Debug("duplicate job command ignored")
			return j, nil
		}
		from = j.StateLabel()
		if err = apply(j, now); err != nil {
			break
		}
		err = s.repo.Update(ctx, j)
		if err == nil || !errx.IsCode(err, job.CodeConcurrentModification) || attempt >= s.cfg.MaxRetries {
			break
		}
		logx.WithFields(logx.Fields{
			"job_id":  id,
			"action":  cmd,
			"attempt": attempt + 1,
		}).Debug("job version conflict, retrying")
	}
	if err != nil {
		if owned {
			s.idem.Release(ctx, key)
		}
		return nil, err
	}

	s.publish(ctx, actor, j, cmd, from, attrs)
	return j, nil
}

// targetState is the state label j reaches under apply, or its current label
// when the command does not apply to it
func targetState(j *job.Job, apply func(j *job.Job, now time.Time) error, now time.Time) string {
	next := *j
	if err := apply(&next, now); err != nil {
		return j.StateLabel()
	}
	return next.StateLabel()
}

func (s *JobService) publish(ctx context.Context, actor *kernel.AuthContext, j *job.Job, cmd job.Action, from string, extra map[string]string) {
	attrs := map[string]string{
		workflow.AttrCreatedBy:      j.CreatedBy.String(),
		workflow.AttrTitle:          j.Title,
		workflow.AttrQuantity:       strconv.Itoa(j.Quantity),
		workflow.AttrQuantityFilled: strconv.Itoa(j.QuantityFilled),
	}
	for k, v := range extra {
		attrs[k] = v
	}

	s.bus.Publish(ctx, workflow.Transition{
		ID:         kernel.GenerateID(),
		Entity:     workflow.EntityJob,
		EntityID:   j.ID.String(),
		Action:     string(cmd),
		From:       from,
		To:         j.StateLabel(),
		Actor:      actor.ActorID(),
		Region:     j.Region(),
		Department: j.Department,
		Attributes: attrs,
		OccurredAt: j.UpdatedAt,
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
