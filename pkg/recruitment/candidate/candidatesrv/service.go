package candidatesrv

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/fsx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/Abraxas-365/recruitflow/pkg/validatex"
	"golang.org/x/sync/errgroup"
)

// CandidateService drives the candidate pipeline, legal review, talent bank
// invitations and the fill accounting of the bound job.
type CandidateService struct {
	repo    candidate.Repository
	history candidate.HistoryRepository
	jobs    job.Repository
	files   fsx.FileSystem
	gate    *authz.Gate
	bus     *workflow.Bus
	idem    *workflow.Idempotency
	clock   kernel.Clock
	cfg     config.WorkflowConfig
}

// NewCandidateService creates the service. files may be nil when résumés are
// not stored by this process.
func NewCandidateService(
	repo candidate.Repository,
	history candidate.HistoryRepository,
	jobs job.Repository,
	files fsx.FileSystem,
	gate *authz.Gate,
	bus *workflow.Bus,
	idem *workflow.Idempotency,
	clock kernel.Clock,
	cfg config.WorkflowConfig,
) *CandidateService {
	return &CandidateService{
		repo:    repo,
		history: history,
		jobs:    jobs,
		files:   files,
		gate:    gate,
		bus:     bus,
		idem:    idem,
		clock:   clock,
		cfg:     cfg,
	}
}

// ============================================================================
// Public application
// ============================================================================

// Apply registers a public application. Without a job it lands in the
// talent bank; with one, the job must be publicly visible with openings.
func (s *CandidateService) Apply(ctx context.Context, req candidate.ApplyRequest) (*candidate.Candidate, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var bound *job.Job
	if req.JobID != nil && strings.TrimSpace(*req.JobID) != "" {
		j, err := s.jobs.FindByID(ctx, kernel.NewJobID(strings.TrimSpace(*req.JobID)))
		if err != nil {
			return nil, err
		}
		if !j.IsPubliclyVisible(now) || !j.HasOpenPositions() {
			return nil, job.ErrNotOpen().WithDetail("job_id", j.ID.String())
		}
		bound = j
	}

	c := candidate.Candidate{
		ID:                kernel.NewCandidateID(kernel.GenerateID()),
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		City:              strings.TrimSpace(req.City),
		State:             strings.TrimSpace(req.State),
		ResumeURL:         req.ResumeURL,
		ResumeFilename:    req.ResumeFilename,
		Status:            candidate.StatusRegistered,
		HasCNH:            req.HasCNH,
		CNHCategory:       strings.ToUpper(strings.TrimSpace(req.CNHCategory)),
		VehicleType:       strings.TrimSpace(req.VehicleType),
		IsPCD:             req.IsPCD,
		AvailableToTravel: req.AvailableToTravel,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if bound != nil {
		c.JobID = &bound.ID
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"candidate_id": c.ID,
		"talent_bank":  bound == nil,
	}).Info("application received")

	s.publish(ctx, nil, &c, bound, candidate.ActionCreate, "", nil)
	return &c, nil
}

// ============================================================================
// Queries
// ============================================================================

func (s *CandidateService) GetCandidate(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	target, _, err := s.target(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Check(actor, authz.ActionView, target); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCandidates returns the candidates whose own location, and bound job when
// there is one, are inside the actor's region scope
func (s *CandidateService) ListCandidates(ctx context.Context, actor *kernel.AuthContext, filter candidate.Filter) (*candidate.CandidateListResponse, error) {
	if err := s.gate.CheckRole(actor, authz.ActionView, authz.KindCandidate); err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	visible, err := s.visible(ctx, actor, all)
	if err != nil {
		return nil, err
	}

	total := len(visible)
	return &candidate.CandidateListResponse{
		Candidates: page(visible, filter.Limit, filter.Offset),
		Total:      total,
	}, nil
}

// FindOpenInvitations lists the visible invitations of email to open processes
func (s *CandidateService) FindOpenInvitations(ctx context.Context, actor *kernel.AuthContext, email string) ([]*candidate.Candidate, error) {
	if err := s.gate.CheckRole(actor, authz.ActionView, authz.KindCandidate); err != nil {
		return nil, err
	}
	open, err := s.repo.FindOpenInvitations(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.visible(ctx, actor, open)
}

// History returns the pipeline transitions of a candidate, oldest first
func (s *CandidateService) History(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID) ([]candidate.HistoryEntry, error) {
	if _, err := s.GetCandidate(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.ListByCandidate(ctx, id)
}

// ============================================================================
// Pipeline commands
// ============================================================================

// ChangeCandidateStatus moves a candidate along the pipeline. Re-applying the
// current status changes nothing; for an approved candidate it re-asserts
// the fill marker of the bound job.
func (s *CandidateService) ChangeCandidateStatus(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID, req candidate.ChangeStatusRequest) (*candidate.Candidate, error) {
	if !actor.IsValid() {
		return nil, authz.ErrUnauthenticated()
	}
	status, err := candidate.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := s.idem.Key(id.String(), string(candidate.ActionChangeStatus), string(status), actor.ActorID(), now)
	owned := s.idem.Claim(ctx, key)

	var (
		c       *candidate.Candidate
		bound   *job.Job
		from    candidate.Status
		changed bool
	)
	for attempt := 0; ; attempt++ {
		c, bound, err = s.load(ctx, actor, id, authz.ActionTransitionFlow)
		if err != nil {
			break
		}
		if !owned && c.Status == status {
			return s.replayed(actor, c), nil
		}
		from = c.Status
		if changed, err = c.ChangeStatus(status, now); err != nil || !changed {
			break
		}
		err = s.repo.Update(ctx, c)
		if !s.retryable(err, attempt) {
			break
		}
		logx.WithFields(logx.Fields{"candidate_id": id, "attempt": attempt + 1}).Debug("candidate version conflict, retrying")
	}
	if err != nil {
		if owned {
			s.idem.Release(ctx, key)
		}
		return nil, err
	}

	if !changed {
		if c.Status == candidate.StatusApproved {
			if err := s.reassertFill(ctx, actor, c, bound, now); err != nil {
				if owned {
					s.idem.Release(ctx, key)
				}
				return nil, err
			}
		}
		return c, nil
	}

	s.publish(ctx, actor, c, bound, candidate.ActionChangeStatus, from, nil)
	return c, nil
}

// SubmitLegalDecision records the legal review outcome. An approval consumes
// one position of the bound job before the candidate is written; when that
// write fails the position is released again.
func (s *CandidateService) SubmitLegalDecision(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID, req candidate.LegalDecisionRequest) (*candidate.Candidate, error) {
	if !actor.IsValid() {
		return nil, authz.ErrUnauthenticated()
	}
	decision, err := candidate.ParseLegalStatus(req.Decision)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	// a decision is terminal, so a claimed key is always a duplicate
	key := s.idem.Key(id.String(), string(candidate.ActionLegalDecision), string(decision), actor.ActorID(), now)
	if !s.idem.Claim(ctx, key) {
		c, _, err := s.load(ctx, actor, id, authz.ActionLegalReview)
		if err != nil {
			return nil, err
		}
		return s.replayed(actor, c), nil
	}

	var (
		c       *candidate.Candidate
		bound   *job.Job
		filled  *job.Job
		counted bool
		from    candidate.Status
	)
	for attempt := 0; ; attempt++ {
		c, bound, err = s.load(ctx, actor, id, authz.ActionLegalReview)
		if err != nil {
			break
		}
		from = c.Status
		if err = c.ApplyLegalDecision(decision, req.Comment, now); err != nil {
			break
		}

		counted, filled = false, nil
		if c.Status == candidate.StatusApproved && s.countsFills(bound) {
			filled, counted, err = s.jobs.RecordFill(ctx, bound.ID, c.ID, now)
			if err != nil {
				break
			}
		}

		err = s.repo.Update(ctx, c)
		if err != nil && counted {
			// a concurrent approval of the same candidate shares the marker
			if !s.approvedElsewhere(ctx, c.ID) {
				s.releaseFill(ctx, bound.ID, c.ID, now)
			}
			counted = false
		}
		if !s.retryable(err, attempt) {
			break
		}
		logx.WithFields(logx.Fields{"candidate_id": id, "attempt": attempt + 1}).Debug("candidate version conflict, retrying")
	}
	if err != nil {
		s.idem.Release(ctx, key)
		return nil, err
	}

	attrs := map[string]string{workflow.AttrLegalStatus: string(decision)}
	if c.LegalComment != nil {
		attrs[workflow.AttrComment] = *c.LegalComment
	}
	s.publish(ctx, actor, c, bound, candidate.ActionLegalDecision, from, attrs)

	if counted && filled != nil && filled.IsFilled() {
		s.publishPositionsFilled(ctx, actor, filled)
	}
	return c, nil
}

// InviteToJob copies a talent bank candidate into a new invited application
// for the target job
func (s *CandidateService) InviteToJob(ctx context.Context, actor *kernel.AuthContext, req candidate.InviteRequest) (*candidate.Candidate, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	if !actor.IsValid() {
		return nil, authz.ErrUnauthenticated()
	}

	sourceID := kernel.NewCandidateID(strings.TrimSpace(req.CandidateID))
	jobID := kernel.NewJobID(strings.TrimSpace(req.JobID))

	source, err := s.GetCandidate(ctx, actor, sourceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	key := s.idem.Key(sourceID.String(), string(candidate.ActionInvite), jobID.String(), actor.ActorID(), now)
	if !s.idem.Claim(ctx, key) {
		return s.replayInvite(ctx, source, jobID)
	}

	invited, target, err := s.invite(ctx, actor, source, jobID, now)
	if err != nil {
		s.idem.Release(ctx, key)
		return nil, err
	}

	attrs := map[string]string{workflow.AttrSourceCandidate: source.ID.String()}
	s.publish(ctx, actor, invited, target, candidate.ActionInvite, "", attrs)
	return invited, nil
}

func (s *CandidateService) invite(ctx context.Context, actor *kernel.AuthContext, source *candidate.Candidate, jobID kernel.JobID, now time.Time) (*candidate.Candidate, *job.Job, error) {
	target, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.gate.Check(actor, authz.ActionInvite, authz.ForJob(target)); err != nil {
		return nil, nil, err
	}

	if source.HasJob() {
		current, err := s.jobs.FindByID(ctx, *source.JobID)
		if err != nil && !errx.IsCode(err, job.CodeJobNotFound) {
			return nil, nil, err
		}
		if current == nil || !s.isTalentBank(current) {
			return nil, nil, candidate.ErrNotTalentBank().WithDetail("candidate_id", source.ID.String())
		}
	}

	if !target.IsOpenProcess() {
		return nil, nil, job.ErrNotOpen().WithDetail("job_id", target.ID.String())
	}
	if !target.HasOpenPositions() {
		return nil, nil, job.ErrCapacityExceeded().
			WithDetail("job_id", target.ID.String()).
			WithDetail("quantity", target.Quantity).
			WithDetail("quantity_filled", target.QuantityFilled)
	}

	invited := source.InviteTo(target.ID, kernel.NewCandidateID(kernel.GenerateID()), now)
	if err := s.repo.CreateInvitation(ctx, invited); err != nil {
		return nil, nil, err
	}

	logx.WithFields(logx.Fields{
		"candidate_id": invited.ID,
		"source_id":    source.ID,
		"job_id":       target.ID,
		"actor":        actor.ActorID(),
	}).Info("talent bank candidate invited")
	return &invited, target, nil
}

// InviteBatch invites several talent bank candidates to one job with bounded
// concurrency. Every acceptance re-reads the job and repeats the duplicate
// check; per-candidate failures are reported, not returned.
func (s *CandidateService) InviteBatch(ctx context.Context, actor *kernel.AuthContext, req candidate.InviteBatchRequest) (*candidate.InviteBatchResult, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}
	if err := s.gate.CheckRole(actor, authz.ActionInvite, authz.KindCandidate); err != nil {
		return nil, err
	}

	invited := make([]*candidate.Candidate, len(req.CandidateIDs))
	failures := make([]*candidate.InviteFailure, len(req.CandidateIDs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.InviteConcurrency)

	for i, id := range req.CandidateIDs {
		g.Go(func() error {
			c, err := s.InviteToJob(gctx, actor, candidate.InviteRequest{CandidateID: id, JobID: req.JobID})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[i] = inviteFailure(id, err)
				return nil
			}
			invited[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &candidate.InviteBatchResult{
		Invited:  []*candidate.Candidate{},
		Failures: []candidate.InviteFailure{},
	}
	for i := range req.CandidateIDs {
		if invited[i] != nil {
			result.Invited = append(result.Invited, invited[i])
		}
		if failures[i] != nil {
			result.Failures = append(result.Failures, *failures[i])
		}
	}
	return result, nil
}

func inviteFailure(id string, err error) *candidate.InviteFailure {
	f := &candidate.InviteFailure{CandidateID: id, Message: err.Error()}
	if e, ok := errx.As(err); ok {
		f.Code = string(e.Code)
		f.Message = e.Message
	}
	return f
}

// DeleteCandidate removes the candidate permanently. Neither the job nor other
// candidates are touched. The résumé file is removed best-effort.
func (s *CandidateService) DeleteCandidate(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID) error {
	c, bound, err := s.load(ctx, actor, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.files != nil && c.ResumeFilename != "" {
		if err := s.files.DeleteFile(ctx, c.ResumeFilename); err != nil && !errx.IsCode(err, fsx.CodeFileNotFound) {
			logx.WithFields(logx.Fields{
				"candidate_id": id,
				"file":         c.ResumeFilename,
			}).WithError(err).Warn("could not remove résumé file")
		}
	}

	logx.WithFields(logx.Fields{"candidate_id": id, "actor": actor.ActorID()}).Info("candidate deleted")

	from := c.Status
	c.Status = "deleted"
	c.UpdatedAt = s.clock.Now()
	s.publish(ctx, actor, c, bound, candidate.ActionDelete, from, nil)
	return nil
}

// ============================================================================
// Internals
// ============================================================================

// target builds the authorization target of c. The candidate's own location
// always applies; a bound job adds its region and department on top.
func (s *CandidateService) target(ctx context.Context, c *candidate.Candidate) (authz.Target, *job.Job, error) {
	if !c.HasJob() {
		return candidateTarget(c, nil), nil, nil
	}
	j, err := s.jobs.FindByID(ctx, *c.JobID)
	if errx.IsCode(err, job.CodeJobNotFound) {
		return candidateTarget(c, nil), nil, nil
	}
	if err != nil {
		return authz.Target{}, nil, err
	}
	return candidateTarget(c, j), j, nil
}

func candidateTarget(c *candidate.Candidate, bound *job.Job) authz.Target {
	t := authz.Target{Kind: authz.KindCandidate, ID: c.ID.String(), Region: c.Region()}
	if bound != nil {
		region := bound.Region()
		t.JobRegion = &region
		t.Department = bound.Department
	}
	return t
}

func (s *CandidateService) load(ctx context.Context, actor *kernel.AuthContext, id kernel.CandidateID, action authz.Action) (*candidate.Candidate, *job.Job, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	target, bound, err := s.target(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	if err := s.gate.Check(actor, action, target); err != nil {
		return nil, nil, err
	}
	return c, bound, nil
}

// visible keeps the candidates the actor may view, loading their jobs once
func (s *CandidateService) visible(ctx context.Context, actor *kernel.AuthContext, cs []*candidate.Candidate) ([]*candidate.Candidate, error) {
	var ids []kernel.JobID
	for _, c := range cs {
		if c.HasJob() {
			ids = append(ids, *c.JobID)
		}
	}
	jobs := make(map[kernel.JobID]*job.Job)
	if len(ids) > 0 {
		found, err := s.jobs.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, j := range found {
			jobs[j.ID] = j
		}
	}

	out := make([]*candidate.Candidate, 0, len(cs))
	for _, c := range cs {
		var bound *job.Job
		if c.HasJob() {
			bound = jobs[*c.JobID]
		}
		if s.gate.CanView(actor, candidateTarget(c, bound)) {
			out = append(out, c)
		}
	}
	return out, nil
}

// replayed answers a command whose key was already claimed and whose outcome
// the candidate already shows
func (s *CandidateService) replayed(actor *kernel.AuthContext, c *candidate.Candidate) *candidate.Candidate {
	logx.WithFields(logx.Fields{"candidate_id": c.ID, "actor": actor.ActorID()}).Debug("duplicate candidate command ignored")
	return c
}

// replayInvite returns the invitation a replayed command already created
func (s *CandidateService) replayInvite(ctx context.Context, source *candidate.Candidate, jobID kernel.JobID) (*candidate.Candidate, error) {
	open, err := s.repo.FindOpenInvitations(ctx, source.Email)
	if err != nil {
		return nil, err
	}
	for _, c := range open {
		if c.JobID != nil && *c.JobID == jobID {
			return c, nil
		}
	}
	return nil, candidate.ErrDuplicateInvitation().WithDetail("email", source.NormalizedEmail())
}

func (s *CandidateService) retryable(err error, attempt int) bool {
	return err != nil && errx.IsCode(err, candidate.CodeConcurrentModification) && attempt < s.cfg.MaxRetries
}

func (s *CandidateService) isTalentBank(j *job.Job) bool {
	return job.IsTalentBankTitle(j.Title, s.cfg.TalentBankTitle)
}

// countsFills reports whether an approval against bound consumes a position.
// The talent bank has no real capacity.
func (s *CandidateService) countsFills(bound *job.Job) bool {
	return bound != nil && !s.isTalentBank(bound)
}

func (s *CandidateService) reassertFill(ctx context.Context, actor *kernel.AuthContext, c *candidate.Candidate, bound *job.Job, now time.Time) error {
	if !s.countsFills(bound) {
		return nil
	}
	filled, inserted, err := s.jobs.RecordFill(ctx, bound.ID, c.ID, now)
	if err != nil {
		return err
	}
	if inserted {
		logx.WithFields(logx.Fields{"candidate_id": c.ID, "job_id": bound.ID}).Warn("missing fill marker restored")
		if filled.IsFilled() {
			s.publishPositionsFilled(ctx, actor, filled)
		}
	}
	return nil
}

func (s *CandidateService) approvedElsewhere(ctx context.Context, id kernel.CandidateID) bool {
	current, err := s.repo.FindByID(ctx, id)
	return err == nil && current.Status == candidate.StatusApproved
}

func (s *CandidateService) releaseFill(ctx context.Context, jobID kernel.JobID, id kernel.CandidateID, now time.Time) {
	if err := s.jobs.ReleaseFill(ctx, jobID, id, now); err != nil {
		logx.WithFields(logx.Fields{
			"job_id":       jobID,
			"candidate_id": id,
		}).WithError(err).Error("could not release fill after failed candidate update")
	}
}

func (s *CandidateService) publish(ctx context.Context, actor *kernel.AuthContext, c *candidate.Candidate, bound *job.Job, cmd candidate.Action, from candidate.Status, extra map[string]string) {
	attrs := map[string]string{workflow.AttrCandidateName: c.Name}
	t := workflow.Transition{
		ID:         kernel.GenerateID(),
		Entity:     workflow.EntityCandidate,
		EntityID:   c.ID.String(),
		Action:     string(cmd),
		From:       string(from),
		To:         string(c.Status),
		Actor:      actor.ActorID(),
		Region:     c.Region(),
		OccurredAt: c.UpdatedAt,
	}
	if c.JobID != nil {
		attrs[workflow.AttrJobID] = c.JobID.String()
	}
	if bound != nil {
		t.Region = bound.Region()
		t.Department = bound.Department
		attrs[workflow.AttrJobTitle] = bound.Title
	}
	for k, v := range extra {
		attrs[k] = v
	}
	t.Attributes = attrs
	s.bus.Publish(ctx, t)
}

func (s *CandidateService) publishPositionsFilled(ctx context.Context, actor *kernel.AuthContext, j *job.Job) {
	label := j.StateLabel()
	s.bus.Publish(ctx, workflow.Transition{
		ID:         kernel.GenerateID(),
		Entity:     workflow.EntityJob,
		EntityID:   j.ID.String(),
		Action:     string(job.ActionPositionsFilled),
		From:       label,
		To:         label,
		Actor:      actor.ActorID(),
		Region:     j.Region(),
		Department: j.Department,
		Attributes: map[string]string{
			workflow.AttrCreatedBy:      j.CreatedBy.String(),
			workflow.AttrTitle:          j.Title,
			workflow.AttrQuantity:       strconv.Itoa(j.Quantity),
			workflow.AttrQuantityFilled: strconv.Itoa(j.QuantityFilled),
		},
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
