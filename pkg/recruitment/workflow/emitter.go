package workflow

import (
	"context"
	"maps"
	"sync"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
)

// Dispatcher delivers notification events to the outside world
type Dispatcher interface {
	Dispatch(ctx context.Context, event NotificationEvent) error
}

// Emitter maps transitions to notification events and dispatches them from a
// bounded queue. Dispatch is fire-and-forget: a full queue drops the event
// and a failed dispatch is logged; neither affects the transition.
type Emitter struct {
	dispatcher Dispatcher
	queue      chan NotificationEvent
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewEmitter(dispatcher Dispatcher, queueSize, workers int) *Emitter {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}

	e := &Emitter{
		dispatcher: dispatcher,
		queue:      make(chan NotificationEvent, queueSize),
	}
	for range workers {
		e.wg.Add(1)
		go e.work()
	}
	return e
}

// Handle is the bus subscriber
func (e *Emitter) Handle(ctx context.Context, t Transition) error {
	for _, ev := range EventsFor(t) {
		e.enqueue(ev)
	}
	return nil
}

func (e *Emitter) enqueue(ev NotificationEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed {
		logx.WithFields(logx.Fields{"event": ev.Type, "event_id": ev.ID}).Warn("emitter closed, notification dropped")
		return
	}

	select {
	case e.queue <- ev:
	default:
		logx.WithFields(logx.Fields{"event": ev.Type, "event_id": ev.ID}).Warn("notification queue full, event dropped")
	}
}

func (e *Emitter) work() {
	defer e.wg.Done()
	for ev := range e.queue {
		if err := e.dispatcher.Dispatch(context.Background(), ev); err != nil {
			logx.WithFields(logx.Fields{
				"event":    ev.Type,
				"event_id": ev.ID,
				"actor":    ev.Actor,
			}).WithError(err).Error("notification dispatch failed")
		}
	}
}

// Close stops accepting events and waits until the queue is drained or ctx
// ends.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.queue)
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ============================================================================
// Transition → notification mapping
// ============================================================================

var (
	approvers  = []kernel.Role{kernel.RoleAdmin, kernel.RoleManager}
	recruiting = []kernel.Role{kernel.RoleAdmin, kernel.RoleRecruiter, kernel.RoleManager}
	legalTeam  = []kernel.Role{kernel.RoleLegal}
)

// EventsFor returns the notifications a transition produces, possibly none
func EventsFor(t Transition) []NotificationEvent {
	switch t.Entity {
	case EntityJob:
		return jobEvents(t)
	case EntityCandidate:
		return candidateEvents(t)
	}
	return nil
}

func jobEvents(t Transition) []NotificationEvent {
	creator := actorIDs(t.Attr(AttrCreatedBy))

	switch job.Action(t.Action) {
	case job.ActionCreate, job.ActionSubmit, job.ActionReactivate:
		if t.To != string(job.ApprovalPendingApproval) {
			return nil
		}
		return []NotificationEvent{newEvent(t, EventJobPendingApproval, Recipients{Roles: approvers, Region: t.Region})}
	case job.ActionApprove:
		return []NotificationEvent{
			newEvent(t, EventJobApproved, Recipients{Roles: recruiting, Region: t.Region, ActorIDs: creator}),
			newEvent(t, EventJobPublished, Recipients{Roles: recruiting, Region: t.Region}),
		}
	case job.ActionReject:
		return []NotificationEvent{newEvent(t, EventJobRejected, Recipients{Region: t.Region, ActorIDs: creator})}
	case job.ActionFreeze:
		return []NotificationEvent{newEvent(t, EventJobFrozen, Recipients{Roles: recruiting, Region: t.Region})}
	case job.ActionComplete:
		return []NotificationEvent{newEvent(t, EventJobCompleted, Recipients{Roles: recruiting, Region: t.Region, ActorIDs: creator})}
	case job.ActionPositionsFilled:
		return []NotificationEvent{newEvent(t, EventJobPositionsFilled, Recipients{Roles: approvers, Region: t.Region, ActorIDs: creator})}
	case job.ActionSoftDelete:
		return []NotificationEvent{newEvent(t, EventJobDeleted, Recipients{Roles: approvers, Region: t.Region})}
	case job.ActionRestore:
		return []NotificationEvent{newEvent(t, EventJobRestored, Recipients{Roles: recruiting, Region: t.Region})}
	}
	return nil
}

func candidateEvents(t Transition) []NotificationEvent {
	switch candidate.Action(t.Action) {
	case candidate.ActionInvite:
		return []NotificationEvent{newEvent(t, EventCandidateInvited, Recipients{Roles: recruiting, Region: t.Region})}
	case candidate.ActionLegalDecision:
		switch candidate.Status(t.To) {
		case candidate.StatusApproved:
			return []NotificationEvent{
				newEvent(t, EventLegalReviewApproved, Recipients{Roles: recruiting, Region: t.Region}),
				newEvent(t, EventCandidateHired, Recipients{Roles: recruiting, Region: t.Region}),
			}
		case candidate.StatusRejected:
			return []NotificationEvent{newEvent(t, EventLegalReviewRejected, Recipients{Roles: recruiting, Region: t.Region})}
		}
		return nil
	}
	if t.To == string(candidate.StatusLegalReview) && t.From != t.To {
		return []NotificationEvent{newEvent(t, EventLegalReviewPending, Recipients{Roles: legalTeam, Region: t.Region})}
	}
	return nil
}

func newEvent(t Transition, typ EventType, to Recipients) NotificationEvent {
	payload := map[string]string{
		"entity":    string(t.Entity),
		"entity_id": t.EntityID,
		"action":    t.Action,
		"from":      t.From,
		"to":        t.To,
		"state":     t.Region.State,
		"city":      t.Region.City,
	}
	maps.Copy(payload, t.Attributes)

	return NotificationEvent{
		ID:           kernel.GenerateID(),
		Type:         typ,
		Actor:        t.Actor,
		TransitionID: t.ID,
		Recipients:   to,
		Payload:      payload,
		OccurredAt:   t.OccurredAt,
	}
}

func actorIDs(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
