package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
)

// RecordingDispatcher keeps every dispatched notification in memory.
// Setting Err makes every dispatch fail after recording.
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []workflow.NotificationEvent
	Err    error
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) Dispatch(ctx context.Context, ev workflow.NotificationEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return d.Err
}

func (d *RecordingDispatcher) Events() []workflow.NotificationEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]workflow.NotificationEvent, len(d.events))
	copy(out, d.events)
	return out
}

func (d *RecordingDispatcher) Types() []workflow.EventType {
	var out []workflow.EventType
	for _, ev := range d.Events() {
		out = append(out, ev.Type)
	}
	return out
}

// WaitFor polls until at least n events were recorded or timeout elapses
func (d *RecordingDispatcher) WaitFor(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(d.Events()) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return len(d.Events()) >= n
}

// TransitionRecorder collects bus transitions synchronously
type TransitionRecorder struct {
	mu          sync.Mutex
	transitions []workflow.Transition
}

func (r *TransitionRecorder) Handle(ctx context.Context, t workflow.Transition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
	return nil
}

func (r *TransitionRecorder) Transitions() []workflow.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]workflow.Transition, len(r.transitions))
	copy(out, r.transitions)
	return out
}

func (r *TransitionRecorder) Actions() []string {
	var out []string
	for _, t := range r.Transitions() {
		out = append(out, t.Action)
	}
	return out
}
