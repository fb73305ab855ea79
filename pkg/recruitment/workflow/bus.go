package workflow

import (
	"context"
	"sync"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
)

// Handler reacts to a committed transition. Returned errors are logged by the
// bus and never reach the command that caused the transition.
type Handler func(ctx context.Context, t Transition) error

type subscription struct {
	name    string
	handler Handler
}

// Bus fans committed transitions out to subscribers in registration order.
// Publish runs every handler synchronously; handlers that do slow work
// (such as the notification emitter) hand it off to their own workers.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, subscription{name: name, handler: h})
}

// Publish delivers t to every subscriber. A panicking or failing subscriber
// does not stop the others.
func (b *Bus) Publish(ctx context.Context, t Transition) {
	if t.ID == "" {
		t.ID = kernel.GenerateID()
	}

	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, t)
	}
}

func (b *Bus) deliver(ctx context.Context, s subscription, t Transition) {
	defer func() {
		if r := recover(); r != nil {
			logx.WithFields(logx.Fields{
				"subscriber": s.name,
				"entity":     t.Entity,
				"entity_id":  t.EntityID,
				"action":     t.Action,
				"panic":      r,
			}).Error("workflow subscriber panicked")
		}
	}()

	if err := s.handler(ctx, t); err != nil {
		logx.WithFields(logx.Fields{
			"subscriber": s.name,
			"entity":     t.Entity,
			"entity_id":  t.EntityID,
			"action":     t.Action,
		}).WithError(err).Warn("workflow subscriber failed")
	}
}
