package workflowinfra

import (
	"context"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
)

// LogDispatcher writes notifications to the application log. Used when no
// broker is configured.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (LogDispatcher) Dispatch(ctx context.Context, event workflow.NotificationEvent) error {
	roles := make([]string, 0, len(event.Recipients.Roles))
	for _, r := range event.Recipients.Roles {
		roles = append(roles, r.String())
	}

	logx.WithFields(logx.Fields{
		"event":     event.Type,
		"event_id":  event.ID,
		"actor":     event.Actor,
		"entity_id": event.Payload["entity_id"],
		"roles":     strings.Join(roles, ","),
		"state":     event.Recipients.Region.State,
		"city":      event.Recipients.Region.City,
		"actor_ids": strings.Join(event.Recipients.ActorIDs, ","),
	}).Info("📨 notification")
	return nil
}
