package workflowinfra_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow/workflowinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogDispatcherWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	logx.SetOutput(&buf)
	t.Cleanup(func() { logx.SetOutput(os.Stdout) })

	err := workflowinfra.NewLogDispatcher().Dispatch(context.Background(), workflow.NotificationEvent{
		ID:         "ev1",
		Type:       workflow.EventJobPublished,
		Actor:      "m1",
		Recipients: workflow.Recipients{Roles: []kernel.Role{kernel.RoleRecruiter, kernel.RoleManager}},
		Payload:    map[string]string{"entity_id": "j1"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "job.published")
	assert.Contains(t, out, "recruiter,manager")
	assert.Contains(t, out, "j1")
}
