package jobapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/httpx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobapi"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobinfra"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobsrv"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/workflow"
	"github.com/Abraxas-365/recruitflow/pkg/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin     = testutil.Actor("admin-1", kernel.RoleAdmin)
	manager   = testutil.Actor("manager-1", kernel.RoleManager, "PA")
	recruiter = testutil.Actor("recruiter-1", kernel.RoleRecruiter, "PA")
)

type harness struct {
	app    *fiber.App
	svc    *jobsrv.JobService
	clock  *testutil.ManualClock
	tokens *auth.JWTService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := testutil.NewManualClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	cfg := config.DefaultWorkflowConfig()
	idem := workflow.NewIdempotency(workflow.NewMemoryIdempotencyStore(clock), cfg.IdempotencyBucket, cfg.IdempotencyTTL)
	svc := jobsrv.NewJobService(jobinfra.NewMemoryJobRepository(), authz.NewGate(), workflow.NewBus(), idem, clock, cfg)

	tokens := auth.NewJWTServiceFromConfig(config.JWTConfig{
		SecretKey:      "test-secret-key-with-at-least-32-chars",
		AccessTokenTTL: time.Hour,
		Issuer:         "recruitflow",
	}, clock)
	mw := auth.NewMiddleware(tokens, testutil.NewStaticActors(admin, manager, recruiter), "access_token")

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	jobapi.NewJobHandlers(svc).RegisterRoutes(app.Group("/api/v1"), mw)

	return &harness{app: app, svc: svc, clock: clock, tokens: tokens}
}

func (h *harness) do(t *testing.T, method, path string, actor *kernel.AuthContext, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		token, err := h.tokens.GenerateAccessToken(actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func createBody() map[string]any {
	return map[string]any{
		"title":               "Motorista Entregador",
		"department":          "Logística",
		"city":                "Belém",
		"state":               "PA",
		"workload":            "44h semanais",
		"type":                "CLT",
		"quantity":            2,
		"internal_notes":      "substituição de férias",
		"submit_for_approval": true,
	}
}

func TestJobRoutesRequireAuthentication(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/jobs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, string(auth.CodeUnauthorized), body["code"])
}

func TestCreateApproveAndPublicListing(t *testing.T) {
	h := newHarness(t)

	status, created := h.do(t, http.MethodPost, "/api/v1/jobs", recruiter, createBody())
	require.Equal(t, http.StatusCreated, status, created)
	id := created["id"].(string)
	assert.Equal(t, "pending_approval", created["approval_status"])

	// recruiters cannot approve
	status, body := h.do(t, http.MethodPost, "/api/v1/jobs/"+id+"/approve", recruiter, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, string(authz.CodeInsufficientRole), body["code"])

	h.clock.Advance(2 * time.Minute)
	status, approved := h.do(t, http.MethodPost, "/api/v1/jobs/"+id+"/approve", manager, nil)
	require.Equal(t, http.StatusOK, status, approved)
	assert.Equal(t, "active", approved["status"])

	status, public := h.do(t, http.MethodGet, "/api/v1/public/jobs?state=pa", nil, nil)
	require.Equal(t, http.StatusOK, status)
	jobs := public["jobs"].([]any)
	require.Len(t, jobs, 1)
	listed := jobs[0].(map[string]any)
	assert.Equal(t, id, listed["id"])
	assert.EqualValues(t, 2, listed["openings"])
	assert.NotContains(t, listed, "internal_notes")
}

func TestRejectNeedsReason(t *testing.T) {
	h := newHarness(t)

	status, created := h.do(t, http.MethodPost, "/api/v1/jobs", recruiter, createBody())
	require.Equal(t, http.StatusCreated, status)
	id := created["id"].(string)

	status, _ = h.do(t, http.MethodPost, "/api/v1/jobs/"+id+"/reject", manager, map[string]any{"reason": ""})
	assert.Equal(t, http.StatusBadRequest, status)

	status, rejected := h.do(t, http.MethodPost, "/api/v1/jobs/"+id+"/reject", manager, map[string]any{"reason": "orçamento"})
	require.Equal(t, http.StatusOK, status, rejected)
	assert.Equal(t, "rejected", rejected["approval_status"])
	assert.Equal(t, "orçamento", rejected["rejection_reason"])
}

func TestOutOfRegionJobIsForbidden(t *testing.T) {
	h := newHarness(t)

	body := createBody()
	body["state"] = "SP"
	body["city"] = "Campinas"
	status, created := h.do(t, http.MethodPost, "/api/v1/jobs", admin, body)
	require.Equal(t, http.StatusCreated, status)

	status, resp := h.do(t, http.MethodGet, "/api/v1/jobs/"+created["id"].(string), recruiter, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, string(authz.CodeOutOfRegionScope), resp["code"])
}

func TestUnknownStatusFilterIsRejected(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/jobs?status=whatever", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(job.CodeUnknownStatus), body["code"])

	status, _ = h.do(t, http.MethodGet, "/api/v1/jobs?status=ativa", admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPurgeIsAdminOnly(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do(t, http.MethodPost, "/api/v1/jobs/purge", manager, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := h.do(t, http.MethodPost, "/api/v1/jobs/purge?older_than_days=45", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["purged"])
}

func TestTalentBankRouteReportsMissing(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/api/v1/jobs/talent-bank", recruiter, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, body["code"])

	_, err := h.svc.CreateJob(context.Background(), admin, job.CreateJobRequest{
		Title: "Banco de Talentos", Department: "RH", City: "Belém", State: "PA",
		Workload: "-", Type: "clt", Quantity: 1,
	})
	require.NoError(t, err)

	status, body = h.do(t, http.MethodGet, "/api/v1/jobs/talent-bank", recruiter, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Banco de Talentos", body["title"])
}
