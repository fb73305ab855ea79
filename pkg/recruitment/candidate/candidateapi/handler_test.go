package candidateapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/fsx/fsxlocal"
	"github.com/Abraxas-365/recruitflow/pkg/httpx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidateapi"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidateinfra"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidatesrv"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
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
	outsider  = testutil.Actor("recruiter-2", kernel.RoleRecruiter, "SP")
)

type harness struct {
	app     *fiber.App
	jobs    *jobsrv.JobService
	clock   *testutil.ManualClock
	tokens  *auth.JWTService
	baseDir string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := testutil.NewManualClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	cfg := config.DefaultWorkflowConfig()

	jobRepo := jobinfra.NewMemoryJobRepository()
	history := candidateinfra.NewMemoryHistoryRepository()
	bus := workflow.NewBus()
	bus.Subscribe("history", candidatesrv.NewHistoryRecorder(history).Handle)
	idem := workflow.NewIdempotency(workflow.NewMemoryIdempotencyStore(clock), cfg.IdempotencyBucket, cfg.IdempotencyTTL)
	gate := authz.NewGate()

	baseDir := t.TempDir()
	files, err := fsxlocal.NewLocalFileSystem(baseDir)
	require.NoError(t, err)

	jobs := jobsrv.NewJobService(jobRepo, gate, bus, idem, clock, cfg)
	candidates := candidatesrv.NewCandidateService(
		candidateinfra.NewMemoryCandidateRepository(jobRepo), history, jobRepo, files, gate, bus, idem, clock, cfg,
	)

	tokens := auth.NewJWTServiceFromConfig(config.JWTConfig{
		SecretKey:      "test-secret-key-with-at-least-32-chars",
		AccessTokenTTL: time.Hour,
		Issuer:         "recruitflow",
	}, clock)
	mw := auth.NewMiddleware(tokens, testutil.NewStaticActors(admin, manager, recruiter, outsider), "access_token")

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	candidateapi.NewCandidateHandlers(candidates).RegisterRoutes(app.Group("/api/v1"), mw)

	return &harness{app: app, jobs: jobs, clock: clock, tokens: tokens, baseDir: baseDir}
}

func (h *harness) publishedJob(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	j, err := h.jobs.CreateJob(ctx, manager, job.CreateJobRequest{
		Title: "Auxiliar de Logística", Department: "Logística", City: "Belém", State: "PA",
		Workload: "44h", Type: "clt", Quantity: 2, SubmitForApproval: true,
	})
	require.NoError(t, err)
	h.clock.Advance(2 * time.Minute)
	_, err = h.jobs.ApproveJob(ctx, manager, j.ID)
	require.NoError(t, err)
	h.clock.Advance(2 * time.Minute)
	return j.ID.String()
}

func (h *harness) send(t *testing.T, req *http.Request, actor *kernel.AuthContext) (int, map[string]any) {
	t.Helper()
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

func (h *harness) do(t *testing.T, method, path string, actor *kernel.AuthContext, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return h.send(t, req, actor)
}

func (h *harness) apply(t *testing.T, jobID, email string) string {
	t.Helper()
	status, created := h.do(t, http.MethodPost, "/api/v1/public/applications", nil, map[string]any{
		"job_id": jobID,
		"name":   "Maria Souza",
		"email":  email,
		"city":   "Belém",
		"state":  "PA",
	})
	require.Equal(t, http.StatusCreated, status, created)
	return created["id"].(string)
}

func TestPublicApplicationAndPipeline(t *testing.T) {
	h := newHarness(t)
	jobID := h.publishedJob(t)
	id := h.apply(t, jobID, "maria@example.com")

	status, list := h.do(t, http.MethodGet, "/api/v1/candidates?job_id="+jobID, recruiter, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, list["total"])

	status, moved := h.do(t, http.MethodPost, "/api/v1/candidates/"+id+"/status", recruiter, map[string]any{"status": "entrevista_rh"})
	require.Equal(t, http.StatusOK, status, moved)
	assert.Equal(t, "hr_interview", moved["status"])

	status, hist := h.do(t, http.MethodGet, "/api/v1/candidates/"+id+"/history", recruiter, nil)
	require.Equal(t, http.StatusOK, status)
	entries := hist["history"].([]any)
	require.NotEmpty(t, entries)
}

func TestRegionScopeOnCandidateRoutes(t *testing.T) {
	h := newHarness(t)
	jobID := h.publishedJob(t)
	id := h.apply(t, jobID, "joao@example.com")

	status, list := h.do(t, http.MethodGet, "/api/v1/candidates", outsider, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, list["total"])

	status, body := h.do(t, http.MethodGet, "/api/v1/candidates/"+id, outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, string(authz.CodeOutOfRegionScope), body["code"])
}

func TestDeleteCandidateIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	jobID := h.publishedJob(t)
	id := h.apply(t, jobID, "ana@example.com")

	status, _ := h.do(t, http.MethodDelete, "/api/v1/candidates/"+id, recruiter, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = h.do(t, http.MethodDelete, "/api/v1/candidates/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodGet, "/api/v1/candidates/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUploadResumeStoresFile(t *testing.T) {
	h := newHarness(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "curriculo.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 test"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/public/resumes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	status, body := h.send(t, req, nil)
	require.Equal(t, http.StatusCreated, status, body)

	key := body["resume_filename"].(string)
	data, err := os.ReadFile(filepath.Join(h.baseDir, key))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestInviteBatchReportsFailures(t *testing.T) {
	h := newHarness(t)
	jobID := h.publishedJob(t)
	bound := h.apply(t, jobID, "bound@example.com")

	status, body := h.do(t, http.MethodPost, "/api/v1/candidates/invitations/batch", recruiter, map[string]any{
		"candidate_ids": []string{bound, "missing"},
		"job_id":        jobID,
	})
	require.Equal(t, http.StatusOK, status, body)
	failures := body["failures"].([]any)
	assert.Len(t, failures, 2)
}
