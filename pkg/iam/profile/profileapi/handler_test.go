package profileapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/httpx"
	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profileapi"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profileinfra"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/authz"
	"github.com/Abraxas-365/recruitflow/pkg/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type harness struct {
	app    *fiber.App
	tokens *auth.JWTService
	admin  *kernel.AuthContext
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	clock := testutil.NewManualClock(time.Now())
	svc := profilesrv.NewProfileService(
		profileinfra.NewMemoryProfileRepository(),
		profileinfra.NewBcryptPasswordService(bcrypt.MinCost),
		authz.NewGate(),
		clock,
		8,
	)
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@empresa.com.br", "Admin", "senha-admin"))
	p, err := svc.Authenticate(ctx, "admin@empresa.com.br", "senha-admin")
	require.NoError(t, err)

	tokens := auth.NewJWTServiceFromConfig(config.JWTConfig{
		SecretKey:      "test-secret-key-with-at-least-32-chars",
		AccessTokenTTL: time.Hour,
		Issuer:         "recruitflow",
	}, clock)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	profileapi.NewProfileHandlers(svc).RegisterRoutes(app.Group("/api/v1"), auth.NewMiddleware(tokens, svc, "access_token"))

	return &harness{app: app, tokens: tokens, admin: p.AuthContext()}
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
	token, err := h.tokens.GenerateAccessToken(actor)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

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

func TestAdminManagesProfiles(t *testing.T) {
	h := newHarness(t)

	status, created := h.do(t, http.MethodPost, "/api/v1/profiles", h.admin, map[string]any{
		"email":           "gestor@empresa.com.br",
		"name":            "Gestor Norte",
		"role":            "gestor",
		"password":        "senha-gestor",
		"assigned_states": []string{"PA", "AM"},
	})
	require.Equal(t, http.StatusCreated, status, created)
	assert.Equal(t, "manager", created["role"])
	assert.NotContains(t, created, "password_hash")
	id := created["id"].(string)

	status, list := h.do(t, http.MethodGet, "/api/v1/profiles", h.admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, list["total"])

	status, updated := h.do(t, http.MethodPut, "/api/v1/profiles/"+id, h.admin, map[string]any{
		"assigned_states": []string{"PA"},
	})
	require.Equal(t, http.StatusOK, status, updated)
	assert.Equal(t, []any{"PA"}, updated["assigned_states"])

	status, _ = h.do(t, http.MethodPost, "/api/v1/profiles/"+id+"/reset-password", h.admin, map[string]any{"password": "nova-senha-1"})
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(t, http.MethodDelete, "/api/v1/profiles/"+id, h.admin, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAdminCannotDeleteThemself(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodDelete, "/api/v1/profiles/"+h.admin.ActorID(), h.admin, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, string(authz.CodeSelfActionForbidden), body["code"])
}
