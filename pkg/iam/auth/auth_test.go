package auth_test

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
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
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

var jwtConfig = config.JWTConfig{
	SecretKey:      "test-secret-key-with-at-least-32-chars",
	AccessTokenTTL: time.Hour,
	Issuer:         "recruitflow",
	Audience:       []string{"recruitflow-api"},
}

type harness struct {
	app      *fiber.App
	profiles *profilesrv.ProfileService
	clock    *testutil.ManualClock
	tokens   *auth.JWTService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := testutil.NewManualClock(time.Now())
	profiles := profilesrv.NewProfileService(
		profileinfra.NewMemoryProfileRepository(),
		profileinfra.NewBcryptPasswordService(bcrypt.MinCost),
		authz.NewGate(),
		clock,
		8,
	)
	require.NoError(t, profiles.EnsureAdmin(context.Background(), "admin@empresa.com.br", "Admin", "senha-admin"))

	tokens := auth.NewJWTServiceFromConfig(jwtConfig, clock)
	mw := auth.NewMiddleware(tokens, profiles, "access_token")

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(false)})
	auth.NewAuthHandlers(profiles, tokens, config.CookieConfig{
		AccessTokenName: "access_token",
		Path:            "/",
		HTTPOnly:        true,
		SameSite:        "Lax",
	}).RegisterRoutes(app, mw)

	return &harness{app: app, profiles: profiles, clock: clock, tokens: tokens}
}

func (h *harness) login(t *testing.T, email, password string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"`+email+`","password":"`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestLoginIssuesTokenAndCookie(t *testing.T) {
	h := newHarness(t)

	resp := h.login(t, "admin@empresa.com.br", "senha-admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	body := decode(t, resp)
	assert.Equal(t, "Bearer", body["token_type"])
	assert.NotContains(t, body["profile"], "password_hash")

	// the cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie.Value})
	me, err := h.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, me.StatusCode)
	assert.Equal(t, "admin@empresa.com.br", decode(t, me)["email"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	h := newHarness(t)

	wrong := decode(t, h.login(t, "admin@empresa.com.br", "errada"))
	unknown := decode(t, h.login(t, "ninguem@empresa.com.br", "senha-admin"))
	assert.Equal(t, string(profile.CodeInvalidCreds), wrong["code"])
	assert.Equal(t, wrong["code"], unknown["code"])

	resp := h.login(t, "not-an-email", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMeRejectsMissingExpiredAndForeignTokens(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode(t, h.login(t, "admin@empresa.com.br", "senha-admin"))
	token := body["access_token"].(string)

	h.clock.Advance(2 * time.Hour)
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, string(auth.CodeTokenValidationFailed), decode(t, resp)["code"])

	// valid signature, unknown subject
	ghost := testutil.Actor("ghost", kernel.RoleAdmin)
	forged, err := h.tokens.GenerateAccessToken(ghost)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	resp, err = h.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoleChangeAppliesWithoutNewLogin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	adminProfile, err := h.profiles.Authenticate(ctx, "admin@empresa.com.br", "senha-admin")
	require.NoError(t, err)
	p, err := h.profiles.CreateProfile(ctx, adminProfile.AuthContext(), profile.CreateProfileRequest{
		Email: "rh@empresa.com.br", Name: "RH", Role: "recruiter", Password: "senha-do-rh",
	})
	require.NoError(t, err)

	body := decode(t, h.login(t, "rh@empresa.com.br", "senha-do-rh"))
	token := body["access_token"].(string)

	role := "legal"
	_, err = h.profiles.UpdateProfile(ctx, adminProfile.AuthContext(), p.ID, profile.UpdateProfileRequest{Role: &role})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "legal", decode(t, resp)["role"])
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newHarness(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "access_token" {
			assert.Empty(t, c.Value)
		}
	}
}
