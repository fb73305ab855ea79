package auth

import (
	"context"
	"time"

	"github.com/Abraxas-365/recruitflow/pkg/config"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/logx"
	"github.com/Abraxas-365/recruitflow/pkg/validatex"
	"github.com/gofiber/fiber/v2"
)

// Authenticator checks RH credentials
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*profile.Profile, error)
}

// AuthHandlers maneja las rutas de autenticación con Fiber
type AuthHandlers struct {
	authenticator Authenticator
	tokenService  TokenService
	cookie        config.CookieConfig
}

// NewAuthHandlers crea un nuevo handler de autenticación
func NewAuthHandlers(authenticator Authenticator, tokenService TokenService, cookie config.CookieConfig) *AuthHandlers {
	return &AuthHandlers{
		authenticator: authenticator,
		tokenService:  tokenService,
		cookie:        cookie,
	}
}

// LoginRequest credenciales de un usuario de RH
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse respuesta con el token de acceso
type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int              `json:"expires_in"`
	Profile     *profile.Profile `json:"profile"`
}

// RegisterRoutes registers the auth routes on Fiber
func (ah *AuthHandlers) RegisterRoutes(router fiber.Router, mw *Middleware) {
	auth := router.Group("/auth")

	auth.Post("/login", ah.Login)
	auth.Post("/logout", ah.Logout)
	auth.Get("/me", mw.Authenticate(), ah.GetCurrentUser)
}

// Login valida las credenciales y emite el token
func (ah *AuthHandlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validatex.Struct(req); err != nil {
		return err
	}

	p, err := ah.authenticator.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logx.WithFields(logx.Fields{"email": req.Email, "ip": c.IP()}).Warn("login failed")
		return err
	}

	token, err := ah.tokenService.GenerateAccessToken(p.AuthContext())
	if err != nil {
		return err
	}

	ttl := ah.tokenService.AccessTokenTTL()
	c.Cookie(&fiber.Cookie{
		Name:     ah.cookie.AccessTokenName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: ah.cookie.HTTPOnly,
		Secure:   ah.cookie.Secure,
		SameSite: ah.cookie.SameSite,
		Domain:   ah.cookie.Domain,
		Path:     ah.cookie.Path,
	})

	logx.WithFields(logx.Fields{"user_id": p.ID, "role": p.Role}).Info("login")
	return c.JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Profile:     p,
	})
}

// Logout borra la cookie de acceso
func (ah *AuthHandlers) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     ah.cookie.AccessTokenName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: ah.cookie.HTTPOnly,
		Secure:   ah.cookie.Secure,
		SameSite: ah.cookie.SameSite,
		Domain:   ah.cookie.Domain,
		Path:     ah.cookie.Path,
	})
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GetCurrentUser devuelve el actor tal como lo ve el motor de permisos
func (ah *AuthHandlers) GetCurrentUser(c *fiber.Ctx) error {
	actor, ok := GetAuthContext(c)
	if !ok {
		return ErrUnauthorized()
	}
	return c.JSON(actor)
}
