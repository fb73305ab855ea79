package auth

import (
	"context"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// ActorLoader rebuilds the actor from storage so that role and region
// changes apply on the next request, not on the next login
type ActorLoader interface {
	LoadActor(ctx context.Context, id kernel.UserID) (*kernel.AuthContext, error)
}

type Middleware struct {
	tokenService TokenService
	actors       ActorLoader
	cookieName   string
}

func NewMiddleware(tokenService TokenService, actors ActorLoader, cookieName string) *Middleware {
	return &Middleware{
		tokenService: tokenService,
		actors:       actors,
		cookieName:   cookieName,
	}
}

// Authenticate requires a valid bearer token (or the access cookie) and
// attaches the freshly loaded actor to the request
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)
		if token == "" {
			return ErrUnauthorized()
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			return err
		}

		actor, err := m.actors.LoadActor(c.UserContext(), claims.UserID)
		if err != nil {
			if e, ok := errx.As(err); ok && e.Type == errx.TypeNotFound {
				return ErrUnauthorized().WithDetail("user_id", claims.UserID.String())
			}
			return err
		}

		c.Locals("auth", actor)
		return c.Next()
	}
}

// RequireScope - Requires a specific scope
func (m *Middleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthorized()
		}
		if !actor.HasScope(scope) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":          "Insufficient permissions",
				"required_scope": scope,
			})
		}
		return c.Next()
	}
}

func (m *Middleware) extractToken(c *fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1]
		}
	}
	return c.Cookies(m.cookieName)
}

// GetAuthContext helper to extract auth context from Fiber
func GetAuthContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	actor, ok := c.Locals("auth").(*kernel.AuthContext)
	return actor, ok && actor != nil && actor.IsValid()
}
