package profileapi

import (
	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile"
	"github.com/Abraxas-365/recruitflow/pkg/iam/profile/profilesrv"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type ProfileHandlers struct {
	service *profilesrv.ProfileService
}

func NewProfileHandlers(service *profilesrv.ProfileService) *ProfileHandlers {
	return &ProfileHandlers{service: service}
}

func (h *ProfileHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.Middleware) {
	profiles := router.Group("/profiles", authMiddleware.Authenticate())

	profiles.Post("/", h.CreateProfile)
	profiles.Get("/", h.ListProfiles)
	profiles.Get("/:id", h.GetProfile)
	profiles.Put("/:id", h.UpdateProfile)
	profiles.Delete("/:id", h.DeleteProfile)
	profiles.Post("/:id/reset-password", h.ResetPassword)
}

func (h *ProfileHandlers) CreateProfile(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req profile.CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.CreateProfile(c.UserContext(), actor, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProfileHandlers) ListProfiles(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	response, err := h.service.ListProfiles(c.UserContext(), actor)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *ProfileHandlers) GetProfile(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	p, err := h.service.GetProfile(c.UserContext(), actor, kernel.NewUserID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(p)
}

func (h *ProfileHandlers) UpdateProfile(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req profile.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	p, err := h.service.UpdateProfile(c.UserContext(), actor, kernel.NewUserID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.JSON(p)
}

func (h *ProfileHandlers) DeleteProfile(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	if err := h.service.DeleteProfile(c.UserContext(), actor, kernel.NewUserID(c.Params("id"))); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Profile deleted successfully"})
}

func (h *ProfileHandlers) ResetPassword(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req profile.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.service.ResetPassword(c.UserContext(), actor, kernel.NewUserID(c.Params("id")), req); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}
