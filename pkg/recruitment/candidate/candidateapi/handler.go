package candidateapi

import (
	"io"
	"strconv"

	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

type CandidateHandlers struct {
	service *candidatesrv.CandidateService
}

func NewCandidateHandlers(service *candidatesrv.CandidateService) *CandidateHandlers {
	return &CandidateHandlers{service: service}
}

func (h *CandidateHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.Middleware) {
	public := router.Group("/public")
	public.Post("/applications", h.Apply)
	public.Post("/resumes", h.UploadResume)

	candidates := router.Group("/candidates", authMiddleware.Authenticate())

	candidates.Get("/", h.ListCandidates)
	candidates.Get("/open-invitations", h.FindOpenInvitations)
	candidates.Post("/invitations", h.InviteToJob)
	candidates.Post("/invitations/batch", h.InviteBatch)
	candidates.Get("/:id", h.GetCandidate)
	candidates.Get("/:id/history", h.GetHistory)
	candidates.Post("/:id/status", h.ChangeStatus)
	candidates.Post("/:id/legal-decision", h.SubmitLegalDecision)
	candidates.Delete("/:id", h.DeleteCandidate)
}

func (h *CandidateHandlers) Apply(c *fiber.Ctx) error {
	var req candidate.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	created, err := h.service.Apply(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *CandidateHandlers) UploadResume(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unreadable file"})
	}

	upload, err := h.service.UploadResume(c.UserContext(), fh.Filename, data)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(upload)
}

func (h *CandidateHandlers) ListCandidates(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	response, err := h.service.ListCandidates(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *CandidateHandlers) FindOpenInvitations(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	invitations, err := h.service.FindOpenInvitations(c.UserContext(), actor, c.Query("email"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"candidates": invitations, "total": len(invitations)})
}

func (h *CandidateHandlers) GetCandidate(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	found, err := h.service.GetCandidate(c.UserContext(), actor, kernel.NewCandidateID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(found)
}

func (h *CandidateHandlers) GetHistory(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	entries, err := h.service.History(c.UserContext(), actor, kernel.NewCandidateID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"history": entries})
}

func (h *CandidateHandlers) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req candidate.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.service.ChangeCandidateStatus(c.UserContext(), actor, kernel.NewCandidateID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *CandidateHandlers) SubmitLegalDecision(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req candidate.LegalDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updated, err := h.service.SubmitLegalDecision(c.UserContext(), actor, kernel.NewCandidateID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (h *CandidateHandlers) InviteToJob(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req candidate.InviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	invited, err := h.service.InviteToJob(c.UserContext(), actor, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(invited)
}

func (h *CandidateHandlers) InviteBatch(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req candidate.InviteBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.InviteBatch(c.UserContext(), actor, req)
	if err != nil {
		return err
	}

	// Partial success is still a success; failures are listed per candidate
	return c.JSON(result)
}

func (h *CandidateHandlers) DeleteCandidate(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	if err := h.service.DeleteCandidate(c.UserContext(), actor, kernel.NewCandidateID(c.Params("id"))); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "Candidate deleted successfully"})
}

func parseFilter(c *fiber.Ctx) (candidate.Filter, error) {
	filter := candidate.Filter{
		WithoutJob:  c.QueryBool("without_job", false),
		State:       c.Query("state"),
		City:        c.Query("city"),
		Search:      c.Query("search"),
		CNHCategory: c.Query("cnh_category"),
		VehicleType: c.Query("vehicle_type"),
		Limit:       c.QueryInt("limit", 0),
		Offset:      c.QueryInt("offset", 0),
	}

	if v := c.Query("job_id"); v != "" {
		id := kernel.NewJobID(v)
		filter.JobID = &id
	}
	if v := c.Query("status"); v != "" {
		s, err := candidate.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &s
	}
	filter.HasCNH = optionalBool(c, "has_cnh")
	filter.IsPCD = optionalBool(c, "is_pcd")
	filter.AvailableToTravel = optionalBool(c, "available_to_travel")

	return filter, nil
}

func optionalBool(c *fiber.Ctx, key string) *bool {
	v, err := strconv.ParseBool(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}
