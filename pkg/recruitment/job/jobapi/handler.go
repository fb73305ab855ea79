package jobapi

import (
	"context"

	"github.com/Abraxas-365/recruitflow/pkg/iam/auth"
	"github.com/Abraxas-365/recruitflow/pkg/iam/scopes"
	"github.com/Abraxas-365/recruitflow/pkg/kernel"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job"
	"github.com/Abraxas-365/recruitflow/pkg/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

type JobHandlers struct {
	service *jobsrv.JobService
}

func NewJobHandlers(service *jobsrv.JobService) *JobHandlers {
	return &JobHandlers{service: service}
}

// RegisterRoutes mounts the RH routes under /jobs and the public listing
// under /public/jobs
func (h *JobHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.Middleware) {
	public := router.Group("/public/jobs")
	public.Get("/", h.ListPublicJobs)

	jobs := router.Group("/jobs", authMiddleware.Authenticate())

	jobs.Post("/", h.CreateJob)
	jobs.Get("/", h.ListJobs)
	jobs.Get("/talent-bank", h.GetTalentBank)
	jobs.Post("/purge", authMiddleware.RequireScope(scopes.ScopeMaintenancePurge), h.PurgeDeleted)
	jobs.Get("/:id", h.GetJob)
	jobs.Post("/:id/submit", h.SubmitJob)
	jobs.Post("/:id/approve", h.ApproveJob)
	jobs.Post("/:id/reject", h.RejectJob)
	jobs.Post("/:id/flow", h.SetFlowStatus)
	jobs.Post("/:id/close", h.CloseJob)
	jobs.Post("/:id/deactivate", h.DeactivateJob)
	jobs.Delete("/:id", h.SoftDeleteJob)
	jobs.Post("/:id/restore", h.RestoreJob)
}

func (h *JobHandlers) CreateJob(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	j, err := h.service.CreateJob(c.UserContext(), actor, req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(j)
}

func (h *JobHandlers) ListJobs(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	response, err := h.service.ListJobs(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *JobHandlers) ListPublicJobs(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	// Only location and text search are meaningful to the public
	public := job.Filter{
		State:  filter.State,
		City:   filter.City,
		Search: filter.Search,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	response, err := h.service.ListPublicJobs(c.UserContext(), public)
	if err != nil {
		return err
	}

	return c.JSON(response)
}

func (h *JobHandlers) GetJob(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	view, err := h.service.GetJob(c.UserContext(), actor, kernel.NewJobID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(view)
}

func (h *JobHandlers) GetTalentBank(c *fiber.Ctx) error {
	if _, ok := auth.GetAuthContext(c); !ok {
		return auth.ErrUnauthorized()
	}

	j, err := h.service.ResolveTalentBank(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(j)
}

func (h *JobHandlers) SubmitJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.SubmitJob)
}

func (h *JobHandlers) ApproveJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.ApproveJob)
}

func (h *JobHandlers) CloseJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.CloseJob)
}

func (h *JobHandlers) DeactivateJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.DeactivateJob)
}

func (h *JobHandlers) SoftDeleteJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.SoftDeleteJob)
}

func (h *JobHandlers) RestoreJob(c *fiber.Ctx) error {
	return h.transition(c, h.service.RestoreJob)
}

func (h *JobHandlers) RejectJob(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req job.RejectJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	j, err := h.service.RejectJob(c.UserContext(), actor, kernel.NewJobID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.JSON(j)
}

func (h *JobHandlers) SetFlowStatus(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req job.SetFlowStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	j, err := h.service.SetFlowStatus(c.UserContext(), actor, kernel.NewJobID(c.Params("id")), req)
	if err != nil {
		return err
	}

	return c.JSON(j)
}

func (h *JobHandlers) PurgeDeleted(c *fiber.Ctx) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	result, err := h.service.PurgeAs(c.UserContext(), actor, c.QueryInt("older_than_days", 0))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

type transitionFunc func(ctx context.Context, actor *kernel.AuthContext, id kernel.JobID) (*job.Job, error)

func (h *JobHandlers) transition(c *fiber.Ctx, fn transitionFunc) error {
	actor, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	j, err := fn(c.UserContext(), actor, kernel.NewJobID(c.Params("id")))
	if err != nil {
		return err
	}

	return c.JSON(j)
}

func parseFilter(c *fiber.Ctx) (job.Filter, error) {
	filter := job.Filter{
		State:      c.Query("state"),
		City:       c.Query("city"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Expiry:     job.ExpiryBucket(c.Query("expiry")),
		Capacity:   job.CapacityBucket(c.Query("capacity")),
		Limit:      c.QueryInt("limit", 0),
		Offset:     c.QueryInt("offset", 0),
	}

	if v := c.Query("status"); v != "" {
		s, err := job.ParseStatus(v)
		if err != nil {
			return filter, err
		}
		filter.Status = &s
	}
	if v := c.Query("approval_status"); v != "" {
		s, err := job.ParseApprovalStatus(v)
		if err != nil {
			return filter, err
		}
		filter.ApprovalStatus = &s
	}
	if v := c.Query("flow_status"); v != "" {
		s, err := job.ParseFlowStatus(v)
		if err != nil {
			return filter, err
		}
		filter.FlowStatus = &s
	}

	return filter, nil
}
