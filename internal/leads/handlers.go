package leads

import (
	"fmt"

	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/pkg/response"
	"propertyflow-backend/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
	Limiter *ratelimit.Limiter
}

// POST /api/v1/p/:slug/leads (public)
func (h *Handlers) Submit(c *fiber.Ctx) error {
	slug := c.Params("slug")

	if h.Limiter != nil {
		key := fmt.Sprintf("leadrl:%s:%s", c.IP(), slug)
		if !h.Limiter.Allow(c.Context(), key) {
			return response.Error(c, "Too many requests. Please try again later.", fiber.StatusTooManyRequests, nil)
		}
	}

	var in SubmitLeadInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	lead, err := h.Service.Submit(c.Context(), slug, in)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Lead submitted successfully", lead, nil)
}

// GET /api/v1/leads
func (h *Handlers) List(c *fiber.Ctx) error {
	leads, err := h.Service.List(c.Context(), middleware.AccountID(c))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Leads fetched successfully", leads, nil)
}
