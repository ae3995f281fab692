package public

import (
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// GET /api/v1/p/:slug
func (h *Handlers) Branded(c *fiber.Ctx) error {
	page, err := h.Service.Branded(c.Context(), c.Params("slug"))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", page, nil)
}

// GET /api/v1/p/:slug/mls
func (h *Handlers) Unbranded(c *fiber.Ctx) error {
	page, err := h.Service.Unbranded(c.Context(), c.Params("slug"))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", page, nil)
}
