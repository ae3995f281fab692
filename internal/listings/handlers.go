package listings

import (
	"propertyflow-backend/internal/middleware"
	"propertyflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *Service
}

type statusUpdateBody struct {
	Status string `json:"status"`
}

// GET /api/v1/listings?status=
func (h *Handlers) List(c *fiber.Ctx) error {
	listings, err := h.Service.List(c.Context(), middleware.AccountID(c), c.Query("status"))
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", listings, nil)
}

// POST /api/v1/listings
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in CreateListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.Create(c.Context(), middleware.AccountID(c), in)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", listing, nil)
}

// GET /api/v1/listings/:listing_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	detail, err := h.Service.Get(c.Context(), middleware.AccountID(c), listingID)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", detail, nil)
}

// PUT /api/v1/listings/:listing_id
func (h *Handlers) Update(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	var in UpdateListingInput
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.Update(c.Context(), middleware.AccountID(c), listingID, in)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listing updated successfully", listing, nil)
}

// PATCH /api/v1/listings/:listing_id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	var body statusUpdateBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.UpdateStatus(c.Context(), middleware.AccountID(c), listingID, body.Status)
	if err != nil {
		return response.AppError(c, err)
	}
	return response.Success(c, "Listing status updated successfully", listing, nil)
}

// DELETE /api/v1/listings/:listing_id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.Delete(c.Context(), middleware.AccountID(c), listingID); err != nil {
		return response.AppError(c, err)
	}
	return response.NoContent(c)
}
